package inheritance

import (
	"github.com/vlinker/variant-linker/internal/genotype"
	"github.com/vlinker/variant-linker/internal/vcfio"
)

// CheckSegregation classifies how well a pattern holds up against the
// pedigree's affected/unaffected genotypes (spec.md §4.9). It takes no
// pattern argument because the rule does not vary by pattern — segregation is a property
// of the variant's genotype distribution against phenotype, independent of
// which specific Mendelian pattern is being tested.
func CheckSegregation(genotypes map[string]string, pedigree map[string]vcfio.PedigreeEntry) SegregationStatus {
	var affectedWithVariant, affectedWithoutVariant, affectedMissing int
	anyAffected := false

	for sample, entry := range pedigree {
		if !entry.IsAffected() {
			continue
		}
		anyAffected = true

		gt, genotyped := genotypes[sample]
		if !genotyped || genotype.IsMissing(gt) {
			affectedMissing++
			continue
		}
		if genotype.IsVariant(gt) {
			affectedWithVariant++
		} else {
			affectedWithoutVariant++
		}
	}

	if !anyAffected {
		return UnknownNoAffected
	}
	if affectedWithoutVariant > 0 {
		return DoesNotSegregate
	}
	if affectedWithVariant > 0 {
		return Segregates
	}
	return UnknownMissingData
}
