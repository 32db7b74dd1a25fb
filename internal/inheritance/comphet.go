package inheritance

import (
	"sort"

	"github.com/vlinker/variant-linker/internal/genotype"
	"github.com/vlinker/variant-linker/internal/vcfio"
)

// CompHetInput bundles one gene's candidate variants for compound-het
// analysis (spec.md §4.11).
type CompHetInput struct {
	GeneSymbol  string
	VariantKeys []string
	Genotypes   map[string]map[string]string // VariantKey -> SampleId -> genotype
	Pedigree    map[string]vcfio.PedigreeEntry
	Index       string
}

// AnalyzeCompHet determines, for one gene's heterozygous-in-index variants,
// whether they form a confirmed or possible compound-heterozygous set and
// each variant's parent-of-origin (spec.md §4.11).
func AnalyzeCompHet(in CompHetInput) *CompHetDetails {
	var hetKeys []string
	for _, key := range in.VariantKeys {
		row := in.Genotypes[key]
		if row == nil {
			continue
		}
		if genotype.IsHet(row[in.Index]) {
			hetKeys = append(hetKeys, key)
		}
	}
	sort.Strings(hetKeys)

	if len(hetKeys) < 2 {
		return nil
	}

	if len(in.Pedigree) == 0 {
		return &CompHetDetails{
			IsPossible:         true,
			GeneSymbol:         in.GeneSymbol,
			PartnerVariantKeys: hetKeys,
			Error:              "possible_no_pedigree",
		}
	}

	motherID, fatherID := findParents(in.Pedigree, in.Index)
	if motherID == "" || fatherID == "" {
		return &CompHetDetails{
			IsPossible:         true,
			GeneSymbol:         in.GeneSymbol,
			PartnerVariantKeys: hetKeys,
			Error:              "possible_missing_parents",
		}
	}

	missingParentGenotypes := false
	for _, key := range hetKeys {
		row := in.Genotypes[key]
		if _, ok := row[motherID]; !ok {
			missingParentGenotypes = true
		}
		if _, ok := row[fatherID]; !ok {
			missingParentGenotypes = true
		}
	}
	if missingParentGenotypes {
		return &CompHetDetails{
			IsPossible:         true,
			GeneSymbol:         in.GeneSymbol,
			PartnerVariantKeys: hetKeys,
			Error:              "possible_missing_parent_genotypes",
		}
	}

	var paternal, maternal, ambiguous []string
	for _, key := range hetKeys {
		row := in.Genotypes[key]
		motherGT, fatherGT := row[motherID], row[fatherID]

		switch {
		case genotype.IsVariant(fatherGT) && genotype.IsRef(motherGT):
			paternal = append(paternal, key)
		case genotype.IsVariant(motherGT) && genotype.IsRef(fatherGT):
			maternal = append(maternal, key)
		default:
			ambiguous = append(ambiguous, key)
		}
	}

	details := &CompHetDetails{
		GeneSymbol:         in.GeneSymbol,
		PartnerVariantKeys: hetKeys,
		LikelyPaternalKeys: paternal,
		LikelyMaternalKeys: maternal,
		AmbiguousKeys:      ambiguous,
	}

	if len(paternal) > 0 && len(maternal) > 0 {
		details.IsCandidate = true
	} else {
		details.IsPossible = true
	}

	return details
}

func findParents(pedigree map[string]vcfio.PedigreeEntry, sampleID string) (mother, father string) {
	entry, ok := pedigree[sampleID]
	if !ok {
		return "", ""
	}
	mother, father = entry.MotherID, entry.FatherID
	if mother == "0" {
		mother = ""
	}
	if father == "0" {
		father = ""
	}
	return mother, father
}
