package inheritance

import (
	"sort"
	"strings"

	"github.com/vlinker/variant-linker/internal/annotator"
	"github.com/vlinker/variant-linker/internal/variantkey"
	"github.com/vlinker/variant-linker/internal/vcfio"
)

// observationalPatterns are excluded from segregation checking: they
// describe an absence of signal or an unresolved case rather than a
// testable Mendelian claim (spec.md §4.12 pass 1).
var observationalPatterns = map[Pattern]bool{
	PatternReference:                     true,
	PatternDominant:                      true,
	PatternHomozygous:                    true,
	PatternNonMendelian:                  true,
	PatternUnknownNoAffectedWithGenotype: true,
	PatternUnknownMissingGenotype:        true,
	PatternUnknownWithMissingData:        true,
}

func isObservational(p Pattern) bool {
	return observationalPatterns[p] || strings.HasSuffix(string(p), "_possible")
}

// strongPatterns are never displaced by a possible compound-het call, and a
// confirmed compound-het call never displaces them either (spec.md §4.12
// pass 2 merge rules). autosomal_dominant is not in this set: a confirmed
// compound-het call overrides it when Options.CompHetOverridesDominant is
// true.
var strongPatterns = map[Pattern]bool{
	PatternDeNovo:               true,
	PatternAutosomalRecessive:   true,
	PatternXLinkedRecessive:     true,
	PatternCompoundHeterozygous: true,
}

// Options configures the two-pass orchestrator (spec.md §4.12).
type Options struct {
	Pedigree  map[string]vcfio.PedigreeEntry
	SampleMap *TrioMap
	// CompHetOverridesDominant controls whether a confirmed
	// compound-heterozygous call is allowed to replace a prioritized
	// autosomal_dominant pattern. The zero value is false; the CLI's
	// --comphet-overrides-dominant flag sets it and defaults to true.
	CompHetOverridesDominant bool
}

// Run executes both passes over a batch of annotated variants, attaching an
// inheritance.Result to each variant's Inheritance field.
func Run(variants []*annotator.AnnotatedVariant, genotypes vcfio.GenotypeMatrix, sampleOrder []string, opts Options) {
	if len(variants) == 0 {
		return
	}

	index := resolveIndexSample(opts.Pedigree, opts.SampleMap, sampleOrder, genotypes, variants)

	results := make(map[*annotator.AnnotatedVariant]*Result, len(variants))
	for _, v := range variants {
		results[v] = runPass1(v, genotypes, sampleOrder, opts)
	}

	runPass2(variants, genotypes, results, index, opts)

	for _, v := range variants {
		v.Inheritance = results[v]
	}
}

func runPass1(v *annotator.AnnotatedVariant, genotypes vcfio.GenotypeMatrix, sampleOrder []string, opts Options) *Result {
	row := genotypes[v.VariantKey]
	chrom := chromOf(v)

	candidates := Deduce(DeduceInput{
		Genotypes:   row,
		SampleOrder: sampleOrder,
		Pedigree:    opts.Pedigree,
		SampleMap:   opts.SampleMap,
		Chrom:       chrom,
	})

	segregation := make(map[Pattern]SegregationStatus, len(candidates))
	if len(opts.Pedigree) > 0 {
		for _, p := range candidates {
			if isObservational(p) {
				continue
			}
			segregation[p] = CheckSegregation(row, opts.Pedigree)
		}
	}

	prioritized := Prioritize(candidates, segregation)

	return &Result{
		PrioritizedPattern: prioritized,
		PossiblePatterns:   candidates,
		SegregationStatus:  segregation,
	}
}

func runPass2(variants []*annotator.AnnotatedVariant, genotypes vcfio.GenotypeMatrix, results map[*annotator.AnnotatedVariant]*Result, index string, opts Options) {
	if index == "" {
		return
	}

	genes := groupByGene(variants)

	var geneNames []string
	for gene := range genes {
		geneNames = append(geneNames, gene)
	}
	sort.Strings(geneNames)

	for _, gene := range geneNames {
		members := genes[gene]
		if len(members) < 2 {
			continue
		}

		var keys []string
		for _, v := range members {
			keys = append(keys, v.VariantKey)
		}

		details := AnalyzeCompHet(CompHetInput{
			GeneSymbol:  gene,
			VariantKeys: keys,
			Genotypes:   genotypes,
			Pedigree:    opts.Pedigree,
			Index:       index,
		})
		if details == nil {
			continue
		}

		for _, v := range members {
			if !containsKey(details.PartnerVariantKeys, v.VariantKey) {
				continue
			}
			mergeCompHet(results[v], details, opts)
		}
	}
}

func mergeCompHet(r *Result, details *CompHetDetails, opts Options) {
	if r == nil {
		return
	}

	if details.IsCandidate {
		if strongPatterns[r.PrioritizedPattern] && r.PrioritizedPattern != PatternAutosomalDominant {
			r.CompHetDetails = details
			return
		}
		if r.PrioritizedPattern == PatternAutosomalDominant && !opts.CompHetOverridesDominant {
			r.CompHetDetails = details
			return
		}
		r.PrioritizedPattern = PatternCompoundHeterozygous
		r.CompHetDetails = details
		return
	}

	if details.IsPossible {
		if !isObservational(r.PrioritizedPattern) {
			r.CompHetDetails = details
			return
		}
		r.PrioritizedPattern = PatternCompoundHetPossible
		r.CompHetDetails = details
	}
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func groupByGene(variants []*annotator.AnnotatedVariant) map[string][]*annotator.AnnotatedVariant {
	genes := make(map[string][]*annotator.AnnotatedVariant)
	for _, v := range variants {
		symbol := primaryGeneSymbol(v)
		if symbol == "" {
			// Variants without a gene symbol don't participate in
			// compound-het grouping.
			continue
		}
		genes[symbol] = append(genes[symbol], v)
	}
	return genes
}

func primaryGeneSymbol(v *annotator.AnnotatedVariant) string {
	for _, tc := range v.TranscriptConsequences {
		if tc.GeneSymbol != "" {
			return tc.GeneSymbol
		}
	}
	return ""
}

func chromOf(v *annotator.AnnotatedVariant) string {
	if v.SeqRegionName != "" {
		return v.SeqRegionName
	}
	k, err := variantkey.ParseKey(v.VariantKey)
	if err != nil {
		return ""
	}
	return k.Chrom
}

// resolveIndexSample picks the proband per spec.md §4.12: explicit trio
// index, else the first affected pedigree sample, else the first sample of
// the first variant's genotype row.
func resolveIndexSample(pedigree map[string]vcfio.PedigreeEntry, sampleMap *TrioMap, sampleOrder []string, genotypes vcfio.GenotypeMatrix, variants []*annotator.AnnotatedVariant) string {
	if sampleMap != nil && sampleMap.Index != "" {
		return sampleMap.Index
	}

	var affectedIDs []string
	for id, entry := range pedigree {
		if entry.IsAffected() {
			affectedIDs = append(affectedIDs, id)
		}
	}
	if len(affectedIDs) > 0 {
		sort.Strings(affectedIDs)
		return affectedIDs[0]
	}

	if len(sampleOrder) > 0 {
		return sampleOrder[0]
	}

	for _, v := range variants {
		row := genotypes[v.VariantKey]
		var ids []string
		for id := range row {
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			sort.Strings(ids)
			return ids[0]
		}
	}
	return ""
}
