// Package inheritance implements the two-pass inheritance analysis engine
// (spec.md §4.8-§4.12): per-variant Mendelian pattern deduction and
// segregation checking, prioritization among candidate patterns, and a
// cross-variant compound-heterozygous analysis grouped by gene.
package inheritance

import "github.com/vlinker/variant-linker/internal/vcfio"

// Pattern is a candidate or chosen inheritance pattern label (spec.md §4.8).
type Pattern string

const (
	PatternDeNovo                     Pattern = "de_novo"
	PatternDeNovoCandidate            Pattern = "de_novo_candidate"
	PatternAutosomalRecessive         Pattern = "autosomal_recessive"
	PatternAutosomalRecessivePossible Pattern = "autosomal_recessive_possible"
	PatternAutosomalDominant          Pattern = "autosomal_dominant"
	PatternAutosomalDominantPossible  Pattern = "autosomal_dominant_possible"
	PatternXLinkedRecessive           Pattern = "x_linked_recessive"
	PatternXLinkedDominant            Pattern = "x_linked_dominant"
	PatternCompoundHeterozygous       Pattern = "compound_heterozygous"
	PatternCompoundHetPossible        Pattern = "compound_heterozygous_possible"
	PatternReference                 Pattern = "reference"
	PatternHomozygous                Pattern = "homozygous"
	PatternDominant                  Pattern = "dominant"
	PatternPotentialXLinked          Pattern = "potential_x_linked"
	PatternNonMendelian              Pattern = "non_mendelian"

	PatternUnknownNoAffectedWithGenotype Pattern = "unknown_no_affected_with_genotype"
	PatternUnknownMissingGenotype        Pattern = "unknown_missing_genotype"
	PatternUnknownWithMissingData        Pattern = "unknown_with_missing_data"
)

// SegregationStatus is the result of checking one pattern against a
// pedigree's affected/unaffected genotypes (spec.md §4.9).
type SegregationStatus string

const (
	Segregates         SegregationStatus = "segregates"
	DoesNotSegregate   SegregationStatus = "does_not_segregate"
	UnknownMissingData SegregationStatus = "unknown_missing_data"
	UnknownNoAffected  SegregationStatus = "unknown_no_affected"
)

// TrioMap is an explicit index/mother/father assignment, bypassing pedigree
// or positional trio inference (spec.md §4.8 mode 2).
type TrioMap struct {
	Index  string
	Mother string
	Father string
}

// DeduceInput bundles the per-variant context the pattern deducer needs.
type DeduceInput struct {
	Genotypes   map[string]string // SampleId -> genotype string
	SampleOrder []string          // declared sample order, for trio/single-sample fallback modes
	Pedigree    map[string]vcfio.PedigreeEntry
	SampleMap   *TrioMap
	Chrom       string
}

// IsX reports whether chrom names the X chromosome, accepting the common
// "X"/"chrX" spellings.
func IsX(chrom string) bool {
	switch chrom {
	case "X", "x", "chrX", "chrx":
		return true
	default:
		return false
	}
}

// Result is the per-variant outcome of the two-pass orchestrator (C12),
// matching spec.md §3's InheritanceResult.
type Result struct {
	PrioritizedPattern Pattern                        `json:"prioritizedPattern"`
	PossiblePatterns   []Pattern                      `json:"possiblePatterns"`
	SegregationStatus  map[Pattern]SegregationStatus  `json:"segregationStatus,omitempty"`
	CompHetDetails     *CompHetDetails                `json:"compHetDetails,omitempty"`
	Error              string                         `json:"error,omitempty"`
}

// CompHetDetails is the compound-heterozygosity outcome attached to a
// variant by C11/C12 (spec.md §3).
type CompHetDetails struct {
	IsCandidate        bool     `json:"isCandidate"`
	IsPossible         bool     `json:"isPossible"`
	GeneSymbol         string   `json:"geneSymbol"`
	PartnerVariantKeys []string `json:"partnerVariantKeys"`
	LikelyPaternalKeys []string `json:"likelyPaternalKeys,omitempty"`
	LikelyMaternalKeys []string `json:"likelyMaternalKeys,omitempty"`
	AmbiguousKeys      []string `json:"ambiguousKeys,omitempty"`
	Error              string   `json:"error,omitempty"`
}
