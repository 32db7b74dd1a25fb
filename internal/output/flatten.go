// Package output implements the flattening, formatting, and filtering stages
// that turn annotated variants into the CLI's JSON/CSV/TSV/VCF output
// (spec.md §4.13-§4.14).
package output

import (
	"fmt"
	"strings"

	"github.com/vlinker/variant-linker/internal/annotator"
	"github.com/vlinker/variant-linker/internal/inheritance"
)

// defaultColumns is the column set and order for tabular output (spec.md
// §4.13). Inheritance columns are appended separately when
// meta.inheritanceCalculated is true.
var defaultColumns = []string{
	"OriginalInput",
	"VEPInput",
	"Location",
	"Allele",
	"MostSevereConsequence",
	"Impact",
	"GeneSymbol",
	"GeneID",
	"FeatureType",
	"TranscriptID",
	"ConsequenceTerms",
	"MANE",
	"HGVSc",
	"HGVSp",
	"ProteinPosition",
	"Amino_acids",
	"Codons",
	"ExistingVariation",
	"CADD",
	"SIFT",
	"PolyPhen",
}

var inheritanceColumns = []string{
	"InheritancePattern",
	"InheritancePossiblePatterns",
	"CompHetGene",
	"CompHetPartners",
}

// Row is one flattened (AnnotatedVariant, TranscriptConsequence) pair.
type Row struct {
	OriginalInput          string
	VEPInput               string
	Location               string
	Allele                 string
	MostSevereConsequence  string
	Impact                 string
	GeneSymbol             string
	GeneID                 string
	FeatureType            string
	TranscriptID           string
	ConsequenceTerms       string
	MANE                   string
	HGVSc                  string
	HGVSp                  string
	ProteinPosition        string
	AminoAcids             string
	Codons                 string
	ExistingVariation      string
	CADD                   string
	SIFT                   string
	PolyPhen               string
	InheritancePattern     string
	InheritancePossible    string
	CompHetGene            string
	CompHetPartners        string
}

// Flatten produces one Row per (AnnotatedVariant, TranscriptConsequence)
// pair; a variant with no transcript consequences yields a single row with
// consequence-level columns defaulted (spec.md §4.13).
func Flatten(variants []*annotator.AnnotatedVariant, includeInheritance bool) []Row {
	var rows []Row
	for _, v := range variants {
		base := baseRow(v)
		if includeInheritance {
			applyInheritance(&base, v)
		}

		if len(v.TranscriptConsequences) == 0 {
			rows = append(rows, base)
			continue
		}

		for _, tc := range v.TranscriptConsequences {
			row := base
			applyConsequence(&row, tc)
			rows = append(rows, row)
		}
	}
	return rows
}

func baseRow(v *annotator.AnnotatedVariant) Row {
	return Row{
		OriginalInput:         v.OriginalInput,
		VEPInput:              v.VariantKey,
		Location:              location(v),
		Allele:                "-",
		MostSevereConsequence: orDash(v.MostSevereConsequence),
		ExistingVariation:     existingVariation(v),
		CADD:                  "-",
	}
}

func location(v *annotator.AnnotatedVariant) string {
	if v.SeqRegionName == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d-%d(+)", v.SeqRegionName, v.Start, v.End)
}

func existingVariation(v *annotator.AnnotatedVariant) string {
	var ids []string
	for _, colocated := range v.ColocatedVariants {
		if id, ok := colocated["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, "&")
}

func applyConsequence(row *Row, tc annotator.TranscriptConsequence) {
	row.GeneSymbol = orDash(tc.GeneSymbol)
	row.GeneID = orDash(tc.GeneID)
	row.FeatureType = orDash(tc.FeatureType)
	row.TranscriptID = orDash(tc.TranscriptID)
	row.Impact = orDash(tc.Impact)
	row.ConsequenceTerms = joinOrDash(tc.ConsequenceTerms, "&")
	row.MANE = joinOrDash(tc.MANE, "&")
	row.HGVSc = orDash(tc.HGVSc)
	row.HGVSp = orDash(tc.HGVSp)
	row.ProteinPosition = proteinPosition(tc)
	row.AminoAcids = orDash(tc.AminoAcids)
	row.Codons = orDash(tc.Codons)
	row.SIFT = orDash(tc.SIFTPrediction)
	row.PolyPhen = orDash(tc.PolyPhenPrediction)
}

func proteinPosition(tc annotator.TranscriptConsequence) string {
	if tc.ProteinStart == 0 && tc.ProteinEnd == 0 {
		return "-"
	}
	if tc.ProteinStart == tc.ProteinEnd {
		return fmt.Sprintf("%d", tc.ProteinStart)
	}
	return fmt.Sprintf("%d-%d", tc.ProteinStart, tc.ProteinEnd)
}

func applyInheritance(row *Row, v *annotator.AnnotatedVariant) {
	result, ok := v.Inheritance.(*inheritance.Result)
	if !ok || result == nil {
		row.InheritancePattern = "-"
		row.InheritancePossible = "-"
		row.CompHetGene = "-"
		row.CompHetPartners = "-"
		return
	}

	row.InheritancePattern = string(result.PrioritizedPattern)

	possible := make([]string, 0, len(result.PossiblePatterns))
	for _, p := range result.PossiblePatterns {
		possible = append(possible, string(p))
	}
	row.InheritancePossible = joinOrDash(possible, "&")

	if result.CompHetDetails == nil {
		row.CompHetGene = "-"
		row.CompHetPartners = "-"
		return
	}
	row.CompHetGene = orDash(result.CompHetDetails.GeneSymbol)
	row.CompHetPartners = joinOrDash(result.CompHetDetails.PartnerVariantKeys, "&")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrDash(items []string, sep string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, sep)
}
