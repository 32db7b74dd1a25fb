package output

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/vlinker/variant-linker/internal/annotator"
	"github.com/vlinker/variant-linker/internal/inheritance"
	"github.com/vlinker/variant-linker/internal/variantkey"
)

// csqFields is the VL_CSQ pipe-delimited field list (spec.md §6).
var csqFields = []string{
	"Allele",
	"Consequence",
	"IMPACT",
	"SYMBOL",
	"Gene",
	"Feature_type",
	"Feature",
	"BIOTYPE",
	"HGVSc",
	"HGVSp",
	"Protein_position",
	"Amino_acids",
	"Codons",
	"Existing_variation",
	"SIFT",
	"PolyPhen",
}

const vlCSQInfoHeader = `##INFO=<ID=VL_CSQ,Number=.,Type=String,Description="Consequence annotations from variant-linker. Format: ` + "Allele|Consequence|IMPACT|SYMBOL|Gene|Feature_type|Feature|BIOTYPE|HGVSc|HGVSp|Protein_position|Amino_acids|Codons|Existing_variation|SIFT|PolyPhen" + `">`

const defaultFileformat = "##fileformat=VCFv4.2"
const defaultChromLine = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"

// vcfGroup is one (CHROM,POS,REF) output row's constituent AnnotatedVariants,
// in the order their ALTs were first seen.
type vcfGroup struct {
	chrom    string
	pos      int64
	ref      string
	variants []*annotator.AnnotatedVariant
	origInfo string // first originating record's raw INFO string, if any
	id       string
	qual     string
	filter   string
}

// WriteVCF emits header lines plus one data line per (CHROM,POS,REF) group,
// per spec.md §4.13's precise VCF-output semantics.
func WriteVCF(w io.Writer, headerLines []string, variants []*annotator.AnnotatedVariant, rawInfo map[string]string, includeInheritance bool) error {
	bw := bufio.NewWriter(w)

	if err := writeVCFHeader(bw, headerLines); err != nil {
		return err
	}

	groups, order := groupForVCF(variants, rawInfo)
	for _, key := range order {
		g := groups[key]
		if err := writeVCFLine(bw, g, includeInheritance); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeVCFHeader(bw *bufio.Writer, headerLines []string) error {
	hasFileformat, hasChrom, hasVLCSQ := false, false, false
	for _, line := range headerLines {
		switch {
		case strings.HasPrefix(line, "##fileformat="):
			hasFileformat = true
		case strings.HasPrefix(line, "#CHROM"):
			hasChrom = true
		case strings.Contains(line, "ID=VL_CSQ"):
			hasVLCSQ = true
		}
	}

	if !hasFileformat {
		if _, err := bw.WriteString(defaultFileformat + "\n"); err != nil {
			return err
		}
	}

	inserted := false
	for _, line := range headerLines {
		if !inserted && strings.HasPrefix(line, "#CHROM") {
			if !hasVLCSQ {
				if _, err := bw.WriteString(vlCSQInfoHeader + "\n"); err != nil {
					return err
				}
			}
			inserted = true
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}

	if !inserted {
		if !hasVLCSQ {
			if _, err := bw.WriteString(vlCSQInfoHeader + "\n"); err != nil {
				return err
			}
		}
		if !hasChrom {
			if _, err := bw.WriteString(defaultChromLine + "\n"); err != nil {
				return err
			}
		}
	}

	return nil
}

// groupForVCF groups by (CHROM,POS,REF) preserving first-seen input-order
// for both groups and ALTs within a group — the tie-break decided for equal
// (CHROM,POS,REF) but differing input position (see DESIGN.md §9(b)).
func groupForVCF(variants []*annotator.AnnotatedVariant, rawInfo map[string]string) (map[string]*vcfGroup, []string) {
	groups := make(map[string]*vcfGroup)
	var order []string

	for _, v := range variants {
		key, err := variantkey.ParseKey(v.VariantKey)
		if err != nil {
			continue
		}
		groupKey := fmt.Sprintf("%s-%d-%s", key.Chrom, key.Pos, key.Ref)

		g, ok := groups[groupKey]
		if !ok {
			g = &vcfGroup{
				chrom:    key.Chrom,
				pos:      key.Pos,
				ref:      key.Ref,
				id:       ".",
				qual:     ".",
				filter:   "PASS",
				origInfo: rawInfo[v.VariantKey],
			}
			groups[groupKey] = g
			order = append(order, groupKey)
		}
		g.variants = append(g.variants, v)
	}

	return groups, order
}

func writeVCFLine(bw *bufio.Writer, g *vcfGroup, includeInheritance bool) error {
	alts := make([]string, 0, len(g.variants))
	csqEntries := make([]string, 0, len(g.variants))
	var inhEntries, compHetEntries []string

	for _, v := range g.variants {
		key, err := variantkey.ParseKey(v.VariantKey)
		if err != nil {
			continue
		}
		alts = append(alts, key.Alt)
		csqEntries = append(csqEntries, buildCSQEntry(key.Alt, v))

		if includeInheritance {
			if result, ok := v.Inheritance.(*inheritance.Result); ok && result != nil {
				inhEntries = append(inhEntries, string(result.PrioritizedPattern))
				if result.CompHetDetails != nil {
					compHetEntries = append(compHetEntries, strings.Join(result.CompHetDetails.PartnerVariantKeys, "+"))
				}
			}
		}
	}

	info := buildInfo(g.origInfo, csqEntries, inhEntries, compHetEntries)

	fields := []string{
		g.chrom,
		strconv.FormatInt(g.pos, 10),
		g.id,
		g.ref,
		strings.Join(alts, ","),
		g.qual,
		g.filter,
		info,
	}
	_, err := bw.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

func buildCSQEntry(allele string, v *annotator.AnnotatedVariant) string {
	tc := pickConsequence(v)
	values := []string{
		allele,
		strings.Join(tc.ConsequenceTerms, "&"),
		tc.Impact,
		tc.GeneSymbol,
		tc.GeneID,
		tc.FeatureType,
		tc.TranscriptID,
		tc.Biotype,
		tc.HGVSc,
		tc.HGVSp,
		proteinPosition(tc),
		tc.AminoAcids,
		tc.Codons,
		existingVariation(v),
		tc.SIFTPrediction,
		tc.PolyPhenPrediction,
	}
	for i, val := range values {
		values[i] = url.QueryEscape(val)
	}
	return strings.Join(values, "|")
}

func pickConsequence(v *annotator.AnnotatedVariant) annotator.TranscriptConsequence {
	for _, tc := range v.TranscriptConsequences {
		if tc.Pick == 1 {
			return tc
		}
	}
	if len(v.TranscriptConsequences) > 0 {
		return v.TranscriptConsequences[0]
	}
	return annotator.TranscriptConsequence{}
}

func buildInfo(origInfo string, csqEntries, inhEntries, compHetEntries []string) string {
	var parts []string
	if origInfo != "" && origInfo != "." {
		parts = append(parts, stripVLCSQ(origInfo)...)
	}
	if len(csqEntries) > 0 {
		parts = append(parts, "VL_CSQ="+strings.Join(csqEntries, ","))
	}
	if len(inhEntries) > 0 {
		parts = append(parts, "VL_DED_INH="+strings.Join(inhEntries, ","))
	}
	if len(compHetEntries) > 0 {
		parts = append(parts, "VL_COMPHET="+strings.Join(compHetEntries, ","))
	}
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, ";")
}

func stripVLCSQ(info string) []string {
	fields := strings.Split(info, ";")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, "VL_CSQ=") || strings.HasPrefix(f, "VL_DED_INH=") || strings.HasPrefix(f, "VL_COMPHET=") {
			continue
		}
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
