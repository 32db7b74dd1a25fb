// Package vcfio streams VCF files into per-ALT-split variant keys and
// genotype matrices, and parses PED-format pedigree files. It is grounded on
// the teacher's internal/vcf parser (gzip sniffing, header capture,
// line-numbered parse errors) generalized to multi-allelic splitting and
// whole-matrix genotype extraction per spec.md §4.2.
package vcfio

import "strings"

// Record is the original VCF data line a VariantKey was split from, retained
// so the output formatter can reconstruct a faithful VCF line (spec.md §4.2,
// §4.13). One Record exists per (CHROM, POS, REF, this-ALT) — i.e. one per
// VariantKey, not one per input line.
type Record struct {
	Chrom  string
	Pos    int64
	ID     string
	Ref    string
	Alt    string // this split's single ALT allele
	Qual   string // raw QUAL field, "." if absent
	Filter string // raw FILTER field, "." if absent

	// InfoKeys preserves declaration order of the original INFO field;
	// InfoValues holds the corresponding raw (unparsed) values, with the
	// boolean true sentinel for flag-type (valueless) INFO keys.
	InfoKeys   []string
	InfoValues map[string]any

	// FormatAndSamples is the original FORMAT + per-sample columns,
	// tab-joined, exactly as they appeared on the source line (or empty
	// if the file had no FORMAT/sample columns).
	FormatAndSamples string

	// LineNumber is the 1-based source line this record was parsed from,
	// for diagnostics.
	LineNumber int
}

// RawInfo re-joins InfoKeys/InfoValues into a VCF INFO-field string, "."
// when empty.
func (r *Record) RawInfo() string {
	if len(r.InfoKeys) == 0 {
		return "."
	}
	parts := make([]string, 0, len(r.InfoKeys))
	for _, k := range r.InfoKeys {
		v := r.InfoValues[k]
		if b, ok := v.(bool); ok && b {
			parts = append(parts, k)
			continue
		}
		parts = append(parts, k+"="+toInfoString(v))
	}
	return strings.Join(parts, ";")
}

func toInfoString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
