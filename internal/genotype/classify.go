// Package genotype provides delimiter-robust predicates over VCF-style
// genotype strings such as "0/1", "1|1", or "./.".
package genotype

import "strings"

// alleles splits a genotype string on any of the supported delimiters
// ("/", "|", "-") into its two allele tokens. Genotypes that don't split into
// exactly two tokens are treated as missing by callers.
func alleles(gt string) (a, b string, ok bool) {
	for _, delim := range []string{"/", "|", "-"} {
		if idx := strings.IndexByte(gt, delim[0]); idx >= 0 {
			return gt[:idx], gt[idx+1:], true
		}
	}
	return "", "", false
}

// IsMissing reports whether gt has no usable allele calls: "./.", ".|.",
// ".-.", or any genotype string containing a "." token.
func IsMissing(gt string) bool {
	if gt == "" {
		return true
	}
	return strings.Contains(gt, ".")
}

// IsRef reports whether gt is homozygous reference ("0/0", "0|0").
func IsRef(gt string) bool {
	a, b, ok := alleles(gt)
	if !ok || IsMissing(gt) {
		return false
	}
	return a == "0" && b == "0"
}

// IsHomAlt reports whether gt is homozygous for a (non-reference) alt allele,
// e.g. "1/1", "2/2".
func IsHomAlt(gt string) bool {
	a, b, ok := alleles(gt)
	if !ok || IsMissing(gt) {
		return false
	}
	return a == b && a != "0"
}

// IsHet reports whether gt carries two different non-missing allele calls,
// such as "0/1", "1|0" or "1/2". Excludes "0/0" and "1/1".
func IsHet(gt string) bool {
	a, b, ok := alleles(gt)
	if !ok || IsMissing(gt) {
		return false
	}
	return a != b
}

// IsVariant reports whether gt carries at least one non-reference, non-missing
// allele (het or hom-alt).
func IsVariant(gt string) bool {
	return IsHet(gt) || IsHomAlt(gt)
}

// Normalize rewrites a raw FORMAT/GT value to the canonical "A/B" (or "A|B")
// shape: empty, ".", or absent values become "./.".
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "." {
		return "./."
	}
	if _, _, ok := alleles(raw); !ok {
		return "./."
	}
	return raw
}
