// Package variantkey converts between the compact "chrom-pos-ref-alt" variant
// key used throughout variant-linker and the region/allele form required by
// the Ensembl VEP REST endpoint.
package variantkey

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidVariant is returned when a variant key does not split into
// exactly four hyphen-delimited fields, or its position is not an integer.
var ErrInvalidVariant = errors.New("variantkey: invalid variant key")

// ErrUnsupported is returned by EnsemblToVcf: reconstructing a VCF-style key
// from an Ensembl region requires reference sequence this package does not
// have access to.
var ErrUnsupported = errors.New("variantkey: ensembl-to-vcf reconstruction requires reference sequence")

// RegionAllele is the Ensembl "region + allele" representation of a variant,
// as required by the VEP REST region endpoint.
type RegionAllele struct {
	Region string // "CHROM:START-END:STRAND"
	Allele string // the allele string VEP expects, "-" for pure deletions
}

// Key is a parsed "CHROM-POS-REF-ALT" variant key.
type Key struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
}

// String renders the key back to canonical "CHROM-POS-REF-ALT" form.
func (k Key) String() string {
	return fmt.Sprintf("%s-%d-%s-%s", k.Chrom, k.Pos, k.Ref, k.Alt)
}

// ParseKey splits a canonical variant key string into its components.
// The chromosome's "chr" prefix (case-insensitive) is stripped, REF/ALT are
// upper-cased.
func ParseKey(vcf string) (Key, error) {
	parts := strings.Split(vcf, "-")
	if len(parts) != 4 {
		return Key{}, fmt.Errorf("%w: %q does not split into 4 fields", ErrInvalidVariant, vcf)
	}

	pos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q has non-integer position: %v", ErrInvalidVariant, vcf, err)
	}

	chrom := stripChrPrefix(parts[0])
	if chrom == "" || parts[2] == "" || parts[3] == "" {
		return Key{}, fmt.Errorf("%w: %q has an empty field", ErrInvalidVariant, vcf)
	}

	return Key{
		Chrom: chrom,
		Pos:   pos,
		Ref:   strings.ToUpper(parts[2]),
		Alt:   strings.ToUpper(parts[3]),
	}, nil
}

// stripChrPrefix removes a leading "chr"/"CHR"/"Chr" prefix.
func stripChrPrefix(chrom string) string {
	if len(chrom) > 3 && strings.EqualFold(chrom[:3], "chr") {
		return chrom[3:]
	}
	return chrom
}

// VcfToEnsembl converts a canonical "CHROM-POS-REF-ALT" variant key into the
// region/allele form VEP expects, classifying the variant as SNV, MNP,
// insertion, deletion, or complex indel per spec.md §4.1.
func VcfToEnsembl(vcf string) (RegionAllele, error) {
	k, err := ParseKey(vcf)
	if err != nil {
		return RegionAllele{}, err
	}
	return k.toEnsembl(), nil
}

func (k Key) toEnsembl() RegionAllele {
	ref, alt := k.Ref, k.Alt

	switch {
	case len(ref) == 1 && len(alt) == 1:
		// SNV
		return RegionAllele{
			Region: fmt.Sprintf("%s:%d-%d:1", k.Chrom, k.Pos, k.Pos),
			Allele: alt,
		}

	case len(ref) > 1 && len(alt) == 1 && ref[0] == alt[0]:
		// Deletion: REF[0] matches the single-base ALT.
		start := k.Pos + 1
		end := k.Pos + int64(len(ref)) - 1
		return RegionAllele{
			Region: fmt.Sprintf("%s:%d-%d:1", k.Chrom, start, end),
			Allele: "-",
		}

	case len(ref) == 1 && len(alt) > 1 && strings.HasPrefix(alt, ref):
		// Insertion: zero-length interval immediately after the anchor base.
		start := k.Pos + 1
		end := k.Pos
		return RegionAllele{
			Region: fmt.Sprintf("%s:%d-%d:1", k.Chrom, start, end),
			Allele: alt[1:],
		}

	case len(ref) == len(alt) && len(ref) > 1:
		// MNP
		end := k.Pos + int64(len(ref)) - 1
		return RegionAllele{
			Region: fmt.Sprintf("%s:%d-%d:1", k.Chrom, k.Pos, end),
			Allele: alt,
		}

	default:
		return k.complexToEnsembl()
	}
}

// complexToEnsembl handles indels that are neither a clean single-base-anchored
// insertion/deletion nor an MNP, by trimming the common prefix/suffix and
// recomputing region/allele from the trimmed remainder.
func (k Key) complexToEnsembl() RegionAllele {
	ref, alt := k.Ref, k.Alt
	pos := k.Pos

	// Trim common prefix.
	prefix := 0
	for prefix < len(ref) && prefix < len(alt) && ref[prefix] == alt[prefix] {
		prefix++
	}
	ref = ref[prefix:]
	alt = alt[prefix:]
	pos += int64(prefix)

	// Trim common suffix.
	suffix := 0
	for suffix < len(ref) && suffix < len(alt) && ref[len(ref)-1-suffix] == alt[len(alt)-1-suffix] {
		suffix++
	}
	ref = ref[:len(ref)-suffix]
	alt = alt[:len(alt)-suffix]

	switch {
	case ref == "" && alt == "":
		// Degenerate case: REF == ALT after trimming. Treat as a single-base no-op region.
		return RegionAllele{
			Region: fmt.Sprintf("%s:%d-%d:1", k.Chrom, pos, pos),
			Allele: "-",
		}
	case ref == "":
		// Pure insertion after trimming: zero-length interval before the insertion point.
		start := pos
		end := pos - 1
		return RegionAllele{
			Region: fmt.Sprintf("%s:%d-%d:1", k.Chrom, start, end),
			Allele: alt,
		}
	case alt == "":
		// Pure deletion after trimming.
		end := pos + int64(len(ref)) - 1
		return RegionAllele{
			Region: fmt.Sprintf("%s:%d-%d:1", k.Chrom, pos, end),
			Allele: "-",
		}
	default:
		// Substitution of unequal-length trimmed strings.
		end := pos + int64(len(ref)) - 1
		return RegionAllele{
			Region: fmt.Sprintf("%s:%d-%d:1", k.Chrom, pos, end),
			Allele: alt,
		}
	}
}

// EnsemblToVcf always fails: reconstructing a CHROM-POS-REF-ALT key from an
// Ensembl region/allele pair requires reference sequence the caller has not
// supplied. See spec.md §4.1 and §1 Non-goals.
func EnsemblToVcf(RegionAllele) (Key, error) {
	return Key{}, ErrUnsupported
}

// CanonicalKeyPattern matches a string already in canonical
// "CHROM-POS-REF-ALT" form, used by the batch annotator (C6) to classify
// inputs as needing recoding or not. A "chr" prefix is permitted.
const CanonicalKeyPattern = `^(?:chr)?[0-9XYMxym]+-\d+-[ACGTacgt]+-[ACGTacgt]+$`

// CanonicalKeyRegexp is CanonicalKeyPattern, precompiled for repeated use in
// hot classification loops (spec.md §4.6 step 1).
var CanonicalKeyRegexp = regexp.MustCompile(CanonicalKeyPattern)
