// Package annotator implements the batch annotation pipeline (spec.md
// §4.6): classifying inputs, recoding non-canonical ones, fetching VEP
// consequences for the rest, and re-associating results with their
// originating input position.
package annotator

import "errors"

// InputFormat classifies an original annotation input.
type InputFormat string

const (
	FormatVCF  InputFormat = "VCF"
	FormatHGVS InputFormat = "HGVS"
	FormatRSID InputFormat = "RSID"
	FormatCNV  InputFormat = "CNV"
)

// ErrUnrecodable marks an input the recoder service could not resolve to a
// canonical variant key.
var ErrUnrecodable = errors.New("input could not be recoded to a canonical variant key")

// ErrAnnotationFailed marks an aborted pipeline run: a chunk failed after
// retries and partial-result mode was not enabled.
var ErrAnnotationFailed = errors.New("annotation failed")

// TranscriptConsequence is one transcript-level VEP consequence entry
// (spec.md §3).
type TranscriptConsequence struct {
	TranscriptID       string   `json:"transcript_id"`
	GeneID             string   `json:"gene_id"`
	GeneSymbol         string   `json:"gene_symbol"`
	FeatureType        string   `json:"feature_type"`
	Biotype            string   `json:"biotype"`
	Impact             string   `json:"impact"`
	ConsequenceTerms   []string `json:"consequence_terms"`
	HGVSc              string   `json:"hgvsc,omitempty"`
	HGVSp              string   `json:"hgvsp,omitempty"`
	ProteinStart       int      `json:"protein_start,omitempty"`
	ProteinEnd         int      `json:"protein_end,omitempty"`
	AminoAcids         string   `json:"amino_acids,omitempty"`
	Codons             string   `json:"codons,omitempty"`
	SIFTPrediction     string   `json:"sift_prediction,omitempty"`
	PolyPhenPrediction string   `json:"polyphen_prediction,omitempty"`
	Pick               int      `json:"pick,omitempty"`
	MANE               []string `json:"mane,omitempty"`
}

// AnnotatedVariant is produced by the annotator from one original input and
// mutated exactly once later by the inheritance orchestrator to attach
// Inheritance (spec.md §3).
type AnnotatedVariant struct {
	VariantKey             string                  `json:"variantKey"`
	OriginalInput          string                  `json:"originalInput"`
	InputFormat            InputFormat             `json:"inputFormat"`
	SeqRegionName          string                  `json:"seq_region_name,omitempty"`
	Start                  int64                   `json:"start,omitempty"`
	End                    int64                   `json:"end,omitempty"`
	AlleleString           string                  `json:"allele_string,omitempty"`
	MostSevereConsequence  string                  `json:"most_severe_consequence,omitempty"`
	TranscriptConsequences []TranscriptConsequence `json:"transcript_consequences,omitempty"`
	ColocatedVariants      []map[string]any        `json:"colocated_variants,omitempty"`
	Meta                   map[string]any          `json:"meta,omitempty"`
	Error                  string                  `json:"error,omitempty"`

	// Inheritance is attached by the orchestrator (C12) in a later pass;
	// nil until then.
	Inheritance any `json:"inheritance,omitempty"`
}
