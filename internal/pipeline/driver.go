// Package pipeline composes the annotator, inheritance engine, filter, and
// output formatter into the single end-to-end run the CLI invokes
// (spec.md §4.15).
package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vlinker/variant-linker/internal/annotator"
	"github.com/vlinker/variant-linker/internal/inheritance"
	"github.com/vlinker/variant-linker/internal/output"
	"github.com/vlinker/variant-linker/internal/vcfio"
)

// Format is an output format selector (spec.md §6).
type Format string

const (
	FormatJSON   Format = "JSON"
	FormatCSV    Format = "CSV"
	FormatTSV    Format = "TSV"
	FormatVCF    Format = "VCF"
	FormatSchema Format = "SCHEMA"
)

// VariantType classifies the overall input shape reported in meta. Per-
// input format detection (VCF-style key vs. HGVS vs. rsID) happens inside
// the annotator (C6); this classifies the batch as a whole.
type VariantType string

const (
	VariantTypeSingle VariantType = "single"
	VariantTypeBatch  VariantType = "batch"
	VariantTypeVCF    VariantType = "vcf"
)

// Input bundles everything one pipeline invocation needs (spec.md §4.15,
// §6's CLI surface).
type Input struct {
	Variant           string
	Variants          []string
	VCFPath           string
	PEDPath           string
	Filter            []output.Criterion
	PickOutput        bool
	OutputFormat      Format
	ScoringConfigPath string // accepted, not evaluated
	CacheEnabled      bool

	SampleMap                *inheritance.TrioMap
	CompHetOverridesDominant bool
}

// Result is what the driver hands back to the CLI layer: the rendered
// output payload plus the meta object spec.md §4.15 requires.
type Result struct {
	Payload []byte
	Meta    map[string]any
}

// Driver runs the composed pipeline: C6 annotation, C12 inheritance, C14
// filtering, C13 formatting.
type Driver struct {
	Annotator *annotator.Annotator
}

// NewDriver constructs a Driver around an already-configured Annotator.
func NewDriver(a *annotator.Annotator) *Driver {
	return &Driver{Annotator: a}
}

// Run executes one end-to-end pipeline invocation.
func (d *Driver) Run(ctx context.Context, in Input) (*Result, error) {
	steps := []string{}

	inputs, variantType, genotypes, sampleOrder, pedigree, rawInfo, headerLines, err := d.gatherInputs(in, &steps)
	if err != nil {
		return nil, fmt.Errorf("gather inputs: %w", err)
	}

	batchProcessing := len(in.Variants) > 1 || in.VCFPath != ""

	annotated, err := d.Annotator.Annotate(ctx, inputs)
	if err != nil && len(annotated) == 0 {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	steps = append(steps, fmt.Sprintf("annotated %d input(s)", len(inputs)))

	variants := toPointers(annotated)

	inheritanceCalculated := false
	if len(pedigree) > 0 || in.SampleMap != nil {
		inheritance.Run(variants, genotypes, sampleOrder, inheritance.Options{
			Pedigree:                 pedigree,
			SampleMap:                in.SampleMap,
			CompHetOverridesDominant: in.CompHetOverridesDominant,
		})
		inheritanceCalculated = true
		steps = append(steps, "inheritance analysis complete")
	}

	filterResult := output.Filter(variants, in.Filter, in.PickOutput)
	variants = filterResult.Variants
	steps = append(steps, filterResult.Warnings...)
	if len(in.Filter) > 0 || in.PickOutput {
		steps = append(steps, fmt.Sprintf("filter: %d -> %d", filterResult.Before, filterResult.After))
	}

	meta := map[string]any{
		"batchSize":             len(inputs),
		"batchProcessing":       batchProcessing,
		"stepsPerformed":        steps,
		"variantType":           string(variantType),
		"inheritanceCalculated": inheritanceCalculated,
	}

	payload, err := d.render(in.OutputFormat, variants, meta, rawInfo, headerLines, inheritanceCalculated)
	if err != nil {
		return nil, fmt.Errorf("render output: %w", err)
	}

	return &Result{Payload: payload, Meta: meta}, nil
}

func (d *Driver) gatherInputs(in Input, steps *[]string) ([]string, VariantType, vcfio.GenotypeMatrix, []string, map[string]vcfio.PedigreeEntry, map[string]string, []string, error) {
	var (
		inputs      []string
		genotypes   = vcfio.GenotypeMatrix{}
		sampleOrder []string
		pedigree    map[string]vcfio.PedigreeEntry
		rawInfo     = map[string]string{}
		headerLines []string
		variantType = VariantTypeSingle
	)

	if in.VCFPath != "" {
		data, err := vcfio.Read(in.VCFPath)
		if err != nil {
			return nil, "", nil, nil, nil, nil, nil, fmt.Errorf("read VCF: %w", err)
		}
		inputs = append(inputs, data.VariantsToProcess...)
		genotypes = data.GenotypesMap
		sampleOrder = data.Samples
		headerLines = data.HeaderLines
		variantType = VariantTypeVCF
		*steps = append(*steps, fmt.Sprintf("read %d variant(s) from VCF", len(data.VariantsToProcess)))

		for key, rec := range data.VCFRecordMap {
			rawInfo[key] = rec.RawInfo()
		}
	}

	if in.Variant != "" {
		inputs = append(inputs, in.Variant)
	}
	if len(in.Variants) > 0 {
		inputs = append(inputs, in.Variants...)
	}

	if in.PEDPath != "" {
		entries, err := vcfio.ReadPedigree(in.PEDPath)
		if err != nil {
			return nil, "", nil, nil, nil, nil, nil, fmt.Errorf("read pedigree: %w", err)
		}
		pedigree = entries
		*steps = append(*steps, fmt.Sprintf("read pedigree with %d sample(s)", len(entries)))
	}

	if variantType != VariantTypeVCF {
		if len(inputs) > 1 {
			variantType = VariantTypeBatch
		}
	}

	return inputs, variantType, genotypes, sampleOrder, pedigree, rawInfo, headerLines, nil
}

func toPointers(variants []annotator.AnnotatedVariant) []*annotator.AnnotatedVariant {
	out := make([]*annotator.AnnotatedVariant, len(variants))
	for i := range variants {
		out[i] = &variants[i]
	}
	return out
}

func (d *Driver) render(format Format, variants []*annotator.AnnotatedVariant, meta map[string]any, rawInfo map[string]string, headerLines []string, includeInheritance bool) ([]byte, error) {
	switch format {
	case FormatCSV, FormatTSV:
		return renderTabular(format, variants, meta, includeInheritance)
	case FormatVCF:
		return renderVCF(variants, meta, rawInfo, headerLines, includeInheritance)
	case FormatSchema:
		return renderSchema()
	case FormatJSON, "":
		return renderJSON(variants, meta)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

func renderJSON(variants []*annotator.AnnotatedVariant, meta map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := output.WriteJSON(&buf, output.Envelope{Data: variants, Meta: meta}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderTabular(format Format, variants []*annotator.AnnotatedVariant, meta map[string]any, includeInheritance bool) ([]byte, error) {
	rows := output.Flatten(variants, includeInheritance)

	var buf bytes.Buffer
	var w *output.TabularWriter
	if format == FormatCSV {
		w = output.NewCSVWriter(&buf, includeInheritance)
	} else {
		w = output.NewTSVWriter(&buf, includeInheritance)
	}

	if err := w.WriteHeader(); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	meta["stepsPerformed"] = append(meta["stepsPerformed"].([]string), fmt.Sprintf("formatted %d row(s) as %s", len(rows), format))
	return buf.Bytes(), nil
}

func renderVCF(variants []*annotator.AnnotatedVariant, meta map[string]any, rawInfo map[string]string, headerLines []string, includeInheritance bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := output.WriteVCF(&buf, headerLines, variants, rawInfo, includeInheritance); err != nil {
		return nil, err
	}
	meta["stepsPerformed"] = append(meta["stepsPerformed"].([]string), "formatted as VCF")
	return buf.Bytes(), nil
}

func renderSchema() ([]byte, error) {
	return []byte(schemaDocument), nil
}

// schemaDocument is the static JSON-schema description of the output
// envelope, served by the SCHEMA output format (spec.md §6).
const schemaDocument = `{
  "type": "object",
  "properties": {
    "data": {"type": "array", "items": {"type": "object"}},
    "meta": {"type": "object"}
  },
  "required": ["data", "meta"]
}`
