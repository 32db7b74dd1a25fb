package output

import (
	"bufio"
	"io"
	"strings"
)

// TabularWriter writes flattened rows as CSV or TSV, per spec.md §4.13.
type TabularWriter struct {
	w                  *bufio.Writer
	delimiter          string
	quote              bool
	includeInheritance bool
}

// NewCSVWriter returns a writer using "," delimiters with CSV quoting rules.
func NewCSVWriter(w io.Writer, includeInheritance bool) *TabularWriter {
	return &TabularWriter{w: bufio.NewWriter(w), delimiter: ",", quote: true, includeInheritance: includeInheritance}
}

// NewTSVWriter returns a writer using "\t" delimiters, unquoted.
func NewTSVWriter(w io.Writer, includeInheritance bool) *TabularWriter {
	return &TabularWriter{w: bufio.NewWriter(w), delimiter: "\t", quote: false, includeInheritance: includeInheritance}
}

func (tw *TabularWriter) columns() []string {
	cols := append([]string{}, defaultColumns...)
	if tw.includeInheritance {
		cols = append(cols, inheritanceColumns...)
	}
	return cols
}

// WriteHeader writes the column header line.
func (tw *TabularWriter) WriteHeader() error {
	return tw.writeFields(tw.columns())
}

// WriteRow writes one flattened row.
func (tw *TabularWriter) WriteRow(row Row) error {
	fields := []string{
		row.OriginalInput,
		row.VEPInput,
		row.Location,
		row.Allele,
		row.MostSevereConsequence,
		row.Impact,
		row.GeneSymbol,
		row.GeneID,
		row.FeatureType,
		row.TranscriptID,
		row.ConsequenceTerms,
		row.MANE,
		row.HGVSc,
		row.HGVSp,
		row.ProteinPosition,
		row.AminoAcids,
		row.Codons,
		row.ExistingVariation,
		row.CADD,
		row.SIFT,
		row.PolyPhen,
	}
	if tw.includeInheritance {
		fields = append(fields,
			row.InheritancePattern,
			row.InheritancePossible,
			row.CompHetGene,
			row.CompHetPartners,
		)
	}
	return tw.writeFields(fields)
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabularWriter) Flush() error {
	return tw.w.Flush()
}

func (tw *TabularWriter) writeFields(fields []string) error {
	out := make([]string, len(fields))
	for i, f := range fields {
		if tw.quote {
			out[i] = csvEscape(f, tw.delimiter)
		} else {
			out[i] = f
		}
	}
	_, err := tw.w.WriteString(strings.Join(out, tw.delimiter) + "\n")
	return err
}

// csvEscape applies the CSV quoting rule: fields containing the delimiter,
// a double quote, or a newline are wrapped in quotes with embedded quotes
// doubled (spec.md §4.13).
func csvEscape(field, delimiter string) string {
	if strings.ContainsAny(field, delimiter+"\"\n\r") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
