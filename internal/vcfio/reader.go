package vcfio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vlinker/variant-linker/internal/genotype"
)

// ParseError reports a problem with a single VCF line; the reader warns and
// continues past these (spec.md §4.2, §7) rather than aborting the file.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}

// GenotypeMatrix maps VariantKey -> SampleId -> genotype string.
type GenotypeMatrix map[string]map[string]string

// Data is the complete result of reading a VCF file: the keys to annotate,
// in file order; the original record each key was split from; the header
// lines to preserve verbatim; the sample list; and the full genotype matrix.
type Data struct {
	VariantsToProcess []string
	VCFRecordMap      map[string]*Record
	HeaderLines       []string
	Samples           []string
	GenotypesMap      GenotypeMatrix
	Warnings          []string
}

// Read streams the VCF file at path (plain or gzip-compressed, "-" for
// stdin) and returns the ingested Data. Per spec.md §4.2 a missing
// "##fileformat=" or "#CHROM" line only warns; zero samples is valid; a
// malformed data line warns and is skipped. The whole read fails only on an
// I/O error or an empty file; a file whose lines are all data lines, with no
// header lines at all, is read with both missing-header warnings.
func Read(path string) (*Data, error) {
	var r io.Reader
	var closer func() error

	if path == "-" {
		r = os.Stdin
		closer = func() error { return nil }
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open vcf file: %w", err)
		}
		closer = f.Close

		buf := bufio.NewReader(f)
		peek, err := buf.Peek(2)
		if err != nil && err != io.EOF {
			f.Close()
			return nil, fmt.Errorf("read vcf header: %w", err)
		}
		if len(peek) == 2 && peek[0] == 0x1f && peek[1] == 0x8b {
			gz, err := gzip.NewReader(buf)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("create gzip reader: %w", err)
			}
			r = gz
			closer = func() error {
				gz.Close()
				return f.Close()
			}
		} else {
			r = buf
		}
	}
	defer closer()

	return readFrom(r)
}

func readFrom(r io.Reader) (*Data, error) {
	d := &Data{
		VCFRecordMap: make(map[string]*Record),
		GenotypesMap: make(GenotypeMatrix),
	}

	br := bufio.NewReaderSize(r, 256*1024)

	lineNo := 0
	sawFileformat := false
	sawChrom := false

	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read vcf line: %w", err)
		}
		done := err == io.EOF && line == ""
		if done {
			break
		}
		lineNo++
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			// skip blank lines
		case strings.HasPrefix(line, "##"):
			d.HeaderLines = append(d.HeaderLines, line)
			if strings.HasPrefix(line, "##fileformat=") {
				sawFileformat = true
			}
		case strings.HasPrefix(line, "#CHROM"):
			d.HeaderLines = append(d.HeaderLines, line)
			sawChrom = true
			fields := strings.Split(line, "\t")
			if len(fields) > 9 {
				d.Samples = make([]string, len(fields)-9)
				for i, s := range fields[9:] {
					d.Samples[i] = strings.TrimSpace(strings.TrimRight(s, "\r"))
				}
			}
		default:
			if err := d.parseDataLine(line, lineNo); err != nil {
				d.Warnings = append(d.Warnings, err.Error())
			}
		}

		if err == io.EOF {
			break
		}
	}

	if !sawFileformat {
		d.Warnings = append(d.Warnings, "missing ##fileformat= header line")
	}
	if !sawChrom {
		d.Warnings = append(d.Warnings, "missing #CHROM header line")
	}
	if len(d.HeaderLines) == 0 && lineNo == 0 {
		return nil, fmt.Errorf("vcf file is empty")
	}

	return d, nil
}

// parseDataLine parses one VCF data record, splits multi-allelic ALTs, and
// registers one VariantKey + Record + genotype row per ALT.
func (d *Data) parseDataLine(line string, lineNo int) error {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return &ParseError{Line: lineNo, Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields))}
	}

	chrom := fields[0]
	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return &ParseError{Line: lineNo, Message: fmt.Sprintf("invalid position: %s", fields[1])}
	}
	id := fields[2]
	ref := strings.ToUpper(fields[3])
	altField := fields[4]
	qual := orDot(fields[5])
	filter := orDot(fields[6])

	if altField == "" || altField == "." {
		return &ParseError{Line: lineNo, Message: "empty ALT, skipped"}
	}

	infoKeys, infoValues := parseInfo(fields[7])

	var formatAndSamples string
	var formatFields []string
	if len(fields) > 8 {
		formatAndSamples = strings.Join(fields[8:], "\t")
		formatFields = strings.Split(fields[8], ":")
	}

	gtIdx := -1
	for i, f := range formatFields {
		if f == "GT" {
			gtIdx = i
			break
		}
	}

	alts := strings.Split(altField, ",")
	for _, alt := range alts {
		alt = strings.ToUpper(alt)
		key := fmt.Sprintf("%s-%d-%s-%s", stripChr(chrom), pos, ref, alt)

		rec := &Record{
			Chrom:            chrom,
			Pos:              pos,
			ID:               id,
			Ref:              ref,
			Alt:              alt,
			Qual:             qual,
			Filter:           filter,
			InfoKeys:         infoKeys,
			InfoValues:       infoValues,
			FormatAndSamples: formatAndSamples,
			LineNumber:       lineNo,
		}
		d.VCFRecordMap[key] = rec
		d.VariantsToProcess = append(d.VariantsToProcess, key)

		row := make(map[string]string, len(d.Samples))
		if len(fields) > 9 && gtIdx >= 0 {
			sampleCols := fields[9:]
			for i, sampleName := range d.Samples {
				if i >= len(sampleCols) {
					row[sampleName] = "./."
					continue
				}
				subFields := strings.Split(sampleCols[i], ":")
				raw := "."
				if gtIdx < len(subFields) {
					raw = subFields[gtIdx]
				}
				row[sampleName] = genotype.Normalize(raw)
			}
		} else {
			for _, sampleName := range d.Samples {
				row[sampleName] = "./."
			}
		}
		d.GenotypesMap[key] = row
	}

	return nil
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

func stripChr(chrom string) string {
	if len(chrom) > 3 && strings.EqualFold(chrom[:3], "chr") {
		return chrom[3:]
	}
	return chrom
}

// parseInfo parses a raw INFO field into an ordered key list plus a
// key->value map, preserving flag-type (valueless) keys as `true`.
func parseInfo(info string) ([]string, map[string]any) {
	values := make(map[string]any)
	if info == "" || info == "." {
		return nil, values
	}

	var keys []string
	for _, kv := range strings.Split(info, ";") {
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		key := parts[0]
		keys = append(keys, key)
		if len(parts) == 2 {
			values[key] = parts[1]
		} else {
			values[key] = true
		}
	}
	return keys, values
}
