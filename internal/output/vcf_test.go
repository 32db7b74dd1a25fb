package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vlinker/variant-linker/internal/annotator"
)

func TestWriteVCF_InsertsDefaultHeadersWhenMissing(t *testing.T) {
	var buf bytes.Buffer
	err := WriteVCF(&buf, nil, nil, nil, false)
	if err != nil {
		t.Fatalf("WriteVCF: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, defaultFileformat) {
		t.Fatalf("missing default fileformat line: %q", out)
	}
	if !strings.Contains(out, "ID=VL_CSQ") {
		t.Fatalf("missing VL_CSQ INFO header: %q", out)
	}
	if !strings.Contains(out, "#CHROM") {
		t.Fatalf("missing #CHROM line: %q", out)
	}
}

func TestWriteVCF_PreservesOriginalHeaderAndInsertsVLCSQBeforeCHROM(t *testing.T) {
	headers := []string{"##fileformat=VCFv4.2", "##source=test", "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"}
	var buf bytes.Buffer
	if err := WriteVCF(&buf, headers, nil, nil, false); err != nil {
		t.Fatalf("WriteVCF: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "##fileformat=VCFv4.2" || lines[1] != "##source=test" {
		t.Fatalf("original header lines not preserved verbatim: %v", lines[:2])
	}
	if !strings.Contains(lines[2], "ID=VL_CSQ") {
		t.Fatalf("expected VL_CSQ inserted before #CHROM, got %v", lines)
	}
	if !strings.HasPrefix(lines[3], "#CHROM") {
		t.Fatalf("expected #CHROM line last, got %v", lines)
	}
}

func TestWriteVCF_GroupsMultiAllelicByChromPosRef(t *testing.T) {
	variants := []*annotator.AnnotatedVariant{
		{VariantKey: "1-100-A-T", OriginalInput: "1-100-A-T,C"},
		{VariantKey: "1-100-A-C", OriginalInput: "1-100-A-T,C"},
	}
	var buf bytes.Buffer
	if err := WriteVCF(&buf, nil, variants, nil, false); err != nil {
		t.Fatalf("WriteVCF: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	dataLine := lines[len(lines)-1]
	fields := strings.Split(dataLine, "\t")
	if fields[4] != "T,C" {
		t.Fatalf("got ALT %q, want T,C", fields[4])
	}
	csqCount := strings.Count(fields[7], "VL_CSQ=")
	if csqCount != 1 {
		t.Fatalf("expected one VL_CSQ key, got info %q", fields[7])
	}
	csqValue := fields[7][strings.Index(fields[7], "VL_CSQ="):]
	if strings.Count(csqValue, ",")+1 < 2 {
		t.Fatalf("expected 2 CSQ entries for 2 ALTs, got %q", csqValue)
	}
}

func TestWriteVCF_InfoColumnCarriesVLCSQForAnnotatedVariant(t *testing.T) {
	variants := []*annotator.AnnotatedVariant{
		{VariantKey: "1-100-A-T"},
	}
	var buf bytes.Buffer
	if err := WriteVCF(&buf, nil, variants, nil, false); err != nil {
		t.Fatalf("WriteVCF: %v", err)
	}
	if !strings.Contains(buf.String(), "VL_CSQ=") {
		t.Fatalf("expected VL_CSQ in output: %q", buf.String())
	}
}

func TestWriteVCF_DotOnlyOriginalInfoIsNotCarriedAsLiteralDot(t *testing.T) {
	variants := []*annotator.AnnotatedVariant{
		{VariantKey: "1-100-A-T"},
	}
	rawInfo := map[string]string{"1-100-A-T": "."}
	var buf bytes.Buffer
	if err := WriteVCF(&buf, nil, variants, rawInfo, false); err != nil {
		t.Fatalf("WriteVCF: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	dataLine := lines[len(lines)-1]
	info := strings.Split(dataLine, "\t")[7]
	if !strings.HasPrefix(info, "VL_CSQ=") {
		t.Fatalf("expected the empty original INFO to be dropped and INFO to start with VL_CSQ=, got %q", info)
	}
}
