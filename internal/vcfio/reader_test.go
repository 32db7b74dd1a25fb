package vcfio

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVCF = `##fileformat=VCFv4.2
##INFO=<ID=AF,Number=A,Type=Float,Description="Allele Frequency">
##INFO=<ID=DB,Number=0,Type=Flag,Description="dbSNP membership">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	child	father	mother
1	65568	rs1	A	C	99	PASS	AF=0.1;DB	GT:DP	0/1:30	0/0:28	0/1:32
chr2	1000	.	TC	T,TG	50	PASS	AF=0.2	GT	1/2	0/1	0/2
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead_ParsesSimpleBiallelic(t *testing.T) {
	path := writeTemp(t, "sample.vcf", sampleVCF)

	data, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, data.Warnings)
	assert.Equal(t, []string{"child", "father", "mother"}, data.Samples)

	require.Contains(t, data.VCFRecordMap, "1-65568-A-C")
	rec := data.VCFRecordMap["1-65568-A-C"]
	assert.Equal(t, "A", rec.Ref)
	assert.Equal(t, "C", rec.Alt)
	assert.Equal(t, "PASS", rec.Filter)

	row := data.GenotypesMap["1-65568-A-C"]
	assert.Equal(t, "0/1", row["child"])
	assert.Equal(t, "0/0", row["father"])
	assert.Equal(t, "0/1", row["mother"])
}

func TestRead_SplitsMultiAllelic(t *testing.T) {
	path := writeTemp(t, "sample.vcf", sampleVCF)

	data, err := Read(path)
	require.NoError(t, err)

	assert.Contains(t, data.VariantsToProcess, "2-1000-TC-T")
	assert.Contains(t, data.VariantsToProcess, "2-1000-TC-TG")

	childAllele1 := data.GenotypesMap["2-1000-TC-T"]["child"]
	childAllele2 := data.GenotypesMap["2-1000-TC-TG"]["child"]
	assert.Equal(t, "1/2", childAllele1)
	assert.Equal(t, "1/2", childAllele2)
}

func TestRead_GzipCompressed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.vcf.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(sampleVCF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	data, err := Read(path)
	require.NoError(t, err)
	assert.Contains(t, data.VCFRecordMap, "1-65568-A-C")
}

func TestRead_MissingHeaderLinesWarnOnly(t *testing.T) {
	content := "1\t100\t.\tA\tG\t.\t.\t.\n"
	path := writeTemp(t, "noheader.vcf", content)

	data, err := Read(path)
	require.NoError(t, err)
	assert.Contains(t, data.Warnings, "missing ##fileformat= header line")
	assert.Contains(t, data.Warnings, "missing #CHROM header line")
	assert.Contains(t, data.VCFRecordMap, "1-100-A-G")
}

func TestRead_MalformedDataLineWarnsAndContinues(t *testing.T) {
	content := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\tnotanumber\t.\tA\tG\t.\t.\t.\n" +
		"1\t200\t.\tA\tG\t.\t.\t.\n"
	path := writeTemp(t, "malformed.vcf", content)

	data, err := Read(path)
	require.NoError(t, err)
	require.Len(t, data.Warnings, 1)
	assert.Contains(t, data.VCFRecordMap, "1-200-A-G")
}

func TestRead_EmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.vcf", "")
	_, err := Read(path)
	assert.Error(t, err)
}

func TestRead_NoSamplesIsValid(t *testing.T) {
	content := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t100\t.\tA\tG\t.\t.\t.\n"
	path := writeTemp(t, "nosamples.vcf", content)

	data, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, data.Samples)
	assert.Contains(t, data.VCFRecordMap, "1-100-A-G")
}

func TestRecord_RawInfo(t *testing.T) {
	rec := &Record{
		InfoKeys:   []string{"AF", "DB"},
		InfoValues: map[string]any{"AF": "0.1", "DB": true},
	}
	assert.Equal(t, "AF=0.1;DB", rec.RawInfo())
}
