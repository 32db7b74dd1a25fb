package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vlinker/variant-linker/internal/annotator"
	"github.com/vlinker/variant-linker/internal/restclient"
)

type vepStubResponse struct {
	Input                 string `json:"input"`
	SeqRegionName         string `json:"seq_region_name"`
	Start                 int64  `json:"start"`
	End                   int64  `json:"end"`
	MostSevereConsequence string `json:"most_severe_consequence"`
}

func newTestDriver(t *testing.T) *Driver {
	t.Helper()

	vepSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Variants []string `json:"variants"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		resp := make([]vepStubResponse, len(body.Variants))
		for i := range body.Variants {
			resp[i] = vepStubResponse{Input: body.Variants[i], MostSevereConsequence: "missense_variant"}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(vepSrv.Close)

	a := annotator.New(annotator.Options{
		RecoderClient: restclient.New(restclient.Options{BaseURL: vepSrv.URL}),
		VEPClient:     restclient.New(restclient.Options{BaseURL: vepSrv.URL}),
	})
	return NewDriver(a)
}

func TestDriver_SingleVariantJSON(t *testing.T) {
	d := newTestDriver(t)
	result, err := d.Run(context.Background(), Input{
		Variant:      "1-100-A-T",
		OutputFormat: FormatJSON,
	})
	require.NoError(t, err)
	require.Contains(t, string(result.Payload), "1-100-A-T")
	require.Equal(t, false, result.Meta["batchProcessing"])
	require.Equal(t, 1, result.Meta["batchSize"])
}

func TestDriver_BatchVariantsSetsBatchProcessing(t *testing.T) {
	d := newTestDriver(t)
	result, err := d.Run(context.Background(), Input{
		Variants:     []string{"1-100-A-T", "2-200-G-C"},
		OutputFormat: FormatJSON,
	})
	require.NoError(t, err)
	require.Equal(t, true, result.Meta["batchProcessing"])
	require.Equal(t, 2, result.Meta["batchSize"])
}

func TestDriver_CSVOutput(t *testing.T) {
	d := newTestDriver(t)
	result, err := d.Run(context.Background(), Input{
		Variant:      "1-100-A-T",
		OutputFormat: FormatCSV,
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(result.Payload), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "OriginalInput")
}

func TestDriver_SchemaOutputIsStaticDocument(t *testing.T) {
	d := newTestDriver(t)
	result, err := d.Run(context.Background(), Input{
		Variant:      "1-100-A-T",
		OutputFormat: FormatSchema,
	})
	require.NoError(t, err)
	require.Contains(t, string(result.Payload), `"type": "object"`)
}

func TestDriver_InheritanceNotCalculatedWithoutTrioOrPedigree(t *testing.T) {
	d := newTestDriver(t)
	result, err := d.Run(context.Background(), Input{
		Variant:                  "1-100-A-T",
		OutputFormat:             FormatJSON,
		SampleMap:                nil,
		CompHetOverridesDominant: true,
	})
	require.NoError(t, err)
	require.Equal(t, false, result.Meta["inheritanceCalculated"])
}

func TestDriver_VCFOutputPreservesOriginalHeaderLines(t *testing.T) {
	d := newTestDriver(t)

	vcfContent := "##fileformat=VCFv4.2\n" +
		"##contig=<ID=1,length=249250621>\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t100\t.\tA\tT\t50\tPASS\t.\n"
	path := filepath.Join(t.TempDir(), "in.vcf")
	require.NoError(t, os.WriteFile(path, []byte(vcfContent), 0o644))

	result, err := d.Run(context.Background(), Input{
		VCFPath:      path,
		OutputFormat: FormatVCF,
	})
	require.NoError(t, err)

	out := string(result.Payload)
	require.Contains(t, out, "##contig=<ID=1,length=249250621>")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	var dataLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "1\t") {
			dataLine = l
		}
	}
	require.NotEmpty(t, dataLine, "expected a data line for chrom 1, got %q", out)
	info := strings.Split(dataLine, "\t")[7]
	require.True(t, strings.HasPrefix(info, "VL_CSQ="), "empty original INFO should not be carried as a literal '.', got %q", info)
}
