package annotator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/vlinker/variant-linker/internal/variantkey"
	"go.uber.org/zap"
)

// vepResponse mirrors the fields of one VEP REST region-annotation object
// that this package consumes (spec.md §6).
type vepResponse struct {
	Input                  string                  `json:"input"`
	SeqRegionName          string                  `json:"seq_region_name"`
	Start                  int64                   `json:"start"`
	End                    int64                   `json:"end"`
	AlleleString           string                  `json:"allele_string"`
	MostSevereConsequence  string                  `json:"most_severe_consequence"`
	TranscriptConsequences []TranscriptConsequence `json:"transcript_consequences"`
	ColocatedVariants      []map[string]any        `json:"colocated_variants,omitempty"`
}

// vepRequest is the VEP REST region-endpoint POST body (spec.md §6).
type vepRequest struct {
	Variants []string `json:"variants"`
}

// annotateCanonicalKeys converts each canonical VariantKey to Region/Allele
// (C1) and POSTs chunks to the VEP region endpoint, returning a map from
// canonical key back to its vepResponse (spec.md §4.6 steps 4-5).
func (a *Annotator) annotateCanonicalKeys(ctx context.Context, keys []string) (map[string]vepResponse, error) {
	regionStrings := make([]string, 0, len(keys))
	regionToKey := make(map[string]string, len(keys))

	for _, key := range keys {
		ra, err := variantkey.VcfToEnsembl(key)
		if err != nil {
			continue
		}
		regionStr := ra.Region + ":" + ra.Allele
		regionStrings = append(regionStrings, regionStr)
		regionToKey[regionStr] = key
	}

	results := make(map[string]vepResponse, len(keys))

	for _, chunk := range chunkStrings(regionStrings, a.vepChunkSize) {
		if err := a.throttle(ctx); err != nil {
			return nil, err
		}

		payload, err := a.vepClient.Fetch(ctx, "/vep/"+a.species+"/region", url.Values{}, vepPostRequest(chunk))
		if err != nil {
			return nil, fmt.Errorf("vep chunk request: %w", err)
		}

		var entries []vepResponse
		if err := json.Unmarshal(payload, &entries); err != nil {
			return nil, fmt.Errorf("decode vep response: %w", err)
		}

		for _, entry := range entries {
			key, ok := regionToKey[entry.Input]
			if !ok {
				key = matchByFallback(entry, regionToKey)
			}
			if key == "" {
				// unmatched annotation: logged, not inserted
				a.logger.Warn("unmatched VEP annotation", zap.String("input", entry.Input))
				continue
			}
			results[key] = entry
		}
	}

	return results, nil
}

// matchByFallback tries to associate an unmatched VEP response back to a
// requested region string by rebuilding that string from the response's
// seq_region_name, start, end and the last allele of its allele_string,
// per spec.md §4.6 step 5's "Ensembl input field as a fallback" guidance.
func matchByFallback(entry vepResponse, regionToKey map[string]string) string {
	if entry.SeqRegionName == "" || entry.AlleleString == "" {
		return ""
	}
	alleles := strings.Split(entry.AlleleString, "/")
	region := fmt.Sprintf("%s:%d-%d:1:%s", entry.SeqRegionName, entry.Start, entry.End, alleles[len(alleles)-1])
	return regionToKey[region]
}
