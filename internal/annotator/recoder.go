package annotator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/vlinker/variant-linker/internal/variantkey"
)

// recoderEntry is one element of the Variant Recoder response: a map from
// allele-letter key (e.g. "A", "del") to an object carrying, among other
// fields, a vcf_string array of candidate canonical representations.
type recoderEntry map[string]struct {
	VCFString []string `json:"vcf_string"`
}

// recode resolves each non-canonical input to a canonical VariantKey by
// POSTing chunks to the recoder endpoint (spec.md §4.6 step 2). The
// returned map covers only inputs that were successfully recoded; absent
// entries are ErrUnrecodable.
func (a *Annotator) recode(ctx context.Context, inputs []string) (map[string]string, error) {
	resolved := make(map[string]string, len(inputs))

	for _, chunk := range chunkStrings(inputs, a.recoderChunkSize) {
		if err := a.throttle(ctx); err != nil {
			return nil, err
		}

		payload, err := a.recoderClient.Fetch(ctx, "/variant_recoder/"+a.species, url.Values{}, recoderRequest(chunk))
		if err != nil {
			return nil, fmt.Errorf("recoder chunk request: %w", err)
		}

		var entries []recoderEntry
		if err := json.Unmarshal(payload, &entries); err != nil {
			return nil, fmt.Errorf("decode recoder response: %w", err)
		}

		for i, entry := range entries {
			if i >= len(chunk) {
				break
			}
			if canonical, ok := firstCanonicalVCFString(entry); ok {
				resolved[chunk[i]] = canonical
			}
		}
	}

	return resolved, nil
}

func firstCanonicalVCFString(entry recoderEntry) (string, bool) {
	for _, allele := range entry {
		for _, s := range allele.VCFString {
			if variantkey.CanonicalKeyRegexp.MatchString(s) {
				return s, true
			}
		}
	}
	return "", false
}
