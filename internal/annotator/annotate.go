package annotator

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/vlinker/variant-linker/internal/restclient"
	"github.com/vlinker/variant-linker/internal/variantkey"
)

const (
	defaultRecoderChunkSize = 200
	defaultVEPChunkSize     = 200
	defaultFanOut           = 4
	minInterChunkPause      = 100 * time.Millisecond
)

var rsidPattern = regexp.MustCompile(`(?i)^rs\d+$`)

// Options configures an Annotator.
type Options struct {
	RecoderClient    *restclient.Client
	VEPClient        *restclient.Client
	Species          string // e.g. "human"
	RecoderChunkSize int
	VEPChunkSize     int
	FanOut           int // max concurrent in-flight chunk requests
	PartialResults   bool
	Logger           *zap.Logger
}

// Annotator is the batch annotation pipeline (C6): it classifies inputs,
// recodes the non-canonical ones, fetches VEP consequences for the
// resulting canonical keys, and re-associates results with their
// originating input position.
type Annotator struct {
	recoderClient    *restclient.Client
	vepClient        *restclient.Client
	species          string
	recoderChunkSize int
	vepChunkSize     int
	limiter          *rate.Limiter
	fanOut           int
	partialResults   bool
	logger           *zap.Logger
}

// New builds an Annotator from opts, defaulting chunk sizes to 200 and the
// inter-chunk pause governor to the spec's 100ms floor.
func New(opts Options) *Annotator {
	recoderChunkSize := opts.RecoderChunkSize
	if recoderChunkSize <= 0 {
		recoderChunkSize = defaultRecoderChunkSize
	}
	vepChunkSize := opts.VEPChunkSize
	if vepChunkSize <= 0 {
		vepChunkSize = defaultVEPChunkSize
	}
	fanOut := opts.FanOut
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	species := opts.Species
	if species == "" {
		species = "human"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Annotator{
		recoderClient:    opts.RecoderClient,
		vepClient:        opts.VEPClient,
		species:          species,
		recoderChunkSize: recoderChunkSize,
		vepChunkSize:     vepChunkSize,
		limiter:          rate.NewLimiter(rate.Every(minInterChunkPause), 1),
		fanOut:           fanOut,
		partialResults:   opts.PartialResults,
		logger:           logger,
	}
}

// throttle blocks until the shared inter-chunk pause governor admits the
// next request, or ctx is cancelled (spec.md §5 "inter-chunk backoff sleep
// (≥100ms)").
func (a *Annotator) throttle(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Annotate runs the full batch pipeline over inputs, preserving input
// order in the returned slice (spec.md §4.6, §5 ordering guarantees).
func (a *Annotator) Annotate(ctx context.Context, inputs []string) ([]AnnotatedVariant, error) {
	classification := classifyAll(inputs)

	needsRecoding := make([]string, 0, len(inputs))
	for _, c := range classification {
		if !c.canonical {
			needsRecoding = append(needsRecoding, c.input)
		}
	}

	recoded, err := a.recode(ctx, needsRecoding)
	if err != nil {
		if !a.partialResults {
			return nil, fmt.Errorf("%w: %v", ErrAnnotationFailed, err)
		}
		a.logger.Warn("recoder stage failed, continuing in partial-result mode", zap.Error(err))
		recoded = map[string]string{}
	}

	canonicalKeySet := make(map[string]bool)
	for _, c := range classification {
		if c.canonical {
			canonicalKeySet[c.input] = true
		} else if key, ok := recoded[c.input]; ok {
			canonicalKeySet[key] = true
		}
	}
	canonicalKeys := make([]string, 0, len(canonicalKeySet))
	for k := range canonicalKeySet {
		canonicalKeys = append(canonicalKeys, k)
	}

	vepResults, err := a.fetchVEPConcurrently(ctx, canonicalKeys)
	if err != nil {
		if !a.partialResults {
			return nil, fmt.Errorf("%w: %v", ErrAnnotationFailed, err)
		}
		a.logger.Warn("vep stage failed, continuing in partial-result mode", zap.Error(err))
		vepResults = map[string]vepResponse{}
	}

	return assemble(classification, recoded, vepResults), nil
}

// fetchVEPConcurrently splits canonicalKeys into vepChunkSize groups and
// fans the chunk requests out across a.fanOut concurrent workers via
// errgroup, merging results back in original chunk order once all
// chunks complete (spec.md §5: "chunk results are merged in the original
// chunk order").
func (a *Annotator) fetchVEPConcurrently(ctx context.Context, canonicalKeys []string) (map[string]vepResponse, error) {
	chunks := chunkStrings(canonicalKeys, a.vepChunkSize)
	chunkResults := make([]map[string]vepResponse, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.fanOut)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			results, err := a.annotateCanonicalKeys(gctx, chunk)
			if err != nil {
				return err
			}
			chunkResults[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]vepResponse)
	for _, results := range chunkResults {
		for k, v := range results {
			merged[k] = v
		}
	}
	return merged, nil
}

type classifiedInput struct {
	input     string
	format    InputFormat
	canonical bool
}

// classifyAll classifies each input as canonical VariantKey versus
// needs-recoding (spec.md §4.6 step 1), and tags its InputFormat.
func classifyAll(inputs []string) []classifiedInput {
	out := make([]classifiedInput, len(inputs))
	for i, in := range inputs {
		out[i] = classifiedInput{
			input:     in,
			format:    detectFormat(in),
			canonical: isCanonicalKey(in),
		}
	}
	return out
}

func isCanonicalKey(s string) bool {
	return variantkey.CanonicalKeyRegexp.MatchString(s)
}

func detectFormat(s string) InputFormat {
	switch {
	case isCanonicalKey(s):
		return FormatVCF
	case rsidPattern.MatchString(s):
		return FormatRSID
	default:
		return FormatHGVS
	}
}

// assemble emits one AnnotatedVariant per original input, preserving input
// order; unrecodable or unmatched inputs get a stub with Error populated
// (spec.md §4.6 step 6).
func assemble(classification []classifiedInput, recoded map[string]string, vepResults map[string]vepResponse) []AnnotatedVariant {
	out := make([]AnnotatedVariant, len(classification))

	for i, c := range classification {
		key := c.input
		if !c.canonical {
			resolved, ok := recoded[c.input]
			if !ok {
				out[i] = AnnotatedVariant{
					OriginalInput: c.input,
					InputFormat:   c.format,
					Error:         ErrUnrecodable.Error(),
				}
				continue
			}
			key = resolved
		}

		resp, ok := vepResults[key]
		if !ok {
			out[i] = AnnotatedVariant{
				VariantKey:    key,
				OriginalInput: c.input,
				InputFormat:   c.format,
				Error:         "no VEP annotation returned for this variant",
			}
			continue
		}

		out[i] = AnnotatedVariant{
			VariantKey:             key,
			OriginalInput:          c.input,
			InputFormat:            c.format,
			SeqRegionName:          resp.SeqRegionName,
			Start:                  resp.Start,
			End:                    resp.End,
			AlleleString:           resp.AlleleString,
			MostSevereConsequence:  resp.MostSevereConsequence,
			TranscriptConsequences: resp.TranscriptConsequences,
			ColocatedVariants:      resp.ColocatedVariants,
		}
	}

	return out
}

func chunkStrings(items []string, size int) [][]string {
	if size <= 0 || len(items) == 0 {
		if len(items) == 0 {
			return nil
		}
		return [][]string{items}
	}
	var chunks [][]string
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

func recoderRequest(ids []string) restclient.RequestOptions {
	return restclient.RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]any{"ids": ids},
	}
}

func vepPostRequest(variants []string) restclient.RequestOptions {
	return restclient.RequestOptions{
		Method: http.MethodPost,
		Body:   vepRequest{Variants: variants},
	}
}
