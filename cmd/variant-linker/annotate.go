package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vlinker/variant-linker/internal/annotator"
	"github.com/vlinker/variant-linker/internal/cache"
	"github.com/vlinker/variant-linker/internal/inheritance"
	"github.com/vlinker/variant-linker/internal/output"
	"github.com/vlinker/variant-linker/internal/pipeline"
	"github.com/vlinker/variant-linker/internal/restclient"
)

type annotateFlags struct {
	variant                  string
	variantsFile             string
	vcfPath                  string
	pedPath                  string
	outputFormat             string
	saveTo                   string
	filterJSON               string
	pickOutput               bool
	scoringConfigPath        string
	indexSample              string
	motherSample             string
	fatherSample             string
	compHetOverridesDominant bool
}

func newAnnotateCmd() *cobra.Command {
	f := &annotateFlags{}

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Annotate one or more variants with VEP consequences",
		Long: `annotate resolves the given variant(s) to their canonical Ensembl
form, fetches VEP consequence predictions, optionally deduces inheritance
patterns from a pedigree, and renders the result in the requested format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.variant, "variant", "", "a single variant (VCF-like, HGVS, or rsID)")
	cmd.Flags().StringVar(&f.variantsFile, "variants-file", "", "path to a file with one variant per line")
	cmd.Flags().StringVar(&f.vcfPath, "vcf", "", "path to a VCF file to annotate")
	cmd.Flags().StringVar(&f.pedPath, "ped", "", "path to a PED pedigree file")
	cmd.Flags().StringVarP(&f.outputFormat, "output", "o", "JSON", "output format: JSON, CSV, TSV, VCF, SCHEMA")
	cmd.Flags().StringVar(&f.saveTo, "save", "", "write output to this file instead of stdout")
	cmd.Flags().StringVar(&f.filterJSON, "filter", "", "JSON array of filter criteria")
	cmd.Flags().BoolVar(&f.pickOutput, "pick-output", false, "keep only the VEP-picked transcript consequence per variant")
	cmd.Flags().StringVar(&f.scoringConfigPath, "scoring-config", "", "path to a scoring configuration file (accepted, not yet evaluated)")
	cmd.Flags().StringVar(&f.indexSample, "index-sample", "", "explicit index/proband sample ID for trio inheritance")
	cmd.Flags().StringVar(&f.motherSample, "mother-sample", "", "explicit mother sample ID for trio inheritance")
	cmd.Flags().StringVar(&f.fatherSample, "father-sample", "", "explicit father sample ID for trio inheritance")
	cmd.Flags().BoolVar(&f.compHetOverridesDominant, "comphet-overrides-dominant", true, "let a confirmed compound-het call override an autosomal-dominant call")

	return cmd
}

func runAnnotate(cmd *cobra.Command, f *annotateFlags) error {
	variants, err := collectVariantArgs(f)
	if err != nil {
		return err
	}

	criteria, err := parseFilterCriteria(f.filterJSON)
	if err != nil {
		return fmt.Errorf("parse --filter: %w", err)
	}

	driver, err := buildDriver()
	if err != nil {
		return fmt.Errorf("build annotator: %w", err)
	}

	var sampleMap *inheritance.TrioMap
	if f.indexSample != "" {
		sampleMap = &inheritance.TrioMap{Index: f.indexSample, Mother: f.motherSample, Father: f.fatherSample}
	}

	format, err := parseOutputFormat(f.outputFormat)
	if err != nil {
		return err
	}

	result, err := driver.Run(cmd.Context(), pipeline.Input{
		Variant:                  f.variant,
		Variants:                 variants,
		VCFPath:                  f.vcfPath,
		PEDPath:                  f.pedPath,
		Filter:                   criteria,
		PickOutput:               f.pickOutput,
		OutputFormat:             format,
		ScoringConfigPath:        f.scoringConfigPath,
		CacheEnabled:             flagCacheEnable,
		SampleMap:                sampleMap,
		CompHetOverridesDominant: f.compHetOverridesDominant,
	})
	if err != nil {
		return err
	}

	return writePayload(f.saveTo, result.Payload)
}

func collectVariantArgs(f *annotateFlags) ([]string, error) {
	var variants []string
	if f.variantsFile != "" {
		file, err := os.Open(f.variantsFile)
		if err != nil {
			return nil, fmt.Errorf("open variants file: %w", err)
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			variants = append(variants, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read variants file: %w", err)
		}
	}
	return variants, nil
}

func parseFilterCriteria(raw string) ([]output.Criterion, error) {
	if raw == "" {
		return nil, nil
	}
	var criteria []output.Criterion
	if err := json.Unmarshal([]byte(raw), &criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}

func parseOutputFormat(raw string) (pipeline.Format, error) {
	switch pipeline.Format(raw) {
	case pipeline.FormatJSON, pipeline.FormatCSV, pipeline.FormatTSV, pipeline.FormatVCF, pipeline.FormatSchema:
		return pipeline.Format(raw), nil
	default:
		return "", fmt.Errorf("unsupported --output format %q", raw)
	}
}

func writePayload(path string, payload []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// buildDriver wires a fully-configured pipeline.Driver: a two-tier cache
// (when --cache is set), a shared Ensembl base URL across the recoder and
// VEP clients, and the debug-aware logger root.go built.
func buildDriver() (*pipeline.Driver, error) {
	var cacheTier *cache.Tier
	if flagCacheEnable {
		ttl, err := time.ParseDuration(viper.GetString("cache.ttl"))
		if err != nil {
			ttl = 24 * time.Hour
		}
		cacheTier, err = cache.New(cache.Options{
			Location:      viper.GetString("cache.location"),
			TTL:           ttl,
			MaxSize:       viper.GetInt64("cache.maxSizeBytes"),
			MemoryEntries: 1000,
		})
		if err != nil {
			return nil, err
		}
	}

	baseURL := ensemblBaseURL()
	clientOpts := restclient.Options{BaseURL: baseURL, Cache: cacheTier, Logger: logger}

	a := annotator.New(annotator.Options{
		RecoderClient: restclient.New(clientOpts),
		VEPClient:     restclient.New(clientOpts),
		Logger:        logger,
	})

	return pipeline.NewDriver(a), nil
}
