package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// global flags shared by every subcommand.
var (
	flagDebug       bool
	flagConfigFile  string
	flagCacheEnable bool
	flagAssembly    string
	flagEnsemblURL  string
)

var logger = zap.NewNop()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variant-linker",
		Short: "Annotate variants and deduce inheritance patterns",
		Long: `variant-linker resolves variants to their canonical Ensembl form,
fetches VEP consequence annotations, and, given pedigree information,
deduces each variant's inheritance pattern.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig()
			logger = newLogger(flagDebug)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug-level logging")
	cmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file (default ~/.variant-linker.yaml)")
	cmd.PersistentFlags().BoolVar(&flagCacheEnable, "cache", true, "enable the recoder/VEP response cache")
	cmd.PersistentFlags().StringVar(&flagAssembly, "assembly", "GRCh38", "genome assembly (GRCh37 or GRCh38)")
	cmd.PersistentFlags().StringVar(&flagEnsemblURL, "ensembl-base-url", "", "override the Ensembl REST base URL")

	cmd.AddCommand(newAnnotateCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCacheCmd())

	return cmd
}

// newLogger builds a zap logger at info or debug level, matching the
// production/development presets zap ships (internal/restclient.Options
// wires the result straight into Client.Logger).
func newLogger(debug bool) *zap.Logger {
	var l *zap.Logger
	var err error
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// initConfig wires viper to ~/.variant-linker.yaml (or --config), with
// ENSEMBL_BASE_URL and VARIANT_LINKER_* environment variables overriding
// file-backed settings.
func initConfig() {
	viper.SetEnvPrefix("variant_linker")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("ensembl.baseUrl", "ENSEMBL_BASE_URL")

	viper.SetDefault("cache.location", "~/.variant-linker/cache")
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.maxSizeBytes", int64(0))
	viper.SetDefault("inheritance.compHetOverridesDominant", true)

	if flagConfigFile != "" {
		viper.SetConfigFile(flagConfigFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigFile(filepath.Join(home, ".variant-linker.yaml"))
	}
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}
}

// ensemblBaseURL resolves the effective Ensembl base URL: --ensembl-base-url
// flag, then ENSEMBL_BASE_URL/config, then an assembly-appropriate default
// (GRCh37 is only served from Ensembl's grch37 mirror).
func ensemblBaseURL() string {
	if flagEnsemblURL != "" {
		return flagEnsemblURL
	}
	if configured := viper.GetString("ensembl.baseUrl"); configured != "" {
		return configured
	}
	if strings.EqualFold(flagAssembly, "GRCh37") {
		return "https://grch37.rest.ensembl.org"
	}
	return "https://rest.ensembl.org"
}
