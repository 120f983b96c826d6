package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stegnox/pkg/config"
	"stegnox/pkg/engine"
	"stegnox/pkg/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel string
	workers  int
}

// eng is built once per invocation in PersistentPreRunE
var eng *engine.Engine

var rootCmd = &cobra.Command{
	Use:   "stegnox",
	Short: "Hide, recover and detect text payloads in images",
	Long: "Stegnox embeds text in images (LSB, parity, metadata), extracts it again\n" +
		"and runs DCT, bit-plane and histogram steganalysis on suspect files.",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides "+config.EnvLogLevel+")")
	pf.IntVar(&rootFlags.workers, "workers", 0, "Methods run in parallel per image (overrides "+config.EnvWorkers+")")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(bitplaneCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.Version = version
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if rootFlags.workers > 0 {
		cfg.Workers = rootFlags.workers
	}

	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())
	eng = engine.FromConfig(cfg)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
