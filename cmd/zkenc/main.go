// Command zkenc is the CLI collaborator spec §6.3 describes: a thin
// wrapper over package binding exposing encap, decap, encrypt, decrypt,
// get-public-input and selftest, with the exit-code contract §6.3 fixes.
package main

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/flyinglimao/zkenc/internal/config"
	"github.com/flyinglimao/zkenc/internal/metrics"
	"github.com/flyinglimao/zkenc/internal/zlog"
)

var (
	flagCurve      string
	flagLogLevel   string
	flagLogFile    string
	flagConfigPath string
	flagMaxRetries int
	flagMetricsOut string

	logger           zerolog.Logger
	cfg              *config.Config
	metricsCollector *metrics.Collector
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:   "zkenc",
		Short: "Witness encryption for R1CS circuits",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfigPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("curve") {
				cfg.Curve = flagCurve
			}
			if cmd.Flags().Changed("max-retries") {
				cfg.MaxRetries = flagMaxRetries
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := flagLogLevel
			if level == "" {
				level = zlog.LevelFromEnv()
			}
			if level == "" {
				level = cfg.LogLevel
			}
			logFile := flagLogFile
			if logFile == "" {
				logFile = cfg.LogFile
			}
			logger, err = zlog.New(level, logFile)
			metricsCollector = metrics.New()
			return err
		},
	}
	root.PersistentFlags().StringVar(&flagCurve, "curve", "", "curve to use: bn254 (default) or bls12-381")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "additionally log to this file as JSON")
	root.PersistentFlags().StringVar(&flagConfigPath, "config", defaultConfigPath(), "path to the persisted CLI config")
	root.PersistentFlags().IntVar(&flagMaxRetries, "max-retries", 0, "Encap domain-collision retry bound")
	root.PersistentFlags().StringVar(&flagMetricsOut, "metrics-out", "", "write a CBOR-encoded metrics summary to this path on exit")

	root.AddCommand(
		newEncapCmd(),
		newDecapCmd(),
		newEncryptCmd(),
		newDecryptCmd(),
		newGetPublicInputCmd(),
		newSelftestCmd(),
	)

	root.SilenceUsage = true
	root.SilenceErrors = true
	runErr := root.Execute()
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", runErr)
	}
	if flagMetricsOut != "" && metricsCollector != nil {
		if err := writeMetricsOut(flagMetricsOut, metricsCollector); err != nil {
			fmt.Fprintln(os.Stderr, "error: writing --metrics-out:", err)
			return exitOther
		}
	}
	if runErr != nil {
		return exitCodeFor(runErr)
	}
	return exitOK
}

func writeMetricsOut(path string, c *metrics.Collector) error {
	b, err := cbor.Marshal(c.Summary())
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/zkenc/config.json"
	}
	return "zkenc.config.json"
}
