package main

import (
	"crypto/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flyinglimao/zkenc/binding"
	"github.com/flyinglimao/zkenc/internal/metrics"
	"github.com/flyinglimao/zkenc/qap"
)

func newEncryptCmd() *cobra.Command {
	var noPublicInput bool
	cmd := &cobra.Command{
		Use:   "encrypt <r1cs_path> <sym_path> <inputs_json_path> <msg_in> <out>",
		Short: "Encrypt a message under witness encryption for a circuit's public statement",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			r1csPath, symPath, inputsPath, msgPath, outPath := args[0], args[1], args[2], args[3], args[4]

			r1csBytes, err := os.ReadFile(r1csPath)
			if err != nil {
				return err
			}
			symText, err := os.ReadFile(symPath)
			if err != nil {
				return err
			}
			inputsJSON, err := os.ReadFile(inputsPath)
			if err != nil {
				return err
			}
			msg, err := os.ReadFile(msgPath)
			if err != nil {
				return err
			}

			includePublic := !noPublicInput && !cfg.NoPublicInput
			logger.Info().Str("r1cs", r1csPath).Bool("include_public", includePublic).Msg("encrypt: starting")
			if c, err := binding.LoadCircuit(cfg.Curve, r1csBytes); err == nil {
				metricsCollector.SetGauge(metrics.QAPDomainSize, float64(qap.DomainSize(c.CS)), nil)
				metricsCollector.SetGauge(metrics.MSMSize, float64(2*qap.DomainSize(c.CS)), nil)
			}
			metricsCollector.RecordHistogram(metrics.AEADBytes, float64(len(msg)), nil)
			start := time.Now()
			envelope, err := binding.Encrypt(cfg.Curve, r1csBytes, symText, inputsJSON, msg, includePublic, rand.Reader, cfg.MaxRetries)
			metricsCollector.RecordHistogram(metrics.EncapDurationSeconds, time.Since(start).Seconds(), nil)
			if err != nil {
				metricsCollector.IncrementCounter(metrics.ErrorCount, map[string]string{"op": "encrypt"})
				logger.Error().Err(err).Msg("encrypt: failed")
				return err
			}
			if err := os.WriteFile(outPath, envelope, 0o644); err != nil {
				return err
			}
			logger.Info().Str("out", outPath).Int("bytes", len(envelope)).Msg("encrypt: done")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noPublicInput, "no-public-input", false, "do not embed the public input JSON in the envelope")
	return cmd
}
