package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flyinglimao/zkenc/binding"
	"github.com/flyinglimao/zkenc/internal/metrics"
	"github.com/flyinglimao/zkenc/qap"
)

func newDecryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt <r1cs_path> <wtns_path> <envelope_in> <out>",
		Short: "Decrypt a witness-encryption envelope using a satisfying witness",
		Long: "Decrypt requires a witness already computed by the Circom-emitted witness " +
			"calculator (spec §1 treats that calculator as an external pure function); " +
			"this command does not execute WASM itself.",
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			r1csPath, wtnsPath, envPath, outPath := args[0], args[1], args[2], args[3]

			r1csBytes, err := os.ReadFile(r1csPath)
			if err != nil {
				return err
			}
			wtnsBytes, err := os.ReadFile(wtnsPath)
			if err != nil {
				return err
			}
			envelope, err := os.ReadFile(envPath)
			if err != nil {
				return err
			}

			logger.Info().Str("r1cs", r1csPath).Str("envelope", envPath).Msg("decrypt: starting")
			if c, err := binding.LoadCircuit(cfg.Curve, r1csBytes); err == nil {
				metricsCollector.SetGauge(metrics.QAPDomainSize, float64(qap.DomainSize(c.CS)), nil)
				metricsCollector.SetGauge(metrics.MSMSize, float64(2*qap.DomainSize(c.CS)), nil)
			}
			start := time.Now()
			msg, err := binding.Decrypt(cfg.Curve, r1csBytes, wtnsBytes, envelope)
			metricsCollector.RecordHistogram(metrics.DecapDurationSeconds, time.Since(start).Seconds(), nil)
			if err != nil {
				metricsCollector.IncrementCounter(metrics.ErrorCount, map[string]string{"op": "decrypt"})
				logger.Error().Err(err).Msg("decrypt: failed")
				return err
			}
			metricsCollector.RecordHistogram(metrics.AEADBytes, float64(len(msg)), nil)
			if err := os.WriteFile(outPath, msg, 0o644); err != nil {
				return err
			}
			logger.Info().Str("out", outPath).Msg("decrypt: done")
			return nil
		},
	}
	return cmd
}
