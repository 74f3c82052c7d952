package main

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flyinglimao/zkenc/binding"
	"github.com/flyinglimao/zkenc/internal/metrics"
	"github.com/flyinglimao/zkenc/qap"
)

func newEncapCmd() *cobra.Command {
	var symPath string
	cmd := &cobra.Command{
		Use:   "encap <r1cs_path> <inputs_json_path> <ct_out> <key_out>",
		Short: "Encap a fresh WKEM ciphertext and key against a circuit's public inputs",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			r1csPath, inputsPath, ctOut, keyOut := args[0], args[1], args[2], args[3]

			r1csBytes, err := os.ReadFile(r1csPath)
			if err != nil {
				return err
			}
			inputsJSON, err := os.ReadFile(inputsPath)
			if err != nil {
				return err
			}
			symText, err := os.ReadFile(symPath)
			if err != nil {
				return err
			}

			logger.Info().Str("r1cs", r1csPath).Str("curve", cfg.Curve).Msg("encap: starting")
			if c, err := binding.LoadCircuit(cfg.Curve, r1csBytes); err == nil {
				metricsCollector.SetGauge(metrics.QAPDomainSize, float64(qap.DomainSize(c.CS)), nil)
				metricsCollector.SetGauge(metrics.MSMSize, float64(2*qap.DomainSize(c.CS)), nil)
			}
			start := time.Now()
			ct, key, err := binding.Encap(cfg.Curve, r1csBytes, symText, inputsJSON, rand.Reader, cfg.MaxRetries)
			metricsCollector.RecordHistogram(metrics.EncapDurationSeconds, time.Since(start).Seconds(), nil)
			if err != nil {
				metricsCollector.IncrementCounter(metrics.ErrorCount, map[string]string{"op": "encap"})
				logger.Error().Err(err).Msg("encap: failed")
				return err
			}
			if err := os.WriteFile(ctOut, ct, 0o644); err != nil {
				return err
			}
			if err := os.WriteFile(keyOut, []byte(hex.EncodeToString(key[:])), 0o600); err != nil {
				return err
			}
			logger.Info().Str("ct_out", ctOut).Str("key_out", keyOut).Msg("encap: done")
			return nil
		},
	}
	cmd.Flags().StringVar(&symPath, "sym", "", "path to the circuit's .sym file")
	cmd.MarkFlagRequired("sym")
	return cmd
}
