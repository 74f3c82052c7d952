package main

import (
	"encoding/hex"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flyinglimao/zkenc/binding"
	"github.com/flyinglimao/zkenc/internal/metrics"
	"github.com/flyinglimao/zkenc/qap"
)

func newDecapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decap <r1cs_path> <wtns_path> <ct_in> <key_out>",
		Short: "Decap a WKEM ciphertext using a satisfying witness",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			r1csPath, wtnsPath, ctPath, keyOut := args[0], args[1], args[2], args[3]

			r1csBytes, err := os.ReadFile(r1csPath)
			if err != nil {
				return err
			}
			wtnsBytes, err := os.ReadFile(wtnsPath)
			if err != nil {
				return err
			}
			ctBytes, err := os.ReadFile(ctPath)
			if err != nil {
				return err
			}

			logger.Info().Str("r1cs", r1csPath).Str("curve", cfg.Curve).Msg("decap: starting")
			if c, err := binding.LoadCircuit(cfg.Curve, r1csBytes); err == nil {
				metricsCollector.SetGauge(metrics.QAPDomainSize, float64(qap.DomainSize(c.CS)), nil)
				metricsCollector.SetGauge(metrics.MSMSize, float64(2*qap.DomainSize(c.CS)), nil)
			}
			start := time.Now()
			key, err := binding.Decap(cfg.Curve, r1csBytes, wtnsBytes, ctBytes)
			metricsCollector.RecordHistogram(metrics.DecapDurationSeconds, time.Since(start).Seconds(), nil)
			if err != nil {
				metricsCollector.IncrementCounter(metrics.ErrorCount, map[string]string{"op": "decap"})
				logger.Error().Err(err).Msg("decap: failed")
				return err
			}
			if err := os.WriteFile(keyOut, []byte(hex.EncodeToString(key[:])), 0o600); err != nil {
				return err
			}
			logger.Info().Str("key_out", keyOut).Msg("decap: done")
			return nil
		},
	}
	return cmd
}
