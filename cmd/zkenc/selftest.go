package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/fxamacker/cbor/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/flyinglimao/zkenc/binding"
	"github.com/flyinglimao/zkenc/internal/diagnostics"
)

func newSelftestCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run internal arithmetic and AEAD self-checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := binding.ResolveSuite(cfg.Curve)
			if err != nil {
				return err
			}
			reg := diagnostics.NewRegistry("zkenc")
			diagnostics.RegisterCryptoProbes(reg, suite)
			report := reg.Run()

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			case "cbor":
				// A compact binary rendering for automated callers that
				// store selftest history (e.g. nightly CI archives)
				// without paying JSON's text overhead.
				b, err := cbor.Marshal(report)
				if err != nil {
					return err
				}
				if _, err := cmd.OutOrStdout().Write(b); err != nil {
					return err
				}
			case "text", "":
				printReport(cmd, report)
			default:
				return fmt.Errorf("unknown --format %q, want text, json or cbor", format)
			}
			if report.OverallStatus != diagnostics.Healthy {
				return fmt.Errorf("selftest: one or more probes failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, or cbor")
	return cmd
}

func printReport(cmd *cobra.Command, report *diagnostics.Report) {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	noColor := !isatty.IsTerminal(os.Stdout.Fd())

	for _, p := range report.Probes {
		mark := ok("PASS")
		if p.Status != diagnostics.Healthy {
			mark = bad("FAIL")
		}
		if noColor {
			mark = string(p.Status)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-6s %s\n", p.Name, mark, p.Message)
	}
}
