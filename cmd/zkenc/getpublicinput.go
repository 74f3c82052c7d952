package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flyinglimao/zkenc/binding"
)

func newGetPublicInputCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-public-input <envelope_in>",
		Short: "Print the public-input JSON embedded in an envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envelope, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pi, err := binding.GetPublicInput(envelope)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(pi))
			return nil
		},
	}
	return cmd
}
