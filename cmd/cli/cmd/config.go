package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"viscolab/internal/config"
	verrors "viscolab/internal/errors"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(config.Get(), "", "  ")
			if err != nil {
				return verrors.Internal("failed to encode configuration", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init <path>",
		Short: "Write the default configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().Save(args[0]); err != nil {
				return verrors.Wrap(verrors.TypeConfig, "failed to write configuration", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", args[0])
			return nil
		},
	})

	return configCmd
}
