// Package cmd provides the CLI commands for viscolab.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"viscolab/core/mixture"
	"viscolab/core/output"
	"viscolab/internal/config"
	verrors "viscolab/internal/errors"
	"viscolab/internal/logging"
)

const version = "1.0.0"

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	cfgFile string
	verbose bool
	format  string
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "viscolab",
		Short: "Lubricant viscosity calculations",
		Long: `viscolab computes lubricant viscosity relationships.

It fits the Walther viscosity-temperature correlation, computes the ASTM
D2270 viscosity index, blends components and designs blends that meet a
target viscosity.

Examples:
  viscolab walther --v1 68 --t1 40 --v2 8.6 --t2 100 --target 70
  viscolab vi --v40 100 --v100 11
  viscolab blend --component 30:10 --component 70:100
  viscolab mix2 --target 46 --base-a 10 --base-b 100
  viscolab solve --format json recipe.hcl`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (JSON)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "", "output format: cli or json (default from config)")

	// Add subcommands
	rootCmd.AddCommand(newWaltherCmd(opts))
	rootCmd.AddCommand(newVICmd(opts))
	rootCmd.AddCommand(newBlendCmd(opts))
	rootCmd.AddCommand(newMix2Cmd(opts))
	rootCmd.AddCommand(newSolveCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	logging.Sync()
	return err
}

func initConfig(opts *globalOptions) error {
	cfg := config.Default()
	if opts.cfgFile != "" {
		loaded, err := config.Load(opts.cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	config.Set(cfg)

	// Initialize logging
	logCfg := cfg.Logging
	if opts.verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		return verrors.Wrap(verrors.TypeConfig, "failed to initialize logging", err)
	}
	return nil
}

// render writes a report in the selected format to the command's output
func render(cmd *cobra.Command, opts *globalOptions, report output.Report) error {
	format := opts.format
	if format == "" {
		format = config.Get().Output.DefaultFormat
	}
	f, err := output.New(format)
	if err != nil {
		return err
	}
	return f.Render(cmd.OutOrStdout(), report)
}

// parseShares reads "percent:viscosity" pairs
func parseShares(values []string, flag string) ([]mixture.Share, error) {
	shares := make([]mixture.Share, 0, len(values))
	for _, v := range values {
		pct, visc, ok := strings.Cut(v, ":")
		if !ok {
			return nil, verrors.Inputf("--%s %q: want percent:viscosity", flag, v)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return nil, verrors.Inputf("--%s %q: bad percentage", flag, v)
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(visc), 64)
		if err != nil {
			return nil, verrors.Inputf("--%s %q: bad viscosity", flag, v)
		}
		shares = append(shares, mixture.Share{Percent: p, Viscosity: n})
	}
	return shares, nil
}

// requireFlags fails when any of the named flags was not given
func requireFlags(cmd *cobra.Command, names ...string) error {
	var missing []string
	for _, n := range names {
		if !cmd.Flags().Changed(n) {
			missing = append(missing, "--"+n)
		}
	}
	if len(missing) > 0 {
		return verrors.Inputf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "viscolab version %s\n", version)
		},
	}
}
