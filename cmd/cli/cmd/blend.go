package cmd

import (
	"github.com/spf13/cobra"

	"viscolab/core/mixture"
	"viscolab/core/output"
)

func newBlendCmd(opts *globalOptions) *cobra.Command {
	var components []string

	cmd := &cobra.Command{
		Use:   "blend",
		Short: "Compute the viscosity of a blend with known proportions",
		Long: `Compute the viscosity of a blend. Each component is given as
percent:viscosity and the percentages must total 100.

Example:
  viscolab blend --component 30:10 --component 70:100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := parseShares(components, "component")
			if err != nil {
				return err
			}
			v, err := mixture.BlendShares(shares)
			if err != nil {
				return err
			}
			return render(cmd, opts, &output.Blend{Components: shares, Viscosity: v})
		},
	}

	cmd.Flags().StringArrayVarP(&components, "component", "c", nil, "component as percent:viscosity (repeatable)")
	return cmd
}

func newMix2Cmd(opts *globalOptions) *cobra.Command {
	var (
		target, baseA, baseB float64
		known                []string
	)

	cmd := &cobra.Command{
		Use:   "mix2",
		Short: "Find the proportions of two bases that reach a target viscosity",
		Long: `Find how much of base A and base B to blend, next to any known
components, so that the blend reaches the target viscosity.

Examples:
  viscolab mix2 --target 46 --base-a 10 --base-b 100
  viscolab mix2 --target 46 --base-a 10 --base-b 100 --known 5:460`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "target", "base-a", "base-b"); err != nil {
				return err
			}
			shares, err := parseShares(known, "known")
			if err != nil {
				return err
			}
			res, err := mixture.SolveTwo(target, baseA, baseB, shares)
			if err != nil {
				return err
			}
			return render(cmd, opts, output.NewTwoComponent(target, baseA, baseB, shares, res))
		},
	}

	cmd.Flags().Float64Var(&target, "target", 0, "target blend viscosity (mm²/s)")
	cmd.Flags().Float64Var(&baseA, "base-a", 0, "viscosity of base A (mm²/s)")
	cmd.Flags().Float64Var(&baseB, "base-b", 0, "viscosity of base B (mm²/s)")
	cmd.Flags().StringArrayVarP(&known, "known", "k", nil, "known component as percent:viscosity (repeatable)")
	return cmd
}
