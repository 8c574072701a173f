package cmd

import (
	"github.com/spf13/cobra"

	"viscolab/core/output"
	"viscolab/core/vi"
	"viscolab/core/walther"
	"viscolab/internal/config"
)

// pointFlags are the two calibration measurements
type pointFlags struct {
	v1, t1, v2, t2 float64
}

func (p *pointFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.v1, "v1", 0, "first viscosity (mm²/s)")
	cmd.Flags().Float64Var(&p.t1, "t1", 40, "temperature of the first viscosity (°C)")
	cmd.Flags().Float64Var(&p.v2, "v2", 0, "second viscosity (mm²/s)")
	cmd.Flags().Float64Var(&p.t2, "t2", 100, "temperature of the second viscosity (°C)")
}

func (p *pointFlags) fit() (walther.Params, error) {
	return walther.Fit(
		walther.Point{Viscosity: p.v1, Temperature: p.t1},
		walther.Point{Viscosity: p.v2, Temperature: p.t2},
	)
}

func newWaltherCmd(opts *globalOptions) *cobra.Command {
	var (
		points         pointFlags
		target         float64
		from, to, step float64
	)

	cmd := &cobra.Command{
		Use:   "walther",
		Short: "Fit the Walther viscosity-temperature correlation through two points",
		Long: `Fit log10(log10(v + 0.7)) = intercept - slope * log10(T + 273.15) through
two measured viscosities and tabulate the result.

Examples:
  viscolab walther --v1 68 --t1 40 --v2 8.6 --t2 100
  viscolab walther --v1 68 --v2 8.6 --target 70 --from 0 --to 150 --step 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "v1", "v2"); err != nil {
				return err
			}
			params, err := points.fit()
			if err != nil {
				return err
			}

			table := config.Get().Table
			if cmd.Flags().Changed("from") {
				table.From = from
			}
			if cmd.Flags().Changed("to") {
				table.To = to
			}
			if cmd.Flags().Changed("step") {
				table.Step = step
			}
			rows, err := params.Table(table.From, table.To, table.Step)
			if err != nil {
				return err
			}

			var at *float64
			if cmd.Flags().Changed("target") {
				at = &target
			}
			report, err := output.NewCalibration(params, rows, at)
			if err != nil {
				return err
			}
			return render(cmd, opts, report)
		},
	}

	points.register(cmd)
	cmd.Flags().Float64Var(&target, "target", 0, "also report the viscosity at this temperature (°C)")
	cmd.Flags().Float64Var(&from, "from", 0, "first table temperature (°C, default from config)")
	cmd.Flags().Float64Var(&to, "to", 0, "last table temperature (°C, default from config)")
	cmd.Flags().Float64Var(&step, "step", 0, "table step (°C, default from config)")
	return cmd
}

func newVICmd(opts *globalOptions) *cobra.Command {
	var (
		points    pointFlags
		v40, v100 float64
	)

	cmd := &cobra.Command{
		Use:   "vi",
		Short: "Compute the ASTM D2270 viscosity index",
		Long: `Compute the viscosity index from the viscosities at 40 °C and 100 °C.
When other temperatures are measured the Walther fit through them supplies
both values.

Examples:
  viscolab vi --v40 100 --v100 11
  viscolab vi --v1 150 --t1 30 --v2 9 --t2 110`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("v40") || cmd.Flags().Changed("v100") {
				if err := requireFlags(cmd, "v40", "v100"); err != nil {
					return err
				}
				return render(cmd, opts, output.NewIndex(vi.Evaluate(v40, v100)))
			}

			if err := requireFlags(cmd, "v1", "v2"); err != nil {
				return err
			}
			params, err := points.fit()
			if err != nil {
				return err
			}
			at40, err := params.At(40)
			if err != nil {
				return err
			}
			at100, err := params.At(100)
			if err != nil {
				return err
			}
			return render(cmd, opts, output.NewIndex(vi.Evaluate(at40, at100)))
		},
	}

	points.register(cmd)
	cmd.Flags().Float64Var(&v40, "v40", 0, "viscosity at 40 °C (mm²/s)")
	cmd.Flags().Float64Var(&v100, "v100", 0, "viscosity at 100 °C (mm²/s)")
	return cmd
}
