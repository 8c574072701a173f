package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"viscolab/adapters/recipe"
	"viscolab/core/output"
	"viscolab/core/solver"
	"viscolab/internal/config"
	"viscolab/internal/logging"
)

func newSolveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "solve <recipe>",
		Short: "Design a blend from a recipe file",
		Long: `Solve a blend design recipe. Recipes are .hcl, .yaml/.yml or .json files
listing the components with their roles (fixed, free, range, objectiveMin,
objectiveMax) and an optional mixture constraint (setValue, range,
objectiveMin, objectiveMax).

Example recipe (HCL):
  name = "ISO VG 46"
  component "light" { viscosity = 10 }
  component "heavy" {
    viscosity = 100
    type      = "objectiveMin"
  }
  mixture {
    type = "range"
    min  = 41.4
    max  = 50.6
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := recipe.Load(args[0])
			if err != nil {
				return err
			}
			logging.Named("cli").Debug("recipe loaded",
				zap.String("name", r.Name),
				zap.String("source", r.Source),
				zap.Int("components", len(r.Components)))

			s := solver.New(solver.NewSimplexSolver(config.Get().Solver.Tolerance))
			res, err := s.Solve(r.Request)
			if err != nil {
				return err
			}
			return render(cmd, opts, output.NewSolution(r.Name, r.Components, res))
		},
	}
}
