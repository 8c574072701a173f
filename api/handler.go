// Package api - HTTP handler for viscosity calculations
// This handler wraps the engine - it contains NO viscosity math.
// All logic is delegated to core packages.
package api

import (
	"viscolab/core/input"
	"viscolab/core/mixture"
	"viscolab/core/output"
	"viscolab/core/solver"
	"viscolab/core/vi"
	"viscolab/core/walther"
	"viscolab/internal/config"
)

// Handler runs the engine operations behind each endpoint. Every method takes
// the decoded JSON body and returns the report serialized as the response.
type Handler struct {
	table  config.TableConfig
	solver *solver.Solver
}

// NewHandler creates a handler from configuration
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		table:  cfg.Table,
		solver: solver.New(solver.NewSimplexSolver(cfg.Solver.Tolerance)),
	}
}

// Calibrate fits the Walther correlation through two points and tabulates it
func (h *Handler) Calibrate(body map[string]interface{}) (*output.Calibration, error) {
	req, err := input.DecodeCalibration(body)
	if err != nil {
		return nil, err
	}
	params, err := walther.Fit(req.P1, req.P2)
	if err != nil {
		return nil, err
	}
	rows, err := params.Table(h.table.From, h.table.To, h.table.Step)
	if err != nil {
		return nil, err
	}
	return output.NewCalibration(params, rows, req.Target)
}

// Index computes the viscosity index. The body either carries v40 and v100
// directly or two points that are fitted and evaluated at 40 and 100 °C.
func (h *Handler) Index(body map[string]interface{}) (*output.Index, error) {
	_, has40 := body["v40"]
	_, has100 := body["v100"]
	if has40 && has100 {
		v40, err := input.Number(body["v40"], "v40")
		if err != nil {
			return nil, err
		}
		v100, err := input.Number(body["v100"], "v100")
		if err != nil {
			return nil, err
		}
		return output.NewIndex(vi.Evaluate(v40, v100)), nil
	}

	req, err := input.DecodeCalibration(body)
	if err != nil {
		return nil, err
	}
	params, err := walther.Fit(req.P1, req.P2)
	if err != nil {
		return nil, err
	}
	v40, err := params.At(40)
	if err != nil {
		return nil, err
	}
	v100, err := params.At(100)
	if err != nil {
		return nil, err
	}
	return output.NewIndex(vi.Evaluate(v40, v100)), nil
}

// Blend computes the viscosity of a mixture with known proportions
func (h *Handler) Blend(body map[string]interface{}) (*output.Blend, error) {
	shares, err := input.DecodeShares(body["components"], "component")
	if err != nil {
		return nil, err
	}
	v, err := mixture.BlendShares(shares)
	if err != nil {
		return nil, err
	}
	return &output.Blend{Components: shares, Viscosity: v}, nil
}

// TwoComponent solves for the proportions of two bases
func (h *Handler) TwoComponent(body map[string]interface{}) (*output.TwoComponent, error) {
	req, err := input.DecodeTwoComponent(body)
	if err != nil {
		return nil, err
	}
	res, err := mixture.SolveTwo(req.Target, req.BaseA, req.BaseB, req.Known)
	if err != nil {
		return nil, err
	}
	return output.NewTwoComponent(req.Target, req.BaseA, req.BaseB, req.Known, res), nil
}

// Solve runs the general blend solver
func (h *Handler) Solve(body map[string]interface{}) (*output.Solution, error) {
	req, err := input.DecodeSolverRequest(body)
	if err != nil {
		return nil, err
	}
	res, err := h.solver.Solve(req)
	if err != nil {
		return nil, err
	}
	return output.NewSolution("", nil, res), nil
}
