// Package input normalizes untyped payloads into engine requests.
// Transports (HTTP JSON, recipe files) decode into generic maps; the engine
// only ever sees the typed requests produced here.
package input

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"viscolab/core/mixture"
	"viscolab/core/solver"
	"viscolab/core/walther"
	verrors "viscolab/internal/errors"
)

// Number converts a decoded scalar to float64. Numbers and numeric strings are
// accepted; null, booleans, containers and non-numeric strings are not.
func Number(raw interface{}, field string) (float64, error) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0, verrors.Inputf("%s must be a number, got null", field)
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, verrors.Inputf("%s must be a number", field)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, verrors.Inputf("%s must be a number, got %q", field, v)
		}
		f = parsed
	default:
		return 0, verrors.Inputf("%s must be a number, got %T", field, raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, verrors.Inputf("%s must be finite", field)
	}
	return f, nil
}

// numberOr reads m[key], using def when the key is absent.
func numberOr(m map[string]interface{}, key string, def float64) (float64, error) {
	raw, ok := m[key]
	if !ok {
		return def, nil
	}
	return Number(raw, key)
}

// requiredNumber reads m[key] and fails when it is absent or null.
func requiredNumber(m map[string]interface{}, key, what string) (float64, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, verrors.Inputf("%s missing", what)
	}
	return Number(raw, what)
}

func object(raw interface{}, what string) (map[string]interface{}, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, verrors.Inputf("%s must be an object", what)
	}
	return m, nil
}

func list(raw interface{}, what string) ([]interface{}, error) {
	l, ok := raw.([]interface{})
	if !ok {
		return nil, verrors.Inputf("%s must be a list", what)
	}
	return l, nil
}

// Calibration is a two-point Walther fit request with an optional evaluation temperature
type Calibration struct {
	P1     walther.Point
	P2     walther.Point
	Target *float64
}

// DecodeCalibration reads {v1, t1, v2, t2, target?}. Missing values default to 0;
// an unusable target is dropped rather than rejected.
func DecodeCalibration(m map[string]interface{}) (Calibration, error) {
	var c Calibration
	var vals [4]float64
	for i, key := range []string{"v1", "t1", "v2", "t2"} {
		f, err := numberOr(m, key, 0)
		if err != nil {
			return c, err
		}
		vals[i] = f
	}
	c.P1 = walther.Point{Viscosity: vals[0], Temperature: vals[1]}
	c.P2 = walther.Point{Viscosity: vals[2], Temperature: vals[3]}

	if raw, ok := m["target"]; ok {
		if t, err := Number(raw, "target"); err == nil {
			c.Target = &t
		}
	}
	return c, nil
}

// DecodeShares reads a list of {percent, viscosity} objects.
func DecodeShares(raw interface{}, what string) ([]mixture.Share, error) {
	if raw == nil {
		return nil, nil
	}
	items, err := list(raw, what)
	if err != nil {
		return nil, err
	}
	shares := make([]mixture.Share, 0, len(items))
	for i, item := range items {
		m, err := object(item, what)
		if err != nil {
			return nil, err
		}
		p, err := numberOr(m, "percent", 0)
		if err != nil {
			return nil, verrors.Wrapf(verrors.TypeInput, err, "%s %d", what, i+1)
		}
		v, err := numberOr(m, "viscosity", 0)
		if err != nil {
			return nil, verrors.Wrapf(verrors.TypeInput, err, "%s %d", what, i+1)
		}
		shares = append(shares, mixture.Share{Percent: p, Viscosity: v})
	}
	return shares, nil
}

// TwoComponent is an inverse-blend request for two bases
type TwoComponent struct {
	Target float64
	BaseA  float64
	BaseB  float64
	Known  []mixture.Share
}

// DecodeTwoComponent reads {targetViscosity, baseAViscosity, baseBViscosity, knownComponents?}.
func DecodeTwoComponent(m map[string]interface{}) (TwoComponent, error) {
	var r TwoComponent
	var err error
	if r.Target, err = numberOr(m, "targetViscosity", 0); err != nil {
		return r, err
	}
	if r.BaseA, err = numberOr(m, "baseAViscosity", 0); err != nil {
		return r, err
	}
	if r.BaseB, err = numberOr(m, "baseBViscosity", 0); err != nil {
		return r, err
	}
	r.Known, err = DecodeShares(m["knownComponents"], "known component")
	return r, err
}

// DecodeSolverRequest reads {components: [{viscosity, type, value, min, max}],
// mixture: {type, value, min, max}}.
func DecodeSolverRequest(m map[string]interface{}) (solver.Request, error) {
	var req solver.Request

	rawComps, ok := m["components"]
	if !ok || rawComps == nil {
		return req, verrors.Input("no components supplied")
	}
	items, err := list(rawComps, "components")
	if err != nil {
		return req, err
	}
	if len(items) == 0 {
		return req, verrors.Input("no components supplied")
	}

	for i, item := range items {
		cm, err := object(item, "component")
		if err != nil {
			return req, err
		}
		comp, err := decodeComponent(cm, i+1)
		if err != nil {
			return req, err
		}
		req.Components = append(req.Components, comp)
	}

	req.Mixture = solver.MixtureFree{}
	if rawMix, ok := m["mixture"]; ok && rawMix != nil {
		mm, err := object(rawMix, "mixture")
		if err != nil {
			return req, err
		}
		if req.Mixture, err = decodeMixture(mm); err != nil {
			return req, err
		}
	}
	return req, nil
}

func roleName(m map[string]interface{}) (string, error) {
	raw, ok := m["type"]
	if !ok || raw == nil {
		return "free", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", verrors.Input("type must be a string")
	}
	return s, nil
}

func decodeComponent(m map[string]interface{}, n int) (solver.Component, error) {
	var comp solver.Component
	raw, ok := m["viscosity"]
	if !ok || raw == nil {
		return comp, verrors.Inputf("component %d viscosity must be positive", n)
	}
	v, err := Number(raw, "viscosity")
	if err != nil {
		return comp, verrors.Wrapf(verrors.TypeInput, err, "component %d", n)
	}
	comp.Viscosity = v

	kind, err := roleName(m)
	if err != nil {
		return comp, verrors.Wrapf(verrors.TypeInput, err, "component %d", n)
	}
	switch kind {
	case "fixed", "setValue":
		p, err := requiredNumber(m, "value", "fixed value")
		if err != nil {
			return comp, verrors.Wrapf(verrors.TypeInput, err, "component %d", n)
		}
		comp.Role = solver.Fixed{Percent: p}
	case "free", "":
		comp.Role = solver.Free{}
	case "range":
		lo, hi, err := bounds(m)
		if err != nil {
			return comp, verrors.Wrapf(verrors.TypeInput, err, "component %d", n)
		}
		comp.Role = solver.Range{Min: lo, Max: hi}
	case "objectiveMin":
		comp.Role = solver.Objective{Sense: solver.Minimize}
	case "objectiveMax":
		comp.Role = solver.Objective{Sense: solver.Maximize}
	default:
		return comp, verrors.Inputf("component %d: unknown type %q", n, kind)
	}
	return comp, nil
}

func decodeMixture(m map[string]interface{}) (solver.MixtureRole, error) {
	kind, err := roleName(m)
	if err != nil {
		return nil, verrors.Wrap(verrors.TypeInput, "mixture", err)
	}
	switch kind {
	case "free", "":
		return solver.MixtureFree{}, nil
	case "setValue":
		v, err := requiredNumber(m, "value", "mixture set value")
		if err != nil {
			return nil, err
		}
		return solver.MixtureSetValue{Viscosity: v}, nil
	case "range":
		lo, hi, err := bounds(m)
		if err != nil {
			return nil, verrors.Wrap(verrors.TypeInput, "mixture", err)
		}
		return solver.MixtureRange{Min: lo, Max: hi}, nil
	case "objectiveMin":
		return solver.MixtureObjective{Sense: solver.Minimize}, nil
	case "objectiveMax":
		return solver.MixtureObjective{Sense: solver.Maximize}, nil
	default:
		return nil, verrors.Inputf("mixture: unknown type %q", kind)
	}
}

func bounds(m map[string]interface{}) (float64, float64, error) {
	lo, err := requiredNumber(m, "min", "range min")
	if err != nil {
		return 0, 0, err
	}
	hi, err := requiredNumber(m, "max", "range max")
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}
