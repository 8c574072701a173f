// Package recipe loads mixture recipes for the general solver from disk.
// A recipe names its components and states their roles and the mixture
// constraint; HCL, YAML and JSON files share one schema.
package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"viscolab/core/input"
	"viscolab/core/solver"
	verrors "viscolab/internal/errors"
)

// Recipe is a decoded solver request plus the names used to report it
type Recipe struct {
	Name       string
	Source     string
	Components []string
	Request    solver.Request
}

// file is the on-disk schema. In HCL components are labelled blocks:
//
//	name = "gear oil"
//	component "light" {
//	  viscosity = 10
//	}
//	component "heavy" {
//	  viscosity = 100
//	  type      = "range"
//	  min       = 10
//	  max       = 60
//	}
//	mixture {
//	  type  = "setValue"
//	  value = 46
//	}
type file struct {
	Name       string          `hcl:"name,optional" yaml:"name" json:"name"`
	Components []componentSpec `hcl:"component,block" yaml:"components" json:"components"`
	Mixture    *mixtureSpec    `hcl:"mixture,block" yaml:"mixture" json:"mixture"`
}

type componentSpec struct {
	Name      string   `hcl:"name,label" yaml:"name" json:"name"`
	Viscosity *float64 `hcl:"viscosity" yaml:"viscosity" json:"viscosity"`
	Type      string   `hcl:"type,optional" yaml:"type" json:"type"`
	Value     *float64 `hcl:"value,optional" yaml:"value" json:"value"`
	Min       *float64 `hcl:"min,optional" yaml:"min" json:"min"`
	Max       *float64 `hcl:"max,optional" yaml:"max" json:"max"`
}

type mixtureSpec struct {
	Type  string   `hcl:"type,optional" yaml:"type" json:"type"`
	Value *float64 `hcl:"value,optional" yaml:"value" json:"value"`
	Min   *float64 `hcl:"min,optional" yaml:"min" json:"min"`
	Max   *float64 `hcl:"max,optional" yaml:"max" json:"max"`
}

// Load reads and decodes the recipe at path. The extension picks the syntax.
func Load(path string) (*Recipe, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, verrors.Parsing("failed to read recipe", err).WithContext("path", path)
	}
	return Parse(path, src)
}

// Parse decodes src, using filename only to pick the syntax and for diagnostics.
func Parse(filename string, src []byte) (*Recipe, error) {
	var f file
	var err error

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".hcl":
		err = hclsimple.Decode(filename, src, nil, &f)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(src))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(src))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	default:
		return nil, verrors.Newf(verrors.TypeParsing, "unsupported recipe format %q", ext).
			WithContext("path", filename)
	}
	if err != nil {
		return nil, verrors.Parsing("invalid recipe", err).WithContext("path", filename)
	}

	req, err := input.DecodeSolverRequest(f.payload())
	if err != nil {
		return nil, err
	}

	r := &Recipe{
		Name:       f.Name,
		Source:     filename,
		Components: make([]string, len(f.Components)),
		Request:    req,
	}
	if r.Name == "" {
		r.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	for i, c := range f.Components {
		r.Components[i] = c.Name
		if r.Components[i] == "" {
			r.Components[i] = fmt.Sprintf("component %d", i+1)
		}
	}
	return r, nil
}

// payload renders the schema as the generic request shape the HTTP API accepts,
// so both transports share one validation path.
func (f *file) payload() map[string]interface{} {
	comps := make([]interface{}, 0, len(f.Components))
	for _, c := range f.Components {
		m := roleFields(c.Type, c.Value, c.Min, c.Max)
		if c.Viscosity != nil {
			m["viscosity"] = *c.Viscosity
		}
		comps = append(comps, m)
	}

	m := map[string]interface{}{"components": comps}
	if f.Mixture != nil {
		m["mixture"] = roleFields(f.Mixture.Type, f.Mixture.Value, f.Mixture.Min, f.Mixture.Max)
	}
	return m
}

func roleFields(kind string, value, lo, hi *float64) map[string]interface{} {
	m := map[string]interface{}{}
	if kind != "" {
		m["type"] = kind
	}
	for key, v := range map[string]*float64{"value": value, "min": lo, "max": hi} {
		if v != nil {
			m[key] = *v
		}
	}
	return m
}
