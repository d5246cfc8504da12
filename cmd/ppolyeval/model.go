// Copyright 2025 go-ppoly Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-ppoly/ppoly"
)

// ModelConfig is the YAML shape of a piecewise polynomial model:
//
//	breakpoints: [0, 1, 2]
//	coefficients:        # k rows (highest order first) of m interval entries
//	  - [2, -1]
//	  - [3, 5]
//	extrapolate: true    # or false, or periodic
//
// An interval entry may be a bare scalar (single column) or a list of
// per-column values.
type ModelConfig struct {
	Breakpoints  []float64           `yaml:"breakpoints"`
	Coefficients [][]columnValues    `yaml:"coefficients"`
	Extrapolate  *extrapolateSetting `yaml:"extrapolate"`
}

// columnValues is one interval's coefficient entry.
type columnValues []float64

func (c *columnValues) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		*c = columnValues{v}
		return nil
	}
	var vs []float64
	if err := value.Decode(&vs); err != nil {
		return err
	}
	*c = vs
	return nil
}

// extrapolateSetting accepts true, false or the string "periodic".
type extrapolateSetting struct {
	Mode ppoly.Extrapolation
}

func (e *extrapolateSetting) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		if b {
			e.Mode = ppoly.ExtrapolateAlways
		} else {
			e.Mode = ppoly.ExtrapolateNone
		}
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "periodic" {
		e.Mode = ppoly.ExtrapolatePeriodic
		return nil
	}
	return fmt.Errorf("invalid extrapolate setting %q (want true, false or periodic)", s)
}

// LoadModel reads and validates a YAML model file.
func LoadModel(path string) (*ppoly.PPoly[float64], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ModelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return cfg.Build()
}

// Build flattens the nested coefficient lists into the (k, m, n) tensor and
// constructs the validated polynomial. Extrapolation defaults to true when
// the model omits it.
func (cfg *ModelConfig) Build() (*ppoly.PPoly[float64], error) {
	if len(cfg.Breakpoints) < 2 {
		return nil, fmt.Errorf("model needs at least 2 breakpoints, got %d", len(cfg.Breakpoints))
	}
	k := len(cfg.Coefficients)
	if k == 0 {
		return nil, fmt.Errorf("model has no coefficients")
	}
	m := len(cfg.Breakpoints) - 1

	n := 0
	for i, row := range cfg.Coefficients {
		if len(row) != m {
			return nil, fmt.Errorf("coefficient row %d has %d intervals, want %d", i, len(row), m)
		}
		for _, entry := range row {
			if n == 0 {
				n = len(entry)
			}
			if len(entry) != n {
				return nil, fmt.Errorf("inconsistent column counts: %d vs %d", len(entry), n)
			}
		}
	}

	flat := make([]float64, 0, k*m*n)
	for _, row := range cfg.Coefficients {
		for _, entry := range row {
			flat = append(flat, entry...)
		}
	}

	mode := ppoly.ExtrapolateAlways
	if cfg.Extrapolate != nil {
		mode = cfg.Extrapolate.Mode
	}
	return ppoly.New(flat, k, cfg.Breakpoints, mode)
}
