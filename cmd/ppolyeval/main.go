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

// Package main implements ppolyeval, a CLI around the piecewise polynomial
// evaluation engine: it loads a YAML model (breakpoints plus power-basis
// coefficients) and evaluates it, or a derivative, at a batch of query
// points.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-ppoly/ppoly"
	"github.com/ajroetker/go-ppoly/ppoly/contrib/workerpool"
)

var (
	modelPath   string    // Path to the YAML model file
	pointsFlag  []float64 // Query points given inline
	pointsFile  string    // File with whitespace-separated query points
	derivative  int       // Derivative order to evaluate
	workers     int       // Worker count; 0 evaluates serially
	logLevel    string    // Log verbosity level
	extrapolate string    // Extrapolation override: true, false or periodic
)

var rootCmd = &cobra.Command{
	Use:   "ppolyeval",
	Short: "Evaluate piecewise polynomials defined in YAML model files",
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the model at a batch of query points",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		model, err := LoadModel(modelPath)
		if err != nil {
			logrus.Fatalf("Could not load model %s: %v", modelPath, err)
		}
		logrus.Infof("Loaded model: degree=%d intervals=%d columns=%d",
			model.Degree(), model.Intervals(), model.Columns())

		points := pointsFlag
		if pointsFile != "" {
			filePoints, err := readPoints(pointsFile)
			if err != nil {
				logrus.Fatalf("Could not read points from %s: %v", pointsFile, err)
			}
			points = append(points, filePoints...)
		}
		if len(points) == 0 {
			logrus.Fatalf("No query points given; use --points or --points-file")
		}

		mode, err := resolveMode(model, extrapolate)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		var out []float64
		if workers > 0 {
			pool := workerpool.New(workers)
			defer pool.Close()
			logrus.Infof("Evaluating %d points on %d workers", len(points), pool.NumWorkers())
			out = model.EvalParallelMode(pool, points, derivative, mode)
		} else {
			out = model.EvalMode(points, derivative, mode)
		}

		n := model.Columns()
		for i, x := range points {
			row := out[i*n : (i+1)*n]
			cols := make([]string, n)
			for j, v := range row {
				cols[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			fmt.Printf("%g\t%s\n", x, strings.Join(cols, "\t"))
		}
	},
}

// resolveMode maps the --extrapolate flag onto the model's mode.
func resolveMode(model *ppoly.PPoly[float64], flag string) (ppoly.Extrapolation, error) {
	switch flag {
	case "":
		return model.Mode(), nil
	case "true":
		return ppoly.ExtrapolateAlways, nil
	case "false":
		return ppoly.ExtrapolateNone, nil
	case "periodic":
		return ppoly.ExtrapolatePeriodic, nil
	}
	return 0, fmt.Errorf("invalid --extrapolate value %q (want true, false or periodic)", flag)
}

// readPoints parses whitespace-separated query values; "nan" is accepted for
// undefined points.
func readPoints(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(string(data))
	points := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", f, err)
		}
		points = append(points, v)
	}
	return points, nil
}

func init() {
	evalCmd.Flags().StringVar(&modelPath, "model", "", "Path to the YAML model file")
	evalCmd.Flags().Float64SliceVar(&pointsFlag, "points", nil, "Query points")
	evalCmd.Flags().StringVar(&pointsFile, "points-file", "", "File with whitespace-separated query points")
	evalCmd.Flags().IntVar(&derivative, "derivative", 0, "Derivative order (negative applies antiderivative prefactors)")
	evalCmd.Flags().IntVar(&workers, "workers", 0, "Worker count for parallel evaluation (0 = serial)")
	evalCmd.Flags().StringVar(&logLevel, "log-level", "warning", "Log verbosity level")
	evalCmd.Flags().StringVar(&extrapolate, "extrapolate", "", "Override the model's extrapolation: true, false or periodic")
	if err := evalCmd.MarkFlagRequired("model"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(evalCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
