/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/pmg/InputParameters"
	"github.com/notargets/pmg/model_problems/Poisson1D"
	"github.com/notargets/pmg/solver"
)

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the 1D Poisson model problem with a p-multigrid V-cycle",
	Long: `
Assembles the Poisson model problem at each polynomial degree, calibrates the
Chebyshev smoothers from a throwaway CG run per level, then iterates V-cycles,

pmg solve -k 32 --degrees 1,3`,
	Run: func(cmd *cobra.Command, args []string) {
		sp := defaultParameters()
		if inputFile, _ := cmd.Flags().GetString("input"); inputFile != "" {
			data, err := os.ReadFile(inputFile)
			if err != nil {
				fmt.Printf("unable to read input file: %v\n", err)
				os.Exit(1)
			}
			if err = sp.Parse(data); err != nil {
				fmt.Printf("unable to parse input file: %v\n", err)
				os.Exit(1)
			}
		}
		if k, _ := cmd.Flags().GetInt("k"); cmd.Flags().Changed("k") {
			sp.MeshElements = k
		}
		if degrees, _ := cmd.Flags().GetIntSlice("degrees"); cmd.Flags().Changed("degrees") {
			sp.Degrees = degrees
		}
		if d, _ := cmd.Flags().GetInt("smootherDegree"); cmd.Flags().Changed("smootherDegree") {
			sp.SmootherDegree = d
		}
		if c, _ := cmd.Flags().GetInt("cycles"); cmd.Flags().Changed("cycles") {
			sp.MaxCycles = c
		}
		if tol, _ := cmd.Flags().GetFloat64("tol"); cmd.Flags().Changed("tol") {
			sp.Tolerance = tol
		}
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			sp.Verbose = true
		}
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start().Stop()
		}
		RunSolve(sp)
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().IntP("k", "k", 16, "Number of mesh elements")
	SolveCmd.Flags().IntSlice("degrees", []int{1, 3}, "polynomial degree per level, coarsest first")
	SolveCmd.Flags().Int("smootherDegree", 2, "Chebyshev degree (or CG smoother iterations)")
	SolveCmd.Flags().Int("cycles", 10, "maximum number of V-cycles")
	SolveCmd.Flags().Float64("tol", 1.e-8, "relative residual tolerance on the finest level")
	SolveCmd.Flags().StringP("input", "i", "", "YAML input parameter file")
	SolveCmd.Flags().BoolP("verbose", "v", false, "per-level residual reporting")
	SolveCmd.Flags().Bool("profile", false, "generate a CPU profile of the solve")
}

func defaultParameters() *InputParameters.SolverParameters {
	return &InputParameters.SolverParameters{
		Title:            "1D Poisson p-multigrid",
		MeshElements:     16,
		Degrees:          []int{1, 3},
		Kappa:            2,
		SmootherType:     "chebyshev",
		SmootherDegree:   2,
		CalibrationIters: 20,
		Jacobi:           true,
		MaxCycles:        10,
		Tolerance:        1.e-8,
	}
}

func RunSolve(sp *InputParameters.SolverParameters) {
	sp.Print()
	params := solver.HierarchyParams{
		SmootherType: solver.ChebyshevSmoothing,
		Degree:       sp.SmootherDegree,
		CalibIters:   sp.CalibrationIters,
		CalibRTol:    1.e-6,
		Jacobi:       sp.Jacobi,
		Verbose:      sp.Verbose,
	}
	if sp.SmootherType == "cg" {
		params.SmootherType = solver.CGSmoothing
	}
	p := Poisson1D.NewPoisson(sp.MeshElements, sp.Degrees, sp.Kappa)
	res, u, err := p.Run(params, sp.MaxCycles, sp.Tolerance)
	if err != nil {
		fmt.Printf("solve failed: %v\n", err)
		os.Exit(1)
	}
	finest := len(sp.Degrees) - 1
	for i, rel := range res.ResidualHistory {
		fmt.Printf("Cycle %d: relative residual = %8.3e\n", i+1, rel)
	}
	if !res.Converged {
		fmt.Printf("tolerance %8.2e not reached in %d cycles\n", sp.Tolerance, res.Cycles)
	}
	fmt.Printf("max nodal error vs exact solution = %8.3e\n", p.MaxNodalError(finest, u))
}
