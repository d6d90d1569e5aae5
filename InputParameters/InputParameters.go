package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type SolverParameters struct {
	Title            string  `yaml:"Title"`
	MeshElements     int     `yaml:"MeshElements"`
	Degrees          []int   `yaml:"Degrees"` // coarsest level first
	Kappa            float64 `yaml:"Kappa"`
	SmootherType     string  `yaml:"SmootherType"` // "chebyshev" or "cg"
	SmootherDegree   int     `yaml:"SmootherDegree"`
	CalibrationIters int     `yaml:"CalibrationIters"`
	Jacobi           bool    `yaml:"Jacobi"`
	MaxCycles        int     `yaml:"MaxCycles"`
	Tolerance        float64 `yaml:"Tolerance"`
	Verbose          bool    `yaml:"Verbose"`
}

func (sp *SolverParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, sp)
}

func (sp *SolverParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("%d\t\t\t\t= Mesh Elements\n", sp.MeshElements)
	fmt.Printf("%v\t\t\t= Degrees (coarsest first)\n", sp.Degrees)
	fmt.Printf("%8.5f\t\t= Kappa\n", sp.Kappa)
	fmt.Printf("[%s]\t\t= Smoother Type\n", sp.SmootherType)
	fmt.Printf("[%d]\t\t\t\t= Smoother Degree\n", sp.SmootherDegree)
	fmt.Printf("[%d]\t\t\t= Calibration Iterations\n", sp.CalibrationIters)
	fmt.Printf("%v\t\t\t= Jacobi Scaling\n", sp.Jacobi)
	fmt.Printf("%d\t\t\t\t= Max Cycles\n", sp.MaxCycles)
	fmt.Printf("%8.2e\t\t= Tolerance\n", sp.Tolerance)
}
