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
	"github.com/spf13/viper"

	"github.com/notargets/dgacoustic/DG3D/tetrahedra/tetelement"
	"github.com/notargets/dgacoustic/InputParameters"
	"github.com/notargets/dgacoustic/model_problems/Acoustic3D"
)

type Model3D struct {
	MeshFile   string
	InputFile  string
	OutputFile string
	NumThreads int
	Profile    bool // CPU profile written to ProfileDir
	ProfileDir string
	Perf       bool // Count CPU cycles with hardware counters
}

// ThreeDCmd represents the 3D command
var ThreeDCmd = &cobra.Command{
	Use:   "3D",
	Short: "Three dimensional acoustic solver for tetrahedral Gmsh meshes",
	Long: `
Reads a tetrahedral mesh in Gmsh 2.2 or 4.1 ASCII format and an input parameters file,
marches the acoustic field in time and writes Pressure, Density and Velocity
views to the save file.

dgacoustic 3D -F cube.msh -I input.yaml -o results.msh -t 8`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m3d := &Model3D{}
		m3d.MeshFile, _ = cmd.Flags().GetString("meshFile")
		m3d.InputFile, _ = cmd.Flags().GetString("inputParametersFile")
		m3d.OutputFile, _ = cmd.Flags().GetString("output")
		m3d.NumThreads, _ = cmd.Flags().GetInt("threads")
		m3d.Profile, _ = cmd.Flags().GetBool("profile")
		m3d.ProfileDir, _ = cmd.Flags().GetString("profileDir")
		m3d.Perf, _ = cmd.Flags().GetBool("perf")
		var ip *InputParameters.InputParameters3D
		if ip, err = processInput3D(m3d); err != nil {
			return
		}
		return Run3D(m3d, ip)
	},
}

func init() {
	rootCmd.AddCommand(ThreeDCmd)
	ThreeDCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in Gmsh 2.2 or 4.1 ASCII (.msh) format, overrides MeshFile")
	ThreeDCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- C0, Rho0, V0\n\t- TimeStep, TimeEnd\n\t- Sources")
	ThreeDCmd.Flags().StringP("output", "o", "", "Gmsh file for the solution views, overrides SaveFile")
	ThreeDCmd.Flags().IntP("threads", "t", 0, "number of go routines for the element loop, overrides NumThreads")
	ThreeDCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
	ThreeDCmd.Flags().String("profileDir", ".", "directory for the CPU profile")
	ThreeDCmd.Flags().Bool("perf", false, "count CPU cycles of the run with hardware performance counters")
	_ = viper.BindPFlag("threads", ThreeDCmd.Flags().Lookup("threads"))
}

const exampleFile3D = `
########################################
Title: "Monopole in a box"
MeshFile: cube.msh
SaveFile: results.msh
TimeIntMethod: Runge-Kutta # Can be "Euler"
C0: 340
Rho0: 1.225
V0: [0, 0, 0]
TimeStart: 0
TimeEnd: 0.01
TimeStep: 0.00001
TimeRate: 0.0005
NumThreads: 4
Sources:
  - {Center: [0.5, 0.5, 0.5], Radius: 0.05, Amplitude: 1, Frequency: 1000, Phase: 0}
########################################
`

func processInput3D(m3d *Model3D) (ip *InputParameters.InputParameters3D, err error) {
	if len(m3d.InputFile) == 0 {
		fmt.Printf("Example File:%s\n", exampleFile3D)
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile) in YAML format")
		return
	}
	var data []byte
	if data, err = os.ReadFile(m3d.InputFile); err != nil {
		return
	}
	ip = &InputParameters.InputParameters3D{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", m3d.InputFile, err)
	}
	if len(m3d.MeshFile) != 0 {
		ip.MeshFile = m3d.MeshFile
	}
	if len(m3d.OutputFile) != 0 {
		ip.SaveFile = m3d.OutputFile
	}
	if threads := viper.GetInt("threads"); m3d.NumThreads == 0 && threads > 0 {
		m3d.NumThreads = threads
	}
	if m3d.NumThreads > 0 {
		ip.NumThreads = m3d.NumThreads
	}
	if len(ip.MeshFile) == 0 {
		return nil, fmt.Errorf("must supply a mesh file (-F, --meshFile or MeshFile) in Gmsh (.msh) format")
	}
	return
}

func Run3D(m3d *Model3D, ip *InputParameters.InputParameters3D) (err error) {
	ip.Print()
	var el *tetelement.Element3D
	if el, err = tetelement.NewElement3D(ip.MeshFile); err != nil {
		return
	}
	el.Mesh.PrintStatistics()
	el.Print()
	var (
		c = Acoustic3D.NewAcoustic(el, ip, Acoustic3D.NewGmshViews(), logger)
		u = Acoustic3D.NewSolution(el)
	)
	if m3d.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(m3d.ProfileDir), profile.NoShutdownHook).Stop()
	}
	solve := func() error { return c.Solve(u) }
	if m3d.Perf {
		return countCycles(solve)
	}
	return solve()
}
