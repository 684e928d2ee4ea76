package Acoustic3D

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// GmshViews buffers snapshots and writes them as Gmsh 2.2 $ElementNodeData
// views (Pressure, Density, Velocity), one block per view per time layer.
// The element numbers refer to the mesh file, load it first in Gmsh and merge
// the views on top.
type GmshViews struct {
	Layers []*Fields
}

type gmshView struct {
	name       string
	components int
	values     func(f *Fields) [][]float64
}

var gmshViewList = []gmshView{
	{"Pressure", 1, func(f *Fields) [][]float64 { return f.Pressure }},
	{"Density", 1, func(f *Fields) [][]float64 { return f.Density }},
	{"Velocity", 3, func(f *Fields) [][]float64 { return f.Velocity }},
}

func NewGmshViews() *GmshViews {
	return &GmshViews{}
}

func (gv *GmshViews) AddTimeLayer(f *Fields) (err error) {
	if f == nil {
		return fmt.Errorf("nil time layer")
	}
	gv.Layers = append(gv.Layers, f)
	return
}

// Write replaces the file at path with all buffered views
func (gv *GmshViews) Write(path string) (err error) {
	var file *os.File
	if file, err = os.Create(path); err != nil {
		return
	}
	if err = gv.Encode(file); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

func (gv *GmshViews) Encode(w io.Writer) (err error) {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")
	for _, view := range gmshViewList {
		for _, f := range gv.Layers {
			values := view.values(f)
			fmt.Fprintf(bw, "$ElementNodeData\n")
			// String, real and integer tags
			fmt.Fprintf(bw, "1\n\"%s\"\n", view.name)
			fmt.Fprintf(bw, "1\n%.16g\n", f.Time)
			fmt.Fprintf(bw, "3\n%d\n%d\n%d\n", f.Step, view.components, len(values))
			for k, vals := range values {
				fmt.Fprintf(bw, "%d %d", f.ElTags[k], len(vals)/view.components)
				for _, v := range vals {
					fmt.Fprintf(bw, " %.16g", v)
				}
				fmt.Fprintf(bw, "\n")
			}
			fmt.Fprintf(bw, "$EndElementNodeData\n")
		}
	}
	return bw.Flush()
}
