package mesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGmsh_SingleTet(t *testing.T) {
	m, err := ReadGmshFrom(strings.NewReader(SingleTetMsh))
	require.NoError(t, err)
	assert.Equal(t, "2.2", m.FormatVersion)
	assert.Equal(t, 4, m.NumVertices)
	// The boundary triangle is skipped
	assert.Equal(t, 1, m.NumElements)
	assert.Equal(t, []int{7}, m.ElementIDs)
	assert.Equal(t, []int{2}, m.ElementTags)
	assert.Equal(t, []int{0, 1, 2, 3}, m.EtoV[0])
	assert.Equal(t, [3]float64{0, 0, 1}, m.Vertices[3])
	assert.Equal(t, "fluid", m.PhysicalNames[2])
	assert.Equal(t, []int{-1, -1, -1, -1}, m.EToE[0])
	assert.Equal(t, 4, m.NumFaces)
}

func TestReadMeshFile(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "two.msh")
	require.NoError(t, os.WriteFile(fileName, []byte(TwoTetMsh), 0644))
	m, err := ReadMeshFile(fileName)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumElements)
	assert.Equal(t, []int{10, 11}, m.ElementIDs)

	_, err = ReadMeshFile(filepath.Join(dir, "two.neu"))
	assert.Error(t, err)
	_, err = ReadMeshFile(filepath.Join(dir, "missing.msh"))
	assert.Error(t, err)
}

func TestReadGmsh_Errors(t *testing.T) {
	tests := map[string]string{
		"no format":   "$Nodes\n0\n$EndNodes\n",
		"version 3":   "$MeshFormat\n3.0 0 8\n$EndMeshFormat\n",
		"version 4.0": "$MeshFormat\n4.0 0 8\n$EndMeshFormat\n",
		"binary":      "$MeshFormat\n2.2 1 8\n$EndMeshFormat\n",
		"no tets": `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
3
1 0 0 0
2 1 0 0
3 0 1 0
$EndNodes
$Elements
1
1 2 0 1 2 3
$EndElements
`,
		"unknown node": `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
1
1 0 0 0
$EndNodes
$Elements
1
1 4 0 1 2 3 4
$EndElements
`,
		"truncated": "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n4\n1 0 0 0\n",
	}
	for name, deck := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadGmshFrom(strings.NewReader(deck))
			assert.Error(t, err)
		})
	}
}

func TestReadGmsh_Version41(t *testing.T) {
	m, err := ReadGmshFrom(strings.NewReader(TwoTetMsh41))
	require.NoError(t, err)
	assert.Equal(t, "4.1", m.FormatVersion)
	assert.Equal(t, 5, m.NumVertices)
	assert.Equal(t, [3]float64{1, 1, 1}, m.Vertices[4])
	assert.Equal(t, 2, m.NumElements)
	assert.Equal(t, []int{7, 8}, m.ElementIDs)
	assert.Equal(t, []int{5, 5}, m.ElementTags)
	assert.Equal(t, "air", m.PhysicalNames[5])

	// Same connectivity as the 2.2 deck
	m22, err := ReadGmshFrom(strings.NewReader(TwoTetMsh))
	require.NoError(t, err)
	assert.Equal(t, m22.EtoV, m.EtoV)
	assert.Equal(t, m22.EToE, m.EToE)
	assert.Equal(t, m22.EToF, m.EToF)
	assert.Equal(t, 7, m.NumFaces)
}

func TestReadGmsh_Version41Errors(t *testing.T) {
	tests := map[string]string{
		"unknown node":  strings.Replace(TwoTetMsh41, "8 2 3 4 5", "8 2 3 4 9", 1),
		"short element": strings.Replace(TwoTetMsh41, "8 2 3 4 5", "8 2 3", 1),
		"truncated":     TwoTetMsh41[:strings.Index(TwoTetMsh41, "$Elements")+20],
		"bad entity":    strings.Replace(TwoTetMsh41, "1 0 0 0 1 1 1 1 5 1 1", "1 0 0 0 1 1 1 3 5", 1),
	}
	for name, deck := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadGmshFrom(strings.NewReader(deck))
			assert.Error(t, err)
		})
	}
}
