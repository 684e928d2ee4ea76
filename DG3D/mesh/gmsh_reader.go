package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Gmsh element types carried into the mesh, with the number of nodes listed
// per element. Only the four corner nodes are used.
var gmshTetTypes = map[int]int{
	4:  4,  // 4-node tet
	11: 10, // 10-node tet (2nd order)
}

// ReadGmsh reads a Gmsh format file (version 2.2 or 4.1, ASCII)
func ReadGmsh(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadGmshFrom(file)
}

// ReadGmshFrom reads a Gmsh 2.2 or 4.1 ASCII mesh and builds its
// connectivity. Elements other than tetrahedra (boundary triangles, lines,
// points) are skipped.
func ReadGmshFrom(r io.Reader) (*Mesh, error) {
	var (
		mesh      = NewMesh()
		scanner   = bufio.NewScanner(r)
		haveNodes bool
		volumes   = make(map[int][]int) // Gmsh 4: volume entity -> physical tags
	)
	// Increase scanner buffer for long element lines
	const maxScanTokenSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "$MeshFormat":
			if err := readMeshFormat(scanner, mesh); err != nil {
				return nil, err
			}
		case "$PhysicalNames":
			if err := readPhysicalNames(scanner, mesh); err != nil {
				return nil, err
			}
		case "$Entities":
			if err := readEntities4(scanner, volumes); err != nil {
				return nil, err
			}
		case "$Nodes":
			read := readNodes
			if mesh.isVersion4() {
				read = readNodes4
			}
			if err := read(scanner, mesh); err != nil {
				return nil, err
			}
			haveNodes = true
		case "$Elements":
			if !haveNodes {
				return nil, fmt.Errorf("$Elements section found before $Nodes")
			}
			var err error
			if mesh.isVersion4() {
				err = readElements4(scanner, mesh, volumes)
			} else {
				err = readElements(scanner, mesh)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	if len(mesh.FormatVersion) == 0 {
		return nil, fmt.Errorf("no $MeshFormat section found")
	}
	if mesh.NumElements == 0 {
		return nil, fmt.Errorf("mesh contains no tetrahedra")
	}

	mesh.BuildConnectivity()
	return mesh, nil
}

func readMeshFormat(scanner *bufio.Scanner, mesh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}
	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	mesh.FormatVersion = parts[0]
	if !strings.HasPrefix(mesh.FormatVersion, "2") && mesh.FormatVersion != "4.1" {
		return fmt.Errorf("Gmsh format version %s not supported, save as version 2.2 or 4.1", mesh.FormatVersion)
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported, save as ASCII")
	}
	return skipTo(scanner, "$EndMeshFormat")
}

func readPhysicalNames(scanner *bufio.Scanner, mesh *Mesh) error {
	numPhysical, err := readCount(scanner, "PhysicalNames")
	if err != nil {
		return err
	}
	for i := 0; i < numPhysical; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in PhysicalNames")
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return fmt.Errorf("invalid physical name entry")
		}
		tag, _ := strconv.Atoi(fields[1])
		mesh.PhysicalNames[tag] = strings.Trim(strings.Join(fields[2:], " "), "\"")
	}
	return skipTo(scanner, "$EndPhysicalNames")
}

func readNodes(scanner *bufio.Scanner, mesh *Mesh) error {
	numNodes, err := readCount(scanner, "Nodes")
	if err != nil {
		return err
	}
	mesh.Vertices = make([][3]float64, numNodes)
	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in Nodes at node %d", i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return fmt.Errorf("invalid node entry at line %d", i+1)
		}
		nodeID, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("invalid node ID: %w", err)
		}
		for j := 0; j < 3; j++ {
			if mesh.Vertices[i][j], err = strconv.ParseFloat(fields[j+1], 64); err != nil {
				return fmt.Errorf("invalid coordinate for node %d: %w", nodeID, err)
			}
		}
		mesh.NodeIDMap[nodeID] = i
	}
	mesh.NumVertices = numNodes
	return skipTo(scanner, "$EndNodes")
}

func readElements(scanner *bufio.Scanner, mesh *Mesh) error {
	numElems, err := readCount(scanner, "Elements")
	if err != nil {
		return err
	}
	for i := 0; i < numElems; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in Elements at element %d", i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return fmt.Errorf("invalid element entry at line %d", i+1)
		}
		gmshType, _ := strconv.Atoi(fields[1])
		numNodes, isTet := gmshTetTypes[gmshType]
		if !isTet {
			continue
		}
		elemID, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("invalid element ID: %w", err)
		}
		numTags, _ := strconv.Atoi(fields[2])
		offset := 3 + numTags
		if len(fields) < offset+numNodes {
			return fmt.Errorf("element %d: have %d fields, need %d", elemID, len(fields), offset+numNodes)
		}
		physTag := 0
		if numTags > 0 {
			physTag, _ = strconv.Atoi(fields[3])
		}
		if err = mesh.addTet(elemID, physTag, fields[offset:offset+4]); err != nil {
			return err
		}
	}
	mesh.NumElements = len(mesh.EtoV)
	return skipTo(scanner, "$EndElements")
}

func readCount(scanner *bufio.Scanner, section string) (n int, err error) {
	if !scanner.Scan() {
		return 0, fmt.Errorf("unexpected EOF in %s", section)
	}
	if n, err = strconv.Atoi(strings.TrimSpace(scanner.Text())); err != nil {
		return 0, fmt.Errorf("invalid number of %s: %w", strings.ToLower(section), err)
	}
	return
}

func skipTo(scanner *bufio.Scanner, end string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == end {
			return nil
		}
	}
	return fmt.Errorf("missing %s", end)
}

// addTet appends a tetrahedron given the Gmsh numbers of its corner nodes
func (mesh *Mesh) addTet(elemID, physTag int, nodeFields []string) error {
	verts := make([]int, 4)
	for j := range verts {
		nodeID, err := strconv.Atoi(nodeFields[j])
		if err != nil {
			return fmt.Errorf("element %d: invalid node: %w", elemID, err)
		}
		v, ok := mesh.NodeIDMap[nodeID]
		if !ok {
			return fmt.Errorf("element %d references unknown node %d", elemID, nodeID)
		}
		verts[j] = v
	}
	mesh.EtoV = append(mesh.EtoV, verts)
	mesh.ElementIDs = append(mesh.ElementIDs, elemID)
	mesh.ElementTags = append(mesh.ElementTags, physTag)
	return nil
}

func (mesh *Mesh) isVersion4() bool {
	return strings.HasPrefix(mesh.FormatVersion, "4")
}
