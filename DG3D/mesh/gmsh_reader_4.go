package mesh

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// readEntities4 keeps the physical tags of the volume entities, which is
// where Gmsh 4 stores the physical group of each tetrahedron.
func readEntities4(scanner *bufio.Scanner, volumes map[int][]int) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Entities")
	}
	// numPoints numCurves numSurfaces numVolumes
	counts := strings.Fields(scanner.Text())
	if len(counts) < 4 {
		return fmt.Errorf("invalid entity counts")
	}
	var numLower int
	for i := 0; i < 3; i++ {
		n, _ := strconv.Atoi(counts[i])
		numLower += n
	}
	numVolumes, _ := strconv.Atoi(counts[3])
	for i := 0; i < numLower; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in Entities")
		}
	}
	for i := 0; i < numVolumes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in volume entities")
		}
		// tag minX minY minZ maxX maxY maxZ numPhysicalTags physicalTag ... numBoundingSurfaces ...
		fields := strings.Fields(scanner.Text())
		if len(fields) < 8 {
			return fmt.Errorf("invalid volume entity")
		}
		tag, _ := strconv.Atoi(fields[0])
		numPhysTags, _ := strconv.Atoi(fields[7])
		if len(fields) < 8+numPhysTags {
			return fmt.Errorf("volume entity %d: missing physical tags", tag)
		}
		physTags := make([]int, numPhysTags)
		for j := range physTags {
			physTags[j], _ = strconv.Atoi(fields[8+j])
		}
		volumes[tag] = physTags
	}
	return skipTo(scanner, "$EndEntities")
}

func readNodes4(scanner *bufio.Scanner, mesh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}
	// numEntityBlocks numNodes minNodeTag maxNodeTag
	header := strings.Fields(scanner.Text())
	if len(header) < 4 {
		return fmt.Errorf("invalid Nodes header")
	}
	numEntityBlocks, _ := strconv.Atoi(header[0])
	totalNodes, _ := strconv.Atoi(header[1])
	mesh.Vertices = make([][3]float64, 0, totalNodes)

	for i := 0; i < numEntityBlocks; i++ {
		// entityDim entityTag parametric numNodesInBlock
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in node entity block %d", i)
		}
		blockHeader := strings.Fields(scanner.Text())
		if len(blockHeader) < 4 {
			return fmt.Errorf("invalid node block header")
		}
		numNodesInBlock, _ := strconv.Atoi(blockHeader[3])

		nodeTags := make([]int, numNodesInBlock)
		for j := range nodeTags {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading node tags")
			}
			var err error
			if nodeTags[j], err = strconv.Atoi(strings.TrimSpace(scanner.Text())); err != nil {
				return fmt.Errorf("invalid node ID: %w", err)
			}
		}
		for j := 0; j < numNodesInBlock; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading node coordinates")
			}
			// x y z, followed by parametric coordinates that are not used
			fields := strings.Fields(scanner.Text())
			if len(fields) < 3 {
				return fmt.Errorf("invalid coordinates for node %d", nodeTags[j])
			}
			var (
				x   [3]float64
				err error
			)
			for k := 0; k < 3; k++ {
				if x[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
					return fmt.Errorf("invalid coordinate for node %d: %w", nodeTags[j], err)
				}
			}
			mesh.NodeIDMap[nodeTags[j]] = len(mesh.Vertices)
			mesh.Vertices = append(mesh.Vertices, x)
		}
	}
	mesh.NumVertices = len(mesh.Vertices)
	return skipTo(scanner, "$EndNodes")
}

func readElements4(scanner *bufio.Scanner, mesh *Mesh, volumes map[int][]int) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}
	// numEntityBlocks numElements minElementTag maxElementTag
	header := strings.Fields(scanner.Text())
	if len(header) < 4 {
		return fmt.Errorf("invalid Elements header")
	}
	numEntityBlocks, _ := strconv.Atoi(header[0])

	for i := 0; i < numEntityBlocks; i++ {
		// entityDim entityTag elementType numElementsInBlock
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in element entity block %d", i)
		}
		blockHeader := strings.Fields(scanner.Text())
		if len(blockHeader) < 4 {
			return fmt.Errorf("invalid element block header")
		}
		entityTag, _ := strconv.Atoi(blockHeader[1])
		gmshType, _ := strconv.Atoi(blockHeader[2])
		numElemsInBlock, _ := strconv.Atoi(blockHeader[3])

		numNodes, isTet := gmshTetTypes[gmshType]
		if !isTet {
			for j := 0; j < numElemsInBlock; j++ {
				if !scanner.Scan() {
					return fmt.Errorf("unexpected EOF in element entity block %d", i)
				}
			}
			continue
		}
		physTag := 0
		if tags := volumes[entityTag]; len(tags) > 0 {
			physTag = tags[0]
		}
		for j := 0; j < numElemsInBlock; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading elements")
			}
			// elementTag nodeTag ...
			fields := strings.Fields(scanner.Text())
			if len(fields) < 1+numNodes {
				return fmt.Errorf("invalid element line: expected %d fields, got %d", 1+numNodes, len(fields))
			}
			elemID, err := strconv.Atoi(fields[0])
			if err != nil {
				return fmt.Errorf("invalid element ID: %w", err)
			}
			if err = mesh.addTet(elemID, physTag, fields[1:5]); err != nil {
				return err
			}
		}
	}
	mesh.NumElements = len(mesh.EtoV)
	return skipTo(scanner, "$EndElements")
}
