package mesh

// Small Gmsh 2.2 decks used by tests across packages

// SingleTetMsh is the reference tetrahedron with a boundary triangle that the
// reader skips.
const SingleTetMsh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$PhysicalNames
2
2 1 "wall"
3 2 "fluid"
$EndPhysicalNames
$Nodes
4
1 0 0 0
2 1 0 0
3 0 1 0
4 0 0 1
$EndNodes
$Elements
2
1 2 2 1 1 1 3 2
7 4 2 2 1 1 2 3 4
$EndElements
`

// TwoTetMsh is two tetrahedra sharing the face {2,3,4}
const TwoTetMsh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
5
1 0 0 0
2 1 0 0
3 0 1 0
4 0 0 1
5 1 1 1
$EndNodes
$Elements
2
10 4 2 2 1 1 2 3 4
11 4 2 2 1 2 3 4 5
$EndElements
`

// CubeMsh is the unit cube split into six tetrahedra around the 0-7 diagonal
const CubeMsh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
8
1 0 0 0
2 1 0 0
3 0 1 0
4 1 1 0
5 0 0 1
6 1 0 1
7 0 1 1
8 1 1 1
$EndNodes
$Elements
6
1 4 2 1 1 1 2 4 8
2 4 2 1 1 1 2 6 8
3 4 2 1 1 1 3 4 8
4 4 2 1 1 1 3 7 8
5 4 2 1 1 1 5 6 8
6 4 2 1 1 1 5 7 8
$EndElements
`

// TwoTetMsh41 is TwoTetMsh in Gmsh 4.1 format, with a boundary triangle block
// and the tetrahedra in volume entity 1 of physical group 5.
const TwoTetMsh41 = `$MeshFormat
4.1 0 8
$EndMeshFormat
$PhysicalNames
1
3 5 "air"
$EndPhysicalNames
$Entities
0 0 1 1
1 0 0 0 1 1 0 0 0
1 0 0 0 1 1 1 1 5 1 1
$EndEntities
$Nodes
2 5 1 5
2 1 0 4
1
2
3
4
0 0 0
1 0 0
0 1 0
0 0 1
3 1 0 1
5
1 1 1
$EndNodes
$Elements
2 3 1 8
2 1 2 1
1 1 2 3
3 1 4 2
7 1 2 3 4
8 2 3 4 5
$EndElements
`
