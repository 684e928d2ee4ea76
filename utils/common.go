package utils

const (
	NODETOL = 1.e-12
)

// BLASImplementation names the BLAS backing gonum, reported in run banners.
var BLASImplementation = "gonum"
