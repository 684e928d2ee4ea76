package utils

import (
	"gonum.org/v1/gonum/mat"
)

// Minus subtracts b from a in place over the length of a.
func Minus(a, b []float64) {
	for i := range a {
		a[i] -= b[i]
	}
}

// PlusTimes accumulates a*y into x (axpy).
func PlusTimes(x, y []float64, a float64) {
	for i := range x {
		x[i] += a * y[i]
	}
}

// LinEq solves M x = b with the LU factors of M, then updates the element
// block u in place:
//
//	u = dt * x + beta * u
//
// x is caller owned scratch of len(b). lu must come from NewLU, which refuses
// matrices that are singular to working precision, so the condition returned
// by the solve is not checked again here.
func LinEq(lu *mat.LU, b, x, u []float64, dt, beta float64) {
	var (
		n  = len(b)
		bV = mat.NewVecDense(n, b)
		xV = mat.NewVecDense(n, x)
	)
	_ = lu.SolveVecTo(xV, false, bV)
	for i := 0; i < n; i++ {
		u[i] = dt*x[i] + beta*u[i]
	}
}

// NewLU factors the row-major n x n matrix in data. A matrix whose condition
// number exceeds mat.ConditionTolerance is returned with a mat.Condition error.
func NewLU(n int, data []float64) (lu *mat.LU, err error) {
	lu = &mat.LU{}
	lu.Factorize(mat.NewDense(n, n, data))
	if cond := lu.Cond(); !(cond <= mat.ConditionTolerance) {
		err = mat.Condition(cond)
	}
	return
}
