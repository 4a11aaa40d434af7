package dataset

// Matrix is a row-major batch of observations: each row holds one observation
// across a fixed number of dimensions. A Matrix is produced fresh by every
// generator invocation and is never mutated after creation; trials own their
// matrices exclusively.
type Matrix [][]float64

// Rows returns the number of observations.
func (m Matrix) Rows() int {
	return len(m)
}

// Width returns the dimensionality (0 for an empty matrix).
func (m Matrix) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Column extracts one dimension as a flat slice. The caller gets a fresh
// slice; the matrix is not aliased.
func (m Matrix) Column(dim int) []float64 {
	col := make([]float64, len(m))
	for i, row := range m {
		col[i] = row[dim]
	}
	return col
}
