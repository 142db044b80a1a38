package errors

import (
	"fmt"
	"math"
)

// CheckValues returns a ValueError if any value is NaN or Inf.
func CheckValues(operation string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValueError(operation, fmt.Sprintf("non-finite value at index %d", i))
		}
	}
	return nil
}

// CheckMatrix returns a ValueError if any element of the matrix is NaN or Inf.
// The encoded genotype matrix must be finite before it reaches a classifier.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewValueError(operation, fmt.Sprintf("non-finite value at (%d, %d)", i, j))
			}
		}
	}
	return nil
}
