package specs

import "fmt"

// TensorSpec carries a dense numeric tensor across the API boundary using only
// primitive types: a shape and the values laid out in row-major order.
//
// Axis convention for model inputs:
//   - Media, national: (time, channel)
//   - Media, geo: (time, channel, geo)
//   - Target, national: (time)
//   - Target, geo: (time, geo)
//   - Per-channel priors: (channel)
//
// An empty shape denotes a rank-0 scalar holding exactly one value.
type TensorSpec struct {
	// Size of each axis, leading axis first.
	//
	// Every dimension must be positive. Examples: [52, 3] for a year of
	// weekly national media over three channels, [52, 3, 5] for the same
	// across five geos.
	Shape []int `json:"shape"`

	// Element values in row-major order.
	//
	// The length must equal the product of the dimensions in Shape.
	Values []float64 `json:"values"`
}

// NewVectorSpec creates a rank-1 tensor spec from values.
func NewVectorSpec(values ...float64) TensorSpec {
	return TensorSpec{Shape: []int{len(values)}, Values: values}
}

// NewMatrixSpec creates a rank-2 tensor spec from rows.
//
// Returns error if the rows are empty or ragged.
func NewMatrixSpec(rows [][]float64) (TensorSpec, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return TensorSpec{}, fmt.Errorf("matrix spec: needs at least one row and one column")
	}
	cols := len(rows[0])
	values := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return TensorSpec{}, fmt.Errorf("matrix spec: row %d has %d values, want %d", i, len(row), cols)
		}
		values = append(values, row...)
	}
	return TensorSpec{Shape: []int{len(rows), cols}, Values: values}, nil
}

// NewCubeSpec creates a rank-3 tensor spec from cells indexed [i][j][k].
//
// Returns error if the cells are empty or ragged.
func NewCubeSpec(cells [][][]float64) (TensorSpec, error) {
	if len(cells) == 0 || len(cells[0]) == 0 || len(cells[0][0]) == 0 {
		return TensorSpec{}, fmt.Errorf("cube spec: needs at least one cell along every axis")
	}
	rows, cols := len(cells[0]), len(cells[0][0])
	values := make([]float64, 0, len(cells)*rows*cols)
	for i, plane := range cells {
		if len(plane) != rows {
			return TensorSpec{}, fmt.Errorf("cube spec: plane %d has %d rows, want %d", i, len(plane), rows)
		}
		for j, row := range plane {
			if len(row) != cols {
				return TensorSpec{}, fmt.Errorf("cube spec: row %d of plane %d has %d values, want %d", j, i, len(row), cols)
			}
			values = append(values, row...)
		}
	}
	return TensorSpec{Shape: []int{len(cells), rows, cols}, Values: values}, nil
}
