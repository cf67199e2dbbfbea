package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dense is a dense row-major tensor of float64 values. Rank 0 holds a single
// scalar value; media and parameter tensors use ranks 1 through 3.
//
// A Dense value is never mutated by package operations. Every operation
// returns a fresh tensor, so values can be shared freely across model
// declarations.
type Dense struct {
	shape  []int
	values []float64
}

// NewDense builds a tensor of the given shape from row-major values. An empty
// shape builds a rank-0 scalar holding exactly one value.
func NewDense(shape []int, values []float64) (*Dense, error) {
	n := 1
	for i, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("tensor dimension %d must be positive, got %d", i, dim)
		}
		n *= dim
	}
	if len(values) != n {
		return nil, fmt.Errorf("tensor shape %v holds %d values, got %d", shape, n, len(values))
	}
	return &Dense{
		shape:  append([]int(nil), shape...),
		values: append([]float64(nil), values...),
	}, nil
}

// Scalar wraps a single value as a rank-0 tensor.
func Scalar(value float64) *Dense {
	return &Dense{values: []float64{value}}
}

// FromVector builds a rank-1 tensor. It panics when no values are given.
func FromVector(values ...float64) *Dense {
	d, err := NewDense([]int{len(values)}, values)
	if err != nil {
		panic("tensor: " + err.Error())
	}
	return d
}

// FromMatrix builds a rank-2 tensor from rows. It panics when the rows are
// empty or ragged.
func FromMatrix(rows [][]float64) *Dense {
	if len(rows) == 0 || len(rows[0]) == 0 {
		panic("tensor: matrix must have at least one row and one column")
	}
	cols := len(rows[0])
	values := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			panic(fmt.Sprintf("tensor: row %d has %d values, want %d", i, len(row), cols))
		}
		values = append(values, row...)
	}
	return &Dense{shape: []int{len(rows), cols}, values: values}
}

// FromCube builds a rank-3 tensor from cells indexed [i][j][k]. It panics when
// the cells are empty or ragged.
func FromCube(cells [][][]float64) *Dense {
	if len(cells) == 0 || len(cells[0]) == 0 || len(cells[0][0]) == 0 {
		panic("tensor: cube must have at least one cell along every axis")
	}
	rows, cols := len(cells[0]), len(cells[0][0])
	values := make([]float64, 0, len(cells)*rows*cols)
	for i, plane := range cells {
		if len(plane) != rows {
			panic(fmt.Sprintf("tensor: plane %d has %d rows, want %d", i, len(plane), rows))
		}
		for j, row := range plane {
			if len(row) != cols {
				panic(fmt.Sprintf("tensor: row %d of plane %d has %d values, want %d", j, i, len(row), cols))
			}
			values = append(values, row...)
		}
	}
	return &Dense{shape: []int{len(cells), rows, cols}, values: values}
}

// Zeros builds a zero-filled tensor. It panics on a non-positive dimension.
func Zeros(shape ...int) *Dense {
	n := 1
	for i, dim := range shape {
		if dim <= 0 {
			panic(fmt.Sprintf("tensor: dimension %d must be positive, got %d", i, dim))
		}
		n *= dim
	}
	return &Dense{
		shape:  append([]int(nil), shape...),
		values: make([]float64, n),
	}
}

// Full builds a tensor with every element set to value. It panics on a
// non-positive dimension.
func Full(value float64, shape ...int) *Dense {
	d := Zeros(shape...)
	for i := range d.values {
		d.values[i] = value
	}
	return d
}

// Rank returns the number of axes. A scalar has rank 0.
func (d *Dense) Rank() int {
	return len(d.shape)
}

// Shape returns a copy of the dimensions along each axis.
func (d *Dense) Shape() []int {
	return append([]int(nil), d.shape...)
}

// Len returns the total number of elements.
func (d *Dense) Len() int {
	return len(d.values)
}

// At returns the element at the given index, one coordinate per axis. Like the
// mat package it panics on an index outside the tensor.
func (d *Dense) At(index ...int) float64 {
	if len(index) != len(d.shape) {
		panic(fmt.Sprintf("tensor: index %v does not address a rank-%d tensor", index, len(d.shape)))
	}
	offset := 0
	for i, v := range index {
		if v < 0 || v >= d.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", index, d.shape))
		}
		offset = offset*d.shape[i] + v
	}
	return d.values[offset]
}

// Raw returns the row-major backing slice. Callers must not modify it.
func (d *Dense) Raw() []float64 {
	return d.values
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	return &Dense{
		shape:  append([]int(nil), d.shape...),
		values: append([]float64(nil), d.values...),
	}
}

// ExpandTail returns a copy with a broadcast axis of size one appended, so a
// per-channel vector of shape (c) becomes (c, 1) and aligns against a geo axis.
func (d *Dense) ExpandTail() *Dense {
	out := d.Clone()
	out.shape = append(out.shape, 1)
	return out
}

// Map returns a copy with f applied to every element.
func (d *Dense) Map(f func(float64) float64) *Dense {
	out := d.Clone()
	for i, v := range out.values {
		out.values[i] = f(v)
	}
	return out
}

// EqualApprox reports whether the two tensors share a shape and every pair of
// elements is within the given absolute tolerance.
func (d *Dense) EqualApprox(o *Dense, tol float64) bool {
	return SameShape(d.shape, o.shape) && floats.EqualApprox(d.values, o.values, tol)
}

// Add returns the broadcast elementwise sum.
func (d *Dense) Add(o *Dense) (*Dense, error) {
	if SameShape(d.shape, o.shape) {
		out := d.Clone()
		floats.Add(out.values, o.values)
		return out, nil
	}
	return Zip(d, o, func(x, y float64) float64 { return x + y })
}

// Sub returns the broadcast elementwise difference.
func (d *Dense) Sub(o *Dense) (*Dense, error) {
	if SameShape(d.shape, o.shape) {
		out := d.Clone()
		floats.Sub(out.values, o.values)
		return out, nil
	}
	return Zip(d, o, func(x, y float64) float64 { return x - y })
}

// Mul returns the broadcast elementwise product.
func (d *Dense) Mul(o *Dense) (*Dense, error) {
	if SameShape(d.shape, o.shape) {
		out := d.Clone()
		floats.Mul(out.values, o.values)
		return out, nil
	}
	return Zip(d, o, func(x, y float64) float64 { return x * y })
}

// Div returns the broadcast elementwise quotient.
func (d *Dense) Div(o *Dense) (*Dense, error) {
	if SameShape(d.shape, o.shape) {
		out := d.Clone()
		floats.Div(out.values, o.values)
		return out, nil
	}
	return Zip(d, o, func(x, y float64) float64 { return x / y })
}

// BroadcastTo materializes the tensor at the given shape under right-aligned
// broadcasting, or fails when any axis disagrees and is not of size one.
func (d *Dense) BroadcastTo(shape []int) (*Dense, error) {
	common, err := broadcastShapes(d.shape, shape)
	if err != nil || !SameShape(common, shape) {
		return nil, fmt.Errorf("cannot broadcast shape %v to %v", d.shape, shape)
	}
	out := Zeros(shape...)
	strides := broadcastStrides(d.shape, shape)
	index := make([]int, len(shape))
	for i := range out.values {
		offset := 0
		for k, v := range index {
			offset += v * strides[k]
		}
		out.values[i] = d.values[offset]
		advance(index, shape)
	}
	return out, nil
}

// Zip combines two tensors elementwise under right-aligned broadcasting.
func Zip(a, b *Dense, f func(x, y float64) float64) (*Dense, error) {
	shape, err := broadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}
	out := Zeros(shape...)
	sa := broadcastStrides(a.shape, shape)
	sb := broadcastStrides(b.shape, shape)
	index := make([]int, len(shape))
	for i := range out.values {
		oa, ob := 0, 0
		for k, v := range index {
			oa += v * sa[k]
			ob += v * sb[k]
		}
		out.values[i] = f(a.values[oa], b.values[ob])
		advance(index, shape)
	}
	return out, nil
}

// Contract contracts weights against the channel axis of a, the second axis.
// For rank-2 a of shape (t, c) and rank-1 weights of shape (c) the result is
// out[t] = sum over c of a[t,c]*w[c]. For rank-3 a of shape (t, c, g) and
// rank-2 weights of shape (c, g) the result is out[t,g] = sum over c of
// a[t,c,g]*w[c,g].
func Contract(a, weights *Dense) (*Dense, error) {
	switch len(a.shape) {
	case 2:
		if len(weights.shape) != 1 || weights.shape[0] != a.shape[1] {
			return nil, fmt.Errorf("cannot contract weight shape %v against %v", weights.shape, a.shape)
		}
		rows, cols := a.shape[0], a.shape[1]
		var out mat.VecDense
		out.MulVec(mat.NewDense(rows, cols, a.values), mat.NewVecDense(cols, weights.values))
		return &Dense{
			shape:  []int{rows},
			values: append([]float64(nil), out.RawVector().Data...),
		}, nil
	case 3:
		if len(weights.shape) != 2 || weights.shape[0] != a.shape[1] || weights.shape[1] != a.shape[2] {
			return nil, fmt.Errorf("cannot contract weight shape %v against %v", weights.shape, a.shape)
		}
		rows, cols, geos := a.shape[0], a.shape[1], a.shape[2]
		out := Zeros(rows, geos)
		slab := make([]float64, rows*cols)
		column := make([]float64, cols)
		for g := 0; g < geos; g++ {
			for t := 0; t < rows; t++ {
				for c := 0; c < cols; c++ {
					slab[t*cols+c] = a.values[(t*cols+c)*geos+g]
				}
			}
			for c := 0; c < cols; c++ {
				column[c] = weights.values[c*geos+g]
			}
			var product mat.VecDense
			product.MulVec(mat.NewDense(rows, cols, slab), mat.NewVecDense(cols, column))
			for t := 0; t < rows; t++ {
				out.values[t*geos+g] = product.AtVec(t)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot contract the channel axis of a rank-%d tensor", len(a.shape))
	}
}

// broadcastShapes resolves the result shape of right-aligned broadcasting.
// Axes are compared from the trailing end; a missing or size-one axis adopts
// the other tensor's size.
func broadcastShapes(a, b []int) ([]int, error) {
	rank := len(a)
	if len(b) > rank {
		rank = len(b)
	}
	out := make([]int, rank)
	for i := 1; i <= rank; i++ {
		da, db := 1, 1
		if i <= len(a) {
			da = a[len(a)-i]
		}
		if i <= len(b) {
			db = b[len(b)-i]
		}
		switch {
		case da == db:
			out[rank-i] = da
		case da == 1:
			out[rank-i] = db
		case db == 1:
			out[rank-i] = da
		default:
			return nil, fmt.Errorf("cannot broadcast shapes %v and %v", a, b)
		}
	}
	return out, nil
}

// broadcastStrides returns row-major strides for reading src at every index of
// dst. Broadcast axes read with stride zero, repeating the source element.
func broadcastStrides(src, dst []int) []int {
	strides := make([]int, len(dst))
	stride := 1
	for i := len(src) - 1; i >= 0; i-- {
		j := len(dst) - len(src) + i
		if src[i] == dst[j] {
			strides[j] = stride
		}
		stride *= src[i]
	}
	return strides
}

func advance(index, shape []int) {
	for k := len(index) - 1; k >= 0; k-- {
		index[k]++
		if index[k] < shape[k] {
			return
		}
		index[k] = 0
	}
}

// SameShape reports whether two shapes agree axis by axis.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
