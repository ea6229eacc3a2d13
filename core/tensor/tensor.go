// Package tensor provides dense multi-dimensional float64 arrays with named
// dimensions. Parameter spaces and solution values are carried as tensors so
// that every quantity keeps its (scenario, year, step, technology, period)
// labeling through the build and harvest pipeline.
package tensor

import "fmt"

// Array is a dense row-major array with named dimensions.
type Array struct {
	dims    []string
	shape   []int
	strides []int
	data    []float64
}

// New creates a zero-filled array. Dims and shape must have equal length and
// every extent must be positive.
func New(dims []string, shape []int) *Array {
	if len(dims) != len(shape) {
		panic(fmt.Sprintf("tensor: %d dims for %d extents", len(dims), len(shape)))
	}
	size := 1
	for i, n := range shape {
		if n <= 0 {
			panic(fmt.Sprintf("tensor: dim %q has non-positive extent %d", dims[i], n))
		}
		size *= n
	}
	strides := make([]int, len(shape))
	s := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = s
		s *= shape[i]
	}
	return &Array{
		dims:    append([]string(nil), dims...),
		shape:   append([]int(nil), shape...),
		strides: strides,
		data:    make([]float64, size),
	}
}

// Scalar returns a zero-dimensional array holding a single value.
func Scalar(v float64) *Array {
	a := &Array{data: []float64{v}}
	return a
}

// Dims returns the dimension names.
func (a *Array) Dims() []string { return a.dims }

// Shape returns the extents per dimension.
func (a *Array) Shape() []int { return a.shape }

// Len returns the total number of elements.
func (a *Array) Len() int { return len(a.data) }

// Data exposes the backing slice in row-major order.
func (a *Array) Data() []float64 { return a.data }

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("tensor: %d indices for %d dims", len(idx), len(a.shape)))
	}
	off := 0
	for i, j := range idx {
		if j < 0 || j >= a.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dim %q (extent %d)", j, a.dims[i], a.shape[i]))
		}
		off += j * a.strides[i]
	}
	return off
}

// At returns the element at the given indices, one per dimension.
func (a *Array) At(idx ...int) float64 { return a.data[a.offset(idx)] }

// Set stores v at the given indices.
func (a *Array) Set(v float64, idx ...int) { a.data[a.offset(idx)] = v }

// Fill sets every element to v.
func (a *Array) Fill(v float64) {
	for i := range a.data {
		a.data[i] = v
	}
}

// Sum returns the sum of all elements.
func (a *Array) Sum() float64 {
	var s float64
	for _, v := range a.data {
		s += v
	}
	return s
}

// Max returns the largest element. Zero-length arrays cannot be constructed,
// so Max is always defined.
func (a *Array) Max() float64 {
	m := a.data[0]
	for _, v := range a.data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	cp := &Array{
		dims:    append([]string(nil), a.dims...),
		shape:   append([]int(nil), a.shape...),
		strides: append([]int(nil), a.strides...),
		data:    append([]float64(nil), a.data...),
	}
	return cp
}

// Equal reports whether b has the same dims, shape and values.
func (a *Array) Equal(b *Array) bool {
	if len(a.dims) != len(b.dims) || len(a.data) != len(b.data) {
		return false
	}
	for i := range a.dims {
		if a.dims[i] != b.dims[i] || a.shape[i] != b.shape[i] {
			return false
		}
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}
