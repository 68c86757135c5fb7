// Package npy loads NumPy .npy array files and narrows their contents to
// 8-bit pixel data.
//
// Header and payload decoding is delegated to github.com/sbinet/npyio; this
// package adds the element-type dispatch, the uint8 narrowing, and the
// Fortran-order normalization needed before the data can be rasterized.
package npy

import (
	"fmt"
	"os"
	"reflect"

	"github.com/sbinet/npyio"
)

// Array is a decoded .npy file with its elements narrowed to uint8.
// Data is always C order (row-major) regardless of the on-disk layout.
type Array struct {
	Shape []int
	DType string // NumPy descriptor string, e.g. "<u2" or "|u1".
	Data  []uint8
}

// IsRGB reports whether the array holds a 3-channel raster image:
// exactly three dimensions with three channels in the last.
func (a *Array) IsRGB() bool {
	return len(a.Shape) == 3 && a.Shape[2] == 3
}

// Load reads the .npy file at path and returns its shape, dtype, and
// uint8-narrowed contents. Integer elements wrap modulo 256; float elements
// are truncated toward zero first. Returns an error for unreadable files,
// malformed headers, truncated payloads, and non-numeric dtypes.
func Load(path string) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read npy header: %w", err)
	}

	shape := r.Header.Descr.Shape
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("invalid npy shape %v", shape)
		}
		n *= dim
	}

	data, err := readNarrowed(r, n)
	if err != nil {
		return nil, err
	}

	if r.Header.Descr.Fortran && len(shape) > 1 {
		data = fortranToC(data, shape)
	}

	return &Array{Shape: shape, DType: r.Header.Descr.Type, Data: data}, nil
}

// readNarrowed dispatches on the header dtype, reads the full payload, and
// narrows every element to uint8.
func readNarrowed(r *npyio.Reader, n int) ([]uint8, error) {
	dtype := r.Header.Descr.Type
	rt := npyio.TypeFrom(dtype)
	if rt == nil {
		return nil, fmt.Errorf("unsupported npy dtype %q", dtype)
	}

	switch rt.Kind() {
	case reflect.Bool:
		return readBools(r, n)
	case reflect.Uint8:
		return readInts[uint8](r, n)
	case reflect.Uint16:
		return readInts[uint16](r, n)
	case reflect.Uint32:
		return readInts[uint32](r, n)
	case reflect.Uint64:
		return readInts[uint64](r, n)
	case reflect.Int8:
		return readInts[int8](r, n)
	case reflect.Int16:
		return readInts[int16](r, n)
	case reflect.Int32:
		return readInts[int32](r, n)
	case reflect.Int64:
		return readInts[int64](r, n)
	case reflect.Float32:
		return readFloats[float32](r, n)
	case reflect.Float64:
		return readFloats[float64](r, n)
	default:
		return nil, fmt.Errorf("npy dtype %q is not numeric", dtype)
	}
}

// readInts reads n integer elements and wraps each modulo 256.
func readInts[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](r *npyio.Reader, n int) ([]uint8, error) {
	buf := make([]T, n)
	if err := r.Read(&buf); err != nil {
		return nil, fmt.Errorf("read npy data: %w", err)
	}
	out := make([]uint8, n)
	for i, v := range buf {
		out[i] = uint8(v)
	}
	return out, nil
}

// readFloats reads n float elements, truncates each toward zero, then wraps
// modulo 256. The intermediate int64 keeps the out-of-range behavior defined;
// a direct float-to-uint8 conversion would not be.
func readFloats[T float32 | float64](r *npyio.Reader, n int) ([]uint8, error) {
	buf := make([]T, n)
	if err := r.Read(&buf); err != nil {
		return nil, fmt.Errorf("read npy data: %w", err)
	}
	out := make([]uint8, n)
	for i, v := range buf {
		out[i] = uint8(int64(v))
	}
	return out, nil
}

// readBools reads n booleans as 0/1.
func readBools(r *npyio.Reader, n int) ([]uint8, error) {
	buf := make([]bool, n)
	if err := r.Read(&buf); err != nil {
		return nil, fmt.Errorf("read npy data: %w", err)
	}
	out := make([]uint8, n)
	for i, v := range buf {
		if v {
			out[i] = 1
		}
	}
	return out, nil
}

// fortranToC reorders a column-major payload into row-major order so that
// the logical element (i0, i1, ..., ik) always sits at the C offset
// ((i0*s1+i1)*s2+...)+ik.
func fortranToC(data []uint8, shape []int) []uint8 {
	out := make([]uint8, len(data))
	idx := make([]int, len(shape))
	for c := range out {
		f := 0
		stride := 1
		for d := 0; d < len(shape); d++ {
			f += idx[d] * stride
			stride *= shape[d]
		}
		out[c] = data[f]

		// Advance the logical index, last dimension fastest.
		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}
