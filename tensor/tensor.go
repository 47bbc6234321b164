// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/strided/internal/tensor"
)

// DataType is the element type tag of a tensor.
type DataType = tensor.DataType

// Supported element types.
const (
	Float32 = tensor.Float32
	Float16 = tensor.Float16
	Int32   = tensor.Int32
	Int64   = tensor.Int64
)

// MaxRank is the largest rank a Descriptor may have.
const MaxRank = tensor.MaxRank

// Element is the constraint satisfied by Go types with a DataType.
type Element = tensor.Element

// Shape is a row-major list of extents.
type Shape = tensor.Shape

// Vec4 carries per-dimension extents or byte strides, innermost in X.
type Vec4 = tensor.Vec4

// Descriptor is the shape, byte strides and element type of a tensor.
//
// Example:
//
//	d := tensor.Descriptor{
//	    Shape:   tensor.Shape{4, 3},
//	    Strides: []uint{0, 4}, // every row reads the same 3 floats
//	    DType:   tensor.Float32,
//	}
type Descriptor = tensor.Descriptor

// Buffer is caller-owned memory and a byte offset into it.
type Buffer = tensor.Buffer

// Contiguous returns the packed row-major descriptor for shape.
func Contiguous(shape Shape, dtype DataType) Descriptor {
	return tensor.Contiguous(shape, dtype)
}

// NewBuffer allocates a zeroed buffer covering every byte d addresses.
func NewBuffer(d Descriptor) (Buffer, error) {
	return tensor.NewBuffer(d)
}

// ParseDataType returns the DataType named by name ("float32", "int64", ...).
func ParseDataType(name string) (DataType, bool) {
	return tensor.ParseDataType(name)
}

// DataTypeOf returns the DataType of T.
func DataTypeOf[T Element]() DataType {
	return tensor.DataTypeOf[T]()
}
