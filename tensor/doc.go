// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor describes strided tensors as the kernel core sees them.
//
// # Overview
//
// A tensor is a caller-owned byte buffer plus a descriptor:
//   - Shape: row-major extents, outermost first, at most MaxRank of them
//   - Strides: byte distance between neighbours in each dimension
//   - DType: one of Float32, Float16, Int32, Int64
//
// Strides may be zero, which broadcasts a dimension. Kernels see extents
// and strides as a Vec4 with the innermost dimension in X.
//
// # Basic Usage
//
//	d := tensor.Contiguous(tensor.Shape{2, 3}, tensor.Float32)
//	buf, _ := tensor.NewBuffer(d)
//	copy(buf.Float32s(), []float32{1, 2, 3, 4, 5, 6})
//
//	d.Dims()    // {X: 3, Y: 2, Z: 1, W: 1}
//	d.Stride4() // {X: 4, Y: 12}
package tensor
