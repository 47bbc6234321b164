// Package tensor provides the descriptor, buffer and element types shared by
// the strided kernel core.
package tensor

import "github.com/x448/float16"

// Element is a constraint for the element types kernels can load and store.
type Element interface {
	~float32 | ~int32 | ~int64 | float16.Float16
}

// DataType represents runtime type information for tensor elements.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float16
	Int32
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Int64:
		return 8
	case Float16:
		return 2
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// ParseDataType maps a type name as produced by String back to a DataType.
func ParseDataType(name string) (DataType, bool) {
	for _, dt := range []DataType{Float32, Float16, Int32, Int64} {
		if dt.String() == name {
			return dt, true
		}
	}
	return 0, false
}

// DataTypeOf infers the DataType for a generic element type T.
func DataTypeOf[T Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float16.Float16:
		return Float16
	case int32:
		return Int32
	case int64:
		return Int64
	default:
		panic("unsupported type")
	}
}
