package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/x448/float16"
)

func TestDataType_Size(t *testing.T) {
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 2, Float16.Size())
	assert.Equal(t, 4, Int32.Size())
	assert.Equal(t, 8, Int64.Size())
	assert.Panics(t, func() { DataType(99).Size() })
}

func TestDataType_StringRoundTrip(t *testing.T) {
	for _, dt := range []DataType{Float32, Float16, Int32, Int64} {
		got, ok := ParseDataType(dt.String())
		assert.True(t, ok, dt.String())
		assert.Equal(t, dt, got)
	}
	_, ok := ParseDataType("bfloat16")
	assert.False(t, ok)
	assert.Equal(t, "unknown", DataType(99).String())
}

func TestDataTypeOf(t *testing.T) {
	assert.Equal(t, Float32, DataTypeOf[float32]())
	assert.Equal(t, Float16, DataTypeOf[float16.Float16]())
	assert.Equal(t, Int32, DataTypeOf[int32]())
	assert.Equal(t, Int64, DataTypeOf[int64]())
}
