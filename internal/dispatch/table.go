// Package dispatch selects a specialized kernel for an operation, computes
// launch geometry and submits the launch.
package dispatch

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/x448/float16"

	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/tensor"
)

// Op is the kind of operation a kernel implements.
type Op int

// Supported operations.
const (
	OpGather Op = iota
	OpTile
	OpCast
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpGather:
		return "gather"
	case OpTile:
		return "tile"
	case OpCast:
		return "cast"
	default:
		return "unknown"
	}
}

// Key identifies one kernel specialization. Gather and Tile use the same
// type for In and Out.
type Key struct {
	Op   Op
	In   tensor.DataType
	Out  tensor.DataType
	Wide bool
}

func (k Key) String() string {
	s := fmt.Sprintf("%s_%s_%s", k.Op, k.In, k.Out)
	if k.Wide {
		s += "_v"
	}
	return s
}

var table = map[Key]kernel.Kernel{}

func register(k Key, body kernel.Body) {
	table[k] = kernel.Kernel{Name: k.String(), Body: body, Wide: k.Wide}
}

func init() {
	register(Key{OpGather, tensor.Float32, tensor.Float32, false}, kernel.Gather[float32]())
	register(Key{OpGather, tensor.Float16, tensor.Float16, false}, kernel.Gather[float16.Float16]())

	register(Key{OpTile, tensor.Float32, tensor.Float32, false}, kernel.Tile[float32]())
	register(Key{OpTile, tensor.Float16, tensor.Float16, false}, kernel.Tile[float16.Float16]())

	register(Key{OpCast, tensor.Float32, tensor.Int32, false}, kernel.Cast(kernel.FloorInt32))
	register(Key{OpCast, tensor.Float32, tensor.Int64, false}, kernel.Cast(kernel.FloorInt64))
	register(Key{OpCast, tensor.Float32, tensor.Float32, false}, kernel.Cast(kernel.Identity))
	register(Key{OpCast, tensor.Int32, tensor.Int64, false}, kernel.Cast(kernel.Widen))
	register(Key{OpCast, tensor.Int64, tensor.Int32, false}, kernel.Cast(kernel.Narrow))

	register(Key{OpCast, tensor.Float32, tensor.Int32, true}, kernel.CastWide(kernel.FloorInt32))
	register(Key{OpCast, tensor.Float32, tensor.Int64, true}, kernel.CastWide(kernel.FloorInt64))
	register(Key{OpCast, tensor.Float32, tensor.Float32, true}, kernel.CastWide(kernel.Identity))
	register(Key{OpCast, tensor.Int32, tensor.Int64, true}, kernel.CastWide(kernel.Widen))
	register(Key{OpCast, tensor.Int64, tensor.Int32, true}, kernel.CastWide(kernel.Narrow))
}

// Lookup returns the kernel registered for k.
func Lookup(k Key) (kernel.Kernel, bool) {
	kn, ok := table[k]
	return kn, ok
}

// Supported reports whether op has a kernel for the type pair. Callers use
// it to validate requests before dispatch, which does not.
func Supported(op Op, in, out tensor.DataType) bool {
	_, ok := table[Key{Op: op, In: in, Out: out}]
	return ok
}

// Keys returns every registered key in a stable order.
func Keys() []Key {
	keys := lo.Keys(table)
	slices.SortFunc(keys, func(a, b Key) int {
		return cmp.Or(
			cmp.Compare(a.Op, b.Op),
			cmp.Compare(a.In, b.In),
			cmp.Compare(a.Out, b.Out),
			cmp.Compare(lo.Ternary(a.Wide, 1, 0), lo.Ternary(b.Wide, 1, 0)),
		)
	})
	return keys
}

// Kernels returns the names of every registered kernel in key order.
func Kernels() []string {
	return lo.Map(Keys(), func(k Key, _ int) string { return k.String() })
}
