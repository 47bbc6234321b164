// Package selftest checks the kernel core end to end on a stream.
package selftest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/born-ml/strided/internal/device"
	"github.com/born-ml/strided/internal/dispatch"
	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/internal/strided"
	"github.com/born-ml/strided/internal/tensor"
)

// ErrMismatch is wrapped by every failed check.
var ErrMismatch = errors.New("selftest: mismatch")

// Result is the outcome of one check.
type Result struct {
	Name string
	Err  error
}

// Check is a named property exercised on a stream.
type Check struct {
	Name string
	Run  func(ctx context.Context, s *device.Stream, block grid.Dim3) error
}

// Checks returns every check in the order Run executes them.
func Checks() []Check {
	return []Check{
		{"cast_int_round_trip", castRoundTrip},
		{"cast_floor", castFloor},
		{"tile_wraparound", tileWraparound},
		{"gather_axis0_permutation", gatherPermutation},
		{"cast_wide_equivalence", castWideEquivalence},
		{"grid_coverage", gridCoverage},
	}
}

// Run executes all checks on s using block as the launch hint.
func Run(ctx context.Context, s *device.Stream, block grid.Dim3) []Result {
	return lo.Map(Checks(), func(c Check, _ int) Result {
		return Result{Name: c.Name, Err: c.Run(ctx, s, block)}
	})
}

// Failed returns the number of results carrying an error.
func Failed(results []Result) int {
	return lo.CountBy(results, func(r Result) bool { return r.Err != nil })
}

func alloc(shape tensor.Shape, dt tensor.DataType) (tensor.Buffer, tensor.Descriptor) {
	d := tensor.Contiguous(shape, dt)
	buf, err := tensor.NewBuffer(d)
	if err != nil {
		panic(err)
	}
	return buf, d
}

func expect[T comparable](what string, want, got []T) error {
	if !slices.Equal(want, got) {
		return fmt.Errorf("%w: %s: want %v, got %v", ErrMismatch, what, want, got)
	}
	return nil
}

func cast(ctx context.Context, s *device.Stream, block grid.Dim3, in tensor.Buffer, inDesc tensor.Descriptor, to tensor.DataType) (tensor.Buffer, error) {
	out, outDesc := alloc(inDesc.Shape, to)
	dispatch.Cast(s, dispatch.CastParams{
		Global: dispatch.Extent(outDesc), Local: block,
		InType: inDesc.DType, OutType: to,
		In: in, InStride: inDesc.Stride4(),
		Out: out, OutStride: outDesc.Stride4(),
	})
	return out, s.Synchronize(ctx)
}

func castRoundTrip(ctx context.Context, s *device.Stream, block grid.Dim3) error {
	vals := []int32{math.MinInt32, -7, -1, 0, 1, 42, 1 << 20, math.MaxInt32}
	in, inDesc := alloc(tensor.Shape{len(vals)}, tensor.Int32)
	copy(in.Int32s(), vals)

	wide, err := cast(ctx, s, block, in, inDesc, tensor.Int64)
	if err != nil {
		return err
	}
	back, err := cast(ctx, s, block, wide, tensor.Contiguous(inDesc.Shape, tensor.Int64), tensor.Int32)
	if err != nil {
		return err
	}
	return expect("int32 -> int64 -> int32", vals, back.Int32s())
}

func castFloor(ctx context.Context, s *device.Stream, block grid.Dim3) error {
	in, inDesc := alloc(tensor.Shape{2}, tensor.Float32)
	copy(in.Float32s(), []float32{2.7, -2.7})

	out32, err := cast(ctx, s, block, in, inDesc, tensor.Int32)
	if err != nil {
		return err
	}
	out64, err := cast(ctx, s, block, in, inDesc, tensor.Int64)
	if err != nil {
		return err
	}
	return errors.Join(
		expect("float32 -> int32", []int32{2, -3}, out32.Int32s()),
		expect("float32 -> int64", []int64{2, -3}, out64.Int64s()),
	)
}

func tileWraparound(ctx context.Context, s *device.Stream, block grid.Dim3) error {
	in, inDesc := alloc(tensor.Shape{1, 3, 2}, tensor.Float32) // extents {2,3,1}
	for i := range in.Float32s() {
		in.Float32s()[i] = float32(i + 1)
	}
	out, outDesc := alloc(tensor.Shape{4, 6, 6}, tensor.Float32) // extents {6,6,4}

	dispatch.Tile(s, dispatch.TileParams{
		Global: dispatch.Extent(outDesc), Local: block, Type: tensor.Float32,
		In: in, InStride: inDesc.Stride4(), InDims: inDesc.Dims(),
		Out: out, OutStride: outDesc.Stride4(),
	})
	if err := s.Synchronize(ctx); err != nil {
		return err
	}

	src := strided.NewView[float32](in, inDesc.Stride4())
	dst := strided.NewView[float32](out, outDesc.Stride4())
	var want, got []float32
	for z := range uint(4) {
		for y := range uint(6) {
			for x := range uint(6) {
				want = append(want, src.At(x%2, y%3, 0))
				got = append(got, dst.At(x, y, z))
			}
		}
	}
	return expect("tile {2,3,1} -> {6,6,4}", want, got)
}

func gatherPermutation(ctx context.Context, s *device.Stream, block grid.Dim3) error {
	in, inDesc := alloc(tensor.Shape{4, 3}, tensor.Float32) // X=3, Y=4
	for i := range in.Float32s() {
		in.Float32s()[i] = float32(i)
	}
	perm := []int32{3, 0, 2, 1}
	ind, indDesc := alloc(tensor.Shape{4}, tensor.Int32)
	copy(ind.Int32s(), perm)
	out, outDesc := alloc(tensor.Shape{4, 3}, tensor.Float32)

	dispatch.Gather(s, dispatch.GatherParams{
		Global: dispatch.Extent(outDesc), Local: block, Type: tensor.Float32,
		In: in, InStride: inDesc.Stride4(),
		Indices: ind, IndicesStride: indDesc.Stride4(),
		Out: out, OutStride: outDesc.Stride4(),
	})
	if err := s.Synchronize(ctx); err != nil {
		return err
	}

	var want []float32
	for _, p := range perm {
		row := in.Float32s()[p*3 : p*3+3]
		want = append(want, row...)
	}
	return expect("gather axis 0", want, out.Float32s())
}

func castWideEquivalence(ctx context.Context, s *device.Stream, block grid.Dim3) error {
	var errs []error
	for _, shape := range []tensor.Shape{{3, 8}, {5, 3}, {2, 2, 4}, {7}} {
		in, inDesc := alloc(shape, tensor.Float32)
		want := make([]int32, shape.NumElements())
		for i := range in.Float32s() {
			v := float32(i)*0.75 - 4.3
			in.Float32s()[i] = v
			want[i] = int32(math.Floor(float64(v)))
		}
		wide := dispatch.WideEligible(dispatch.Extent(inDesc))
		if wide != (shape.NumElements()%4 == 0) {
			errs = append(errs, fmt.Errorf("%w: shape %v: wide path selected=%v", ErrMismatch, shape, wide))
			continue
		}
		out, err := cast(ctx, s, block, in, inDesc, tensor.Int32)
		if err != nil {
			return err
		}
		errs = append(errs, expect(fmt.Sprintf("cast %v (wide=%v)", shape, wide), want, out.Int32s()))
	}
	return errors.Join(errs...)
}

// gridCoverage launches a marking kernel over an extent that is not a
// multiple of the block and checks every unit ran exactly once.
func gridCoverage(ctx context.Context, s *device.Stream, block grid.Dim3) error {
	extent := grid.Dim3{X: block.X*2 + 1, Y: block.Y + 1, Z: 3}
	g := grid.Size(extent, block)
	if g.X*block.X < extent.X || g.Y*block.Y < extent.Y || g.Z*block.Z < extent.Z {
		return fmt.Errorf("%w: grid %v does not cover %v", ErrMismatch, g, extent)
	}

	out, outDesc := alloc(tensor.Shape{int(extent.Z), int(extent.Y), int(extent.X)}, tensor.Int32)
	mark := kernel.Kernel{Name: "coverage", Body: func(a *kernel.Args, idx grid.Index) {
		off := strided.Offset(a.Out.Offset, idx.Global(), a.OutStride)
		strided.Store(a.Out.Data, off, strided.Load[int32](a.Out.Data, off)+1)
	}}
	s.Submit(launch.New(mark, kernel.Args{Out: out, OutStride: outDesc.Stride4()}, extent, block))
	if err := s.Synchronize(ctx); err != nil {
		return err
	}

	want := make([]int32, outDesc.NumElements())
	for i := range want {
		want[i] = 1
	}
	return expect("units per element", want, out.Int32s())
}
