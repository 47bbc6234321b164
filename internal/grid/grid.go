// Package grid describes execution grids: how a logical output extent is
// covered by blocks of parallel execution units.
package grid

// Dim3 is a three-component extent or coordinate, X innermost.
type Dim3 struct {
	X, Y, Z uint
}

// Size returns the number of points in the extent.
func (d Dim3) Size() uint {
	return d.X * d.Y * d.Z
}

// Contains reports whether coordinate c lies inside extent d.
func (d Dim3) Contains(c Dim3) bool {
	return c.X < d.X && c.Y < d.Y && c.Z < d.Z
}

// Index identifies one execution unit within a launch.
type Index struct {
	Block    Dim3 // Block coordinate within the grid.
	Thread   Dim3 // Unit coordinate within the block.
	BlockDim Dim3
	GridDim  Dim3
}

// Global returns the unit's coordinate in the global index space.
func (i Index) Global() Dim3 {
	return Dim3{
		X: i.Block.X*i.BlockDim.X + i.Thread.X,
		Y: i.Block.Y*i.BlockDim.Y + i.Thread.Y,
		Z: i.Block.Z*i.BlockDim.Z + i.Thread.Z,
	}
}

// Size returns the grid needed to cover global with blocks of local units:
// ceil(global/local) independently per dimension.
// A zero local component is treated as 1.
func Size(global, local Dim3) Dim3 {
	local = Normalize(local)
	return Dim3{
		X: ceilDiv(global.X, local.X),
		Y: ceilDiv(global.Y, local.Y),
		Z: ceilDiv(global.Z, local.Z),
	}
}

// Normalize replaces zero components with 1.
func Normalize(d Dim3) Dim3 {
	return Dim3{X: max(d.X, 1), Y: max(d.Y, 1), Z: max(d.Z, 1)}
}

// Unflatten converts a linear index into a coordinate inside extent d,
// X varying fastest.
func Unflatten(linear uint, d Dim3) Dim3 {
	plane := d.X * d.Y
	return Dim3{
		X: linear % d.X,
		Y: (linear % plane) / d.X,
		Z: linear / plane,
	}
}

func ceilDiv(a, b uint) uint {
	return (a + b - 1) / b
}
