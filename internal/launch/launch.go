// Package launch describes a single kernel launch and runs it on the host.
package launch

import (
	"errors"
	"fmt"

	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/parallel"
)

// Launch is one kernel invocation over a grid of blocks.
type Launch struct {
	Kernel kernel.Kernel
	Args   kernel.Args

	Grid      grid.Dim3
	Block     grid.Dim3
	SharedMem uint

	// Extent is the global index space the launch covers. Units of the last
	// block in a dimension that fall outside it are not run.
	Extent grid.Dim3
}

// New builds a launch covering extent with blocks of size local.
func New(k kernel.Kernel, args kernel.Args, extent, local grid.Dim3) Launch {
	block := grid.Normalize(local)
	return Launch{
		Kernel: k,
		Args:   args,
		Grid:   grid.Size(extent, block),
		Block:  block,
		Extent: extent,
	}
}

// Submitter enqueues launches. Submit returns without waiting for the launch
// to execute.
type Submitter interface {
	Submit(l Launch)
}

// Executor runs a launch to completion.
type Executor interface {
	Run(l Launch) error
	Name() string
}

// Fault reports a launch that failed while executing.
type Fault struct {
	Kernel string
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("kernel %s: %v", f.Kernel, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// IsFault reports whether err carries a launch fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}

// Engine executes launches on host goroutines, one parallel item per block.
type Engine struct {
	cfg parallel.Config
}

// NewEngine creates a host engine.
func NewEngine(cfg parallel.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Name returns the executor name.
func (e *Engine) Name() string { return "cpu" }

// Run executes every unit of l. Units within a block run sequentially;
// blocks run in parallel in no particular order.
func (e *Engine) Run(l Launch) error {
	if l.Grid.Size() == 0 || l.Block.Size() == 0 || l.Kernel.Body == nil {
		return nil
	}
	args := l.Args
	body := l.Kernel.Body
	blockSize := l.Block.Size()

	err := parallel.ForBlocks(int(l.Grid.X), int(l.Grid.Y), int(l.Grid.Z), func(bx, by, bz int) {
		idx := grid.Index{
			//nolint:gosec // G115: block coordinates are bounded by the grid.
			Block:    grid.Dim3{X: uint(bx), Y: uint(by), Z: uint(bz)},
			BlockDim: l.Block,
			GridDim:  l.Grid,
		}
		for t := uint(0); t < blockSize; t++ {
			idx.Thread = grid.Unflatten(t, l.Block)
			if !l.Extent.Contains(idx.Global()) {
				continue
			}
			body(&args, idx)
		}
	}, e.cfg)
	if err != nil {
		return &Fault{Kernel: l.Kernel.Name, Err: err}
	}
	return nil
}
