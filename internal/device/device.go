package device

import (
	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/internal/parallel"
)

// NewHostStream returns a stream served by a host engine.
func NewHostStream(cfg parallel.Config, depth int) *Stream {
	return NewStream(launch.NewEngine(cfg), depth)
}
