// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device provides streams that execute kernel launches.
//
// A Stream runs launches one at a time in submission order on an
// Executor. The host Executor spreads each launch's blocks over
// goroutines.
//
// Example:
//
//	s := device.NewHostStream(device.DefaultConfig(), 0)
//	defer s.Close()
//
//	ops.Tile(s, params)
//	if err := s.Synchronize(ctx); err != nil {
//	    var f *device.Fault
//	    if errors.As(err, &f) {
//	        log.Printf("kernel %s failed: %v", f.Kernel, f.Err)
//	    }
//	}
package device

import (
	"github.com/born-ml/strided/internal/device"
	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/internal/parallel"
)

// Stream is a FIFO launch queue served by one executor.
type Stream = device.Stream

// Executor runs a single launch to completion.
type Executor = launch.Executor

// Launch is one kernel invocation.
type Launch = launch.Launch

// Fault reports a launch that failed while executing.
type Fault = launch.Fault

// Config controls host parallelism.
type Config = parallel.Config

// Properties describes the host compute device.
type Properties = device.Properties

// ErrClosed is reported for launches submitted after Close.
var ErrClosed = device.ErrClosed

// DefaultConfig returns host settings sized to the machine.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// NewStream starts a stream backed by exec. A depth <= 0 uses the default
// queue depth.
func NewStream(exec Executor, depth int) *Stream {
	return device.NewStream(exec, depth)
}

// NewHostStream starts a stream backed by a host engine.
func NewHostStream(cfg Config, depth int) *Stream {
	return device.NewHostStream(cfg, depth)
}

// NewHostExecutor returns the host engine executor.
func NewHostExecutor(cfg Config) Executor {
	return launch.NewEngine(cfg)
}

// HostProperties reports the host device.
func HostProperties(cfg Config) Properties {
	return device.HostProperties(cfg)
}
