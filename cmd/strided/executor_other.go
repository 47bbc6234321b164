//go:build !windows

package main

import (
	"github.com/born-ml/strided/internal/config"
	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/internal/logx"
)

// openExecutor returns the executor selected by cfg and its release func.
// The webgpu executor is only built for windows; elsewhere the host engine
// runs instead.
func openExecutor(cfg config.Config) (launch.Executor, func(), error) {
	if cfg.Device == config.DeviceWebGPU {
		logx.Logger().Warn("webgpu executor not available on this platform, using cpu")
	}
	return launch.NewEngine(cfg.Parallel()), func() {}, nil
}
