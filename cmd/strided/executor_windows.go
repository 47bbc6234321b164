//go:build windows

package main

import (
	"github.com/born-ml/strided/internal/config"
	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/internal/logx"
	"github.com/born-ml/strided/internal/webgpu"
)

// openExecutor returns the executor selected by cfg and its release func.
func openExecutor(cfg config.Config) (launch.Executor, func(), error) {
	host := launch.NewEngine(cfg.Parallel())
	if cfg.Device != config.DeviceWebGPU {
		return host, func() {}, nil
	}
	e, err := webgpu.New(host)
	if err != nil {
		return nil, nil, err
	}
	logx.Logger().Info("using webgpu executor")
	return e, e.Release, nil
}
