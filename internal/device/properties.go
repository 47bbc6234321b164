package device

import (
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/born-ml/strided/internal/parallel"
)

// MaxThreadsPerBlock bounds the block size the host engine accepts as a
// hint. Larger blocks still run, they just do not parallelize within a block.
const MaxThreadsPerBlock = 1024

// Properties describes the host compute device.
type Properties struct {
	Name               string
	Arch               string
	Workers            int
	MaxThreadsPerBlock int
	Features           []string
}

// HostProperties reports the host device as seen by an engine configured
// with cfg.
func HostProperties(cfg parallel.Config) Properties {
	workers := 1
	if cfg.Enabled && cfg.NumWorkers > 1 {
		workers = cfg.NumWorkers
	}
	return Properties{
		Name:               "CPU",
		Arch:               runtime.GOARCH,
		Workers:            workers,
		MaxThreadsPerBlock: MaxThreadsPerBlock,
		Features:           cpuFeatures(),
	}
}

func cpuFeatures() []string {
	var f []string
	add := func(ok bool, name string) {
		if ok {
			f = append(f, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
		add(cpu.X86.HasAVX512BF16, "avx512bf16")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasFPHP, "fphp")
		add(cpu.ARM64.HasASIMDHP, "asimdhp")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return f
}
