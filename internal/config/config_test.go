package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strided/internal/grid"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DeviceCPU, cfg.Device)
	assert.Equal(t, grid.Dim3{X: 16, Y: 16, Z: 1}, cfg.Block())
	assert.Equal(t, cfg.Engine.Workers, cfg.Parallel().NumWorkers)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
device = "webgpu"

[engine]
parallel = true
workers = 3
min_chunk_size = 2

[stream]
queue_depth = 8

[launch]
block = [64, 0, 1]

[log]
level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, DeviceWebGPU, cfg.Device)
	assert.Equal(t, 3, cfg.Parallel().NumWorkers)
	assert.Equal(t, 2, cfg.Parallel().MinChunkSize)
	assert.True(t, cfg.Parallel().Enabled)
	assert.Equal(t, 8, cfg.Stream.QueueDepth)
	assert.Equal(t, grid.Dim3{X: 64, Y: 1, Z: 1}, cfg.Block())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("[stream]\nqueue_depth = 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Stream.QueueDepth)
	assert.Equal(t, Default().Launch, cfg.Launch)
	assert.Equal(t, DeviceCPU, cfg.Device)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"device":  `device = "tpu"`,
		"workers": "[engine]\nworkers = -1",
		"depth":   "[stream]\nqueue_depth = -4",
		"level":   "[log]\nlevel = \"loud\"",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse([]byte("device = ["))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strided.toml")
	require.NoError(t, os.WriteFile(path, []byte("[launch]\nblock = [8, 8, 1]\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, grid.Dim3{X: 8, Y: 8, Z: 1}, cfg.Block())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
