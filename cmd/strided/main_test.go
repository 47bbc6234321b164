package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "executor:   cpu")
	assert.Contains(t, out, "cast_float32_int32_v")
	assert.Contains(t, out, "gather_float16_float16")
}

func TestSelftest(t *testing.T) {
	out, err := run(t, "selftest", "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "ok    tile_wraparound")
	assert.NotContains(t, out, "FAIL")
}

func TestSelftest_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strided.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[engine]
parallel = false

[launch]
block = [3, 2, 1]
`), 0o600))

	out, err := run(t, "selftest", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    grid_coverage")
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`device = "tpu"`), 0o600))

	_, err := run(t, "info", "--config", path)
	require.Error(t, err)
}

func TestBench(t *testing.T) {
	out, err := run(t, "bench", "-n", "64", "-i", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "cast_float32_int32 ")
	assert.Contains(t, out, "cast_float32_int32_v")

	_, err = run(t, "bench", "-n", "6")
	require.Error(t, err)
}
