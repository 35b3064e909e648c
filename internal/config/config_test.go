package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpecConstants(t *testing.T) {
	d := Default()
	require.Equal(t, 512, d.CacheCapacity)
	require.Equal(t, 16, d.QueueSize)
	require.Equal(t, 4, d.NumThreads)
	require.NoError(t, d.Validate())
}

func TestLoadFileOverlaysOnlyMentionedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_capacity: 1024\n"), 0o644))

	got, err := LoadFile(Default(), path)
	require.NoError(t, err)
	require.Equal(t, 1024, got.CacheCapacity)
	require.Equal(t, 16, got.QueueSize)
	require.Equal(t, 4, got.NumThreads)
}

func TestLoadFileMissingPathErrors(t *testing.T) {
	_, err := LoadFile(Default(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverlaysSetVars(t *testing.T) {
	t.Setenv("PEDSORT_NUM_THREADS", "8")
	got, err := LoadEnv(Default())
	require.NoError(t, err)
	require.Equal(t, 8, got.NumThreads)
	require.Equal(t, 512, got.CacheCapacity)
}

func TestLoadEnvRejectsNonInteger(t *testing.T) {
	t.Setenv("PEDSORT_QUEUE_SIZE", "not-a-number")
	_, err := LoadEnv(Default())
	require.Error(t, err)
}

func TestValidateRejectsNonPositive(t *testing.T) {
	tun := Default()
	tun.NumThreads = 0
	require.Error(t, tun.Validate())
}
