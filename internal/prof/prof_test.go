package prof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPUProfile:   filepath.Join(dir, "cpu.pprof"),
		MemProfile:   filepath.Join(dir, "mem.pprof"),
		RuntimeTrace: filepath.Join(dir, "trace.out"),
	}
	s, err := Start(opts)
	require.NoError(t, err)
	require.True(t, s.Enabled())
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	for _, path := range []string{opts.CPUProfile, opts.MemProfile, opts.RuntimeTrace} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Positive(t, info.Size(), path)
	}
}

func TestSessionDisabled(t *testing.T) {
	s, err := Start(Options{})
	require.NoError(t, err)
	require.False(t, s.Enabled())
	require.NoError(t, s.Stop())
}

func TestStartFailsCleanly(t *testing.T) {
	_, err := Start(Options{CPUProfile: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	require.Error(t, err)

	// the CPU profiler must be free again
	s, err := Start(Options{CPUProfile: filepath.Join(t.TempDir(), "cpu.pprof")})
	require.NoError(t, err)
	require.NoError(t, s.Stop())
}
