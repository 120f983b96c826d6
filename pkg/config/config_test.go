package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"stegnox/pkg/filehandler"
)

func TestDefaultThresholdsAreValid(t *testing.T) {
	th := DefaultThresholds()
	require.NoError(t, th.Validate())
	require.Equal(t, 8, th.DCTBlockSize)
	require.Equal(t, 0.95, th.BitPlaneEntropy)
	require.Equal(t, 1000, th.ParityWindowBits)
}

func TestValidateCollectsErrors(t *testing.T) {
	th := DefaultThresholds()
	th.DCTBlockSize = 1
	th.HistogramSuspiciousPercent = 140

	err := th.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "dct_block_size")
	require.Contains(t, err.Error(), "histogram_suspicious_percent")
}

func TestLoadThresholdsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dct_odd_ratio: 0.8\nparity_window_bits: 2000\n"), 0644))

	got, err := LoadThresholds(path)
	require.NoError(t, err)

	want := DefaultThresholds()
	want.DCTOddRatio = 0.8
	want.ParityWindowBits = 2000
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("thresholds mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadThresholdsRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("bit_plane_entropy: 3\n"), 0644))

	_, err := LoadThresholds(path)
	require.Error(t, err)

	_, err = LoadThresholds(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.yaml")
	require.NoError(t, os.WriteFile(path, []byte("histogram_pair_tolerance: 0.1\n"), 0644))

	t.Setenv(EnvWorkers, "3")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvMaxFileSize, "1024")
	t.Setenv(EnvThresholds, path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, int64(1024), cfg.MaxFileSize)
	require.Equal(t, 0.1, cfg.Thresholds.HistogramPairTolerance)
}

func TestLoadRejectsBadWorkers(t *testing.T) {
	t.Setenv(EnvWorkers, "zero")
	_, err := Load()
	require.Error(t, err)
}

func TestDefaultSizeLimitMatchesFileHandler(t *testing.T) {
	require.Equal(t, filehandler.DefaultMaxFileSize, Default().MaxFileSize)
}
