package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and rejected combinations.
func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultServerDir, cfg.ServerDir)
	require.Equal(t, DefaultMinHeap, cfg.MinHeap)
	require.Equal(t, DefaultMaxHeap, cfg.MaxHeap)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultManifestURLs(), cfg.ManifestURLs)
	require.NotNil(t, cfg.NoGUI)
	require.True(t, *cfg.NoGUI)

	// Latest and version together.
	cfg = &Config{Latest: true, Version: "1.21.4"}
	require.ErrorIs(t, Validate(cfg), errVersionConflict)

	// Bad heap.
	cfg = &Config{MaxHeap: "four gigs"}
	require.ErrorIs(t, Validate(cfg), errInvalidHeap)

	// Bad download URL.
	cfg = &Config{DownloadURL: "not a url"}
	require.Error(t, Validate(cfg))

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
}

// TestLoadMissingFileReturnsDefaults ensures a missing settings file is not an error.
func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	whitelist := true

	cfg := &Config{
		ServerDir: "survival",
		Version:   "1.21.4",
		MinHeap:   "1G",
		MaxHeap:   "3G",
		AgreeEULA: true,
		Whitelist: &whitelist,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadRejectsBrokenYAML reports decoding errors.
func TestLoadRejectsBrokenYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("server_dir: [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
