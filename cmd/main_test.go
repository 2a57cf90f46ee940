package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCmd_MissingConfigFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	rootCmd.SetArgs([]string{"--config", missing, "serve"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configPath = ""
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "load config")
}
