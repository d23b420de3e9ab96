// CLASSIFICATION: COMMUNITY
// Filename: main_test.go v0.2
// Author: Lukas Bower
// Date Modified: 2026-10-19
package main

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwaserve/devserver/config"
	"pwaserve/internal/tooling"
)

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestPortFlagDefault(t *testing.T) {
	cmd := tooling.NewRootCommand(serve)
	flag := cmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "8080", flag.DefValue)
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := buildConfig(tooling.Options{Port: 8080})
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.OpenBrowser)
	assert.True(t, filepath.IsAbs(cfg.Root))
	assert.Equal(t, "application/javascript", cfg.ContentTypes[".js"])
}

func TestBuildConfigFlagsOverrideFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(t.TempDir(), "pwa-serve.toml")
	body := "port = 9090\nbind = \"127.0.0.1\"\nroot = " + strconv.Quote(root) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := buildConfig(tooling.Options{ConfigFile: path, Port: 8080})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, root, cfg.Root)

	cfg, err = buildConfig(tooling.Options{
		ConfigFile: path,
		Port:       7070,
		NoBrowser:  true,
		Rate:       10,
		Burst:      5,
		Changed:    changedSet("port", "no-browser", "rate"),
	})
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.False(t, cfg.OpenBrowser)
	assert.Equal(t, 10.0, cfg.RateLimit)
	assert.Equal(t, 5, cfg.RateBurst)
}

func TestBuildConfigRejectsMissingRoot(t *testing.T) {
	_, err := buildConfig(tooling.Options{
		Root:    filepath.Join(t.TempDir(), "missing"),
		Changed: changedSet("root"),
	})
	assert.True(t, errors.Is(err, config.ErrNotDirectory))
}

func TestServeReportsBindFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	err = serve(context.Background(), tooling.Options{
		Bind:      "127.0.0.1",
		Port:      port,
		Root:      t.TempDir(),
		NoBrowser: true,
		Changed:   changedSet("bind", "port", "root", "no-browser"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind 127.0.0.1:"+strconv.Itoa(port))
}
