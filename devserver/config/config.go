// CLASSIFICATION: COMMUNITY
// Filename: config.go v0.1
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

// Package config holds the dev server configuration and its defaults.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/time/rate"
)

// DefaultPort is the port served when none is configured.
const DefaultPort = 8080

var (
	// ErrInvalidPort signals a port outside 0..65535.
	ErrInvalidPort = errors.New("invalid port")
	// ErrNotDirectory signals a root that is missing or not a directory.
	ErrNotDirectory = errors.New("root is not a directory")
)

// Config holds server configuration.
type Config struct {
	Bind            string            `toml:"bind"`
	Port            int               `toml:"port"`
	Root            string            `toml:"root"`
	OpenBrowser     bool              `toml:"open_browser"`
	LogFile         string            `toml:"log_file"`
	Watch           bool              `toml:"watch"`
	Debounce        Duration          `toml:"debounce"`
	RateLimit       float64           `toml:"rate_limit"`
	RateBurst       int               `toml:"rate_burst"`
	MaxConns        int               `toml:"max_conns"`
	ShutdownTimeout Duration          `toml:"shutdown_timeout"`
	ContentTypes    map[string]string `toml:"content_types"`
	Headers         map[string]string `toml:"headers"`
}

// Duration decodes TOML strings such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultContentTypes returns the suffix overrides applied before extension lookup.
func DefaultContentTypes() map[string]string {
	return map[string]string{
		".js":   "application/javascript",
		".json": "application/json",
		".css":  "text/css",
		".html": "text/html",
	}
}

// DefaultHeaders returns the cross-origin isolation headers set on every response.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Cross-Origin-Embedder-Policy": "require-corp",
		"Cross-Origin-Opener-Policy":   "same-origin",
	}
}

// Default returns a Config populated with defaults. Root is left empty and
// filled in by ResolveRoot.
func Default() Config {
	return Config{
		Port:            DefaultPort,
		OpenBrowser:     true,
		Debounce:        Duration{100 * time.Millisecond},
		ShutdownTimeout: Duration{time.Second},
		ContentTypes:    DefaultContentTypes(),
		Headers:         DefaultHeaders(),
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Addr returns the listening address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// Limit returns the configured request rate, or rate.Inf when unlimited.
func (c Config) Limit() rate.Limit {
	if c.RateLimit <= 0 {
		return rate.Inf
	}
	return rate.Limit(c.RateLimit)
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	fi, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotDirectory, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, c.Root)
	}
	for suffix := range c.ContentTypes {
		if !strings.HasPrefix(suffix, ".") {
			return fmt.Errorf("content type suffix %q must start with a dot", suffix)
		}
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return errors.New("rate_burst must be at least 1 when rate_limit is set")
	}
	if c.MaxConns < 0 {
		return errors.New("max_conns must not be negative")
	}
	return nil
}

// ResolveRoot fills in and absolutises Root. An empty Root becomes the
// directory holding the running executable, or the working directory when
// the executable lives under the temporary directory (go run).
func (c *Config) ResolveRoot() error {
	root := c.Root
	if root == "" {
		root = programDir()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root %s: %w", root, err)
	}
	c.Root = abs
	return nil
}

func programDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	if isUnder(dir, os.TempDir()) {
		return "."
	}
	return dir
}

func isUnder(dir, parent string) bool {
	if resolved, err := filepath.EvalSymlinks(parent); err == nil {
		parent = resolved
	}
	rel, err := filepath.Rel(parent, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
