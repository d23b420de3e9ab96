// CLASSIFICATION: COMMUNITY
// Filename: main.go v0.6
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"pwaserve/devserver/config"
	devhttp "pwaserve/devserver/http"
	"pwaserve/internal/tooling"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := newSignalContext(context.Background())
	defer cancel()
	return tooling.Execute(ctx, tooling.NewRootCommand(serve))
}

func serve(ctx context.Context, opts tooling.Options) error {
	log := newLogger(opts.Verbose)
	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}
	log.Debugf("config: %+v", cfg)

	srv, err := devhttp.New(cfg, log)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// buildConfig layers explicitly set flags over the config file (or the
// defaults), then resolves and validates the result.
func buildConfig(opts tooling.Options) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	changed := opts.Changed
	if changed == nil {
		changed = func(string) bool { return false }
	}
	if changed("bind") {
		cfg.Bind = opts.Bind
	}
	if changed("port") {
		cfg.Port = opts.Port
	}
	if changed("root") {
		cfg.Root = opts.Root
	}
	if changed("no-browser") {
		cfg.OpenBrowser = !opts.NoBrowser
	}
	if changed("log-file") {
		cfg.LogFile = opts.LogFile
	}
	if changed("watch") {
		cfg.Watch = opts.Watch
	}
	if changed("rate") {
		cfg.RateLimit = opts.Rate
	}
	if changed("burst") {
		cfg.RateBurst = opts.Burst
	}
	if cfg.RateLimit > 0 && cfg.RateBurst == 0 {
		cfg.RateBurst = opts.Burst
	}
	if changed("max-conns") {
		cfg.MaxConns = opts.MaxConns
	}

	if err := cfg.ResolveRoot(); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
