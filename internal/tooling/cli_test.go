// CLASSIFICATION: COMMUNITY
// Filename: cli_test.go v0.1
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package tooling

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoArgumentsServesWithDefaults(t *testing.T) {
	var got Options
	called := false
	cmd := NewRootCommand(func(ctx context.Context, opts Options) error {
		called = true
		got = opts
		return nil
	})
	cmd.SetArgs([]string{})
	assert.Equal(t, 0, execute(context.Background(), cmd, &bytes.Buffer{}))
	require.True(t, called)
	assert.Equal(t, 8080, got.Port)
	assert.False(t, got.NoBrowser)
	assert.False(t, got.Changed("port"))
}

func TestFlagsAreMarkedChanged(t *testing.T) {
	var got Options
	cmd := NewRootCommand(func(ctx context.Context, opts Options) error {
		got = opts
		return nil
	})
	cmd.SetArgs([]string{"--port", "9000", "--no-browser", "-w"})
	require.Equal(t, 0, execute(context.Background(), cmd, &bytes.Buffer{}))
	assert.Equal(t, 9000, got.Port)
	assert.True(t, got.Changed("port"))
	assert.True(t, got.Changed("no-browser"))
	assert.True(t, got.Watch)
	assert.False(t, got.Changed("root"))
}

func TestServeErrorExitsNonZero(t *testing.T) {
	cmd := NewRootCommand(func(ctx context.Context, opts Options) error {
		return errors.New("bind :8080: address already in use")
	})
	cmd.SetArgs([]string{})
	var stderr bytes.Buffer
	assert.Equal(t, 1, execute(context.Background(), cmd, &stderr))
	assert.Equal(t, "error: bind :8080: address already in use\n", stderr.String())
}

func TestRejectsPositionalArguments(t *testing.T) {
	cmd := NewRootCommand(func(ctx context.Context, opts Options) error { return nil })
	cmd.SetArgs([]string{"somewhere"})
	assert.Equal(t, 1, execute(context.Background(), cmd, &bytes.Buffer{}))
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand(func(ctx context.Context, opts Options) error {
		t.Fatal("serve should not run")
		return nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.Equal(t, 0, execute(context.Background(), cmd, &bytes.Buffer{}))
	assert.Equal(t, "pwa-serve v"+Version+"\n", out.String())
}

func TestContextReachesServe(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")
	var seen any
	cmd := NewRootCommand(func(ctx context.Context, opts Options) error {
		seen = ctx.Value(key{})
		return nil
	})
	cmd.SetArgs([]string{})
	require.Equal(t, 0, execute(ctx, cmd, &bytes.Buffer{}))
	assert.Equal(t, "marker", seen)
}
