// CLASSIFICATION: COMMUNITY
// Filename: cli.go v0.3
// Date Modified: 2026-10-19
// Author: Lukas Bower
//
// ─────────────────────────────────────────────────────────────
// pwa-serve · Cobra root command
//
// The root command serves the PWA directory; it takes no
// arguments and every flag is optional. Flags only override the
// config file when they are set explicitly.
//
// Example:
//
//   package main
//
//   import "pwaserve/internal/tooling"
//
//   func main() { os.Exit(tooling.Execute(ctx, tooling.NewRootCommand(serve))) }
// ─────────────────────────────────────────────────────────────
package tooling

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is reported by the version sub-command.
var Version = "0.1.0"

// Options carries the parsed command line.
type Options struct {
	ConfigFile string
	Bind       string
	Port       int
	Root       string
	NoBrowser  bool
	LogFile    string
	Watch      bool
	Rate       float64
	Burst      int
	MaxConns   int
	Verbose    bool

	// Changed reports whether the named flag was set on the command line.
	Changed func(name string) bool
}

// ServeFunc runs the server until ctx is done.
type ServeFunc func(ctx context.Context, opts Options) error

// NewRootCommand builds the pwa-serve command tree around serve.
func NewRootCommand(serve ServeFunc) *cobra.Command {
	var opts Options
	root := &cobra.Command{
		Use:   "pwa-serve",
		Short: "Serve a PWA directory for local testing",
		Long: `pwa-serve serves static files with cross-origin isolation headers
and corrected MIME types, then opens the default browser.

Run "pwa-serve --help" to see available flags.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Changed = cmd.Flags().Changed
			return serve(cmd.Context(), opts)
		},
	}

	f := root.Flags()
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "TOML config file")
	f.StringVar(&opts.Bind, "bind", "", "bind address (all interfaces when empty)")
	f.IntVarP(&opts.Port, "port", "p", 8080, "listen port")
	f.StringVarP(&opts.Root, "root", "r", "", "directory to serve (defaults to the program's directory)")
	f.BoolVar(&opts.NoBrowser, "no-browser", false, "do not open a browser")
	f.StringVar(&opts.LogFile, "log-file", "", "append JSON access log lines to this file")
	f.BoolVarP(&opts.Watch, "watch", "w", false, "watch the root and stream reload events")
	f.Float64Var(&opts.Rate, "rate", 0, "requests per second allowed for static files (0 = unlimited)")
	f.IntVar(&opts.Burst, "burst", 1, "rate limiter burst")
	f.IntVar(&opts.MaxConns, "max-conns", 0, "maximum concurrent connections (0 = unlimited)")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print pwa-serve version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pwa-serve v%s\n", Version)
		},
	})
	return root
}

// Execute runs cmd and returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	return execute(ctx, cmd, os.Stderr)
}

func execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
