// CLASSIFICATION: COMMUNITY
// Filename: server.go v0.2
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/browser"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"

	"pwaserve/devserver/api"
	"pwaserve/devserver/config"
	"pwaserve/devserver/watch"
)

// Server wraps the HTTP server and router.
type Server struct {
	cfg     config.Config
	log     Logger
	router  *chi.Mux
	start   time.Time
	out     io.Writer
	opener  func(url string) error
	watcher *watch.Watcher
	limiter *rate.Limiter

	url       string
	accessLog *os.File
	closeOnce sync.Once

	requests atomic.Uint64
	allowed  atomic.Uint64
	denied   atomic.Uint64
}

// Option customises a Server.
type Option func(*Server)

// WithOpener replaces the browser launcher.
func WithOpener(open func(url string) error) Option {
	return func(s *Server) { s.opener = open }
}

// WithOutput redirects the console banner.
func WithOutput(w io.Writer) Option {
	return func(s *Server) { s.out = w }
}

// New returns an initialized server. cfg.Root must already be resolved.
func New(cfg config.Config, log Logger, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		log:    log,
		start:  time.Now(),
		out:    color.Output,
		opener: browser.OpenURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(cfg.Limit(), cfg.RateBurst)
	}
	if cfg.Watch {
		w, err := watch.New(cfg.Root, cfg.Debounce.Duration, log)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", cfg.Root, err)
		}
		s.watcher = w
	}
	s.router = s.routes()
	return s, nil
}

// Router returns the underlying router, useful for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Addr returns the configured listening address.
func (s *Server) Addr() string {
	return s.cfg.Addr()
}

// Root returns the served directory.
func (s *Server) Root() string {
	return s.cfg.Root
}

// URL returns the root URL a browser should open. Before Listen it is
// derived from the configured port.
func (s *Server) URL() string {
	if s.url != "" {
		return s.url
	}
	return rootURL(s.cfg.Bind, strconv.Itoa(s.cfg.Port))
}

// Metrics reports request counters for the metrics endpoint.
func (s *Server) Metrics() api.MetricsResponse {
	m := api.MetricsResponse{
		RequestsTotal:    s.requests.Load(),
		StartTimeSeconds: s.start.Unix(),
		RateAllowedTotal: s.allowed.Load(),
		RateDeniedTotal:  s.denied.Load(),
	}
	if s.limiter != nil {
		m.RateLimitPerSecond = float64(s.limiter.Limit())
		m.RateBurst = s.limiter.Burst()
	}
	return m
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", s.Addr(), err)
	}
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		s.url = rootURL(s.cfg.Bind, strconv.Itoa(tcp.Port))
	}
	return ln, nil
}

// Serve handles connections on ln until ctx is done, then shuts down and
// returns once ln is closed and in-flight requests have finished or the
// shutdown timeout has expired.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	stopped := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		s.log.Infof("shutting down %s", ln.Addr())
		ctxTo, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(ctxTo); err != nil {
			s.log.Warnf("shutdown: %v", err)
			srv.Close()
		}
	}()

	err := srv.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		close(stopped)
		<-done
		return err
	}
	<-done
	return nil
}

// Start binds, announces the server, opens the browser and serves until
// ctx is done.
func (s *Server) Start(ctx context.Context) error {
	defer s.Close()
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	s.announce()
	if s.cfg.OpenBrowser {
		if err := s.opener(s.URL()); err != nil {
			s.log.Warnf("open browser: %v", err)
		}
	}

	var wg sync.WaitGroup
	if s.watcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.watcher.Run(ctx); err != nil {
				s.log.Warnf("watcher: %v", err)
			}
		}()
	}

	err = s.Serve(ctx, ln)
	wg.Wait()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, color.New(color.FgRed).Sprint("Server stopped"))
	return nil
}

// Close releases the access log file. Start calls it on return.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.accessLog != nil {
			err = s.accessLog.Close()
		}
	})
	return err
}

func (s *Server) announce() {
	url := s.URL()
	label := color.New(color.FgGreen, color.Bold)
	hint := color.New(color.FgCyan)
	fmt.Fprintf(s.out, "%s %s\n", label.Sprint("Server running at"), url)
	fmt.Fprintf(s.out, "Serving %s\n", s.cfg.Root)
	fmt.Fprintf(s.out, "%s open Chrome or Edge at %s\n", hint.Sprint("To test the PWA:"), url)
	fmt.Fprintf(s.out, "%s look for the install icon in the address bar\n", hint.Sprint("To install:"))
	if s.watcher != nil {
		fmt.Fprintf(s.out, "%s subscribe to %s/_devserver/reload\n", hint.Sprint("Live reload:"), url)
	}
	fmt.Fprintln(s.out, "Press Ctrl+C to stop")
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout.Duration > 0 {
		return s.cfg.ShutdownTimeout.Duration
	}
	return time.Second
}

func rootURL(bind, port string) string {
	host := bind
	if ip := net.ParseIP(bind); bind == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
