// CLASSIFICATION: COMMUNITY
// Filename: routes.go v0.2
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pwaserve/devserver/api"
	"pwaserve/devserver/static"
)

// DevPrefix is reserved for server endpoints and never resolved to files.
const DevPrefix = "/_devserver"

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestCounter)
	r.Use(fixedHeaders(s.cfg.Headers))
	if s.cfg.LogFile != "" {
		r.Use(s.accessLogger(s.cfg.LogFile))
	}

	var feed api.ChangeFeed
	if s.watcher != nil {
		feed = s.watcher
	}
	r.Route(DevPrefix, func(r chi.Router) {
		r.Get("/status", api.Status(s.start, s, feed))
		r.Get("/metrics", api.Metrics(s))
		r.Get("/reload", api.Reload(feed))
	})

	files := s.rateLimit(static.FileHandler(s.cfg.Root, static.TypeTable(s.cfg.ContentTypes)))
	r.Get("/*", files.ServeHTTP)
	r.Head("/*", files.ServeHTTP)
	r.MethodNotAllowed(notImplemented)
	return r
}

func notImplemented(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	stdhttp.Error(w, "501 unsupported method "+r.Method, stdhttp.StatusNotImplemented)
}
