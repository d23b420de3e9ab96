// CLASSIFICATION: COMMUNITY
// Filename: serve.go v0.2
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package static

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

var indexFiles = []string{"index.html", "index.htm"}

// Responder serves files from a root file system with content types taken
// from a suffix override table before extension lookup.
type Responder struct {
	root    http.FileSystem
	types   TypeTable
	listing http.Handler
}

// NewResponder returns a Responder over root.
func NewResponder(root http.FileSystem, types TypeTable) *Responder {
	return &Responder{
		root:    root,
		types:   types,
		listing: http.FileServer(root),
	}
}

// FileHandler returns an HTTP handler that serves files from dir.
func FileHandler(dir string, types TypeTable) http.Handler {
	return NewResponder(http.Dir(dir), types)
}

func (s *Responder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upath := r.URL.Path
	if !strings.HasPrefix(upath, "/") {
		upath = "/" + upath
	}
	if containsDotDot(upath) {
		http.Error(w, "403 forbidden", http.StatusForbidden)
		return
	}

	name := path.Clean(upath)
	f, err := s.root.Open(name)
	if err != nil {
		serveError(w, err)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		serveError(w, err)
		return
	}

	if fi.IsDir() {
		if !strings.HasSuffix(upath, "/") {
			redirectSlash(w, r)
			return
		}
		for _, index := range indexFiles {
			idx, err := s.root.Open(path.Join(name, index))
			if err != nil {
				continue
			}
			defer idx.Close()
			ifi, err := idx.Stat()
			if err != nil || ifi.IsDir() {
				continue
			}
			s.serveFile(w, r, ifi, idx)
			return
		}
		s.listing.ServeHTTP(w, r)
		return
	}

	if strings.HasSuffix(upath, "/") {
		http.NotFound(w, r)
		return
	}
	s.serveFile(w, r, fi, f)
}

func (s *Responder) serveFile(w http.ResponseWriter, r *http.Request, fi fs.FileInfo, f http.File) {
	w.Header().Set("Content-Type", s.types.TypeOf(fi.Name()))
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

func redirectSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func serveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "404 page not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "403 forbidden", http.StatusForbidden)
	default:
		http.Error(w, "500 internal server error", http.StatusInternalServerError)
	}
}

func containsDotDot(v string) bool {
	if !strings.Contains(v, "..") {
		return false
	}
	for _, ent := range strings.FieldsFunc(v, isSlashRune) {
		if ent == ".." {
			return true
		}
	}
	return false
}

func isSlashRune(r rune) bool { return r == '/' || r == '\\' }
