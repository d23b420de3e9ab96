// CLASSIFICATION: COMMUNITY
// Filename: reload.go v0.1
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package api

import (
	"fmt"
	"net/http"
)

// Reload streams a server-sent "reload" event each time feed reports a
// change. The stream ends when the client goes away or the feed closes.
func Reload(feed ChangeFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if feed == nil {
			http.Error(w, "live reload disabled", http.StatusServiceUnavailable)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		changes, cancel := feed.Subscribe()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		version, _ := feed.Version()
		fmt.Fprintf(w, "retry: 1000\nevent: hello\ndata: %d\n\n", version)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case v, ok := <-changes:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: reload\ndata: %d\n\n", v)
				flusher.Flush()
			}
		}
	}
}
