// Package server is the front controller: it routes incoming requests
// through the rewrite table and hands matched ones to the thumbnail handler.
package server

import (
	"net/http"
	"strings"

	"github.com/xemlock/thumbnail-endpoint/internal/rewrite"
	"github.com/xemlock/thumbnail-endpoint/internal/thumbnail"
)

// Server dispatches every request. Pretty-permalink paths are rewritten to
// internal query parameters first; plain requests carry them directly.
// Requests the endpoint does not address fall through to next.
type Server struct {
	table   *rewrite.Table
	handler *thumbnail.Handler
	next    http.Handler
}

// New wires the front controller. next handles requests the endpoint does
// not address; nil means the default not-found handler.
func New(table *rewrite.Table, handler *thumbnail.Handler, next http.Handler) *Server {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return &Server{
		table:   table,
		handler: handler,
		next:    next,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.next.ServeHTTP(w, r)
		return
	}

	// Plain-mode parameters are accepted on any request; only whitelisted
	// names survive.
	qv := s.table.FilterQuery(r.URL.Query())

	// Rewritten parameters win over query ones.
	if path := strings.Trim(r.URL.Path, "/"); path != "" && path != "index.php" {
		if rewritten, ok := s.table.Match(path); ok {
			for name, vals := range rewritten {
				if len(vals) > 0 {
					qv.Set(name, vals[0])
				}
			}
		}
	}

	if s.handler.Serve(w, r, qv) {
		return
	}
	s.next.ServeHTTP(w, r)
}
