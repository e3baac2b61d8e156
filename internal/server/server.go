package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"archwiki-offline/internal/optimizer"
	"archwiki-offline/internal/parser"
	"archwiki-offline/pkg/logger"
)

// maxBody caps uploaded pages.
const maxBody = 5 << 20

// Server optimizes pages posted over HTTP. Output paths are virtual: nothing
// is written, they only decide how links are made relative.
type Server struct {
	router chi.Router
	opt    *optimizer.Optimizer
	log    *logger.Logger
}

func New(opt *optimizer.Optimizer, log *logger.Logger) *Server {
	s := &Server{opt: opt, log: log}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.logRequest)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	// POST /optimize?path=Pacman/Tips.html  <raw html body>
	r.Post("/optimize", s.handleOptimize)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	rel, ok := cleanPath(r.URL.Query().Get("path"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'path' must be a relative file path"})
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxBody)
	outputPath := filepath.Join(s.opt.Root(), filepath.FromSlash(rel))

	out, stats, err := s.opt.Optimize(body, r.Header.Get("Content-Type"), outputPath)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		case errors.Is(err, parser.ErrMalformedInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, optimizer.ErrMissingElement):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Links-Rewritten", strconv.Itoa(stats.Links))
	w.Header().Set("X-Images-Rewritten", strconv.Itoa(stats.Images))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// cleanPath accepts slash-separated paths that stay below the output root.
func cleanPath(p string) (string, bool) {
	p = strings.TrimSpace(p)
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", false
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", false
	}
	return c, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Zerolog().Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request")
	})
}
