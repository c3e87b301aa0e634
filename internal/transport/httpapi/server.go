// Package httpapi serves the REST endpoints and cached artwork files.
package httpapi

import (
	"encoding/json"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/stellar-artbridge/internal/domain/player"
	"github.com/edumarques81/stellar-artbridge/internal/version"
)

// ArtworkPrefix is the URL path under which cache files are served.
const ArtworkPrefix = "/artwork/"

// cacheFileName matches the names the artwork store writes: a hex SHA-256
// followed by a short lowercase extension.
var cacheFileName = regexp.MustCompile(`^[0-9a-f]{64}\.[a-z0-9]{2,5}$`)

// SnapshotSource provides the current metadata snapshot.
type SnapshotSource interface {
	GetSnapshot() (*player.Snapshot, error)
}

// Pinger reports whether the player backend is reachable.
type Pinger interface {
	Ping() error
}

// Server routes HTTP requests. Additional handlers, such as the Socket.io
// endpoint, can be mounted with Handle.
type Server struct {
	source   SnapshotSource
	pinger   Pinger
	cacheDir string
	mux      *http.ServeMux
}

// NewServer creates the HTTP router. pinger may be nil.
func NewServer(source SnapshotSource, pinger Pinger, cacheDir string) *Server {
	s := &Server{
		source:   source,
		pinger:   pinger,
		cacheDir: cacheDir,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/version", s.handleVersion)
	s.mux.HandleFunc("/api/v1/metadata", s.handleMetadata)
	s.mux.HandleFunc(ArtworkPrefix, s.handleArtwork)

	return s
}

// Handle mounts handler at pattern.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	corsMiddleware(s.mux).ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.pinger != nil {
		if err := s.pinger.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"error","mpd":"disconnected"}`))
			return
		}
	}
	w.Write([]byte(`{"status":"ok","mpd":"connected"}`))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.GetInfo())
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.source.GetSnapshot()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get metadata")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleArtwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, ArtworkPrefix)
	if !cacheFileName.MatchString(name) {
		http.Error(w, "invalid artwork name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.cacheDir, name)
	f, err := os.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Artwork not found")
		http.Error(w, "artwork not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.Error(w, "artwork not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType(filepath.Ext(name)))
	// Entries are immutable once written
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// contentType maps a cache file extension to a MIME type.
func contentType(ext string) string {
	if kind := filetype.GetType(strings.TrimPrefix(ext, ".")); kind != filetype.Unknown && kind.MIME.Value != "" {
		return kind.MIME.Value
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}
