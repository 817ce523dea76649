package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"clipplex/internal/api"
	"clipplex/internal/clips"
	"clipplex/internal/config"
	"clipplex/internal/logging"
	"clipplex/internal/plex"
	"clipplex/internal/timecode"
)

type apiServer struct {
	bind   string
	token  string
	logger *slog.Logger
	daemon *Daemon

	transcodeTimeout time.Duration

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:             strings.TrimSpace(cfg.Paths.APIBind),
		token:            strings.TrimSpace(cfg.Paths.APIToken),
		logger:           logger,
		daemon:           d,
		transcodeTimeout: cfg.TranscodeTimeout(),
	}
	srv.server = &http.Server{
		Handler:           srv.routes(cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// routes wires the handler table. Every /api/ route passes through the
// bearer-token middleware; health and static hosting stay open.
func (s *apiServer) routes(cfg *config.Config) http.Handler {
	mux := http.NewServeMux()
	guarded := func(pattern string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, authMiddleware(s.token, handler))
	}

	guarded("/api/status", s.handleStatus)
	guarded("/api/plex/sessions", s.handleSessions)
	guarded("/api/plex/stream/", s.handleStream)
	guarded("/api/plex/media/", s.handleMediaDetails)
	guarded("/api/clips/create", s.handleClipCreate)
	guarded("/api/clips/snapshot", s.handleSnapshot)
	guarded("/api/clips/videos", s.handleVideos)
	guarded("/api/clips/images", s.handleImages)
	guarded("/api/clips/file", s.handleDelete)
	guarded("/api/time/add", s.handleTimeAdd)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/static/media/", http.StripPrefix("/static/media/", http.FileServer(http.Dir(cfg.Paths.MediaDir))))
	return mux
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status()
	dependencies := make([]api.DependencyStatus, len(status.Dependencies))
	for i, dep := range status.Dependencies {
		dependencies[i] = api.DependencyStatus{
			Name:      dep.Name,
			Command:   dep.Command,
			Available: dep.Available,
			Detail:    dep.Detail,
		}
	}
	s.writeJSON(w, http.StatusOK, api.DaemonStatus{
		Running:        status.Running,
		PID:            status.PID,
		LockFilePath:   status.LockFilePath,
		MediaDir:       status.MediaDir,
		MediaFreeBytes: status.MediaFreeBytes,
		Dependencies:   dependencies,
	})
}

func (s *apiServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessions, err := s.daemon.directory.ActiveSessions(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SessionListResponse{Sessions: api.FromSessions(sessions)})
}

func (s *apiServer) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	viewer := strings.TrimPrefix(r.URL.Path, "/api/plex/stream/")
	if viewer == "" || strings.Contains(viewer, "/") {
		s.writeError(w, http.StatusNotFound, "viewer not specified")
		return
	}
	session, err := s.daemon.directory.SessionForViewer(r.Context(), viewer)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromStreamSession(session))
}

func (s *apiServer) handleMediaDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	mediaKey := strings.TrimPrefix(r.URL.Path, "/api/plex/media")
	if mediaKey == "" || mediaKey == "/" {
		s.writeError(w, http.StatusBadRequest, "media key required")
		return
	}
	item, err := s.daemon.directory.MediaDetails(r.Context(), mediaKey)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromMediaItem(item))
}

func (s *apiServer) handleClipCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.extendWriteDeadline(w)
	var req api.ClipCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Viewer) == "" {
		s.writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	session, err := s.daemon.directory.SessionForViewer(r.Context(), req.Viewer)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	result, err := s.daemon.creator.CreateClip(r.Context(), session, clips.ClipRequest{
		Viewer: req.Viewer,
		Start:  req.Start,
		End:    req.End,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

func (s *apiServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.extendWriteDeadline(w)
	var req api.SnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Viewer) == "" {
		s.writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	session, err := s.daemon.directory.SessionForViewer(r.Context(), req.Viewer)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	result, err := s.daemon.creator.CreateSnapshot(r.Context(), session, req.Frames)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

func (s *apiServer) handleVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	videos, err := s.daemon.catalog.Videos(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.VideoListResponse{Videos: api.FromCatalogVideos(videos)})
}

func (s *apiServer) handleImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	images, err := s.daemon.catalog.Images()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.ImageListResponse{Images: images})
}

func (s *apiServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	relPath := strings.TrimSpace(r.URL.Query().Get("path"))
	if relPath == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	deleted := s.daemon.catalog.Delete(relPath)
	status := http.StatusOK
	if !deleted {
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, api.DeleteResponse{Deleted: deleted, Path: relPath})
}

func (s *apiServer) handleTimeAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.TimeAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := timecode.AddSeconds(req.Time, req.Seconds)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.TimeAddResponse{Result: result})
}

// extendWriteDeadline lifts the connection write deadline on routes that run
// an encode synchronously. The server-wide write timeout covers the fast
// status and listing handlers; an extraction response is only ready once the
// encode finishes, so its window must match the transcode bound.
func (s *apiServer) extendWriteDeadline(w http.ResponseWriter) {
	deadline := time.Now().Add(s.transcodeTimeout + 30*time.Second)
	if err := http.NewResponseController(w).SetWriteDeadline(deadline); err != nil {
		s.log().Warn("could not extend write deadline", logging.Error(err))
	}
}

// writeDomainError maps domain failures onto HTTP statuses: missing session
// is 404, unreachable upstream is 503, upstream errors pass their status
// through, bad input is 400-class, and a failed extraction is 500 with the
// tool diagnostic preserved.
func (s *apiServer) writeDomainError(w http.ResponseWriter, err error) {
	var unreachable *plex.UnreachableError
	var upstream *plex.StatusError
	var creation *clips.CreationError
	switch {
	case errors.Is(err, plex.ErrNoSession):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &unreachable):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &upstream):
		s.writeError(w, upstream.Code, err.Error())
	case errors.Is(err, clips.ErrNoPlayableMedia):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, timecode.ErrInvalidFormat):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &creation):
		s.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "api-server")
}
