package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipplex/internal/catalog"
	"clipplex/internal/clips"
	"clipplex/internal/config"
	"clipplex/internal/logging"
	"clipplex/internal/media/ffmpeg"
	"clipplex/internal/plex"
)

type fakeDirectory struct {
	sessions []plex.Session
	err      error
}

func (f *fakeDirectory) ActiveSessions(context.Context) ([]plex.Session, error) {
	return f.sessions, f.err
}

func (f *fakeDirectory) SessionForViewer(_ context.Context, viewer string) (plex.Session, error) {
	if f.err != nil {
		return plex.Session{}, f.err
	}
	for _, session := range f.sessions {
		if strings.EqualFold(session.Viewer, viewer) {
			return session, nil
		}
	}
	return plex.Session{}, plex.ErrNoSession
}

func (f *fakeDirectory) MediaDetails(context.Context, string) (plex.MediaItem, error) {
	if f.err != nil {
		return plex.MediaItem{}, f.err
	}
	return plex.MediaItem{Title: "Heat", Kind: plex.KindMovie, FilePath: "/media/movies/heat.mkv", FrameRate: 24}, nil
}

type stubEngine struct {
	clipErr   error
	frameErr  error
	clipDelay time.Duration
}

func (e *stubEngine) ExtractClip(context.Context, ffmpeg.ClipSpec) error {
	if e.clipDelay > 0 {
		time.Sleep(e.clipDelay)
	}
	return e.clipErr
}

func (e *stubEngine) ExtractFrames(context.Context, ffmpeg.FrameSpec) error { return e.frameErr }

func (e *stubEngine) Probe(context.Context, string) (ffmpeg.ProbeResult, error) {
	return ffmpeg.ProbeResult{}, errors.New("not implemented")
}

func streamingSession() plex.Session {
	return plex.Session{
		Viewer:       "alice",
		SessionKey:   "7",
		ViewOffsetMS: 2537000,
		FilePath:     "/media/tv/expanse/s01e01.mkv",
		FrameRate:    23.976,
		Title:        "The Expanse - Pilot",
		Kind:         plex.KindEpisode,
		Show:         "The Expanse",
		SeasonIndex:  "1",
		EpisodeIndex: "1",
	}
}

func newTestServer(t *testing.T, directory Directory, engine ffmpeg.Engine, token string) (*apiServer, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.MediaDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.APIToken = token

	creator := clips.NewCreator(clips.Options{
		VideosDir: cfg.VideosDir(),
		ImagesDir: cfg.ImagesDir(),
	}, engine, logging.NewNop())
	cat := catalog.New(cfg.Paths.MediaDir, engine, logging.NewNop())

	d, err := New(&cfg, directory, creator, cat, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d.api, &cfg
}

func doRequest(t *testing.T, srv *apiServer, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleSessions(t *testing.T) {
	directory := &fakeDirectory{sessions: []plex.Session{streamingSession()}}
	srv, _ := newTestServer(t, directory, &stubEngine{}, "")

	rec := doRequest(t, srv, http.MethodGet, "/api/plex/sessions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		Sessions []struct {
			Username    string `json:"username"`
			CurrentTime string `json:"current_time"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Sessions) != 1 || payload.Sessions[0].Username != "alice" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Sessions[0].CurrentTime != "00:42:17" {
		t.Fatalf("unexpected current time: %q", payload.Sessions[0].CurrentTime)
	}
}

func TestHandleStreamNotFound(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDirectory{}, &stubEngine{}, "")
	rec := doRequest(t, srv, http.MethodGet, "/api/plex/stream/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for idle viewer, got %d", rec.Code)
	}
}

func TestHandleStreamUnreachableUpstream(t *testing.T) {
	directory := &fakeDirectory{err: &plex.UnreachableError{Err: errors.New("connection refused")}}
	srv, _ := newTestServer(t, directory, &stubEngine{}, "")
	rec := doRequest(t, srv, http.MethodGet, "/api/plex/stream/alice", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHandleStreamUpstreamStatusPassthrough(t *testing.T) {
	directory := &fakeDirectory{err: &plex.StatusError{Code: http.StatusUnauthorized}}
	srv, _ := newTestServer(t, directory, &stubEngine{}, "")
	rec := doRequest(t, srv, http.MethodGet, "/api/plex/stream/alice", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected upstream status passthrough, got %d", rec.Code)
	}
}

func TestHandleClipCreate(t *testing.T) {
	directory := &fakeDirectory{sessions: []plex.Session{streamingSession()}}
	srv, _ := newTestServer(t, directory, &stubEngine{}, "")

	body := `{"username":"alice","start_time":"00:01:00","end_time":"00:02:30"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/clips/create", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var result struct {
		Filename string `json:"filename"`
		Path     string `json:"path"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(result.Path, "static/media/videos/") {
		t.Fatalf("unexpected public path: %q", result.Path)
	}
	if !strings.HasSuffix(result.Filename, ".mp4") {
		t.Fatalf("unexpected filename: %q", result.Filename)
	}
}

func TestClipCreateOutlivesServerWriteTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.MediaDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.APIBind = "127.0.0.1:0"

	directory := &fakeDirectory{sessions: []plex.Session{streamingSession()}}
	engine := &stubEngine{clipDelay: 200 * time.Millisecond}
	creator := clips.NewCreator(clips.Options{
		VideosDir: cfg.VideosDir(),
		ImagesDir: cfg.ImagesDir(),
	}, engine, logging.NewNop())
	cat := catalog.New(cfg.Paths.MediaDir, engine, logging.NewNop())

	d, err := New(&cfg, directory, creator, cat, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// An encode longer than the server write timeout must still deliver its
	// result; the extraction routes widen the deadline per connection.
	d.api.server.WriteTimeout = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	url := "http://" + d.api.listener.Addr().String() + "/api/clips/create"
	body := `{"username":"alice","start_time":"00:01:00","end_time":"00:02:30"}`
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var result struct {
		Filename string `json:"filename"`
		Path     string `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasSuffix(result.Filename, ".mp4") {
		t.Fatalf("unexpected filename: %q", result.Filename)
	}
}

func TestHandleClipCreateMalformedTime(t *testing.T) {
	directory := &fakeDirectory{sessions: []plex.Session{streamingSession()}}
	srv, _ := newTestServer(t, directory, &stubEngine{}, "")

	body := `{"username":"alice","start_time":"not-a-time","end_time":"00:02:30"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/clips/create", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed time, got %d", rec.Code)
	}
}

func TestHandleClipCreateNoPlayableMedia(t *testing.T) {
	session := streamingSession()
	session.FilePath = ""
	directory := &fakeDirectory{sessions: []plex.Session{session}}
	srv, _ := newTestServer(t, directory, &stubEngine{}, "")

	body := `{"username":"alice","start_time":"00:01:00","end_time":"00:02:30"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/clips/create", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unplayable session, got %d", rec.Code)
	}
}

func TestHandleClipCreateEngineFailure(t *testing.T) {
	directory := &fakeDirectory{sessions: []plex.Session{streamingSession()}}
	engine := &stubEngine{clipErr: errors.New("ffmpeg clip: exit status 1: moov atom not found")}
	srv, _ := newTestServer(t, directory, engine, "")

	body := `{"username":"alice","start_time":"00:01:00","end_time":"00:02:30"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/clips/create", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for engine failure, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "moov atom not found") {
		t.Fatalf("diagnostic not preserved: %s", rec.Body.String())
	}
}

func TestHandleSnapshot(t *testing.T) {
	directory := &fakeDirectory{sessions: []plex.Session{streamingSession()}}
	srv, _ := newTestServer(t, directory, &stubEngine{}, "")

	rec := doRequest(t, srv, http.MethodPost, "/api/clips/snapshot", `{"username":"alice","num_frames":3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var result struct {
		Timestamp string `json:"timestamp"`
		Frames    int    `json:"frames"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Timestamp != "00_42_17" || result.Frames != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestHandleDeleteIdempotent(t *testing.T) {
	srv, cfg := newTestServer(t, &fakeDirectory{}, &stubEngine{}, "")

	target := filepath.Join(cfg.VideosDir(), "clip.mp4")
	if err := os.MkdirAll(cfg.VideosDir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rec := doRequest(t, srv, http.MethodDelete, "/api/clips/file?path=static/media/videos/clip.mp4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on first delete, got %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodDelete, "/api/clips/file?path=static/media/videos/clip.mp4", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", rec.Code)
	}
}

func TestHandleTimeAdd(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDirectory{}, &stubEngine{}, "")

	rec := doRequest(t, srv, http.MethodPost, "/api/time/add", `{"current_time":"23:59:50","seconds":20}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var result struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Result != "00:00:10" {
		t.Fatalf("expected wall-clock wraparound, got %q", result.Result)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/time/add", `{"current_time":"oops","seconds":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed time, got %d", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDirectory{}, &stubEngine{}, "")

	rec := doRequest(t, srv, http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		Running      bool `json:"running"`
		PID          int  `json:"pid"`
		Dependencies []struct {
			Name string `json:"name"`
		} `json:"dependencies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.PID == 0 {
		t.Fatal("expected pid to be reported")
	}
	if len(payload.Dependencies) != 2 {
		t.Fatalf("expected two dependency entries, got %d", len(payload.Dependencies))
	}
}

func TestAuthMiddleware(t *testing.T) {
	directory := &fakeDirectory{sessions: []plex.Session{streamingSession()}}
	srv, _ := newTestServer(t, directory, &stubEngine{}, "secret")

	rec := doRequest(t, srv, http.MethodGet, "/api/plex/sessions", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/plex/sessions", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health endpoint must stay open, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDirectory{}, &stubEngine{}, "")
	rec := doRequest(t, srv, http.MethodPost, "/api/plex/sessions", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
