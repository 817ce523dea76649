package clips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"clipplex/internal/logging"
	"clipplex/internal/media/ffmpeg"
	"clipplex/internal/plex"
	"clipplex/internal/timecode"
)

// Public path prefixes under which the daemon serves produced files.
const (
	PublicVideoPrefix = "static/media/videos"
	PublicImagePrefix = "static/media/images"
)

// ErrNoPlayableMedia indicates the resolved session has no source file to
// cut from. The transcode engine is never invoked in this case.
var ErrNoPlayableMedia = errors.New("clips: session has no playable media file")

// CreationError wraps a transcode failure, preserving the tool diagnostic
// verbatim for operator visibility.
type CreationError struct {
	Op         string // "clip" or "snapshot"
	Diagnostic string
	Err        error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("%s creation failed: %s", e.Op, e.Diagnostic)
}

func (e *CreationError) Unwrap() error { return e.Err }

// ClipRequest asks for a trim window of the viewer's current stream.
// Start and End are HH:MM:SS strings. The duration is computed as end minus
// start and is deliberately not clamped; a non-positive window surfaces as a
// transcode failure rather than a silent miscut.
type ClipRequest struct {
	Viewer string
	Start  string
	End    string
}

// ClipResult describes a successfully produced clip.
type ClipResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// SnapshotResult describes a successfully produced set of snapshot frames.
type SnapshotResult struct {
	Timestamp string `json:"timestamp"`
	Frames    int    `json:"frames"`
}

// Options configures a Creator. Directories and quality settings are passed
// explicitly so multiple configurations can coexist in tests.
type Options struct {
	VideosDir        string
	ImagesDir        string
	VideoQualityCRF  int
	SnapshotQuality  int
	TranscodeTimeout time.Duration
}

// Creator builds extraction parameters from a resolved session and delegates
// the actual cut to the transcode engine. Each call is an independent job
// with no shared mutable state, so concurrent requests never interfere.
type Creator struct {
	opts   Options
	engine ffmpeg.Engine
	logger *slog.Logger
	now    func() time.Time
}

// NewCreator constructs a Creator around the given engine.
func NewCreator(opts Options, engine ffmpeg.Engine, logger *slog.Logger) *Creator {
	if opts.VideoQualityCRF <= 0 {
		opts.VideoQualityCRF = 18
	}
	if opts.SnapshotQuality <= 0 {
		opts.SnapshotQuality = 2
	}
	if opts.TranscodeTimeout <= 0 {
		opts.TranscodeTimeout = 10 * time.Minute
	}
	return &Creator{
		opts:   opts,
		engine: engine,
		logger: logging.NewComponentLogger(logger, "clip-creator"),
		now:    time.Now,
	}
}

// CreateClip cuts the requested window from the session's source file and
// embeds provenance metadata: the title, the viewer as artist, and the
// playback timestamp at poll time as comment.
func (c *Creator) CreateClip(ctx context.Context, session plex.Session, req ClipRequest) (ClipResult, error) {
	if strings.TrimSpace(session.FilePath) == "" {
		return ClipResult{}, ErrNoPlayableMedia
	}

	duration, err := timecode.Duration(req.Start, req.End)
	if err != nil {
		return ClipResult{}, err
	}

	filename := fmt.Sprintf("%s_%s_%d.mp4", req.Viewer, Sanitize(session.Title), c.now().Unix())
	outputPath := filepath.Join(c.opts.VideosDir, filename)

	metadata := map[string]string{
		"title":   session.Title,
		"comment": session.CurrentTime(),
		"artist":  session.Viewer,
	}
	if session.IsEpisode() {
		metadata["show"] = session.Show
		metadata["season_number"] = session.SeasonIndex
		metadata["episode_id"] = session.EpisodeIndex
	}

	jobID := uuid.NewString()
	logger := c.logger.With(
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldViewer, req.Viewer))
	logger.Info("starting clip extraction",
		logging.String("source", session.FilePath),
		logging.String("start", req.Start),
		logging.Int64("duration_seconds", duration))

	runCtx, cancel := context.WithTimeout(ctx, c.opts.TranscodeTimeout)
	defer cancel()

	spec := ffmpeg.ClipSpec{
		InputPath:       session.FilePath,
		Start:           req.Start,
		DurationSeconds: duration,
		OutputPath:      outputPath,
		CRF:             c.opts.VideoQualityCRF,
		Metadata:        metadata,
	}
	if err := c.engine.ExtractClip(runCtx, spec); err != nil {
		logger.Error("clip extraction failed", logging.Error(err))
		return ClipResult{}, &CreationError{Op: "clip", Diagnostic: err.Error(), Err: err}
	}

	logger.Info("clip created", logging.String("filename", filename))
	return ClipResult{
		Filename: filename,
		Path:     path.Join(PublicVideoPrefix, filename),
	}, nil
}

// CreateSnapshot extracts frameCount still frames at the session's current
// playback position. A non-positive count defaults to a single frame.
func (c *Creator) CreateSnapshot(ctx context.Context, session plex.Session, frameCount int) (SnapshotResult, error) {
	if strings.TrimSpace(session.FilePath) == "" {
		return SnapshotResult{}, ErrNoPlayableMedia
	}
	if frameCount <= 0 {
		frameCount = 1
	}

	timestamp := strings.ReplaceAll(session.CurrentTime(), ":", "_")
	pattern := filepath.Join(c.opts.ImagesDir, timestamp+"_%03d.jpg")

	runCtx, cancel := context.WithTimeout(ctx, c.opts.TranscodeTimeout)
	defer cancel()

	spec := ffmpeg.FrameSpec{
		InputPath:     session.FilePath,
		Start:         session.CurrentTime(),
		FrameCount:    frameCount,
		OutputPattern: pattern,
		Quality:       c.opts.SnapshotQuality,
	}
	if err := c.engine.ExtractFrames(runCtx, spec); err != nil {
		c.logger.Error("snapshot extraction failed",
			logging.String(logging.FieldViewer, session.Viewer),
			logging.Error(err))
		return SnapshotResult{}, &CreationError{Op: "snapshot", Diagnostic: err.Error(), Err: err}
	}

	c.logger.Info("snapshot created",
		logging.String(logging.FieldViewer, session.Viewer),
		logging.String("timestamp", timestamp),
		logging.Int("frames", frameCount))
	return SnapshotResult{Timestamp: timestamp, Frames: frameCount}, nil
}
