package catalog

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"clipplex/internal/clips"
	"clipplex/internal/logging"
	"clipplex/internal/media/ffmpeg"
)

// Video describes a produced clip, reconstructed from its embedded tags.
type Video struct {
	Path              string `json:"file_path"`
	Title             string `json:"title"`
	OriginalStartTime string `json:"original_start_time"`
	Viewer            string `json:"username"`
	Show              string `json:"show"`
	EpisodeNumber     string `json:"episode_number"`
	SeasonNumber      string `json:"season_number"`
}

// Catalog enumerates and deletes produced artifacts. No in-memory index is
// kept; the filesystem plus embedded tags is the source of truth.
type Catalog struct {
	mediaDir string
	engine   ffmpeg.Engine
	logger   *slog.Logger
}

// New constructs a catalog over the media root (the directory containing the
// videos/ and images/ subtrees).
func New(mediaDir string, engine ffmpeg.Engine, logger *slog.Logger) *Catalog {
	return &Catalog{
		mediaDir: mediaDir,
		engine:   engine,
		logger:   logging.NewComponentLogger(logger, "catalog"),
	}
}

// Videos lists produced clips with their descriptive metadata. A file whose
// tags cannot be read is skipped with a warning rather than failing the
// listing.
func (c *Catalog) Videos(ctx context.Context) ([]Video, error) {
	dir := filepath.Join(c.mediaDir, "videos")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	videos := make([]Video, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp4") {
			continue
		}
		result, err := c.engine.Probe(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			c.logger.Warn("skipping unreadable clip",
				logging.String(logging.FieldPath, entry.Name()),
				logging.Error(err))
			continue
		}
		tags := result.Format.Tags
		videos = append(videos, Video{
			Path:              path.Join(clips.PublicVideoPrefix, entry.Name()),
			Title:             tags.Title,
			OriginalStartTime: tags.Comment,
			Viewer:            tags.Artist,
			Show:              tags.Show,
			EpisodeNumber:     tags.EpisodeID,
			SeasonNumber:      tags.SeasonNumber,
		})
	}
	return videos, nil
}

// Images lists produced snapshot frames as public relative paths, sorted
// lexicographically for deterministic ordering.
func (c *Catalog) Images() ([]string, error) {
	dir := filepath.Join(c.mediaDir, "images")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jpg") {
			continue
		}
		images = append(images, path.Join(clips.PublicImagePrefix, entry.Name()))
	}
	sort.Strings(images)
	return images, nil
}

// Delete removes one artifact addressed by its public relative path. The
// path is resolved strictly beneath the media root; anything escaping it is
// refused. Returns false, not an error, when nothing was deleted, so callers
// can treat deletion as idempotent.
func (c *Catalog) Delete(relPath string) bool {
	trimmed := strings.TrimPrefix(relPath, "static/")
	trimmed = strings.TrimPrefix(trimmed, "media/")

	full := filepath.Join(c.mediaDir, filepath.FromSlash(trimmed))
	rel, err := filepath.Rel(c.mediaDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		c.logger.Warn("refusing deletion outside media root", logging.String(logging.FieldPath, relPath))
		return false
	}

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		c.logger.Warn("artifact not found", logging.String(logging.FieldPath, relPath))
		return false
	}

	if err := os.Remove(full); err != nil {
		c.logger.Error("failed to delete artifact",
			logging.String(logging.FieldPath, full),
			logging.Error(err))
		return false
	}
	c.logger.Info("deleted artifact", logging.String(logging.FieldPath, full))
	return true
}
