package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"clipplex/internal/logging"
	"clipplex/internal/media/ffmpeg"
)

type probeEngine struct {
	results map[string]ffmpeg.ProbeResult
	errs    map[string]error
}

func (e *probeEngine) ExtractClip(context.Context, ffmpeg.ClipSpec) error {
	return errors.New("not implemented")
}

func (e *probeEngine) ExtractFrames(context.Context, ffmpeg.FrameSpec) error {
	return errors.New("not implemented")
}

func (e *probeEngine) Probe(_ context.Context, path string) (ffmpeg.ProbeResult, error) {
	if err, ok := e.errs[filepath.Base(path)]; ok {
		return ffmpeg.ProbeResult{}, err
	}
	return e.results[filepath.Base(path)], nil
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestVideosReadsEmbeddedTags(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "videos", "alice_Pilot_1700000000.mp4"))
	writeFile(t, filepath.Join(root, "videos", "notes.txt"))

	engine := &probeEngine{results: map[string]ffmpeg.ProbeResult{
		"alice_Pilot_1700000000.mp4": {Format: ffmpeg.Format{Tags: ffmpeg.Tags{
			Title:        "The Expanse - Pilot",
			Comment:      "00:42:17",
			Artist:       "alice",
			Show:         "The Expanse",
			EpisodeID:    "1",
			SeasonNumber: "1",
		}}},
	}}
	cat := New(root, engine, logging.NewNop())

	videos, err := cat.Videos(context.Background())
	if err != nil {
		t.Fatalf("Videos: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected one video, got %d", len(videos))
	}
	video := videos[0]
	if video.Path != "static/media/videos/alice_Pilot_1700000000.mp4" {
		t.Fatalf("unexpected public path: %q", video.Path)
	}
	if video.Title != "The Expanse - Pilot" || video.Viewer != "alice" {
		t.Fatalf("unexpected tags: %+v", video)
	}
	if video.OriginalStartTime != "00:42:17" {
		t.Fatalf("comment should surface as original start time, got %q", video.OriginalStartTime)
	}
	if video.Show != "The Expanse" || video.SeasonNumber != "1" || video.EpisodeNumber != "1" {
		t.Fatalf("episode tags missing: %+v", video)
	}
}

func TestVideosSkipsUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "videos", "good.mp4"))
	writeFile(t, filepath.Join(root, "videos", "corrupt.mp4"))

	engine := &probeEngine{
		results: map[string]ffmpeg.ProbeResult{
			"good.mp4": {Format: ffmpeg.Format{Tags: ffmpeg.Tags{Title: "Good"}}},
		},
		errs: map[string]error{
			"corrupt.mp4": errors.New("ffprobe: exit status 1: moov atom not found"),
		},
	}
	cat := New(root, engine, logging.NewNop())

	videos, err := cat.Videos(context.Background())
	if err != nil {
		t.Fatalf("Videos: %v", err)
	}
	if len(videos) != 1 || videos[0].Title != "Good" {
		t.Fatalf("expected only the readable clip, got %+v", videos)
	}
}

func TestVideosMissingDirectory(t *testing.T) {
	cat := New(t.TempDir(), &probeEngine{}, logging.NewNop())
	videos, err := cat.Videos(context.Background())
	if err != nil {
		t.Fatalf("Videos: %v", err)
	}
	if len(videos) != 0 {
		t.Fatalf("expected empty listing, got %+v", videos)
	}
}

func TestImagesSortedPublicPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "images", "00_42_17_002.jpg"))
	writeFile(t, filepath.Join(root, "images", "00_42_17_001.jpg"))
	writeFile(t, filepath.Join(root, "images", "thumbs.db"))

	cat := New(root, &probeEngine{}, logging.NewNop())
	images, err := cat.Images()
	if err != nil {
		t.Fatalf("Images: %v", err)
	}
	want := []string{
		"static/media/images/00_42_17_001.jpg",
		"static/media/images/00_42_17_002.jpg",
	}
	if len(images) != len(want) {
		t.Fatalf("expected %d images, got %v", len(want), images)
	}
	if !sort.StringsAreSorted(images) {
		t.Fatalf("listing not sorted: %v", images)
	}
	for i, image := range images {
		if image != want[i] {
			t.Fatalf("unexpected entry at %d: %q", i, image)
		}
	}
}

func TestDeleteStripsPublicPrefix(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "videos", "clip.mp4")
	writeFile(t, target)

	cat := New(root, &probeEngine{}, logging.NewNop())
	if !cat.Delete("static/media/videos/clip.mp4") {
		t.Fatal("expected deletion to succeed")
	}
	if _, err := os.Stat(target); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("file should be gone")
	}
}

func TestDeleteMissingFile(t *testing.T) {
	cat := New(t.TempDir(), &probeEngine{}, logging.NewNop())
	if cat.Delete("static/media/videos/nope.mp4") {
		t.Fatal("expected false for a missing file")
	}
}

func TestDeleteRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "outside.txt")
	writeFile(t, outside)
	t.Cleanup(func() { _ = os.Remove(outside) })

	cat := New(root, &probeEngine{}, logging.NewNop())
	if cat.Delete("static/media/../../outside.txt") {
		t.Fatal("traversal must be refused")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("outside file should survive: %v", err)
	}
}

func TestDeleteRejectsDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "videos"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cat := New(root, &probeEngine{}, logging.NewNop())
	if cat.Delete("static/media/videos") {
		t.Fatal("directories must not be deletable")
	}
}
