package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// ClipSpec describes a single clip extraction: a trim window on the input
// plus output encoding and embedded metadata.
type ClipSpec struct {
	InputPath       string
	Start           string // HH:MM:SS seek offset
	DurationSeconds int64
	OutputPath      string
	CRF             int
	Metadata        map[string]string
}

// FrameSpec describes a still-frame extraction run.
type FrameSpec struct {
	InputPath     string
	Start         string // HH:MM:SS seek offset
	FrameCount    int
	OutputPattern string // printf-style pattern, one file per frame
	Quality       int    // -qscale:v value, lower is better
}

// Engine is the transcode capability injected into the clip pipeline.
// Substituting a fake isolates tests from the native tooling.
type Engine interface {
	ExtractClip(ctx context.Context, spec ClipSpec) error
	ExtractFrames(ctx context.Context, spec FrameSpec) error
	Probe(ctx context.Context, path string) (ProbeResult, error)
}

// CommandEngine runs ffmpeg and ffprobe as external commands.
type CommandEngine struct {
	ffmpegBinary  string
	ffprobeBinary string
}

// NewCommandEngine constructs an engine around the given binary names.
// Empty names fall back to the tools on PATH.
func NewCommandEngine(ffmpegBinary, ffprobeBinary string) *CommandEngine {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	return &CommandEngine{ffmpegBinary: ffmpegBinary, ffprobeBinary: ffprobeBinary}
}

// ExtractClip trims the requested window from the input and re-encodes it as
// H.264/AAC with the provided metadata embedded.
func (e *CommandEngine) ExtractClip(ctx context.Context, spec ClipSpec) error {
	if strings.TrimSpace(spec.InputPath) == "" {
		return errors.New("ffmpeg clip: empty input path")
	}
	return e.run(ctx, "clip", clipArgs(spec))
}

// ExtractFrames seeks to the requested offset and writes FrameCount still
// frames using the output pattern.
func (e *CommandEngine) ExtractFrames(ctx context.Context, spec FrameSpec) error {
	if strings.TrimSpace(spec.InputPath) == "" {
		return errors.New("ffmpeg frames: empty input path")
	}
	return e.run(ctx, "frames", frameArgs(spec))
}

func (e *CommandEngine) run(ctx context.Context, op string, args []string) error {
	cmd := exec.CommandContext(ctx, e.ffmpegBinary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w: %s", op, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func clipArgs(spec ClipSpec) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-ss", spec.Start,
		"-t", strconv.FormatInt(spec.DurationSeconds, 10),
		"-i", spec.InputPath,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-pix_fmt", "yuv420p",
		"-crf", strconv.Itoa(spec.CRF),
		"-map_metadata", "-1",
	}
	for _, key := range sortedKeys(spec.Metadata) {
		value := spec.Metadata[key]
		if value == "" {
			continue
		}
		args = append(args, "-metadata", key+"="+value)
	}
	return append(args, spec.OutputPath)
}

func frameArgs(spec FrameSpec) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-ss", spec.Start,
		"-i", spec.InputPath,
		"-vframes", strconv.Itoa(spec.FrameCount),
		"-qscale:v", strconv.Itoa(spec.Quality),
		spec.OutputPattern,
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
