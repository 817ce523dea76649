package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Tags carries the embedded metadata written at clip creation time and read
// back when listing the catalog.
type Tags struct {
	Title        string `json:"title"`
	Comment      string `json:"comment"`
	Artist       string `json:"artist"`
	Show         string `json:"show"`
	EpisodeID    string `json:"episode_id"`
	SeasonNumber string `json:"season_number"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
	Tags     Tags   `json:"tags"`
}

// ProbeResult represents the parsed output from an ffprobe inspection.
type ProbeResult struct {
	Format Format `json:"format"`
}

// Probe executes ffprobe against the provided path and decodes the JSON
// response.
func (e *CommandEngine) Probe(ctx context.Context, path string) (ProbeResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ProbeResult{}, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, e.ffprobeBinary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return parseProbe(output)
}

func parseProbe(data []byte) (ProbeResult, error) {
	var result ProbeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}
