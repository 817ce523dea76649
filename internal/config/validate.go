package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlex() error {
	if strings.TrimSpace(c.Plex.URL) == "" {
		return errors.New("plex.url must be set")
	}
	if strings.TrimSpace(c.Plex.Token) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/clipplex/config.toml"
		}
		return fmt.Errorf("plex.token is required. Edit %s (create with 'clipplex config init')", defaultPath)
	}
	if c.Plex.RequestTimeout <= 0 {
		return errors.New("plex.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		return errors.New("paths.media_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.FFmpegBinary == "" {
		return errors.New("ffmpeg.ffmpeg_binary must be set")
	}
	if c.FFmpeg.FFprobeBinary == "" {
		return errors.New("ffmpeg.ffprobe_binary must be set")
	}
	if c.FFmpeg.VideoQualityCRF < 0 || c.FFmpeg.VideoQualityCRF > 51 {
		return errors.New("ffmpeg.video_quality_crf must be between 0 and 51")
	}
	if c.FFmpeg.SnapshotQuality < 1 || c.FFmpeg.SnapshotQuality > 31 {
		return errors.New("ffmpeg.snapshot_quality must be between 1 and 31")
	}
	if c.FFmpeg.TranscodeTimeout <= 0 {
		return errors.New("ffmpeg.transcode_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
