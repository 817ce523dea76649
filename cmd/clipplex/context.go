package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipplex/internal/catalog"
	"clipplex/internal/clips"
	"clipplex/internal/config"
	"clipplex/internal/logging"
	"clipplex/internal/media/ffmpeg"
	"clipplex/internal/plex"
)

// commandContext lazily loads configuration and builds the domain services
// each command needs. The CLI talks to Plex and ffmpeg directly; no daemon
// is required.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) directory() (*plex.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, cfg.PlexRequestTimeout(), logging.NewNop()), nil
}

func (c *commandContext) engine() (*ffmpeg.CommandEngine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ffmpeg.NewCommandEngine(cfg.FFmpeg.FFmpegBinary, cfg.FFmpeg.FFprobeBinary), nil
}

func (c *commandContext) creator() (*clips.Creator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	engine, err := c.engine()
	if err != nil {
		return nil, err
	}
	return clips.NewCreator(clips.Options{
		VideosDir:        cfg.VideosDir(),
		ImagesDir:        cfg.ImagesDir(),
		VideoQualityCRF:  cfg.FFmpeg.VideoQualityCRF,
		SnapshotQuality:  cfg.FFmpeg.SnapshotQuality,
		TranscodeTimeout: cfg.TranscodeTimeout(),
	}, engine, logging.NewNop()), nil
}

func (c *commandContext) catalog() (*catalog.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	engine, err := c.engine()
	if err != nil {
		return nil, err
	}
	return catalog.New(cfg.Paths.MediaDir, engine, logging.NewNop()), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
