package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"clipplex/internal/catalog"
	"clipplex/internal/clips"
	"clipplex/internal/config"
	"clipplex/internal/daemon"
	"clipplex/internal/logging"
	"clipplex/internal/media/ffmpeg"
	"clipplex/internal/plex"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("bootstrap directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	directory := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, cfg.PlexRequestTimeout(), logger)
	engine := ffmpeg.NewCommandEngine(cfg.FFmpeg.FFmpegBinary, cfg.FFmpeg.FFprobeBinary)
	creator := clips.NewCreator(clips.Options{
		VideosDir:        cfg.VideosDir(),
		ImagesDir:        cfg.ImagesDir(),
		VideoQualityCRF:  cfg.FFmpeg.VideoQualityCRF,
		SnapshotQuality:  cfg.FFmpeg.SnapshotQuality,
		TranscodeTimeout: cfg.TranscodeTimeout(),
	}, engine, logger)
	cat := catalog.New(cfg.Paths.MediaDir, engine, logger)

	d, err := daemon.New(cfg, directory, creator, cat, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("clipplexd shutting down")
}
