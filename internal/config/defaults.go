package config

const (
	defaultPlexURL            = "http://127.0.0.1:32400"
	defaultPlexRequestTimeout = 30
	defaultMediaDir           = "~/.local/share/clipplex/media"
	defaultLogDir             = "~/.local/share/clipplex/logs"
	defaultAPIBind            = "127.0.0.1:5005"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultVideoQualityCRF    = 18
	defaultSnapshotQuality    = 2
	defaultTranscodeTimeout   = 600
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Plex: Plex{
			URL:            defaultPlexURL,
			RequestTimeout: defaultPlexRequestTimeout,
		},
		Paths: Paths{
			MediaDir: defaultMediaDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			VideoQualityCRF:  defaultVideoQualityCRF,
			SnapshotQuality:  defaultSnapshotQuality,
			TranscodeTimeout: defaultTranscodeTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
