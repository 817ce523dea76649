// Package ffmpeg wraps the external ffmpeg and ffprobe tools behind the
// Engine interface consumed by the clip pipeline.
//
// Clips are always encoded as H.264/AAC in a yuv420p pixel format with a
// constant-quality CRF setting, source metadata stripped, and the caller's
// metadata embedded. Frame extraction writes numbered JPEG files from a
// printf-style output pattern.
//
// The command implementations surface the tool's stderr verbatim in the
// returned error so operators can see the real diagnostic.
package ffmpeg
