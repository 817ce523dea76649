// Package timecode converts between millisecond playback offsets and the
// HH:MM:SS strings used throughout the clip pipeline.
//
// Arithmetic on rendered strings wraps modulo 24 hours, matching wall-clock
// semantics. Duration calculation is intentionally permissive: a negative
// span is returned as-is so the transcode layer can surface the failure.
package timecode
