// Package clips turns a resolved Plex session plus a caller request into
// transcode parameters and delegates the cut to the ffmpeg engine.
//
// The orchestrator derives deterministic, collision-resistant output names,
// embeds provenance metadata (viewer, title, original playback timestamp)
// into produced clips, and bounds every engine invocation with a timeout.
// Failures wrap the tool diagnostic into CreationError; nothing is retried.
package clips
