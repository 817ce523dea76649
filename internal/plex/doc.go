// Package plex resolves "what is viewer X watching right now" against a Plex
// Media Server.
//
// The server reports sessions as a semi-structured XML tree where a given
// child tag may appear zero, one, or many times. This package resolves all of
// the maybe-list, maybe-absent cases once at the boundary, producing the
// fixed-shape Session type the rest of the pipeline consumes.
//
// Failure taxonomy:
//   - UnreachableError: the directory fetch could not connect
//   - StatusError: the directory responded with an error status
//   - ErrNoSession: no active session matched the requested viewer
package plex
