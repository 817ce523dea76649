// Package daemon hosts the long-running Clipplex service: the HTTP API,
// static hosting of produced media, and single-instance enforcement via a
// lock file.
package daemon
