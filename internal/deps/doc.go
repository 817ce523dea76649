// Package deps verifies availability of the external tools Clipplex shells
// out to. Results feed the daemon status report.
package deps
