// Package api defines the transport DTOs shared by the daemon's HTTP
// handlers and the CLI, plus converters from internal domain types.
package api
