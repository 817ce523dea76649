// Package catalog reconstructs descriptive metadata for previously produced
// clips and snapshots by re-reading embedded tags and filename patterns.
//
// Deletion is scoped strictly beneath the managed media root and is
// idempotent-safe: a missing artifact yields false, never an error.
package catalog
