// Package spool reads, writes, validates, redacts, trims, and
// annotates AI-agent session recordings in the spool format: one JSON
// object per line, a session header followed by an ordered sequence
// of typed entries.
//
// The package is a thin facade over internal/codec, internal/validate,
// internal/redact, and internal/aggregate — each public function here
// mirrors one operation from the format's external interface.
package spool
