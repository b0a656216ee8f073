package spool

import (
	"github.com/spoolformat/spool/internal/codec"
	"github.com/spoolformat/spool/pkg/types"
)

// ReadPolicy controls how Read handles a malformed or schema-invalid
// line.
type ReadPolicy = codec.Policy

const (
	// Strict aborts the whole read on the first InputFormat or
	// SchemaViolation error.
	Strict ReadPolicy = codec.Strict
	// Lenient skips the offending line and keeps going.
	Lenient ReadPolicy = codec.Lenient
)

// Read parses a .spool byte stream into a Session under the given
// policy.
func Read(data []byte, policy ReadPolicy) (*types.Session, error) {
	return codec.NewReader(policy).Read(data)
}
