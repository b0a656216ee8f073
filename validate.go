package spool

import (
	"github.com/spoolformat/spool/internal/validate"
	"github.com/spoolformat/spool/pkg/types"
)

// Violation is a single structural invariant failure or reference
// warning found by Validate.
type Violation = validate.Violation

// Validate checks session against every structural invariant and
// returns the full list of violations (nil if none). It never stops
// at the first violation.
func Validate(session *types.Session) []Violation {
	return validate.Validate(session)
}

// OK reports whether violations contains no fatal entries — only
// tolerated reference warnings, if any.
func OK(violations []Violation) bool {
	return validate.OK(violations)
}
