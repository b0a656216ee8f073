package spool

import (
	"github.com/spoolformat/spool/internal/aggregate"
	"github.com/spoolformat/spool/internal/redact"
	"github.com/spoolformat/spool/pkg/types"
)

// Finding is one detected secret occurrence, produced by Detect and
// consumed by ApplyRedactions.
type Finding = redact.Finding

// Detect scans every text-bearing entry in session against the fixed
// twelve-category redaction rule table and returns all findings.
func Detect(session *types.Session) []Finding {
	return redact.NewScrubber().Detect(session)
}

// ApplyRedactions destructively substitutes every confirmed finding's
// matched text with a category placeholder, emits a redaction_marker
// immediately after each affected entry, and recomputes the header's
// aggregate fields. The input session is not mutated.
func ApplyRedactions(session *types.Session, confirmed []Finding) *types.Session {
	out := redact.Apply(session, confirmed)
	aggregate.Recompute(out)
	return out
}
