package spool

import (
	"github.com/spoolformat/spool/internal/aggregate"
	"github.com/spoolformat/spool/pkg/types"
)

// Trim keeps the header and every entry with startMs <= ts <= endMs,
// sets the header's trimmed field to record what was cut, and
// recomputes the header's aggregate fields. The input session is not
// mutated.
func Trim(session *types.Session, startMs, endMs int64) *types.Session {
	header, payload := session.Header()

	var originalDuration int64
	if payload != nil && payload.DurationMs != nil {
		originalDuration = *payload.DurationMs
	} else {
		for _, e := range session.Entries {
			if e.TS > originalDuration {
				originalDuration = e.TS
			}
		}
	}

	kept := make([]*types.Entry, 0, len(session.Entries))
	if header != nil {
		kept = append(kept, header)
	}
	for _, e := range session.Entries {
		if e == header {
			continue
		}
		if e.TS >= startMs && e.TS <= endMs {
			kept = append(kept, e)
		}
	}

	out := types.NewSession(kept)
	aggregate.Recompute(out)

	if _, newPayload := out.Header(); newPayload != nil {
		newPayload.Trimmed = &types.Trimmed{
			OriginalDurationMs: originalDuration,
			KeptRange:          [2]int64{startMs, endMs},
		}
	}

	return out
}
