package adapter

import (
	"github.com/spoolformat/spool/internal/aggregate"
	"github.com/spoolformat/spool/pkg/types"
)

// Builder accumulates the entries an adapter's second pass emits and
// finalizes them into a Session, per steps 3 and 7 of the common
// adapter algorithm.
type Builder struct {
	SessionStartMs int64
	entries        []*types.Entry
}

// NewBuilder returns a Builder anchored at sessionStart, the earliest
// vendor timestamp found by the metadata sweep (in milliseconds).
func NewBuilder(sessionStartMs int64) *Builder {
	return &Builder{SessionStartMs: sessionStartMs}
}

// RelativeTS converts an absolute vendor timestamp (milliseconds since
// epoch) into the session-relative ts the format stores, clamped to
// zero so a vendor clock that runs backward never yields a negative
// timestamp.
func (b *Builder) RelativeTS(vendorMs int64) int64 {
	rel := vendorMs - b.SessionStartMs
	if rel < 0 {
		return 0
	}
	return rel
}

// Append adds an entry to the emitted sequence, preserving vendor
// order.
func (b *Builder) Append(e *types.Entry) {
	b.entries = append(b.entries, e)
}

// Entries returns the entries emitted so far, excluding the header.
func (b *Builder) Entries() []*types.Entry { return b.entries }

// Finish assembles header and the emitted entries into a Session and
// recomputes the header's derived fields, then sets Ended.
func (b *Builder) Finish(header *types.Entry, ended string) *types.Session {
	all := make([]*types.Entry, 0, len(b.entries)+1)
	all = append(all, header)
	all = append(all, b.entries...)

	session := types.NewSession(all)
	aggregate.Recompute(session)
	if _, payload := session.Header(); payload != nil {
		payload.Ended = ended
	}
	return session
}
