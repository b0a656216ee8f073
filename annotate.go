package spool

import (
	"errors"
	"fmt"
	"time"

	"github.com/spoolformat/spool/internal/aggregate"
	"github.com/spoolformat/spool/internal/idgen"
	"github.com/spoolformat/spool/pkg/types"
)

// ErrAnnotationTarget is returned by Annotate, wrapped with the id
// that was looked up, when targetID does not name any entry.
var ErrAnnotationTarget = errors.New("no entry with that id")

// Annotate inserts a new annotation entry immediately after the entry
// named by targetID, carrying the target's ts, a freshly generated id,
// and the current wall-clock time as created_at. style is optional;
// a nil style omits the field and lets readers fall back to the
// format's default rendering. The input session is not mutated.
func Annotate(session *types.Session, targetID, content string, style *string) (*types.Session, error) {
	idx := session.IndexOf(targetID)
	if idx < 0 {
		return nil, fmt.Errorf("annotate %q: %w", targetID, ErrAnnotationTarget)
	}

	note := types.NewEntry(idgen.New(), session.Entries[idx].TS, types.TagAnnotation)
	note.Annotation = &types.Annotation{
		TargetID:  targetID,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if style != nil {
		note.Annotation.Style = *style
	}

	out := make([]*types.Entry, 0, len(session.Entries)+1)
	out = append(out, session.Entries[:idx+1]...)
	out = append(out, note)
	out = append(out, session.Entries[idx+1:]...)

	result := types.NewSession(out)
	aggregate.Recompute(result)
	return result, nil
}
