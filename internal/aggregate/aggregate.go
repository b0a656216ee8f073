// Package aggregate recomputes the derived fields a session header
// carries as a convenience for readers that don't want to walk the
// whole entry list themselves: duration_ms, entry_count, tools_used,
// and files_modified. Every mutating operation (Trim, Annotate,
// ApplyRedactions, and the vendor adapters) calls Recompute before
// handing the session back to its caller.
package aggregate

import (
	"sort"

	"github.com/spoolformat/spool/pkg/types"
)

// Recompute refreshes session's header from its current entry list.
// The header entry is replaced by an updated copy rather than edited in
// place, so another session sharing the old header entry is unaffected.
// It is a no-op if the session has no header.
func Recompute(session *types.Session) {
	header, payload := session.Header()
	if header == nil || payload == nil {
		return
	}
	headerCopy := *header
	payloadCopy := *payload
	headerCopy.Session = &payloadCopy
	session.Entries[0] = &headerCopy
	payload = &payloadCopy

	var maxTS int64
	toolSet := make(map[string]bool)
	fileSet := make(map[string]bool)

	for _, e := range session.Entries {
		if e.TS > maxTS {
			maxTS = e.TS
		}
		if e.Type == types.TagToolCall && e.ToolCall != nil {
			toolSet[e.ToolCall.Tool] = true
			for _, f := range filesFromToolCall(e.ToolCall) {
				fileSet[f] = true
			}
		}
	}

	duration := maxTS
	count := len(session.Entries)
	payload.DurationMs = &duration
	payload.EntryCount = &count
	payload.ToolsUsed = sortedKeys(toolSet)
	payload.FilesModified = sortedKeys(fileSet)
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
