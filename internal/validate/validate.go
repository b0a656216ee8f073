// Package validate enforces the structural invariants of §3 of the
// format spec on a fully loaded *types.Session, accumulating every
// violation found rather than stopping at the first one.
package validate

import (
	"strconv"
	"strings"

	"github.com/spoolformat/spool/internal/specerr"
	"github.com/spoolformat/spool/pkg/types"
)

// Violation is one invariant failure: a Kind, the entry index it
// concerns (-1 if not applicable), and a human-readable Message.
type Violation struct {
	Kind    specerr.Kind
	Index   int
	Message string
}

// Fatal reports whether this violation blocks the file from being
// considered structurally OK, as opposed to being a tolerated warning
// (DanglingToolResult, DanglingSubagentEnd, OrphanedMarker).
func (v Violation) Fatal() bool { return specerr.Fatal(v.Kind) }

func (v Violation) Error() string {
	return (&specerr.Error{Kind: v.Kind, Index: v.Index, Message: v.Message}).Error()
}

const supportedMajor = "1"

// Validate checks session against every invariant in format spec §3
// and returns the full list of violations found (nil if none). It
// never stops early.
func Validate(session *types.Session) []Violation {
	var violations []Violation

	violations = append(violations, checkHeader(session)...)
	violations = append(violations, checkIDUniqueness(session)...)
	violations = append(violations, checkTimestamps(session)...)

	ids := indexByID(session)
	violations = append(violations, checkToolResultReferences(session, ids)...)
	violations = append(violations, checkSubagentReferences(session, ids)...)
	violations = append(violations, checkMarkerReferences(session, ids)...)
	violations = append(violations, checkToolResultExclusivity(session)...)

	return violations
}

// OK reports whether session has no fatal (non-warning) violations.
func OK(violations []Violation) bool {
	for _, v := range violations {
		if v.Fatal() {
			return false
		}
	}
	return true
}

func checkHeader(s *types.Session) []Violation {
	if len(s.Entries) == 0 {
		return []Violation{{Kind: specerr.KindMissingHeader, Index: -1, Message: "session has no entries"}}
	}

	var out []Violation
	headerIdx := -1
	for i, e := range s.Entries {
		if e.Type == types.TagSession {
			if headerIdx == -1 {
				headerIdx = i
			}
		}
	}
	if headerIdx == -1 {
		return []Violation{{Kind: specerr.KindMissingHeader, Index: -1, Message: "no session entry present"}}
	}
	if headerIdx != 0 {
		out = append(out, Violation{Kind: specerr.KindHeaderNotFirst, Index: headerIdx, Message: "session entry must be at index 0"})
	}

	header := s.Entries[headerIdx]
	if header.TS != 0 {
		out = append(out, Violation{Kind: specerr.KindHeaderTsNonZero, Index: headerIdx, Message: "header ts must be 0"})
	}
	if header.Session != nil {
		major := header.Session.Version
		if i := strings.IndexByte(major, '.'); i >= 0 {
			major = major[:i]
		}
		if major != supportedMajor {
			out = append(out, Violation{Kind: specerr.KindUnsupportedMajorVersion, Index: headerIdx,
				Message: "unsupported major version " + header.Session.Version})
		}
	}

	return out
}

func checkIDUniqueness(s *types.Session) []Violation {
	var out []Violation
	seen := make(map[string]int)
	for i, e := range s.Entries {
		if first, ok := seen[e.ID]; ok {
			out = append(out, Violation{Kind: specerr.KindDuplicateId, Index: i,
				Message: "duplicate id, first seen at entry " + strconv.Itoa(first)})
			continue
		}
		seen[e.ID] = i
	}
	return out
}

func checkTimestamps(s *types.Session) []Violation {
	var out []Violation
	for i, e := range s.Entries {
		if e.TS < 0 {
			out = append(out, Violation{Kind: specerr.KindNegativeTimestamp, Index: i, Message: "ts is negative"})
		}
	}
	return out
}

// indexByID maps id -> first index; duplicate ids resolve to the
// first entry in insertion order.
func indexByID(s *types.Session) map[string]int {
	m := make(map[string]int, len(s.Entries))
	for i, e := range s.Entries {
		if _, ok := m[e.ID]; !ok {
			m[e.ID] = i
		}
	}
	return m
}

func checkToolResultReferences(s *types.Session, ids map[string]int) []Violation {
	var out []Violation
	for i, e := range s.Entries {
		if e.Type != types.TagToolResult || e.ToolResult == nil {
			continue
		}
		refIdx, ok := ids[e.ToolResult.CallID]
		if !ok || refIdx >= i || s.Entries[refIdx].Type != types.TagToolCall {
			out = append(out, Violation{Kind: specerr.KindDanglingToolResult, Index: i,
				Message: "call_id " + e.ToolResult.CallID + " does not refer to an earlier tool_call"})
		}
	}
	return out
}

func checkSubagentReferences(s *types.Session, ids map[string]int) []Violation {
	var out []Violation
	for i, e := range s.Entries {
		if e.Type != types.TagSubagentEnd || e.SubagentEnd == nil {
			continue
		}
		refIdx, ok := ids[e.SubagentEnd.StartID]
		if !ok || refIdx >= i || s.Entries[refIdx].Type != types.TagSubagentStart {
			out = append(out, Violation{Kind: specerr.KindDanglingSubagentEnd, Index: i,
				Message: "start_id " + e.SubagentEnd.StartID + " does not refer to an earlier subagent_start"})
		}
	}
	return out
}

func checkMarkerReferences(s *types.Session, ids map[string]int) []Violation {
	var out []Violation
	for i, e := range s.Entries {
		var targetID string
		switch e.Type {
		case types.TagAnnotation:
			targetID = e.Annotation.TargetID
		case types.TagRedactionMarker:
			targetID = e.RedactionMarker.TargetID
		default:
			continue
		}
		if _, ok := ids[targetID]; !ok {
			out = append(out, Violation{Kind: specerr.KindOrphanedMarker, Index: i,
				Message: "target_id " + targetID + " does not refer to any entry"})
		}
	}
	return out
}

func checkToolResultExclusivity(s *types.Session) []Violation {
	var out []Violation
	for i, e := range s.Entries {
		if e.Type != types.TagToolResult || e.ToolResult == nil {
			continue
		}
		if e.ToolResult.HasOutput() == e.ToolResult.HasError() {
			out = append(out, Violation{Kind: specerr.KindToolResultAmbiguous, Index: i,
				Message: "tool_result must have exactly one of output/error"})
		}
	}
	return out
}
