// Package codec converts between the spool wire format (newline-
// delimited JSON, one Entry per line) and an in-memory *types.Session,
// without loss: unknown fields and unknown entry types survive a
// read/write round trip unchanged.
//
// Grounded on the teacher's pkg/types/parts.go raw-message/type-switch
// technique (scaled to Entry's flat-object shape). The writer only
// produces bytes; atomic file replacement lives in internal/filestore.
package codec

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"github.com/spoolformat/spool/internal/specerr"
	"github.com/spoolformat/spool/pkg/types"
)

// Policy controls how the Reader handles a line that fails to parse.
type Policy int

const (
	// Strict aborts the whole read on the first InputFormat or
	// SchemaViolation error.
	Strict Policy = iota
	// Lenient skips the offending line and keeps going; callers can
	// inspect Reader.Diagnostics() afterward.
	Lenient
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Reader decodes a byte stream into entries under a fixed Policy,
// consistent for the whole invocation per the format spec.
type Reader struct {
	policy      Policy
	diagnostics []*specerr.Error
}

// NewReader constructs a Reader with the given line-failure policy.
func NewReader(policy Policy) *Reader {
	return &Reader{policy: policy}
}

// Diagnostics returns the non-fatal parse issues accumulated by the
// most recent Read call under Lenient policy.
func (r *Reader) Diagnostics() []*specerr.Error { return r.diagnostics }

// Read parses data into a Session. Under Strict policy, the first
// malformed or schema-invalid line aborts the read with that error.
// Under Lenient policy, such lines are skipped and recorded in
// Diagnostics.
func (r *Reader) Read(data []byte) (*types.Session, error) {
	r.diagnostics = nil
	data = bytes.TrimPrefix(data, byteOrderMark)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, specerr.New(specerr.KindEmptyInput, "input contains no entries")
	}

	var entries []*types.Entry
	lines := splitLines(data)

	for i, raw := range lines {
		lineNo := i + 1
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}

		if !utf8.Valid(line) {
			err := specerr.AtLine(specerr.KindInvalidUTF8, lineNo, "line is not valid UTF-8")
			if r.policy == Strict {
				return nil, err
			}
			r.diagnostics = append(r.diagnostics, err)
			continue
		}

		entry, err := decodeLine(line, lineNo)
		if err != nil {
			if r.policy == Strict {
				return nil, err
			}
			r.diagnostics = append(r.diagnostics, err)
			continue
		}

		entries = append(entries, entry)
	}

	return types.NewSession(entries), nil
}

// decodeLine parses one non-blank line into an Entry, checking that
// the minimal id/ts/type object shape is present before handing off to
// Entry.UnmarshalJSON.
func decodeLine(line []byte, lineNo int) (*types.Entry, *specerr.Error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(line, &probe); err != nil {
		return nil, specerr.AtLine(specerr.KindMalformedLine, lineNo, "%v", err)
	}

	for _, required := range []string{"id", "ts", "type"} {
		if _, ok := probe[required]; !ok {
			return nil, specerr.AtLine(specerr.KindMissingField, lineNo, "missing required field %q", required)
		}
	}

	var tag types.Tag
	if raw, ok := probe["type"]; ok {
		var t string
		if err := json.Unmarshal(raw, &t); err == nil {
			tag = types.Tag(t)
		}
	}
	if required, ok := requiredKeysByType[tag]; ok {
		for _, key := range required {
			if _, ok := probe[key]; !ok {
				return nil, specerr.AtLine(specerr.KindMissingField, lineNo, "%s entry missing %q", tag, key)
			}
		}
	}

	var entry types.Entry
	if err := json.Unmarshal(line, &entry); err != nil {
		return nil, specerr.AtLine(specerr.KindWrongFieldType, lineNo, "%v", err)
	}

	if tag == types.TagToolResult && entry.ToolResult.HasOutput() == entry.ToolResult.HasError() {
		return nil, specerr.AtLine(specerr.KindToolResultAmbiguous, lineNo, "tool_result must have exactly one of output/error")
	}

	return &entry, nil
}

// requiredKeysByType lists, per known entry type, the payload fields
// the format spec requires beyond id/ts/type.
var requiredKeysByType = map[types.Tag][]string{
	types.TagSession:         {"version", "agent", "recorded_at"},
	types.TagPrompt:          {"content"},
	types.TagThinking:        {"content"},
	types.TagToolCall:        {"tool", "input"},
	types.TagToolResult:      {"call_id"},
	types.TagResponse:        {"content"},
	types.TagError:           {"code", "message"},
	types.TagSubagentStart:   {"agent"},
	types.TagSubagentEnd:     {"start_id"},
	types.TagAnnotation:      {"target_id", "content"},
	types.TagRedactionMarker: {"target_id"},
}

// splitLines frames on LF, tolerating a trailing CR (CRLF) and a final
// line with no terminator.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			line := data[start:i]
			line = bytes.TrimSuffix(line, []byte{'\r'})
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, bytes.TrimSuffix(data[start:], []byte{'\r'}))
	}
	return lines
}
