package types

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Tag is the discriminator carried in every entry's "type" field.
type Tag string

const (
	TagSession         Tag = "session"
	TagPrompt          Tag = "prompt"
	TagThinking        Tag = "thinking"
	TagToolCall        Tag = "tool_call"
	TagToolResult      Tag = "tool_result"
	TagResponse        Tag = "response"
	TagError           Tag = "error"
	TagSubagentStart   Tag = "subagent_start"
	TagSubagentEnd     Tag = "subagent_end"
	TagAnnotation      Tag = "annotation"
	TagRedactionMarker Tag = "redaction_marker"
)

// knownTags is the fixed eleven-tag vocabulary from the format spec.
var knownTags = map[Tag]bool{
	TagSession: true, TagPrompt: true, TagThinking: true,
	TagToolCall: true, TagToolResult: true, TagResponse: true,
	TagError: true, TagSubagentStart: true, TagSubagentEnd: true,
	TagAnnotation: true, TagRedactionMarker: true,
}

// IsExtensionTag reports whether tag is in the reserved x_ namespace.
func IsExtensionTag(tag string) bool {
	return strings.HasPrefix(tag, "x_")
}

// Entry is one record in a Session: the common id/ts/type fields plus
// exactly one populated variant payload, plus whatever fields a reader
// didn't recognize.
type Entry struct {
	ID   string `json:"id"`
	TS   int64  `json:"ts"`
	Type Tag    `json:"type"`

	Session         *SessionHeader   `json:"-"`
	Prompt          *Prompt          `json:"-"`
	Thinking        *Thinking        `json:"-"`
	ToolCall        *ToolCall        `json:"-"`
	ToolResult      *ToolResult      `json:"-"`
	Response        *Response        `json:"-"`
	Error           *ErrorPayload    `json:"-"`
	SubagentStart   *SubagentStart   `json:"-"`
	SubagentEnd     *SubagentEnd     `json:"-"`
	Annotation      *Annotation      `json:"-"`
	RedactionMarker *RedactionMarker `json:"-"`

	// Extras holds fields this reader didn't recognize for Type: unknown
	// keys on a known entry type, or the whole payload of an unknown/x_
	// entry type. Re-merged verbatim on MarshalJSON.
	Extras map[string]json.RawMessage `json:"-"`
}

// NewEntry builds a common id/ts/type shell with no payload and no
// extras, ready for a caller to attach one of the variant fields.
func NewEntry(id string, ts int64, tag Tag) *Entry {
	return &Entry{ID: id, TS: ts, Type: tag}
}

// Payload returns the populated variant value for e.Type, or nil if
// e.Type is unknown/x_ or the corresponding field was never set.
func (e *Entry) Payload() any {
	switch e.Type {
	case TagSession:
		return e.Session
	case TagPrompt:
		return e.Prompt
	case TagThinking:
		return e.Thinking
	case TagToolCall:
		return e.ToolCall
	case TagToolResult:
		return e.ToolResult
	case TagResponse:
		return e.Response
	case TagError:
		return e.Error
	case TagSubagentStart:
		return e.SubagentStart
	case TagSubagentEnd:
		return e.SubagentEnd
	case TagAnnotation:
		return e.Annotation
	case TagRedactionMarker:
		return e.RedactionMarker
	default:
		return nil
	}
}

// MarshalJSON flattens the common fields, the populated variant
// payload's fields, and any extras into a single JSON object, matching
// the one-object-per-line wire shape.
func (e *Entry) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":   e.ID,
		"ts":   e.TS,
		"type": string(e.Type),
	}

	if payload := e.Payload(); payload != nil {
		fields, err := structToMap(payload)
		if err != nil {
			return nil, fmt.Errorf("spool: marshal %s payload: %w", e.Type, err)
		}
		for k, v := range fields {
			out[k] = v
		}
	}

	for k, raw := range e.Extras {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("spool: marshal extra %q: %w", k, err)
		}
		out[k] = v
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a single wire object into an Entry, routing the
// payload fields into the matching variant struct (if Type is one of
// the eleven known tags) and everything else into Extras.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if idRaw, ok := raw["id"]; ok {
		if err := json.Unmarshal(idRaw, &e.ID); err != nil {
			return fmt.Errorf("spool: field id: %w", err)
		}
		delete(raw, "id")
	}
	if tsRaw, ok := raw["ts"]; ok {
		if err := json.Unmarshal(tsRaw, &e.TS); err != nil {
			return fmt.Errorf("spool: field ts: %w", err)
		}
		delete(raw, "ts")
	}
	if typeRaw, ok := raw["type"]; ok {
		var t string
		if err := json.Unmarshal(typeRaw, &t); err != nil {
			return fmt.Errorf("spool: field type: %w", err)
		}
		e.Type = Tag(t)
		delete(raw, "type")
	}

	var payload any
	switch e.Type {
	case TagSession:
		e.Session = &SessionHeader{}
		payload = e.Session
	case TagPrompt:
		e.Prompt = &Prompt{}
		payload = e.Prompt
	case TagThinking:
		e.Thinking = &Thinking{}
		payload = e.Thinking
	case TagToolCall:
		e.ToolCall = &ToolCall{}
		payload = e.ToolCall
	case TagToolResult:
		e.ToolResult = &ToolResult{}
		payload = e.ToolResult
	case TagResponse:
		e.Response = &Response{}
		payload = e.Response
	case TagError:
		e.Error = &ErrorPayload{}
		payload = e.Error
	case TagSubagentStart:
		e.SubagentStart = &SubagentStart{}
		payload = e.SubagentStart
	case TagSubagentEnd:
		e.SubagentEnd = &SubagentEnd{}
		payload = e.SubagentEnd
	case TagAnnotation:
		e.Annotation = &Annotation{}
		payload = e.Annotation
	case TagRedactionMarker:
		e.RedactionMarker = &RedactionMarker{}
		payload = e.RedactionMarker
	default:
		payload = nil
	}

	if payload != nil {
		if err := json.Unmarshal(data, payload); err != nil {
			return fmt.Errorf("spool: %s payload: %w", e.Type, err)
		}
		for _, name := range jsonFieldNames(payload) {
			delete(raw, name)
		}
	}

	if len(raw) > 0 {
		e.Extras = raw
	}
	return nil
}

// structToMap round-trips v through JSON into a map, used to flatten a
// variant payload's fields into the enclosing entry object.
func structToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// jsonFieldNames returns the JSON key for every exported field of the
// struct v points to, honoring `json:"name"`/`json:"-"` tags, so the
// caller can subtract them from a raw key set to find the leftovers.
func jsonFieldNames(v any) []string {
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}
	names := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}
