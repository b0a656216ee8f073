// Package codex adapts Codex-style session transcripts — one JSON
// object per line shaped {timestamp, type, payload}, with the
// payload's own nested "type" driving the mapping — into a Session.
//
// Grounded on the teacher's pkg/types part-union decode, same as
// internal/adapter/claude, applied here to Codex's payload.type
// discriminator instead of Claude's content-block type.
package codex

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spoolformat/spool/internal/adapter"
	"github.com/spoolformat/spool/internal/idgen"
	"github.com/spoolformat/spool/pkg/types"
)

func init() {
	adapter.Register(Adapter{})
}

// Adapter implements adapter.Adapter for the Codex transcript format.
type Adapter struct{}

func (Adapter) Name() string { return "codex" }

func (Adapter) Sniff(data []byte) bool {
	line := firstNonBlankLine(data)
	if line == nil {
		return false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(line, &probe); err != nil {
		return false
	}
	_, hasTimestamp := probe["timestamp"]
	_, hasPayload := probe["payload"]
	return hasTimestamp && hasPayload
}

func (Adapter) Convert(data []byte) (*types.Session, error) {
	lines := parseLines(data)
	sessionStart, firstPrompt, version := sweep(lines)

	b := adapter.NewBuilder(sessionStart)
	cor := adapter.NewCorrelator()
	lastType := types.Tag("")
	var currentModel string

	for _, ln := range lines {
		ts := b.RelativeTS(ln.epochMs)

		switch ln.Payload.Type {
		case "turn_context":
			if m, ok := ln.Payload.stringField("model"); ok && m != "" {
				currentModel = m
			}
		case "user_message":
			if text, ok := ln.Payload.stringField("message"); ok {
				if cleaned := strings.TrimSpace(text); cleaned != "" {
					e := types.NewEntry(idgen.New(), ts, types.TagPrompt)
					e.Prompt = &types.Prompt{Content: cleaned}
					b.Append(e)
					lastType = types.TagPrompt
				}
			}
		case "agent_message":
			if text, ok := ln.Payload.stringField("message"); ok {
				e := types.NewEntry(idgen.New(), ts, types.TagResponse)
				e.Response = &types.Response{Content: text, Model: currentModel}
				b.Append(e)
				lastType = types.TagResponse
			}
		case "agent_reasoning":
			if text, ok := ln.Payload.stringField("text"); ok {
				e := types.NewEntry(idgen.New(), ts, types.TagThinking)
				e.Thinking = &types.Thinking{Content: text}
				b.Append(e)
				lastType = types.TagThinking
			}
		case "function_call", "custom_tool_call":
			lastType = emitToolCall(b, cor, ln.Payload, ts)
		case "web_search_call":
			id := vendorCallID(ln.Payload)
			callID := cor.BindToolCall(id)
			e := types.NewEntry(callID, ts, types.TagToolCall)
			e.ToolCall = &types.ToolCall{Tool: "web_search", Input: rawInput(ln.Payload)}
			b.Append(e)
			lastType = types.TagToolCall
		case "error":
			message, _ := ln.Payload.stringField("message")
			e := types.NewEntry(idgen.New(), ts, types.TagError)
			e.Error = &types.ErrorPayload{Code: errorCode(ln.Payload), Message: message}
			b.Append(e)
			lastType = types.TagError
		default:
			if strings.HasSuffix(ln.Payload.Type, "_output") {
				lastType = emitToolResult(b, cor, ln.Payload, ts)
			}
		}
	}

	header := types.NewEntry(idgen.New(), 0, types.TagSession)
	header.Session = &types.SessionHeader{
		Version:      "1.0",
		Agent:        "codex",
		RecordedAt:   time.UnixMilli(sessionStart).UTC().Format(time.RFC3339),
		FirstPrompt:  firstPrompt,
		AgentVersion: version,
	}
	if firstPrompt != "" {
		header.Session.Title = firstPrompt
	}

	ended := "unknown"
	if lastType == types.TagResponse || lastType == types.TagToolResult {
		ended = "completed"
	}

	return b.Finish(header, ended), nil
}

type line struct {
	TS      string  `json:"timestamp"`
	Payload payload `json:"payload"`
	epochMs int64
}

// payload is decoded leniently: every field Codex's various payload
// shapes might carry, left as raw JSON where the shape varies by type.
type payload struct {
	Type      string          `json:"type"`
	CallID    string          `json:"call_id,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	Output    json.RawMessage `json:"output,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	Success   *bool           `json:"success,omitempty"`
	raw       map[string]json.RawMessage
}

func (p *payload) UnmarshalJSON(data []byte) error {
	type alias payload
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = payload(a)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		p.raw = raw
	}
	return nil
}

func (p payload) stringField(key string) (string, bool) {
	raw, ok := p.raw[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func parseLines(data []byte) []*line {
	var out []*line
	for _, raw := range strings.Split(string(data), "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var ln line
		if err := json.Unmarshal([]byte(raw), &ln); err != nil {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, ln.TS); err == nil {
			ln.epochMs = t.UnixMilli()
		}
		out = append(out, &ln)
	}
	return out
}

func sweep(lines []*line) (sessionStart int64, firstPrompt string, version string) {
	haveStart := false
	for _, ln := range lines {
		if ln.epochMs != 0 && (!haveStart || ln.epochMs < sessionStart) {
			sessionStart = ln.epochMs
			haveStart = true
		}
		if version == "" {
			if v, ok := ln.Payload.stringField("cli_version"); ok && v != "" {
				version = v
			}
		}
		if firstPrompt == "" && ln.Payload.Type == "user_message" {
			if text, ok := ln.Payload.stringField("message"); ok {
				if cleaned := strings.TrimSpace(text); cleaned != "" {
					firstPrompt = cleaned
				}
			}
		}
	}
	if !haveStart {
		sessionStart = time.Now().UnixMilli()
	}
	return sessionStart, firstPrompt, version
}

// errorCode extracts the vendor's error code field, falling back to a
// generic code when the line carries none.
func errorCode(p payload) string {
	if code, ok := p.stringField("code"); ok && code != "" {
		return code
	}
	return "codex_error"
}

func vendorCallID(p payload) string {
	if p.CallID != "" {
		return p.CallID
	}
	return p.ID
}

func rawInput(p payload) json.RawMessage {
	switch {
	case len(p.Input) > 0:
		return p.Input
	case len(p.Arguments) > 0:
		return argumentsToInput(p.Arguments)
	default:
		return json.RawMessage("{}")
	}
}

// argumentsToInput parses a function_call's "arguments" string as
// JSON when possible, otherwise wraps it as {"value": "<string>"} per
// the format spec's fallback rule.
func argumentsToInput(raw json.RawMessage) json.RawMessage {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Already a JSON value (object/array), not a string-encoded one.
		return raw
	}
	var probe any
	if err := json.Unmarshal([]byte(s), &probe); err == nil {
		return json.RawMessage(s)
	}
	wrapped, err := json.Marshal(map[string]string{"value": s})
	if err != nil {
		return json.RawMessage("{}")
	}
	return wrapped
}

func emitToolCall(b *adapter.Builder, cor *adapter.Correlator, p payload, ts int64) types.Tag {
	vendorID := vendorCallID(p)
	callID := cor.BindToolCall(vendorID)
	e := types.NewEntry(callID, ts, types.TagToolCall)
	e.ToolCall = &types.ToolCall{Tool: p.Name, Input: rawInput(p)}
	b.Append(e)
	return types.TagToolCall
}

func emitToolResult(b *adapter.Builder, cor *adapter.Correlator, p payload, ts int64) types.Tag {
	vendorID := vendorCallID(p)
	callID, ok := cor.ResolveToolCall(vendorID)
	if !ok {
		return ""
	}

	isError := p.Success != nil && !*p.Success
	text := outputText(p)

	e := types.NewEntry(idgen.New(), ts, types.TagToolResult)
	tr := &types.ToolResult{CallID: callID}
	if isError {
		tr.Error = &text
	} else {
		tr.Output = types.PlainText(text)
	}
	e.ToolResult = tr
	b.Append(e)
	return types.TagToolResult
}

func outputText(p payload) string {
	if len(p.Output) > 0 {
		var s string
		if err := json.Unmarshal(p.Output, &s); err == nil {
			return s
		}
		return string(p.Output)
	}
	if len(p.Content) > 0 {
		var s string
		if err := json.Unmarshal(p.Content, &s); err == nil {
			return s
		}
		return string(p.Content)
	}
	return ""
}

func firstNonBlankLine(data []byte) []byte {
	for _, raw := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			return []byte(trimmed)
		}
	}
	return nil
}
