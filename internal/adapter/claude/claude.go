// Package claude adapts Claude Code-style session transcripts (one
// JSON object per line, a "user"/"assistant" transcript turn with a
// nested "message" block) into a Session.
//
// Grounded on the teacher's pkg/types part-union decode: a transcript
// line's message.content blocks are exactly the same
// text/thinking/tool_use/tool_result tagged-union shape the teacher
// decodes in pkg/types/parts.go, here mapped onto Spool's entry tags
// instead of the teacher's own Part variants.
package claude

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/spoolformat/spool/internal/adapter"
	"github.com/spoolformat/spool/internal/idgen"
	"github.com/spoolformat/spool/pkg/types"
)

func init() {
	adapter.Register(Adapter{})
}

// Adapter implements adapter.Adapter for the Claude Code transcript
// format.
type Adapter struct{}

func (Adapter) Name() string { return "claude-code" }

func (Adapter) Sniff(data []byte) bool {
	line := firstNonBlankLine(data)
	if line == nil {
		return false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(line, &probe); err != nil {
		return false
	}
	if _, ok := probe["message"]; !ok {
		return false
	}
	typeRaw, ok := probe["type"]
	if !ok {
		return false
	}
	var t string
	if err := json.Unmarshal(typeRaw, &t); err != nil {
		return false
	}
	return t == "user" || t == "assistant" || t == "summary"
}

func (Adapter) Convert(data []byte) (*types.Session, error) {
	lines := parseLines(data)

	sessionStart, firstPrompt, version := sweep(lines)

	b := adapter.NewBuilder(sessionStart)
	cor := adapter.NewCorrelator()
	lastType := types.Tag("")

	for _, ln := range lines {
		ts := b.RelativeTS(ln.epochMs)

		switch ln.Type {
		case "user":
			lastType = emitUser(b, cor, ln, ts)
		case "assistant":
			lastType = emitAssistant(b, cor, ln, ts)
		}
	}

	header := types.NewEntry(idgen.New(), 0, types.TagSession)
	header.Session = &types.SessionHeader{
		Version:     "1.0",
		Agent:       "claude-code",
		RecordedAt:  time.UnixMilli(sessionStart).UTC().Format(time.RFC3339),
		FirstPrompt: firstPrompt,
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

// line is one parsed vendor transcript line.
type line struct {
	Type        string   `json:"type"`
	Message     *message `json:"message,omitempty"`
	TS          string   `json:"timestamp,omitempty"`
	Version     string   `json:"cliVersion,omitempty"`
	IsMeta      bool     `json:"isMeta,omitempty"`
	IsSidechain bool     `json:"isSidechain,omitempty"`
	epochMs     int64
}

type message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
	Model   string          `json:"model,omitempty"`
	Usage   *usage          `json:"usage,omitempty"`
}

type usage struct {
	InputTokens              *int64 `json:"input_tokens,omitempty"`
	OutputTokens             *int64 `json:"output_tokens,omitempty"`
	CacheReadInputTokens     *int64 `json:"cache_read_input_tokens,omitempty"`
	CacheCreationInputTokens *int64 `json:"cache_creation_input_tokens,omitempty"`
}

type block struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Thinking  string          `json:"thinking,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   *bool           `json:"is_error,omitempty"`
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

// sweep performs the metadata sweep: earliest timestamp, first
// non-synthetic user prompt, and CLI version.
func sweep(lines []*line) (sessionStart int64, firstPrompt string, version string) {
	haveStart := false
	for _, ln := range lines {
		if ln.epochMs != 0 && (!haveStart || ln.epochMs < sessionStart) {
			sessionStart = ln.epochMs
			haveStart = true
		}
		if version == "" && ln.Version != "" {
			version = ln.Version
		}
		if firstPrompt == "" && ln.Type == "user" && ln.Message != nil && !ln.IsMeta && !ln.IsSidechain {
			if text, ok := plainUserText(ln.Message.Content); ok {
				if cleaned := cleanPromptText(text); cleaned != "" {
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

var systemReminder = regexp.MustCompile(`(?s)<system-reminder>.*?</system-reminder>`)

var syntheticWrappers = []string{"<command-name>", "<local-command-stdout>", "<local-command-caveat>"}

// cleanPromptText strips system-reminder blocks and reports "" for a
// synthetic wrapper or an otherwise-empty remainder.
func cleanPromptText(text string) string {
	for _, wrapper := range syntheticWrappers {
		if strings.Contains(text, wrapper) {
			return ""
		}
	}
	cleaned := systemReminder.ReplaceAllString(text, "")
	return strings.TrimSpace(cleaned)
}

// plainUserText returns the content as a string when it is a bare
// JSON string (as opposed to a list of blocks).
func plainUserText(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func userBlocks(raw json.RawMessage) ([]block, bool) {
	var blocks []block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, false
	}
	return blocks, true
}

func emitUser(b *adapter.Builder, cor *adapter.Correlator, ln *line, ts int64) types.Tag {
	if ln.Message == nil {
		return ""
	}
	synthetic := ln.IsMeta || ln.IsSidechain

	if text, ok := plainUserText(ln.Message.Content); ok {
		if synthetic {
			return ""
		}
		cleaned := cleanPromptText(text)
		if cleaned == "" {
			return ""
		}
		e := types.NewEntry(idgen.New(), ts, types.TagPrompt)
		e.Prompt = &types.Prompt{Content: cleaned}
		b.Append(e)
		return types.TagPrompt
	}

	blocks, ok := userBlocks(ln.Message.Content)
	if !ok {
		return ""
	}

	last := types.Tag("")
	for _, blk := range blocks {
		switch blk.Type {
		case "tool_result":
			last = emitToolResult(b, cor, blk, ts)
		case "text":
			if synthetic {
				continue
			}
			if cleaned := cleanPromptText(blk.Text); cleaned != "" {
				e := types.NewEntry(idgen.New(), ts, types.TagPrompt)
				e.Prompt = &types.Prompt{Content: cleaned}
				b.Append(e)
				last = types.TagPrompt
			}
		}
	}
	return last
}

func emitToolResult(b *adapter.Builder, cor *adapter.Correlator, blk block, ts int64) types.Tag {
	callID, ok := cor.ResolveToolCall(blk.ToolUseID)
	if !ok {
		// Vendor tool-use id has no matching tool_call; drop, per the
		// correlation step's unmatched-reference rule.
		return ""
	}

	isError := blk.IsError != nil && *blk.IsError
	e := types.NewEntry(idgen.New(), ts, types.TagToolResult)
	tr := &types.ToolResult{CallID: callID}
	if isError {
		msg := toolResultText(blk.Content)
		tr.Error = &msg
	} else {
		text := toolResultText(blk.Content)
		tr.Output = types.PlainText(text)
	}
	e.ToolResult = tr
	b.Append(e)

	if startID, ok := cor.ResolveSubagent(blk.ToolUseID); ok {
		status := types.SubagentCompleted
		if isError {
			status = types.SubagentFailed
		}
		end := types.NewEntry(idgen.New(), ts, types.TagSubagentEnd)
		end.SubagentEnd = &types.SubagentEnd{StartID: startID, Status: status}
		b.Append(end)
	}

	return types.TagToolResult
}

// toolResultText normalizes a tool_result block's content, which is
// either a bare string or a list of text blocks, into plain text.
func toolResultText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if s, ok := plainUserText(raw); ok {
		return s
	}
	var blocks []block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return string(raw)
	}
	var parts []string
	for _, blk := range blocks {
		if blk.Type == "text" && blk.Text != "" {
			parts = append(parts, blk.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func emitAssistant(b *adapter.Builder, cor *adapter.Correlator, ln *line, ts int64) types.Tag {
	if ln.Message == nil {
		return ""
	}
	blocks, ok := userBlocks(ln.Message.Content)
	if !ok {
		return ""
	}

	last := types.Tag("")
	firstResponse := true
	for _, blk := range blocks {
		switch blk.Type {
		case "text":
			e := types.NewEntry(idgen.New(), ts, types.TagResponse)
			resp := &types.Response{Content: blk.Text}
			if firstResponse {
				resp.Model = ln.Message.Model
				resp.TokenUsage = mapUsage(ln.Message.Usage)
				firstResponse = false
			}
			e.Response = resp
			b.Append(e)
			last = types.TagResponse
		case "thinking":
			e := types.NewEntry(idgen.New(), ts, types.TagThinking)
			e.Thinking = &types.Thinking{Content: blk.Thinking}
			b.Append(e)
			last = types.TagThinking
		case "tool_use":
			last = emitToolUse(b, cor, blk, ts)
		}
	}
	return last
}

func emitToolUse(b *adapter.Builder, cor *adapter.Correlator, blk block, ts int64) types.Tag {
	input := blk.Input
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	if blk.Name == "Task" {
		startID := cor.BindSubagent(blk.ID)
		agent := subagentName(input)
		start := types.NewEntry(startID, ts, types.TagSubagentStart)
		start.SubagentStart = &types.SubagentStart{Agent: agent}
		b.Append(start)
	}

	callID := cor.BindToolCall(blk.ID)
	e := types.NewEntry(callID, ts, types.TagToolCall)
	e.ToolCall = &types.ToolCall{Tool: blk.Name, Input: input}
	b.Append(e)
	return types.TagToolCall
}

func subagentName(input json.RawMessage) string {
	var obj map[string]any
	if err := json.Unmarshal(input, &obj); err != nil {
		return "task"
	}
	if v, ok := obj["subagent_type"].(string); ok && v != "" {
		return v
	}
	if v, ok := obj["description"].(string); ok && v != "" {
		return v
	}
	return "task"
}

func mapUsage(u *usage) *types.TokenUsage {
	if u == nil || u.InputTokens == nil || u.OutputTokens == nil {
		return nil
	}
	return &types.TokenUsage{
		InputTokens:         u.InputTokens,
		OutputTokens:        u.OutputTokens,
		CacheReadTokens:     u.CacheReadInputTokens,
		CacheCreationTokens: u.CacheCreationInputTokens,
	}
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
