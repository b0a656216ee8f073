package types

import "encoding/json"

// SessionHeader is the payload of the distinguished first "session"
// entry: version, agent identity, recording start, and the aggregate
// fields the Session aggregator recomputes after every mutation.
type SessionHeader struct {
	Version    string `json:"version"`
	Agent      string `json:"agent"`
	RecordedAt string `json:"recorded_at"`

	Title        string    `json:"title,omitempty"`
	Author       string    `json:"author,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	DurationMs   *int64    `json:"duration_ms,omitempty"`
	EntryCount   *int      `json:"entry_count,omitempty"`
	ToolsUsed    []string  `json:"tools_used,omitempty"`
	FilesModified []string `json:"files_modified,omitempty"`
	FirstPrompt  string    `json:"first_prompt,omitempty"`
	Trimmed      *Trimmed  `json:"trimmed,omitempty"`
	Ended        string    `json:"ended,omitempty"`
	AgentVersion string    `json:"agent_version,omitempty"`
}

// Trimmed records what a Trim operation cut away.
type Trimmed struct {
	OriginalDurationMs int64    `json:"original_duration_ms"`
	KeptRange          [2]int64 `json:"kept_range"`
}

// Prompt is a user (or subagent) turn.
type Prompt struct {
	Content     string       `json:"content"`
	SubagentID  string       `json:"subagent_id,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a file reference carried alongside a prompt.
type Attachment struct {
	Filename  string `json:"filename,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Thinking is extended reasoning content, possibly collapsed/truncated
// for display.
type Thinking struct {
	Content       string `json:"content"`
	Collapsed     *bool  `json:"collapsed,omitempty"`
	Truncated     *bool  `json:"truncated,omitempty"`
	OriginalBytes *int64 `json:"original_bytes,omitempty"`
	SubagentID    string `json:"subagent_id,omitempty"`
}

// ToolCall is a tool invocation. Input is kept as an opaque raw JSON
// value — the format spec deliberately has no AST for tool inputs.
type ToolCall struct {
	Tool  string          `json:"tool"`
	Input json.RawMessage `json:"input"`
}

// InputField decodes the tool call's Input as an object and returns the
// string value at key, if Input is an object and the key holds a
// string. Used by adapters' files-modified extraction.
func (t *ToolCall) InputField(key string) (string, bool) {
	if len(t.Input) == 0 {
		return "", false
	}
	var obj map[string]any
	if err := json.Unmarshal(t.Input, &obj); err != nil {
		return "", false
	}
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ToolResult answers a tool call by id with exactly one of Output or
// Error.
type ToolResult struct {
	CallID string       `json:"call_id"`
	Output TextOrBinary `json:"output,omitempty"`
	Error  *string      `json:"error,omitempty"`
}

// toolResultWire mirrors ToolResult with Output left as raw JSON so it
// can be decoded into the right TextOrBinary implementation by hand —
// encoding/json cannot unmarshal into a non-empty interface on its own.
type toolResultWire struct {
	CallID string          `json:"call_id"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  *string         `json:"error,omitempty"`
}

func (t *ToolResult) UnmarshalJSON(data []byte) error {
	var w toolResultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out, err := unmarshalTextOrBinary(w.Output)
	if err != nil {
		return err
	}
	t.CallID = w.CallID
	t.Output = out
	t.Error = w.Error
	return nil
}

// HasOutput reports whether the output alternative (rather than error)
// is present.
func (t *ToolResult) HasOutput() bool { return t.Output != nil }

// HasError reports whether the error alternative is present.
func (t *ToolResult) HasError() bool { return t.Error != nil }

// OutputText returns the output as text, if it is plain text (not
// binary).
func (t *ToolResult) OutputText() (string, bool) {
	if pt, ok := t.Output.(PlainText); ok {
		return string(pt), true
	}
	return "", false
}

// Response is an assistant turn's final text, with optional model and
// token-usage metadata.
type Response struct {
	Content    string      `json:"content"`
	Model      string      `json:"model,omitempty"`
	TokenUsage *TokenUsage `json:"token_usage,omitempty"`
	Truncated  *bool       `json:"truncated,omitempty"`
}

// TokenUsage is the normalized token-accounting shape every adapter
// maps its vendor's usage block onto.
type TokenUsage struct {
	InputTokens         *int64 `json:"input_tokens,omitempty"`
	OutputTokens        *int64 `json:"output_tokens,omitempty"`
	CacheReadTokens      *int64 `json:"cache_read_tokens,omitempty"`
	CacheCreationTokens *int64 `json:"cache_creation_tokens,omitempty"`
}

// ErrorPayload is a recorded failure, independent of any particular
// tool call.
type ErrorPayload struct {
	Code        string          `json:"code"`
	Message     string          `json:"message"`
	Recoverable *bool           `json:"recoverable,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
}

// SubagentStart opens a delegated nested agent's entry range.
type SubagentStart struct {
	Agent             string          `json:"agent"`
	Context           json.RawMessage `json:"context,omitempty"`
	ParentSubagentID  string          `json:"parent_subagent_id,omitempty"`
}

// Subagent end statuses.
const (
	SubagentCompleted = "completed"
	SubagentFailed    = "failed"
	SubagentCancelled = "cancelled"
)

// SubagentEnd closes the range opened by the subagent_start whose id is
// StartID.
type SubagentEnd struct {
	StartID string `json:"start_id"`
	Summary string `json:"summary,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Annotation styles.
const (
	StyleHighlight = "highlight"
	StyleComment   = "comment"
	StylePin       = "pin"
	StyleWarning   = "warning"
	StyleSuccess   = "success"
)

// Annotation attaches user commentary to another entry.
type Annotation struct {
	TargetID  string `json:"target_id"`
	Content   string `json:"content"`
	Author    string `json:"author,omitempty"`
	Style     string `json:"style,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RedactionMarker records that a target entry's text was destructively
// redacted.
type RedactionMarker struct {
	TargetID string `json:"target_id"`
	Reason   string `json:"reason,omitempty"`
	Count    *int   `json:"count,omitempty"`
	Inline   *bool  `json:"inline,omitempty"`
}
