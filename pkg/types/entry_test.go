package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_SessionHeaderRoundTrip(t *testing.T) {
	line := `{"id":"00000000-0000-0000-0000-000000000000","ts":0,"type":"session","version":"1.0","agent":"test","recorded_at":"2025-01-01T00:00:00Z"}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(line), &e))
	require.NotNil(t, e.Session)
	assert.Equal(t, "test", e.Session.Agent)
	assert.Equal(t, int64(0), e.TS)

	data, err := json.Marshal(&e)
	require.NoError(t, err)

	var roundTripped Entry
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	assert.Equal(t, e.Session.Agent, roundTripped.Session.Agent)
	assert.Equal(t, e.Session.Version, roundTripped.Session.Version)
}

func TestEntry_UnknownTypePreservesExtras(t *testing.T) {
	line := `{"id":"e2","ts":100,"type":"x_future_type","data":"unknown"}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(line), &e))
	assert.True(t, IsExtensionTag(string(e.Type)))
	require.Contains(t, e.Extras, "data")

	data, err := json.Marshal(&e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "unknown", m["data"])
	assert.Equal(t, "x_future_type", m["type"])
}

func TestEntry_KnownTypeUnknownFieldPreserved(t *testing.T) {
	line := `{"id":"e3","ts":200,"type":"prompt","content":"hi","x_custom":"value"}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(line), &e))
	require.NotNil(t, e.Prompt)
	assert.Equal(t, "hi", e.Prompt.Content)
	require.Contains(t, e.Extras, "x_custom")

	data, err := json.Marshal(&e)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "value", m["x_custom"])
}

func TestToolResult_ExactlyOneAlternative(t *testing.T) {
	var e Entry
	require.NoError(t, json.Unmarshal([]byte(`{"id":"r1","ts":10,"type":"tool_result","call_id":"c1","output":"x"}`), &e))
	require.NotNil(t, e.ToolResult)
	assert.True(t, e.ToolResult.HasOutput())
	assert.False(t, e.ToolResult.HasError())
	text, ok := e.ToolResult.OutputText()
	assert.True(t, ok)
	assert.Equal(t, "x", text)

	var e2 Entry
	require.NoError(t, json.Unmarshal([]byte(`{"id":"r2","ts":10,"type":"tool_result","call_id":"c1","error":"boom"}`), &e2))
	assert.False(t, e2.ToolResult.HasOutput())
	assert.True(t, e2.ToolResult.HasError())
}

func TestToolResult_BinaryOutput(t *testing.T) {
	line := `{"id":"r3","ts":10,"type":"tool_result","call_id":"c1","output":{"media_type":"image/png","encoding":"base64","data":"AAA="}}`
	var e Entry
	require.NoError(t, json.Unmarshal([]byte(line), &e))
	bv, ok := e.ToolResult.Output.(*BinaryValue)
	require.True(t, ok)
	assert.Equal(t, "image/png", bv.MediaType)
}

func TestToolCall_InputField(t *testing.T) {
	tc := &ToolCall{Tool: "Write", Input: json.RawMessage(`{"file_path":"/a/b.go"}`)}
	v, ok := tc.InputField("file_path")
	require.True(t, ok)
	assert.Equal(t, "/a/b.go", v)

	_, ok = tc.InputField("missing")
	assert.False(t, ok)
}

func TestSession_ByID_FirstWins(t *testing.T) {
	s := NewSession([]*Entry{
		{ID: "dup", TS: 0, Type: TagPrompt, Prompt: &Prompt{Content: "first"}},
		{ID: "dup", TS: 1, Type: TagPrompt, Prompt: &Prompt{Content: "second"}},
	})
	e, ok := s.ByID("dup")
	require.True(t, ok)
	assert.Equal(t, "first", e.Prompt.Content)
	assert.Equal(t, 0, s.IndexOf("dup"))
}
