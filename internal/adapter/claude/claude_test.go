package claude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoolformat/spool/pkg/types"
)

func TestSniff_RecognizesUserAssistantTurns(t *testing.T) {
	data := []byte(`{"type":"user","message":{"role":"user","content":"hi"}}` + "\n")
	assert.True(t, Adapter{}.Sniff(data))
}

func TestSniff_RejectsUnrelatedFormat(t *testing.T) {
	data := []byte(`{"timestamp":"2025-01-01T00:00:00Z","payload":{"type":"user_message"}}` + "\n")
	assert.False(t, Adapter{}.Sniff(data))
}

// TestConvert_SubagentToolWrapsNestedTurns covers the Claude "Task"
// tool-use wrapping scenario: a tool_use named Task starts a subagent,
// and the matching tool_result ends it, deriving status from whether
// the result carried an error.
func TestConvert_SubagentToolWrapsNestedTurns(t *testing.T) {
	data := `{"type":"assistant","timestamp":"2025-01-01T00:00:00.000Z","message":{"role":"assistant","model":"claude-x","content":[{"type":"tool_use","id":"tu1","name":"Task","input":{"subagent_type":"reviewer"}}]}}` + "\n" +
		`{"type":"user","timestamp":"2025-01-01T00:00:01.000Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"tu1","content":"looks good"}]}}` + "\n"

	session, err := Adapter{}.Convert([]byte(data))
	require.NoError(t, err)

	var sawStart, sawEnd bool
	for _, e := range session.Entries {
		switch e.Type {
		case types.TagSubagentStart:
			sawStart = true
			assert.Equal(t, "reviewer", e.SubagentStart.Agent)
		case types.TagSubagentEnd:
			sawEnd = true
			assert.Equal(t, types.SubagentCompleted, e.SubagentEnd.Status)
		}
	}
	assert.True(t, sawStart, "expected a subagent_start entry")
	assert.True(t, sawEnd, "expected a subagent_end entry")
}

func TestConvert_SubagentToolFailureMarksSubagentFailed(t *testing.T) {
	failed := true
	data := `{"type":"assistant","timestamp":"2025-01-01T00:00:00.000Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"tu1","name":"Task","input":{"description":"investigate"}}]}}` + "\n" +
		`{"type":"user","timestamp":"2025-01-01T00:00:01.000Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"tu1","content":"boom","is_error":true}]}}` + "\n"
	_ = failed

	session, err := Adapter{}.Convert([]byte(data))
	require.NoError(t, err)

	for _, e := range session.Entries {
		if e.Type == types.TagSubagentEnd {
			assert.Equal(t, types.SubagentFailed, e.SubagentEnd.Status)
			return
		}
	}
	t.Fatal("expected a subagent_end entry")
}

func TestConvert_MetaAndSidechainLinesDropPromptsButKeepToolResults(t *testing.T) {
	data := `{"type":"user","timestamp":"2025-01-01T00:00:00.000Z","isMeta":true,"message":{"role":"user","content":"housekeeping note"}}` + "\n" +
		`{"type":"user","timestamp":"2025-01-01T00:00:01.000Z","isSidechain":true,"message":{"role":"user","content":"nested turn"}}` + "\n" +
		`{"type":"user","timestamp":"2025-01-01T00:00:02.000Z","message":{"role":"user","content":"real question"}}` + "\n"

	session, err := Adapter{}.Convert([]byte(data))
	require.NoError(t, err)

	var prompts []string
	for _, e := range session.Entries {
		if e.Type == types.TagPrompt {
			prompts = append(prompts, e.Prompt.Content)
		}
	}
	assert.Equal(t, []string{"real question"}, prompts)
}

func TestConvert_SystemReminderStrippedFromPrompt(t *testing.T) {
	data := `{"type":"user","timestamp":"2025-01-01T00:00:00.000Z","message":{"role":"user","content":"<system-reminder>ignore</system-reminder>what files changed?"}}` + "\n"

	session, err := Adapter{}.Convert([]byte(data))
	require.NoError(t, err)

	require.Len(t, session.Entries, 2) // header + prompt
	assert.Equal(t, "what files changed?", session.Entries[1].Prompt.Content)
}

func TestConvert_CommandWrapperIsFullySynthetic(t *testing.T) {
	data := `{"type":"user","timestamp":"2025-01-01T00:00:00.000Z","message":{"role":"user","content":"<command-name>clear</command-name>"}}` + "\n"

	session, err := Adapter{}.Convert([]byte(data))
	require.NoError(t, err)

	for _, e := range session.Entries {
		assert.NotEqual(t, types.TagPrompt, e.Type)
	}
}
