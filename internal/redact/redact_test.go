package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoolformat/spool/internal/codec"
	"github.com/spoolformat/spool/pkg/types"
)

func mustRead(t *testing.T, data string) *types.Session {
	t.Helper()
	sess, err := codec.NewReader(codec.Strict).Read([]byte(data))
	require.NoError(t, err)
	return sess
}

func TestScrubber_DetectsAnthropicKeyInPrompt(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"p1","ts":10,"type":"prompt","content":"my key is sk-ant-api03-` + sample(40) + `"}` + "\n"
	sess := mustRead(t, data)

	findings := NewScrubber().Detect(sess)
	require.Len(t, findings, 1)
	assert.Equal(t, CategoryAnthropicAPIKey, findings[0].Category)
	assert.Equal(t, 1, findings[0].EntryIndex)
}

func TestScrubber_DetectsEmailInToolResultOutput(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"c1","ts":10,"type":"tool_call","tool":"read_file","input":{}}` + "\n" +
		`{"id":"r1","ts":20,"type":"tool_result","call_id":"c1","output":"contact jane.doe@example.com for access"}` + "\n"
	sess := mustRead(t, data)

	findings := NewScrubber().Detect(sess)
	require.Len(t, findings, 1)
	assert.Equal(t, CategoryEmail, findings[0].Category)
	assert.Equal(t, "jane.doe@example.com", findings[0].Matched)
}

func TestScrubber_OverlapResolutionKeepsLongerMatch(t *testing.T) {
	// The generic key=value rule and the OpenAI key rule both fire
	// inside the same JSON-ish blob; the longer match must win.
	s := NewScrubber()
	text := `"api_key": "sk-` + sample(32) + `"`
	findings := s.scanText(text)
	require.Len(t, findings, 1)
	assert.Equal(t, CategoryGenericKeyValue, findings[0].category)
}

func TestApply_RedactsAndEmitsMarker(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"p1","ts":10,"type":"prompt","content":"email me at jane.doe@example.com please"}` + "\n"
	sess := mustRead(t, data)

	findings := NewScrubber().Detect(sess)
	require.Len(t, findings, 1)

	out := Apply(sess, findings)
	require.Len(t, out.Entries, 3)

	assert.Equal(t, "email me at [REDACTED:email] please", out.Entries[1].Prompt.Content)

	marker := out.Entries[2]
	require.Equal(t, types.TagRedactionMarker, marker.Type)
	assert.Equal(t, "p1", marker.RedactionMarker.TargetID)
	assert.Equal(t, string(CategoryEmail), marker.RedactionMarker.Reason)
	require.NotNil(t, marker.RedactionMarker.Count)
	assert.Equal(t, 1, *marker.RedactionMarker.Count)
	assert.Equal(t, int64(10), marker.TS)

	// Destructive: the original session's entry is untouched.
	assert.Contains(t, sess.Entries[1].Prompt.Content, "jane.doe@example.com")
}

func TestApply_IsIdempotent(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"p1","ts":10,"type":"prompt","content":"secret: jane.doe@example.com"}` + "\n"
	sess := mustRead(t, data)

	first := Apply(sess, NewScrubber().Detect(sess))
	second := NewScrubber().Detect(first)
	assert.Empty(t, second, "redaction replacement text must not itself match any rule")
}

func TestApply_MultipleFindingsInOneEntryPreserveOffsets(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"p1","ts":10,"type":"prompt","content":"a@example.com and b@example.com"}` + "\n"
	sess := mustRead(t, data)

	findings := NewScrubber().Detect(sess)
	require.Len(t, findings, 2)

	out := Apply(sess, findings)
	assert.Equal(t, "[REDACTED:email] and [REDACTED:email]", out.Entries[1].Prompt.Content)
	require.Equal(t, 2, *out.Entries[2].RedactionMarker.Count)
}

// sample returns a deterministic run of base62-ish characters long enough
// to satisfy the {40,}/{32,} length requirements in the key patterns,
// without pulling in math/rand.
func sample(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[i%len(alphabet)]
	}
	return string(b)
}
