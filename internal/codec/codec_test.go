package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoolformat/spool/pkg/types"
)

func header(id string) string {
	return `{"id":"` + id + `","ts":0,"type":"session","version":"1.0","agent":"test","recorded_at":"2025-01-01T00:00:00Z"}`
}

func TestRead_MinimalValidFile(t *testing.T) {
	data := []byte(header("00000000-0000-0000-0000-000000000000") + "\n")
	sess, err := NewReader(Strict).Read(data)
	require.NoError(t, err)
	require.Len(t, sess.Entries, 1)
	assert.Equal(t, types.TagSession, sess.Entries[0].Type)
}

func TestRead_UnknownTypePreserved(t *testing.T) {
	data := []byte(header("h1") + "\n" +
		`{"id":"e1","ts":100,"type":"x_future_type","data":"unknown"}` + "\n" +
		`{"id":"e2","ts":200,"type":"prompt","content":"hello"}` + "\n")

	sess, err := NewReader(Strict).Read(data)
	require.NoError(t, err)
	require.Len(t, sess.Entries, 3)
	assert.Equal(t, types.Tag("x_future_type"), sess.Entries[1].Type)
	assert.Equal(t, "hello", sess.Entries[2].Prompt.Content)

	out, err := Write(sess)
	require.NoError(t, err)

	reRead, err := NewReader(Strict).Read(out)
	require.NoError(t, err)
	require.Len(t, reRead.Entries, 3)
	assert.Contains(t, reRead.Entries[1].Extras, "data")
}

func TestRead_ToolCorrelation(t *testing.T) {
	data := []byte(header("h1") + "\n" +
		`{"id":"A","ts":3000,"type":"tool_call","tool":"read_file","input":{}}` + "\n" +
		`{"id":"r1","ts":3200,"type":"tool_result","call_id":"A","output":"x"}` + "\n")

	sess, err := NewReader(Strict).Read(data)
	require.NoError(t, err)
	require.Len(t, sess.Entries, 3)
	assert.Equal(t, "A", sess.Entries[2].ToolResult.CallID)
}

func TestRead_BOMTolerated(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(header("h1")+"\n")...)
	sess, err := NewReader(Strict).Read(data)
	require.NoError(t, err)
	require.Len(t, sess.Entries, 1)
}

func TestRead_CRLFAndTrailingLineWithoutTerminator(t *testing.T) {
	data := []byte(header("h1") + "\r\n" + `{"id":"e1","ts":1,"type":"prompt","content":"x"}`)
	sess, err := NewReader(Strict).Read(data)
	require.NoError(t, err)
	require.Len(t, sess.Entries, 2)
}

func TestRead_BlankLinesSkipped(t *testing.T) {
	data := []byte(header("h1") + "\n\n\n" + `{"id":"e1","ts":1,"type":"prompt","content":"x"}` + "\n")
	sess, err := NewReader(Strict).Read(data)
	require.NoError(t, err)
	require.Len(t, sess.Entries, 2)
}

func TestRead_EmptyInput(t *testing.T) {
	_, err := NewReader(Strict).Read([]byte("   \n\n"))
	require.Error(t, err)
}

func TestRead_StrictAbortsOnMalformedLine(t *testing.T) {
	data := []byte(header("h1") + "\n" + `{not json` + "\n")
	_, err := NewReader(Strict).Read(data)
	require.Error(t, err)
}

func TestRead_LenientSkipsMalformedLine(t *testing.T) {
	data := []byte(header("h1") + "\n" + `{not json` + "\n" + `{"id":"e1","ts":1,"type":"prompt","content":"x"}` + "\n")
	r := NewReader(Lenient)
	sess, err := r.Read(data)
	require.NoError(t, err)
	require.Len(t, sess.Entries, 2)
	require.Len(t, r.Diagnostics(), 1)
}

func TestRead_ToolResultAmbiguous(t *testing.T) {
	both := []byte(header("h1") + "\n" + `{"id":"r1","ts":1,"type":"tool_result","call_id":"a","output":"x","error":"y"}` + "\n")
	_, err := NewReader(Strict).Read(both)
	require.Error(t, err)

	neither := []byte(header("h1") + "\n" + `{"id":"r1","ts":1,"type":"tool_result","call_id":"a"}` + "\n")
	_, err = NewReader(Strict).Read(neither)
	require.Error(t, err)
}

func TestWrite_RoundTripSemanticEquivalence(t *testing.T) {
	data := []byte(header("h1") + "\n" +
		`{"id":"e1","ts":100,"type":"thinking","content":"hmm","collapsed":true}` + "\n" +
		`{"id":"e2","ts":200,"type":"response","content":"done","model":"m1"}` + "\n")

	sess, err := NewReader(Strict).Read(data)
	require.NoError(t, err)

	out, err := Write(sess)
	require.NoError(t, err)

	reRead, err := NewReader(Strict).Read(out)
	require.NoError(t, err)

	require.Len(t, reRead.Entries, len(sess.Entries))
	for i := range sess.Entries {
		assert.Equal(t, sess.Entries[i].ID, reRead.Entries[i].ID)
		assert.Equal(t, sess.Entries[i].Type, reRead.Entries[i].Type)
	}
}
