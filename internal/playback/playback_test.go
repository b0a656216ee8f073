package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoolformat/spool/internal/codec"
)

func loadFixture(t *testing.T, data string) *Player {
	t.Helper()
	sess, err := codec.NewReader(codec.Strict).Read([]byte(data))
	require.NoError(t, err)
	p := New()
	p.Load(sess)
	return p
}

func TestFrameTimes_IdleGapCompression(t *testing.T) {
	// S6: entries at vendor ts [0, 100, 60000], the third a prompt.
	// Expected compressed frame_times: [0, 100, 2100].
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"e1","ts":100,"type":"response","content":"hi"}` + "\n" +
		`{"id":"e2","ts":60000,"type":"prompt","content":"go"}` + "\n"
	p := loadFixture(t, data)

	require.Equal(t, []int64{0, 100, 2100}, p.frameTimes)
}

func TestFrameTimes_ThinkingGapCompression(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"e1","ts":100,"type":"thinking","content":"hmm"}` + "\n" +
		`{"id":"e2","ts":50100,"type":"response","content":"go"}` + "\n"
	p := loadFixture(t, data)

	require.Equal(t, []int64{0, 100, 2100}, p.frameTimes)
}

func TestFrameTimes_NonDecreasingAndNeverLengthens(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"e1","ts":500,"type":"response","content":"a"}` + "\n" +
		`{"id":"e2","ts":900,"type":"response","content":"b"}` + "\n"
	p := loadFixture(t, data)

	for i := 1; i < len(p.frameTimes); i++ {
		assert.GreaterOrEqual(t, p.frameTimes[i], p.frameTimes[i-1])
		vendorGap := p.session.Entries[i].TS - p.session.Entries[i-1].TS
		assert.LessOrEqual(t, p.frameTimes[i]-p.frameTimes[i-1], vendorGap)
	}
}

func TestPlayer_AdvanceAndPauseAtEnd(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"c1","ts":3000,"type":"tool_call","tool":"read_file","input":{}}` + "\n" +
		`{"id":"r1","ts":3200,"type":"tool_result","call_id":"c1","output":"x"}` + "\n"
	p := loadFixture(t, data)

	p.Play()
	assert.Equal(t, Playing, p.State())

	events := p.Advance(3100) // crosses frame 1 (3000) but not frame 2 (3200)
	assert.Equal(t, 1, p.CursorIndex())
	assert.Equal(t, Playing, p.State())
	if assert.Len(t, events, 1) {
		assert.Equal(t, "c1", events[0].Entry.ID)
	}

	events = p.Advance(200) // elapsed 3300 now passes the last frame (3200)
	assert.Equal(t, 2, p.CursorIndex())
	assert.Equal(t, Paused, p.State())
	assert.InDelta(t, 1.0, p.Progress(), 0.0001)
	if assert.Len(t, events, 1) {
		assert.Equal(t, "r1", events[0].Entry.ID)
	}
}

func TestPlayer_SeekBoundsAndProgress(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"c1","ts":3000,"type":"tool_call","tool":"read_file","input":{}}` + "\n" +
		`{"id":"r1","ts":3200,"type":"tool_result","call_id":"c1","output":"x"}` + "\n"
	p := loadFixture(t, data)

	p.Seek(0)
	assert.Len(t, p.VisibleEntries(), 1)

	p.Seek(1)
	assert.Len(t, p.VisibleEntries(), 3)
	assert.InDelta(t, 1.0, p.Progress(), 0.0001)

	p.Seek(3000.0 / 3200.0)
	assert.Len(t, p.VisibleEntries(), 2)
}

func TestPlayer_StepForwardBackwardNoWrap(t *testing.T) {
	data := `{"id":"h","ts":0,"type":"session","version":"1.0","agent":"t","recorded_at":"2025-01-01T00:00:00Z"}` + "\n" +
		`{"id":"e1","ts":100,"type":"response","content":"a"}` + "\n"
	p := loadFixture(t, data)

	p.StepBackward()
	assert.Equal(t, 0, p.CursorIndex())

	p.StepForward()
	assert.Equal(t, 1, p.CursorIndex())

	p.StepForward()
	assert.Equal(t, 1, p.CursorIndex())
}
