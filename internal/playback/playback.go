// Package playback implements the playback engine as a pure,
// synchronously-advanced state machine: a compressed wall-clock
// timeline precomputed once at load, and a cursor moved only by an
// external clock signal the host supplies via Advance. It never spawns
// a goroutine and never blocks; a host drives it from its own render
// loop instead of subscribing to a published stream of ticks.
package playback

import "github.com/spoolformat/spool/pkg/types"

// Event is one entry that newly became visible during an Advance step.
type Event struct {
	Index int
	Entry *types.Entry
}

// State is the playback engine's run state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// MaxIdleGapMs and MaxThinkingGapMs bound how long a single gap
// between entries may stretch the compressed timeline.
const (
	MaxIdleGapMs     int64 = 2000
	MaxThinkingGapMs int64 = 2000
)

// Player holds one session's compressed timeline and cursor.
type Player struct {
	session     *types.Session
	frameTimes  []int64
	cursorIndex int
	elapsedMs   int64
	speed       float64
	state       State
}

// New builds a Player with no session loaded; call Load before using
// it.
func New() *Player {
	return &Player{speed: 1, state: Stopped}
}

// Load computes frame_times for session and resets the player to the
// beginning, stopped.
func (p *Player) Load(session *types.Session) {
	p.session = session
	p.frameTimes = computeFrameTimes(session)
	p.cursorIndex = 0
	p.elapsedMs = 0
	p.speed = 1
	p.state = Stopped
}

// computeFrameTimes precomputes the compressed wall-clock offset at
// which each entry becomes visible, per the idle/thinking-gap
// compression rule in the format spec.
func computeFrameTimes(session *types.Session) []int64 {
	entries := session.Entries
	if len(entries) == 0 {
		return nil
	}
	frames := make([]int64, len(entries))
	frames[0] = 0
	for i := 1; i < len(entries); i++ {
		gap := entries[i].TS - entries[i-1].TS
		if gap < 0 {
			gap = 0
		}
		if entries[i].Type == types.TagPrompt && gap > MaxIdleGapMs {
			gap = MaxIdleGapMs
		}
		if entries[i-1].Type == types.TagThinking && gap > MaxThinkingGapMs {
			gap = MaxThinkingGapMs
		}
		frames[i] = frames[i-1] + gap
	}
	return frames
}

func (p *Player) lastFrame() int64 {
	if len(p.frameTimes) == 0 {
		return 0
	}
	return p.frameTimes[len(p.frameTimes)-1]
}

// Play starts or resumes playback. If stopped at the end of the
// timeline, it restarts from the beginning first.
func (p *Player) Play() {
	if p.state == Stopped && p.cursorIndex >= len(p.frameTimes)-1 {
		p.cursorIndex = 0
		p.elapsedMs = 0
	}
	p.state = Playing
}

// Pause halts the clock without moving the cursor.
func (p *Player) Pause() {
	p.state = Paused
}

// Advance moves the clock forward by dtWallMs of real time (scaled by
// Speed) and advances the cursor across every frame boundary crossed,
// returning the entries that newly became visible during this step (in
// timeline order, empty if none crossed or the player isn't Playing).
func (p *Player) Advance(dtWallMs int64) []Event {
	if p.state != Playing || len(p.frameTimes) == 0 {
		return nil
	}
	p.elapsedMs += int64(float64(dtWallMs) * p.speed)

	start := p.cursorIndex
	last := len(p.frameTimes) - 1
	for p.cursorIndex < last && p.frameTimes[p.cursorIndex+1] <= p.elapsedMs {
		p.cursorIndex++
	}
	if p.cursorIndex >= last {
		p.state = Paused
	}

	if p.cursorIndex == start {
		return nil
	}
	events := make([]Event, 0, p.cursorIndex-start)
	for i := start + 1; i <= p.cursorIndex; i++ {
		events = append(events, Event{Index: i, Entry: p.session.Entries[i]})
	}
	return events
}

// StepForward moves the cursor one entry ahead, if not already at the
// last entry, snapping elapsed to that entry's frame time.
func (p *Player) StepForward() {
	if len(p.frameTimes) == 0 || p.cursorIndex >= len(p.frameTimes)-1 {
		return
	}
	p.cursorIndex++
	p.elapsedMs = p.frameTimes[p.cursorIndex]
}

// StepBackward moves the cursor one entry back, if not already at the
// first entry, snapping elapsed to that entry's frame time.
func (p *Player) StepBackward() {
	if p.cursorIndex <= 0 {
		return
	}
	p.cursorIndex--
	p.elapsedMs = p.frameTimes[p.cursorIndex]
}

// Seek jumps to a normalized position in [0,1] of the compressed
// timeline.
func (p *Player) Seek(progress float64) {
	if len(p.frameTimes) == 0 {
		return
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	target := int64(progress * float64(p.lastFrame()))
	p.elapsedMs = target

	idx := 0
	for i, ft := range p.frameTimes {
		if ft <= target {
			idx = i
		} else {
			break
		}
	}
	p.cursorIndex = idx
}

// SetSpeed sets the playback speed multiplier. Non-positive values are
// ignored; the recommended presets are 0.25, 0.5, 1, 2, 4, 8, 16, but
// any positive rational is accepted.
func (p *Player) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	p.speed = speed
}

// State returns the current run state.
func (p *Player) State() State { return p.state }

// Speed returns the current speed multiplier.
func (p *Player) Speed() float64 { return p.speed }

// CursorIndex returns the index of the entry the cursor currently
// rests on.
func (p *Player) CursorIndex() int { return p.cursorIndex }

// VisibleEntries returns entries[0..=cursor_index].
func (p *Player) VisibleEntries() []*types.Entry {
	if p.session == nil || len(p.session.Entries) == 0 {
		return nil
	}
	return p.session.Entries[:p.cursorIndex+1]
}

// Progress returns elapsed / frame_times[last], clamped to [0,1].
func (p *Player) Progress() float64 {
	last := p.lastFrame()
	if last == 0 {
		return 0
	}
	progress := float64(p.elapsedMs) / float64(last)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
