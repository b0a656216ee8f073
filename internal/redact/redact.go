package redact

import (
	"encoding/json"
	"sort"

	"github.com/spoolformat/spool/internal/idgen"
	"github.com/spoolformat/spool/pkg/types"
)

// Finding is one detected secret occurrence within an entry's text
// payload.
type Finding struct {
	EntryIndex  int
	EntryID     string
	Start       int
	End         int
	Matched     string
	Category    Category
	Replacement string
	Confirmed   bool
}

// Scrubber detects secrets using a rule set: the fixed rule table plus
// caller-supplied rules (NewScrubber), or exactly the rules given
// (NewScrubberWithRules).
type Scrubber struct {
	rules []Rule
}

// NewScrubber builds a Scrubber over the fixed rule table plus any
// extra rules supplied (e.g. from internal/config's user patterns).
func NewScrubber(extra ...Rule) *Scrubber {
	rules := DefaultRules()
	rules = append(rules, extra...)
	return &Scrubber{rules: rules}
}

// NewScrubberWithRules builds a Scrubber over exactly the given rule
// set, bypassing the fixed table — used by internal/config to apply
// DisabledCategories, which removes rather than only extends entries.
func NewScrubberWithRules(rules []Rule) *Scrubber {
	return &Scrubber{rules: rules}
}

// span is an internal, pre-overlap-resolution match.
type span struct {
	start, end int
	category   Category
	matched    string
}

// scanText runs every rule over text in table order, collecting all
// matches, then resolves overlaps: sort ascending by start; walking
// the list, when two adjacent matches overlap keep the longer one,
// breaking ties toward the earlier start.
func (s *Scrubber) scanText(text string) []span {
	var all []span
	for _, r := range s.rules {
		for _, loc := range r.Pattern.FindAllStringIndex(text, -1) {
			all = append(all, span{start: loc[0], end: loc[1], category: r.Category, matched: text[loc[0]:loc[1]]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return (all[i].end - all[i].start) > (all[j].end - all[j].start)
	})

	var resolved []span
	for _, cur := range all {
		if len(resolved) == 0 {
			resolved = append(resolved, cur)
			continue
		}
		last := &resolved[len(resolved)-1]
		if cur.start >= last.end {
			resolved = append(resolved, cur)
			continue
		}
		// Overlap: keep the longer span; on a tie the earlier start
		// already sorted first, so the existing entry wins.
		if (cur.end - cur.start) > (last.end - last.start) {
			*last = cur
		}
	}
	return resolved
}

// textPayload extracts the single text payload an entry carries for
// redaction purposes, and whether it is present at all.
func textPayload(e *types.Entry) (string, bool) {
	switch e.Type {
	case types.TagPrompt:
		return e.Prompt.Content, true
	case types.TagResponse:
		return e.Response.Content, true
	case types.TagThinking:
		return e.Thinking.Content, true
	case types.TagToolResult:
		if text, ok := e.ToolResult.OutputText(); ok {
			return text, true
		}
		if e.ToolResult.Error != nil {
			return *e.ToolResult.Error, true
		}
		return "", false
	case types.TagError:
		return e.Error.Message, true
	case types.TagAnnotation:
		return e.Annotation.Content, true
	default:
		return "", false
	}
}

// Detect scans every text-bearing entry in session and returns all
// findings, each defaulting to Confirmed = true.
func (s *Scrubber) Detect(session *types.Session) []Finding {
	var findings []Finding
	for i, e := range session.Entries {
		text, ok := textPayload(e)
		if !ok {
			continue
		}
		for _, sp := range s.scanText(text) {
			findings = append(findings, Finding{
				EntryIndex:  i,
				EntryID:     e.ID,
				Start:       sp.start,
				End:         sp.end,
				Matched:     sp.matched,
				Category:    sp.category,
				Replacement: Replacement(sp.category),
				Confirmed:   true,
			})
		}
	}
	return findings
}

// Apply destructively substitutes every confirmed finding's matched
// text with its replacement, then emits one redaction_marker per
// affected entry immediately after it. The input session is not
// mutated; a new session value is returned. Aggregate recomputation is
// the caller's responsibility (see internal/aggregate).
func Apply(session *types.Session, confirmed []Finding) *types.Session {
	byEntry := make(map[int][]Finding)
	for _, f := range confirmed {
		if !f.Confirmed {
			continue
		}
		byEntry[f.EntryIndex] = append(byEntry[f.EntryIndex], f)
	}

	out := make([]*types.Entry, 0, len(session.Entries)+len(byEntry))
	for i, e := range session.Entries {
		findings, affected := byEntry[i]
		if !affected {
			out = append(out, e)
			continue
		}

		rewritten, reason, count := redactEntry(e, findings)
		out = append(out, rewritten)
		out = append(out, newMarker(rewritten, reason, count))
	}

	return types.NewSession(out)
}

// redactEntry returns a new entry with its text payload rewritten,
// matches applied in descending start order so earlier offsets are
// never shifted by a later replacement, plus the dominant category and
// substitution count for the marker that follows it.
func redactEntry(e *types.Entry, findings []Finding) (*types.Entry, Category, int) {
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	text, _ := textPayload(e)
	counts := make(map[Category]int)
	for _, f := range sorted {
		if f.Start < 0 || f.End > len(text) || f.Start > f.End {
			continue
		}
		text = text[:f.Start] + f.Replacement + text[f.End:]
		counts[f.Category]++
	}

	clone := cloneEntryWithText(e, text)
	clone.Extras = summarizeRedaction(e.Extras, counts)

	reason, total := dominantCategory(counts)
	return clone, reason, total
}

func cloneEntryWithText(e *types.Entry, text string) *types.Entry {
	clone := *e
	switch e.Type {
	case types.TagPrompt:
		p := *e.Prompt
		p.Content = text
		clone.Prompt = &p
	case types.TagResponse:
		r := *e.Response
		r.Content = text
		clone.Response = &r
	case types.TagThinking:
		th := *e.Thinking
		th.Content = text
		clone.Thinking = &th
	case types.TagToolResult:
		tr := *e.ToolResult
		if tr.HasOutput() {
			tr.Output = types.PlainText(text)
		} else {
			tr.Error = &text
		}
		clone.ToolResult = &tr
	case types.TagError:
		er := *e.Error
		er.Message = text
		clone.Error = &er
	case types.TagAnnotation:
		a := *e.Annotation
		a.Content = text
		clone.Annotation = &a
	}
	return &clone
}

func dominantCategory(counts map[Category]int) (Category, int) {
	var best Category
	var bestCount, total int
	for _, n := range counts {
		total += n
	}
	// Iterate rules in fixed order so ties resolve deterministically
	// toward the category earliest in the authoritative table.
	for _, r := range rules {
		n := counts[r.Category]
		if n > bestCount {
			bestCount = n
			best = r.Category
		}
	}
	// Only user-supplied categories matched: pick the most frequent,
	// ties broken by name.
	if best == "" {
		for c, n := range counts {
			if n > bestCount || (n == bestCount && c < best) {
				best, bestCount = c, n
			}
		}
	}
	return best, total
}

type redactedSummary struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

func summarizeRedaction(extras map[string]json.RawMessage, counts map[Category]int) map[string]json.RawMessage {
	if len(counts) == 0 {
		return extras
	}
	var summaries []redactedSummary
	for _, r := range rules {
		if n := counts[r.Category]; n > 0 {
			summaries = append(summaries, redactedSummary{Reason: string(r.Category), Count: n})
		}
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return extras
	}
	out := make(map[string]json.RawMessage, len(extras)+1)
	for k, v := range extras {
		out[k] = v
	}
	out["_redacted"] = data
	return out
}

func newMarker(target *types.Entry, reason Category, count int) *types.Entry {
	c := count
	m := types.NewEntry(idgen.New(), target.TS, types.TagRedactionMarker)
	m.RedactionMarker = &types.RedactionMarker{
		TargetID: target.ID,
		Reason:   string(reason),
		Count:    &c,
	}
	return m
}
