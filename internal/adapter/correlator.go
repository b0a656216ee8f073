package adapter

import "github.com/spoolformat/spool/internal/idgen"

// Correlator maps a vendor's own identifiers (tool-use ids, Claude
// "Task" tool-use ids doubling as subagent ids) to the ids this
// package mints for the entries it emits. Scoped to one Convert call.
type Correlator struct {
	toolCalls map[string]string
	subagents map[string]string
}

// NewCorrelator returns an empty, ready-to-use Correlator.
func NewCorrelator() *Correlator {
	return &Correlator{
		toolCalls: make(map[string]string),
		subagents: make(map[string]string),
	}
}

// BindToolCall mints a fresh entry id for a vendor tool-use id and
// remembers the mapping so a later tool-result line can resolve it.
func (c *Correlator) BindToolCall(vendorID string) string {
	id := idgen.New()
	c.toolCalls[vendorID] = id
	return id
}

// ResolveToolCall returns the generated id for a vendor tool-use id,
// and whether the mapping exists. A tool-result with no mapping is
// dropped by the caller, per the format spec's correlation step.
func (c *Correlator) ResolveToolCall(vendorID string) (string, bool) {
	id, ok := c.toolCalls[vendorID]
	return id, ok
}

// BindSubagent mints a fresh subagent_start id for a vendor tool-use
// id that named the "Task" tool.
func (c *Correlator) BindSubagent(vendorID string) string {
	id := idgen.New()
	c.subagents[vendorID] = id
	return id
}

// ResolveSubagent returns the generated subagent_start id for a
// vendor tool-use id, and whether it was bound as a subagent.
func (c *Correlator) ResolveSubagent(vendorID string) (string, bool) {
	id, ok := c.subagents[vendorID]
	return id, ok
}
