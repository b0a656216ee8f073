// Package adapter defines the shared contract and machinery vendor log
// adapters use to convert a third-party agent transcript into a
// *types.Session, per the common seven-step algorithm in the format
// spec: line decode, metadata sweep, entry emission, correlation,
// subagent wrapping, files-modified extraction, and aggregation.
//
// Grounded on the teacher's pkg/types part-union decode (the same
// raw-message/type-switch shape, here applied to a vendor's line
// format instead of the format's own). Adapters do not log: lines they
// cannot use and tool results they cannot correlate are dropped
// silently.
package adapter

import "github.com/spoolformat/spool/pkg/types"

// Adapter converts one vendor's transcript format into a Session.
type Adapter interface {
	// Name identifies the adapter in error messages; it matches the
	// "agent" header value the adapter writes.
	Name() string
	// Sniff reports whether data looks like this adapter's format,
	// based on a cheap structural check of the first non-blank line.
	Sniff(data []byte) bool
	// Convert parses the full transcript into a Session.
	Convert(data []byte) (*types.Session, error)
}

// Registry is the fixed, ordered list of adapters Detect tries in
// turn. Populated by each adapter subpackage's init via Register.
var Registry []Adapter

// Register appends a to the detection registry. Called from each
// adapter subpackage's init function.
func Register(a Adapter) {
	Registry = append(Registry, a)
}

// Detect returns the first registered adapter willing to claim data,
// or nil if none does.
func Detect(data []byte) Adapter {
	for _, a := range Registry {
		if a.Sniff(data) {
			return a
		}
	}
	return nil
}
