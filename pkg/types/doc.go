// Package types defines the spool wire format's data model: the Entry
// tagged union, its eleven variant payloads, and the Session container
// that holds them in order.
//
// # Entry shape
//
// Every line of a .spool file decodes to one Entry. An Entry always
// carries ID, TS, and Type; exactly one of the Entry's variant pointer
// fields (Session, Prompt, ToolCall, ...) is populated, selected by
// Type. Fields the decoder didn't recognize — from a newer minor
// version, or an implementation-defined x_ extension — are preserved
// verbatim in Extras and re-emitted by Entry.MarshalJSON, so a
// round-trip through an older reader never silently drops data.
//
// This mirrors the SDK-compatible "part" union the teacher project
// used for assistant message content, generalized from four variants
// to eleven and given an explicit extras bag instead of falling back
// to a single default type for anything unrecognized.
package types
