// Package specerr defines the typed error taxonomy shared by the
// codec, validator, and adapters: a single *Error type whose Kind
// field names the failure, so callers can use errors.As and switch on
// Kind instead of matching strings. There are no per-kind sentinel
// error values.
package specerr

import "fmt"

// Category is the top-level error family from the format spec.
type Category string

const (
	CategoryInputFormat         Category = "InputFormat"
	CategorySchemaViolation     Category = "SchemaViolation"
	CategoryStructuralViolation Category = "StructuralViolation"
	CategoryReferenceWarning    Category = "ReferenceWarning"
	CategoryAdapterFailure      Category = "AdapterFailure"
)

// Kind is one specific error/violation tag within a Category.
type Kind string

const (
	KindInvalidUTF8   Kind = "InvalidUtf8"
	KindMalformedLine Kind = "MalformedLine"
	KindEmptyInput    Kind = "EmptyInput"

	KindMissingField           Kind = "MissingField"
	KindWrongFieldType         Kind = "WrongFieldType"
	KindToolResultAmbiguous    Kind = "ToolResultAmbiguous"
	KindUnsupportedMajorVersion Kind = "UnsupportedMajorVersion"

	KindMissingHeader    Kind = "MissingHeader"
	KindHeaderNotFirst   Kind = "HeaderNotFirst"
	KindHeaderTsNonZero  Kind = "HeaderTsNonZero"
	KindDuplicateId      Kind = "DuplicateId"
	KindNegativeTimestamp Kind = "NegativeTimestamp"

	KindDanglingToolResult   Kind = "DanglingToolResult"
	KindDanglingSubagentEnd  Kind = "DanglingSubagentEnd"
	KindOrphanedMarker       Kind = "OrphanedMarker"

	KindNoRecognizableLines Kind = "NoRecognizableLines"
	KindUnknownVendorShape  Kind = "UnknownVendorShape"
)

var categoryByKind = map[Kind]Category{
	KindInvalidUTF8:   CategoryInputFormat,
	KindMalformedLine: CategoryInputFormat,
	KindEmptyInput:    CategoryInputFormat,

	KindMissingField:            CategorySchemaViolation,
	KindWrongFieldType:          CategorySchemaViolation,
	KindToolResultAmbiguous:     CategorySchemaViolation,
	KindUnsupportedMajorVersion: CategorySchemaViolation,

	KindMissingHeader:     CategoryStructuralViolation,
	KindHeaderNotFirst:    CategoryStructuralViolation,
	KindHeaderTsNonZero:   CategoryStructuralViolation,
	KindDuplicateId:       CategoryStructuralViolation,
	KindNegativeTimestamp: CategoryStructuralViolation,

	KindDanglingToolResult:  CategoryReferenceWarning,
	KindDanglingSubagentEnd: CategoryReferenceWarning,
	KindOrphanedMarker:      CategoryReferenceWarning,

	KindNoRecognizableLines: CategoryAdapterFailure,
	KindUnknownVendorShape:  CategoryAdapterFailure,
}

// CategoryOf returns the Category a Kind belongs to.
func CategoryOf(k Kind) Category { return categoryByKind[k] }

// Fatal reports whether k blocks the operation that produced it, as
// opposed to being a non-fatal reference warning.
func Fatal(k Kind) bool { return CategoryOf(k) != CategoryReferenceWarning }

// Error is a single typed failure: its Kind, an optional 1-based line
// number or 0-based entry index, and a human-readable message.
type Error struct {
	Kind    Kind
	Line    int // 1-based source line, 0 if not applicable
	Index   int // entry index, -1 if not applicable
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Kind, e.Line, e.Message)
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s (entry %d): %s", e.Kind, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Category returns this error's top-level family.
func (e *Error) Category() Category { return CategoryOf(e.Kind) }

// New builds an *Error with no line/index context.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Index: -1, Message: fmt.Sprintf(format, args...)}
}

// AtLine builds an *Error tagged with a 1-based source line number.
func AtLine(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Index: -1, Message: fmt.Sprintf(format, args...)}
}

// AtIndex builds an *Error tagged with an entry index.
func AtIndex(kind Kind, index int, format string, args ...any) *Error {
	return &Error{Kind: kind, Index: index, Message: fmt.Sprintf(format, args...)}
}
