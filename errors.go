package cppon

import "fmt"

// ErrKind identifies one of the closed set of error kinds a public
// operation can raise. Each concrete error type below carries its ErrKind
// in its K field, so callers that care about the specific failure mode
// reach the concrete type (errors.As or a type switch) and compare K.
type ErrKind string

const (
	KindUtf32Bom             ErrKind = "utf32_bom"
	KindUtf16Bom             ErrKind = "utf16_bom"
	KindInvalidUtf8          ErrKind = "invalid_utf8"
	KindUtf8Continuation     ErrKind = "utf8_continuation"
	KindUnexpectedEndOfText  ErrKind = "unexpected_end_of_text"
	KindUnexpectedSymbol     ErrKind = "unexpected_symbol"
	KindExpectedSymbol       ErrKind = "expected_symbol"
	KindInvalidBase64        ErrKind = "invalid_base64"
	KindBlobNotRealized      ErrKind = "blob_not_realized"
	KindNumberNotConverted   ErrKind = "number_not_converted"
	KindInvalidPath          ErrKind = "invalid_path"
	KindNullValue            ErrKind = "null_value"
	KindTypeMismatch         ErrKind = "type_mismatch"
	KindMemberNotFound       ErrKind = "member_not_found"
	KindBadArrayIndex        ErrKind = "bad_array_index"
	KindInvalidPathSegment   ErrKind = "invalid_path_segment"
	KindExcessiveArrayResize ErrKind = "excessive_array_resize"
	KindBadOption            ErrKind = "bad_option"
	KindJsonCompatibility    ErrKind = "json_compatibility"
	KindUnsafePointerAssign  ErrKind = "unsafe_pointer_assignment"
)

// SyntaxError covers input-encoding and grammar failures raised while
// scanning or parsing.
type SyntaxError struct {
	K       ErrKind
	Pos     int
	Symbol  byte
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Symbol != 0 {
		return fmt.Sprintf("%s: %q at byte %d", e.Message, e.Symbol, e.Pos)
	}
	return fmt.Sprintf("%s at byte %d", e.Message, e.Pos)
}

func newSyntaxError(k ErrKind, pos int, msg string) *SyntaxError {
	return &SyntaxError{K: k, Pos: pos, Message: msg}
}

func newUnexpectedSymbol(sym byte, pos int) *SyntaxError {
	return &SyntaxError{K: KindUnexpectedSymbol, Pos: pos, Symbol: sym, Message: "unexpected symbol"}
}

func newExpectedSymbol(sym byte, pos int) *SyntaxError {
	return &SyntaxError{K: KindExpectedSymbol, Pos: pos, Symbol: sym, Message: "expected symbol"}
}

// TokenError covers malformed lazy tokens: blobs, numbers, paths.
type TokenError struct {
	K       ErrKind
	Segment string
	Message string
}

func (e *TokenError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("%s: %q", e.Message, e.Segment)
	}
	return e.Message
}

func newTokenError(k ErrKind, segment, msg string) *TokenError {
	return &TokenError{K: k, Segment: segment, Message: msg}
}

// TraversalError covers visitor/access failures: missing members, type
// mismatches, bad indexes, resize limits.
type TraversalError struct {
	K       ErrKind
	Segment string
	Message string
}

func (e *TraversalError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("%s: %q", e.Message, e.Segment)
	}
	return e.Message
}

func newTraversalError(k ErrKind, segment, msg string) *TraversalError {
	return &TraversalError{K: k, Segment: segment, Message: msg}
}

// PrinterError covers option-shape and JSON-compatibility failures raised
// while printing.
type PrinterError struct {
	K       ErrKind
	Message string
}

func (e *PrinterError) Error() string {
	return e.Message
}

func newPrinterError(k ErrKind, msg string) *PrinterError {
	return &PrinterError{K: k, Message: msg}
}

// LogicError covers invariant violations that are neither syntax nor
// traversal failures, currently only UnsafePointerAssignment.
type LogicError struct {
	K       ErrKind
	Message string
}

func (e *LogicError) Error() string {
	return e.Message
}

func newLogicError(k ErrKind, msg string) *LogicError {
	return &LogicError{K: k, Message: msg}
}
