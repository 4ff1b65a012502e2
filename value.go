package cppon

import (
	"math"
	"unsafe"
)

// Kind identifies the active alternative of a Value. The numeric order
// here is purely an ABI detail of this implementation; callers must not
// depend on it.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindObject
	KindArray
	KindStringView  // non-owning UTF-8 slice into an external buffer
	KindOwnedString // heap UTF-8 string
	KindNumberToken // lazy numeric literal: textual slice + NumberKind
	KindNumber      // concrete numeric, by value
	KindPathToken   // absolute path, textual slice
	KindPointer     // in-doc, non-owning reference to another node
	KindBlobText    // base64 textual slice, not yet decoded
	KindBlobBytes   // realized binary buffer
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindStringView:
		return "string-view"
	case KindOwnedString:
		return "owned-string"
	case KindNumberToken:
		return "number-token"
	case KindNumber:
		return "number"
	case KindPathToken:
		return "path-token"
	case KindPointer:
		return "pointer"
	case KindBlobText:
		return "blob-text"
	case KindBlobBytes:
		return "blob-bytes"
	}
	return "unknown"
}

// member is one (key, value) pair of an object. The key borrows from the
// source buffer the same way string-view values do.
type member struct {
	key string
	val Value
}

// Value is a single DOM node. Only the fields relevant to kind are
// populated; the zero Value is KindNull.
//
// Go has no deterministic destructor to observe a value leaving scope
// while it is the current root of some Env, so Env.PopRoot must be
// called explicitly by callers that pushed a root; see env.go.
type Value struct {
	kind Kind

	// numKind is valid for KindNumberToken and KindNumber.
	numKind NumberKind

	// str holds: the owned string body (KindOwnedString), the borrowed
	// text (KindStringView, KindNumberToken, KindPathToken, KindBlobText).
	str string

	// bits holds the raw bit pattern of a concrete numeric value.
	// Interpretation depends on numKind (see numberkind.go).
	bits uint64

	boolean bool

	bytes []byte // KindBlobBytes

	members []member // KindObject, insertion order preserved
	elems   []Value  // KindArray

	ptr *Value // KindPointer target; nil means "null pointer"

	// unsafeToAssignPointer is set while the visitor is mid-resolution
	// through this node (its internal state is momentarily inconsistent)
	// and cleared once resolution completes; see Value.Assign.
	unsafeToAssignPointer bool
}

// bytesToString makes a zero-copy string view over b. The caller must
// guarantee b is not mutated afterward; every string-view borrows from
// its source buffer this way.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// Null returns a null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// String returns an owned-string Value, copying s.
func String(s string) Value {
	return Value{kind: KindOwnedString, str: stringCopy(s)}
}

func stringCopy(s string) string {
	b := make([]byte, len(s))
	copy(b, s)
	return bytesToString(b)
}

// StringView returns a non-owning string-view Value over b. b must outlive
// the returned Value.
func StringView(b []byte) Value {
	return Value{kind: KindStringView, str: bytesToString(b)}
}

// EmptyObject returns a new, empty object Value with capacity for reserve
// members (none reserved when reserve <= 0).
func EmptyObject(reserve int) Value {
	v := Value{kind: KindObject}
	if reserve > 0 {
		v.members = make([]member, 0, reserve)
	}
	return v
}

// EmptyArray returns a new, empty array Value with capacity for reserve
// elements (none reserved when reserve <= 0).
func EmptyArray(reserve int) Value {
	v := Value{kind: KindArray}
	if reserve > 0 {
		v.elems = make([]Value, 0, reserve)
	}
	return v
}

// Int64 returns a concrete 64-bit signed integer Value tagged KindI64Num.
func Int64(v int64) Value { return numberValue(KindI64Num, uint64(v)) }

// Uint64 returns a concrete 64-bit unsigned integer Value tagged KindU64Num.
func Uint64(v uint64) Value { return numberValue(KindU64Num, v) }

// JSONInt64 returns a concrete 64-bit signed integer Value tagged as
// having come from the plain JSON integer grammar (no suffix).
func JSONInt64(v int64) Value { return numberValue(NumKindJSONInt64, uint64(v)) }

// Float64 returns a concrete double Value (json-double kind).
func Float64(v float64) Value { return numberValue(NumKindJSONDouble, math.Float64bits(v)) }

// Float32 returns a concrete f32 Value.
func Float32(v float32) Value { return numberValue(NumKindF32, uint64(math.Float32bits(v))) }

func numberValue(k NumberKind, bits uint64) Value {
	return Value{kind: KindNumber, numKind: k, bits: bits}
}

// Pointer returns an in-doc pointer Value targeting target. target may
// be nil, representing a "null pointer".
func Pointer(target *Value) Value {
	return Value{kind: KindPointer, ptr: target}
}

// pathToken returns a path-token Value. path must start with '/'; callers
// should prefer NewPathToken for validation.
func pathToken(path string) Value {
	return Value{kind: KindPathToken, str: path}
}

// NewPathToken validates path and returns a path-token Value, or
// InvalidPath if path is empty or not absolute.
func NewPathToken(path string) (Value, error) {
	if path == "" || path[0] != '/' {
		return Value{}, newTokenError(KindInvalidPath, path, "path-token must be absolute")
	}
	return pathToken(path), nil
}

// BlobBytes returns a realized binary-buffer Value, copying b.
func BlobBytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBlobBytes, bytes: cp}
}

// Kind returns the active alternative of v.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null alternative.
func (v *Value) IsNull() bool { return v.kind == KindNull }
