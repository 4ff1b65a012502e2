package cppon

import "strconv"

// visitor.go implements path/index traversal with autovivification for
// mutable access, and the stricter const-traversal contract (no
// mutation, NullValue/BadArrayIndex on stepping past a
// missing/mismatched node) used by read-only helpers.

func isIndexSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if !isDigit(seg[i]) {
			return false
		}
	}
	return true
}

func splitSegments(path string) []string {
	if path == "" {
		return nil
	}
	segs := make([]string, 0, 4)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			segs = append(segs, path[start:i])
			start = i + 1
		}
	}
	return segs
}

func stripLeadingSlash(path string) (string, error) {
	if path == "" || path[0] != '/' {
		return "", newTraversalError(KindInvalidPathSegment, path, "path must be absolute")
	}
	return path[1:], nil
}

// VisitIndex indexes node as an array (autovivifying an empty array out
// of null), growing it to index+1 with nulls if index is within
// size+MaxArrayDelta, or failing with ExcessiveArrayResize otherwise.
func (e *Env) VisitIndex(node *Value, index int) (*Value, error) {
	if node.kind == KindNull {
		*node = EmptyArray(e.cfg.MinReserve)
	}
	arr, err := node.Array()
	if err != nil {
		return nil, err
	}
	return arr.growTo(index, e.cfg.MaxArrayDelta)
}

// Visit resolves absPath (which must start with '/') against root,
// mutating and autovivifying as needed. root is temporarily pushed as
// the current root so absolute path-tokens encountered mid-traversal
// resolve against it.
func (e *Env) Visit(root *Value, absPath string) (*Value, error) {
	rest, err := stripLeadingSlash(absPath)
	if err != nil {
		return nil, err
	}
	e.PushRoot(root)
	defer e.PopRoot(root)
	return e.visitSegments(root, splitSegments(rest))
}

// VisitConst resolves absPath against root without ever mutating the
// tree.
func (e *Env) VisitConst(root *Value, absPath string) (*Value, error) {
	rest, err := stripLeadingSlash(absPath)
	if err != nil {
		return nil, err
	}
	e.PushRoot(root)
	defer e.PopRoot(root)
	return e.visitConst(root, splitSegments(rest))
}

func (e *Env) visitSegments(node *Value, segs []string) (*Value, error) {
	cur := node
	for _, seg := range segs {
		resolved, viaPointer, err := e.resolveThrough(cur)
		if err != nil {
			return nil, err
		}
		next, err := e.stepMut(resolved, seg, viaPointer)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (e *Env) visitConst(node *Value, segs []string) (*Value, error) {
	cur := node
	for _, seg := range segs {
		resolved, err := e.resolveThroughConst(cur)
		if err != nil {
			return nil, err
		}
		next, err := e.stepConst(resolved, seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// resolveThrough follows pointer/path-token indirection on a node about
// to receive a non-terminal write step. A null pointer is returned
// as-is (the slot itself becomes the autoviv target); any other pointer
// is followed, and viaPointer is reported true so the caller knows the
// eventual write should force-autovivify the target's shape even if it
// currently holds a non-null, mismatched value.
func (e *Env) resolveThrough(node *Value) (*Value, bool, error) {
	viaPointer := false
	for {
		switch node.kind {
		case KindPointer:
			if node.ptr == nil {
				return node, viaPointer, nil
			}
			node = node.ptr
			viaPointer = true
		case KindPathToken:
			node.unsafeToAssignPointer = true
			target, err := e.resolvePathToken(node.str)
			node.unsafeToAssignPointer = false
			if err != nil {
				return nil, false, err
			}
			node = target
		default:
			return node, viaPointer, nil
		}
	}
}

func (e *Env) resolveThroughConst(node *Value) (*Value, error) {
	for {
		switch node.kind {
		case KindPointer:
			if node.ptr == nil {
				return node, nil
			}
			node = node.ptr
		case KindPathToken:
			// No mid-resolution marking here: const traversal must stay
			// write-free so concurrent readers of an immutable tree are safe.
			target, err := e.resolvePathTokenConst(node.str)
			if err != nil {
				return nil, err
			}
			node = target
		default:
			return node, nil
		}
	}
}

func (e *Env) resolvePathToken(path string) (*Value, error) {
	if path == "" || path[0] != '/' {
		return nil, newTokenError(KindInvalidPath, path, "path-token must be absolute")
	}
	root := e.CurrentRoot()
	if path == "/" {
		return root, nil
	}
	return e.visitSegments(root, splitSegments(path[1:]))
}

func (e *Env) resolvePathTokenConst(path string) (*Value, error) {
	if path == "" || path[0] != '/' {
		return nil, newTokenError(KindInvalidPath, path, "path-token must be absolute")
	}
	root := e.CurrentRoot()
	if path == "/" {
		return root, nil
	}
	return e.visitConst(root, splitSegments(path[1:]))
}

// stepMut applies a single write step to slot. force is true when slot
// was reached by following a non-null pointer, in which case the target
// is force-autovivified into the shape the segment needs even if it
// currently holds a mismatched non-null value; otherwise only a null
// (or null-pointer) slot autovivifies, and an existing mismatched
// non-null value raises TypeMismatch.
func (e *Env) stepMut(slot *Value, seg string, force bool) (*Value, error) {
	wantArray := isIndexSegment(seg)
	isAutovivNull := slot.kind == KindNull || (slot.kind == KindPointer && slot.ptr == nil)
	if isAutovivNull || force {
		if wantArray && slot.kind != KindArray {
			*slot = EmptyArray(e.cfg.MinReserve)
		} else if !wantArray && slot.kind != KindObject {
			*slot = EmptyObject(e.cfg.MinReserve)
		}
	}
	if wantArray {
		arr, err := slot.Array()
		if err != nil {
			return nil, err
		}
		idx, _ := strconv.Atoi(seg)
		return arr.growTo(idx, e.cfg.MaxArrayDelta)
	}
	obj, err := slot.Object()
	if err != nil {
		return nil, err
	}
	if v, ok := obj.Get(seg); ok {
		return v, nil
	}
	obj.Set(seg, Null())
	v, _ := obj.Get(seg)
	return v, nil
}

func (e *Env) stepConst(slot *Value, seg string) (*Value, error) {
	if slot.kind == KindNull || (slot.kind == KindPointer && slot.ptr == nil) {
		return nil, newTraversalError(KindNullValue, seg, "cannot traverse through null")
	}
	if isIndexSegment(seg) {
		arr, err := slot.Array()
		if err != nil {
			return nil, err
		}
		idx, _ := strconv.Atoi(seg)
		return arr.At(idx)
	}
	if slot.kind == KindArray {
		return nil, newTraversalError(KindBadArrayIndex, seg, "non-numeric segment used to index an array")
	}
	obj, err := slot.Object()
	if err != nil {
		return nil, err
	}
	if v, ok := obj.Get(seg); ok {
		return v, nil
	}
	return e.NullSentinel(), nil
}

// Numeric is the constraint satisfied by every concrete numeric
// representation a Value can hold.
type Numeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// resolveNumber extracts the raw bit pattern and NumberKind of v. For a
// number-token, a mutable access converts and realizes it in place; a
// const access requires the Env's exact-numbers mode, else
// NumberNotConverted.
func resolveNumber(env *Env, v *Value, mutable bool) (uint64, NumberKind, error) {
	switch v.kind {
	case KindNumber:
		return v.bits, v.numKind, nil
	case KindNumberToken:
		if !mutable && !env.ExactNumbers() {
			return 0, 0, newTokenError(KindNumberNotConverted, v.str, "number-token requires a mutable access or exact mode")
		}
		bits, err := convertText(v.str, v.numKind)
		if err != nil {
			return 0, 0, err
		}
		if mutable {
			v.kind = KindNumber
			v.bits = bits
			v.str = ""
		}
		return bits, v.numKind, nil
	default:
		return 0, 0, newTraversalError(KindTypeMismatch, "", "value is not numeric")
	}
}

func numberKindMatchesT[T Numeric](k NumberKind) bool {
	var zero T
	switch any(zero).(type) {
	case int8:
		return k == NumKindI8
	case uint8:
		return k == NumKindU8
	case int16:
		return k == NumKindI16
	case uint16:
		return k == NumKindU16
	case int32:
		return k == NumKindI32
	case uint32:
		return k == NumKindU32
	case int64:
		return k == NumKindJSONInt64 || k == KindI64Num
	case uint64:
		return k == KindU64Num
	case float32:
		return k == NumKindF32
	case float64:
		return k == NumKindJSONDouble
	}
	return false
}

func castBits[T Numeric](bits uint64, k NumberKind) T {
	if k.isFloatKind() {
		return T(asFloat64(bits, k))
	}
	if k.isSignedKind() {
		return T(asInt64(bits, k))
	}
	return T(asUint64(bits, k))
}

// GetStrictNumber returns v's value as T, requiring v's concrete
// NumberKind to match T's width and signedness exactly.
func GetStrictNumber[T Numeric](env *Env, v *Value, mutable bool) (T, error) {
	var zero T
	bits, k, err := resolveNumber(env, v, mutable)
	if err != nil {
		return zero, err
	}
	if !numberKindMatchesT[T](k) {
		return zero, newTraversalError(KindTypeMismatch, "", "concrete numeric kind does not match requested type")
	}
	return castBits[T](bits, k), nil
}

// GetCastNumber is like GetStrictNumber but allows any numeric
// cross-cast.
func GetCastNumber[T Numeric](env *Env, v *Value, mutable bool) (T, error) {
	var zero T
	bits, k, err := resolveNumber(env, v, mutable)
	if err != nil {
		return zero, err
	}
	return castBits[T](bits, k), nil
}

// GetOptionalNumber returns a value after at most one pointer
// indirection if T is present, or ok=false otherwise. It never mutates:
// the number-token realization it may trigger is treated as a const
// access.
func GetOptionalNumber[T Numeric](env *Env, v *Value) (T, bool) {
	var zero T
	target := v
	if target.kind == KindPointer {
		if target.ptr == nil {
			return zero, false
		}
		target = target.ptr
	}
	val, err := GetStrictNumber[T](env, target, false)
	if err != nil {
		return zero, false
	}
	return val, true
}

// GetBool returns v's boolean value, or TypeMismatch if v is not a bool.
func GetBool(v *Value) (bool, error) {
	if v.kind != KindBool {
		return false, newTraversalError(KindTypeMismatch, "", "value is not bool")
	}
	return v.boolean, nil
}

// GetOptionalBool returns a value after at most one pointer indirection.
func GetOptionalBool(v *Value) (bool, bool) {
	target := v
	if target.kind == KindPointer {
		if target.ptr == nil {
			return false, false
		}
		target = target.ptr
	}
	if target.kind != KindBool {
		return false, false
	}
	return target.boolean, true
}

// GetString returns v's string content, or TypeMismatch if v is neither
// an owned-string nor a string-view.
func GetString(v *Value) (string, error) {
	switch v.kind {
	case KindOwnedString, KindStringView:
		return v.str, nil
	}
	return "", newTraversalError(KindTypeMismatch, "", "value is not a string")
}

// GetOptionalString returns a value after at most one pointer
// indirection.
func GetOptionalString(v *Value) (string, bool) {
	target := v
	if target.kind == KindPointer {
		if target.ptr == nil {
			return "", false
		}
		target = target.ptr
	}
	switch target.kind {
	case KindOwnedString, KindStringView:
		return target.str, true
	}
	return "", false
}

// GetBlob realizes (mutable=true) or reads (mutable=false) v as a binary
// buffer. A const access to blob-text raises BlobNotRealized rather than
// implicitly decoding it; decoding is a mutation.
func GetBlob(v *Value, mutable bool) ([]byte, error) {
	switch v.kind {
	case KindBlobBytes:
		return v.bytes, nil
	case KindBlobText:
		if !mutable {
			return nil, newTokenError(KindBlobNotRealized, v.str, "blob-text not realized; mutable access required")
		}
		decoded, err := base64Decode(v.str, true)
		if err != nil {
			return nil, err
		}
		v.kind = KindBlobBytes
		v.bytes = decoded
		v.str = ""
		return v.bytes, nil
	}
	return nil, newTraversalError(KindTypeMismatch, "", "value is not a blob")
}
