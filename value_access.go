package cppon

// value_access.go implements the container accessors: classify is
// Value.Kind (value.go); these cover the throwing and optional
// object/array views and the plain read helpers used by the visitor and
// printer layers.

// Object returns a mutable view of v's members, or TypeMismatch if v is
// not an object.
func (v *Value) Object() (*ObjectView, error) {
	if v.kind != KindObject {
		return nil, newTraversalError(KindTypeMismatch, "", "value is not an object")
	}
	return (*ObjectView)(v), nil
}

// TryObject returns a mutable view of v's members without error, or nil
// if v is not an object.
func (v *Value) TryObject() *ObjectView {
	if v.kind != KindObject {
		return nil
	}
	return (*ObjectView)(v)
}

// Array returns a mutable view of v's elements, or TypeMismatch if v is
// not an array.
func (v *Value) Array() (*ArrayView, error) {
	if v.kind != KindArray {
		return nil, newTraversalError(KindTypeMismatch, "", "value is not an array")
	}
	return (*ArrayView)(v), nil
}

// TryArray returns a mutable view of v's elements without error, or nil
// if v is not an array.
func (v *Value) TryArray() *ArrayView {
	if v.kind != KindArray {
		return nil
	}
	return (*ArrayView)(v)
}

// ObjectView is a typed accessor over an object Value's members. It is
// defined as a distinct named type over Value (rather than a wrapper
// struct) so Object()/TryObject() are zero-allocation casts.
type ObjectView Value

// Len returns the number of members.
func (o *ObjectView) Len() int { return len(o.members) }

// Get returns the value of the first member named key, and whether it
// was found. Duplicate keys are allowed on parse; lookup always returns
// the first match.
func (o *ObjectView) Get(key string) (*Value, bool) {
	for i := range o.members {
		if o.members[i].key == key {
			return &o.members[i].val, true
		}
	}
	return nil, false
}

// Member is the strict form of Get: it returns the value of the first
// member named key, or MemberNotFound if no such member exists.
func (o *ObjectView) Member(key string) (*Value, error) {
	if v, ok := o.Get(key); ok {
		return v, nil
	}
	return nil, newTraversalError(KindMemberNotFound, key, "no such member")
}

// Key returns the key of the i'th member in insertion order.
func (o *ObjectView) Key(i int) string { return o.members[i].key }

// Value returns the value of the i'th member in insertion order.
func (o *ObjectView) Value(i int) *Value { return &o.members[i].val }

// Set assigns val to the first existing member named key, or appends a
// new member if none exists.
func (o *ObjectView) Set(key string, val Value) {
	for i := range o.members {
		if o.members[i].key == key {
			o.members[i].val = val
			return
		}
	}
	o.members = append(o.members, member{key: key, val: val})
}

// ArrayView is a typed accessor over an array Value's elements.
type ArrayView Value

// Len returns the number of elements.
func (a *ArrayView) Len() int { return len(a.elems) }

// At returns a pointer to the i'th element, or BadArrayIndex if out of
// range.
func (a *ArrayView) At(i int) (*Value, error) {
	if i < 0 || i >= len(a.elems) {
		return nil, newTraversalError(KindBadArrayIndex, "", "array index out of range")
	}
	return &a.elems[i], nil
}

// Append adds val as the last element.
func (a *ArrayView) Append(val Value) {
	a.elems = append(a.elems, val)
}

// growTo grows the array to length n+1 with nulls, subject to the
// ExcessiveArrayResize ceiling in maxDelta, and returns a pointer to
// the (possibly just-created) element n.
func (a *ArrayView) growTo(n, maxDelta int) (*Value, error) {
	if n < len(a.elems) {
		return &a.elems[n], nil
	}
	if n-len(a.elems) > maxDelta {
		return nil, newTraversalError(KindExcessiveArrayResize, "", "array index exceeds growth ceiling")
	}
	for len(a.elems) <= n {
		a.elems = append(a.elems, Null())
	}
	return &a.elems[n], nil
}

// AsPointer returns v's pointer target if v is a KindPointer value, and
// whether v was a pointer at all. A nil result with ok==true means a
// "null pointer".
func (v *Value) AsPointer() (target *Value, ok bool) {
	if v.kind != KindPointer {
		return nil, false
	}
	return v.ptr, true
}

// Assign replaces v in place with val's contents, except that assigning
// an in-doc pointer is rejected with UnsafePointerAssignment if v is
// currently mid-traversal in a broken internal state (tracked by the
// unsafeToAssignPointer flag set by the visitor while resolving through v).
func (v *Value) Assign(val Value) error {
	if val.kind == KindPointer && v.unsafeToAssignPointer {
		return newLogicError(KindUnsafePointerAssign, "cannot assign a pointer while the target is mid-resolution")
	}
	*v = val
	return nil
}
