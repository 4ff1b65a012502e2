package cppon

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindNull, "null"},
		{KindBool, "bool"},
		{KindObject, "object"},
		{KindArray, "array"},
		{KindStringView, "string-view"},
		{KindOwnedString, "owned-string"},
		{KindNumberToken, "number-token"},
		{KindNumber, "number"},
		{KindPathToken, "path-token"},
		{KindPointer, "pointer"},
		{KindBlobText, "blob-text"},
		{KindBlobBytes, "blob-bytes"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestStringViewBorrowsBuffer(t *testing.T) {
	buf := []byte("hello")
	v := StringView(buf)
	s, err := GetString(&v)
	if err != nil {
		t.Fatal(err)
	}
	if s != "hello" {
		t.Fatalf("got %q", s)
	}
}

func TestStringCopies(t *testing.T) {
	buf := []byte("hello")
	v := String(string(buf))
	copy(buf, "XXXXX")
	s, _ := GetString(&v)
	if s != "hello" {
		t.Fatalf("String() should own a copy, got %q after mutating source", s)
	}
}

func TestNewPathTokenValidation(t *testing.T) {
	if _, err := NewPathToken(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := NewPathToken("a/b"); err == nil {
		t.Fatal("expected error for non-absolute path")
	}
	v, err := NewPathToken("/a/b")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindPathToken {
		t.Fatalf("expected KindPathToken, got %v", v.Kind())
	}
}

func TestEmptyObjectArrayReserve(t *testing.T) {
	obj := EmptyObject(4)
	if obj.Kind() != KindObject {
		t.Fatal("expected object")
	}
	ov, err := obj.Object()
	if err != nil {
		t.Fatal(err)
	}
	if ov.Len() != 0 {
		t.Fatalf("expected empty object, got len %d", ov.Len())
	}

	arr := EmptyArray(4)
	av, err := arr.Array()
	if err != nil {
		t.Fatal(err)
	}
	if av.Len() != 0 {
		t.Fatalf("expected empty array, got len %d", av.Len())
	}
}

func TestObjectSetGetDuplicateKeys(t *testing.T) {
	obj := EmptyObject(0)
	ov, _ := obj.Object()
	ov.Set("a", Int64(1))
	// append duplicate key directly to simulate a parsed document with
	// repeated keys: duplicates are allowed and lookup returns the first.
	ov.members = append(ov.members, member{key: "a", val: Int64(2)})

	v, ok := ov.Get("a")
	if !ok {
		t.Fatal("expected to find key a")
	}
	got, err := GetStrictNumber[int64](nil, v, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Fatalf("Get on duplicate keys should return first match, got %d", got)
	}
	if ov.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", ov.Len())
	}
}

func TestObjectMemberStrictLookup(t *testing.T) {
	obj := EmptyObject(0)
	ov, _ := obj.Object()
	ov.Set("a", Int64(1))
	if _, err := ov.Member("a"); err != nil {
		t.Fatalf("existing member: %v", err)
	}
	_, err := ov.Member("missing")
	if err == nil {
		t.Fatal("expected MemberNotFound")
	}
	travErr, ok := err.(*TraversalError)
	if !ok || travErr.K != KindMemberNotFound {
		t.Fatalf("expected TraversalError(MemberNotFound), got %v", err)
	}
}

func TestArrayAtOutOfRange(t *testing.T) {
	arr := EmptyArray(0)
	av, _ := arr.Array()
	av.Append(Int64(1))
	if _, err := av.At(1); err == nil {
		t.Fatal("expected BadArrayIndex for out-of-range access")
	}
	if _, err := av.At(-1); err == nil {
		t.Fatal("expected BadArrayIndex for negative access")
	}
}

func TestAssignRejectsUnsafePointer(t *testing.T) {
	target := Int64(42)
	v := Null()
	v.unsafeToAssignPointer = true
	err := v.Assign(Pointer(&target))
	if err == nil {
		t.Fatal("expected UnsafePointerAssignment error")
	}
	var logicErr *LogicError
	if le, ok := err.(*LogicError); ok {
		logicErr = le
	}
	if logicErr == nil || logicErr.K != KindUnsafePointerAssign {
		t.Fatalf("expected LogicError(UnsafePointerAssign), got %v", err)
	}
}

func TestAssignReplacesInPlace(t *testing.T) {
	v := Int64(1)
	if err := v.Assign(Bool(true)); err != nil {
		t.Fatal(err)
	}
	b, err := GetBool(&v)
	if err != nil || !b {
		t.Fatalf("expected true, got %v, err=%v", b, err)
	}
}

func TestAsPointer(t *testing.T) {
	target := Int64(1)
	p := Pointer(&target)
	got, ok := p.AsPointer()
	if !ok || got != &target {
		t.Fatalf("AsPointer failed: got=%v ok=%v", got, ok)
	}

	nullPtr := Pointer(nil)
	got2, ok2 := nullPtr.AsPointer()
	if !ok2 || got2 != nil {
		t.Fatalf("null pointer AsPointer failed: got=%v ok=%v", got2, ok2)
	}

	notPtr := Int64(1)
	_, ok3 := notPtr.AsPointer()
	if ok3 {
		t.Fatal("expected ok=false for a non-pointer value")
	}
}
