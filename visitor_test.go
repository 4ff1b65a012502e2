package cppon

import "testing"

func TestVisitAutovivifiesObjectThenArray(t *testing.T) {
	env := NewEnv()
	root := Null()
	v, err := env.Visit(&root, "/a/0/name")
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsNull() {
		t.Fatalf("expected freshly autovivified slot to be null, got %v", v.Kind())
	}
	if root.Kind() != KindObject {
		t.Fatalf("expected root to become object, got %v", root.Kind())
	}
	if err := v.Assign(Int64(7)); err != nil {
		t.Fatal(err)
	}
	got, err := env.Visit(&root, "/a/0/name")
	if err != nil {
		t.Fatal(err)
	}
	n, err := GetCastNumber[int64](env, got, true)
	if err != nil || n != 7 {
		t.Fatalf("got %d, err=%v", n, err)
	}
}

func TestVisitIndexGrowsWithNulls(t *testing.T) {
	env := NewEnv()
	root := EmptyArray(0)
	v, err := env.VisitIndex(&root, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsNull() {
		t.Fatal("expected new slot to be null")
	}
	arr, _ := root.Array()
	if arr.Len() != 3 {
		t.Fatalf("expected length 3, got %d", arr.Len())
	}
}

func TestVisitIndexExcessiveResize(t *testing.T) {
	env := NewEnv(WithMaxArrayDelta(2))
	root := EmptyArray(0)
	if _, err := env.VisitIndex(&root, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := env.VisitIndex(&root, 10); err == nil {
		t.Fatal("expected ExcessiveArrayResize")
	} else if kindOf(t, err) != KindExcessiveArrayResize {
		t.Fatalf("got %v", err)
	}
}

func TestVisitTypeMismatchOnConflictingShape(t *testing.T) {
	env := NewEnv()
	root := mustParse(t, `{"a":1}`, ModeFull)
	if _, err := env.Visit(&root, "/a/b"); err == nil {
		t.Fatal("expected TypeMismatch: /a is a number, not an object")
	} else if kindOf(t, err) != KindTypeMismatch {
		t.Fatalf("got %v", err)
	}
}

// Writing through a non-null pointer lands on the pointed-to node.

func TestWriteThroughPointerLandsOnTarget(t *testing.T) {
	env := NewEnv()
	// Reserve capacity up front so the address taken by obj.Get("a") below
	// stays stable across the later Set("p", ...) append (a
	// pointer holder must ensure the referent's address stability).
	root := EmptyObject(4)
	obj, _ := root.Object()
	obj.Set("a", Int64(42))
	aVal, _ := obj.Get("a")
	obj.Set("p", Pointer(aVal))

	_, err := env.Visit(&root, "/p/sub")
	if err != nil {
		t.Fatal(err)
	}
	// /a is now an object holding sub=3 (well, autoviv'd to null here; assign 3)
	target, err := env.Visit(&root, "/p/sub")
	if err != nil {
		t.Fatal(err)
	}
	if err := target.Assign(Int64(3)); err != nil {
		t.Fatal(err)
	}

	aAfter, err := env.VisitConst(&root, "/a")
	if err != nil {
		t.Fatal(err)
	}
	if aAfter.Kind() != KindObject {
		t.Fatalf("expected /a to become object, got %v", aAfter.Kind())
	}
	sub, ok := aAfter.TryObject().Get("sub")
	if !ok {
		t.Fatal("expected sub member")
	}
	n, _ := GetCastNumber[int64](env, sub, true)
	if n != 3 {
		t.Fatalf("got %d", n)
	}

	pAfter, err := env.VisitConst(&root, "/p")
	if err != nil {
		t.Fatal(err)
	}
	if pAfter.Kind() != KindPointer {
		t.Fatalf("expected /p to remain a pointer, got %v", pAfter.Kind())
	}
	ptrTarget, _ := pAfter.AsPointer()
	if ptrTarget != aVal {
		t.Fatal("expected /p to still point at /a")
	}
}

// Writing through a null pointer lands on the referring slot itself.

func TestWriteThroughNullPointerLandsOnSlot(t *testing.T) {
	env := NewEnv()
	root := EmptyObject(0)
	obj, _ := root.Object()
	obj.Set("p", Pointer(nil))

	target, err := env.Visit(&root, "/p/sub")
	if err != nil {
		t.Fatal(err)
	}
	if err := target.Assign(Int64(3)); err != nil {
		t.Fatal(err)
	}

	pAfter, err := env.VisitConst(&root, "/p")
	if err != nil {
		t.Fatal(err)
	}
	if pAfter.Kind() != KindObject {
		t.Fatalf("expected /p slot itself to be autovivified into an object, got %v", pAfter.Kind())
	}
	sub, ok := pAfter.TryObject().Get("sub")
	if !ok {
		t.Fatal("expected sub member on /p")
	}
	n, _ := GetCastNumber[int64](env, sub, true)
	if n != 3 {
		t.Fatalf("got %d", n)
	}

	sentinel := env.NullSentinel()
	if !sentinel.IsNull() {
		t.Fatal("per-env null sentinel must remain untouched")
	}
}

func TestConstTraversalNullValueError(t *testing.T) {
	env := NewEnv()
	root := EmptyObject(0)
	obj, _ := root.Object()
	obj.Set("a", Null())
	if _, err := env.VisitConst(&root, "/a/b"); err == nil {
		t.Fatal("expected NullValue stepping through a null")
	} else if kindOf(t, err) != KindNullValue {
		t.Fatalf("got %v", err)
	}
}

func TestConstTraversalBadArrayIndex(t *testing.T) {
	env := NewEnv()
	root := mustParse(t, `[1,2,3]`, ModeFull)
	if _, err := env.VisitConst(&root, "/notanindex"); err == nil {
		t.Fatal("expected BadArrayIndex for non-numeric segment on an array")
	} else if kindOf(t, err) != KindBadArrayIndex {
		t.Fatalf("got %v", err)
	}
}

func TestGetStrictNumberRequiresExactKind(t *testing.T) {
	env := NewEnv()
	v := Int64(5) // KindI64Num
	if _, err := GetStrictNumber[int32](env, &v, true); err == nil {
		t.Fatal("expected TypeMismatch for width mismatch")
	}
	got, err := GetStrictNumber[int64](env, &v, true)
	if err != nil || got != 5 {
		t.Fatalf("got %d, err=%v", got, err)
	}
}

func TestGetCastNumberCrossCasts(t *testing.T) {
	env := NewEnv()
	v := Float64(3.75)
	got, err := GetCastNumber[int64](env, &v, true)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Fatalf("got %d", got)
	}
}

func TestGetOptionalNumberMissing(t *testing.T) {
	v := String("not a number")
	if _, ok := GetOptionalNumber[int64](NewEnv(), &v); ok {
		t.Fatal("expected ok=false")
	}
}

func TestGetOptionalThroughPointer(t *testing.T) {
	env := NewEnv()
	target := Int64(9)
	p := Pointer(&target)
	got, ok := GetOptionalNumber[int64](env, &p)
	if !ok || got != 9 {
		t.Fatalf("got %d, ok=%v", got, ok)
	}

	nullP := Pointer(nil)
	if _, ok := GetOptionalNumber[int64](env, &nullP); ok {
		t.Fatal("expected ok=false for null pointer")
	}
}

func TestNumberTokenConstAccessRequiresExactMode(t *testing.T) {
	env := NewEnv()
	v := mustParse(t, "42", ModeLazy)
	if _, err := GetStrictNumber[int64](env, &v, false); err == nil {
		t.Fatal("expected NumberNotConverted for const access without exact mode")
	} else if kindOf(t, err) != KindNumberNotConverted {
		t.Fatalf("got %v", err)
	}

	env.SetExactNumbers(true)
	got, err := GetStrictNumber[int64](env, &v, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("got %d", got)
	}
	if v.Kind() != KindNumberToken {
		t.Fatal("const access in exact mode must not realize the token in place")
	}
}

func TestNumberTokenMutableAccessRealizesInPlace(t *testing.T) {
	env := NewEnv()
	v := mustParse(t, "42", ModeLazy)
	got, err := GetStrictNumber[int64](env, &v, true)
	if err != nil || got != 42 {
		t.Fatalf("got %d, err=%v", got, err)
	}
	if v.Kind() != KindNumber {
		t.Fatalf("expected mutable access to realize the token, got %v", v.Kind())
	}
}

func TestGetBlobMutableRealizesConstRefuses(t *testing.T) {
	v := Value{kind: KindBlobText, str: "SGVsbG8="}
	if _, err := GetBlob(&v, false); err == nil || kindOf(t, err) != KindBlobNotRealized {
		t.Fatalf("expected BlobNotRealized, got %v", err)
	}
	b, err := GetBlob(&v, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "Hello" {
		t.Fatalf("got %q", b)
	}
	if v.Kind() != KindBlobBytes {
		t.Fatal("expected value to become blob-bytes after mutable realize")
	}
}

func TestGetBlobInvalidBase64(t *testing.T) {
	v := Value{kind: KindBlobText, str: "not-valid-base64!!"}
	if _, err := GetBlob(&v, true); err == nil || kindOf(t, err) != KindInvalidBase64 {
		t.Fatalf("expected InvalidBase64, got %v", err)
	}
}

func TestGetStringAndOptionalString(t *testing.T) {
	v := String("x")
	s, err := GetString(&v)
	if err != nil || s != "x" {
		t.Fatalf("got %q, err=%v", s, err)
	}
	p := Pointer(&v)
	s2, ok := GetOptionalString(&p)
	if !ok || s2 != "x" {
		t.Fatalf("got %q, ok=%v", s2, ok)
	}
}

func TestGetBoolAndOptionalBool(t *testing.T) {
	v := Bool(true)
	b, err := GetBool(&v)
	if err != nil || !b {
		t.Fatalf("got %v, err=%v", b, err)
	}
	n := Int64(1)
	if _, err := GetBool(&n); err == nil {
		t.Fatal("expected TypeMismatch")
	}
}
