package value

import "testing"

func TestDistinctNullAlgebra(t *testing.T) {
	null1, null2 := NewNull(), NewNull()
	nonNull := NewInteger(1)

	if null1.Distinct(null2) {
		t.Errorf("Distinct(null, null) = true, want false")
	}
	if !null1.Distinct(nonNull) {
		t.Errorf("Distinct(null, non-null) = false, want true")
	}
}

func TestEvalIsDistinct(t *testing.T) {
	tri := Eval(CmpIsDistinct, true, true, 0)
	if tri != TriFalse {
		t.Errorf("Eval(IsDistinct, null, null) = %v, want false", tri)
	}
	tri = Eval(CmpIsDistinct, false, false, 0)
	if tri != TriFalse {
		t.Errorf("Eval(IsDistinct, eq, eq) = %v, want false", tri)
	}
	tri = Eval(CmpIsDistinct, false, false, 1)
	if tri != TriTrue {
		t.Errorf("Eval(IsDistinct, ne, ne) = %v, want true", tri)
	}
}

func TestDyadicComparisonUnknownOnNull(t *testing.T) {
	for _, kind := range []CompareKind{CmpEQ, CmpLE, CmpGE, CmpLT, CmpGT, CmpNE} {
		if got := Eval(kind, true, false, 0); got != TriUnknown {
			t.Errorf("Eval(%v, null, _) = %v, want unknown", kind, got)
		}
	}
}

func TestTriNot(t *testing.T) {
	cases := map[Tri]Tri{TriFalse: TriTrue, TriTrue: TriFalse, TriUnknown: TriUnknown}
	for in, want := range cases {
		if got := in.Not(); got != want {
			t.Errorf("Not(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestCompareToTotalOrder(t *testing.T) {
	a, b, c := NewInteger(1), NewInteger(2), NewInteger(2)
	if a.CompareTo(b) != -1 {
		t.Errorf("1.CompareTo(2) = %d, want -1", a.CompareTo(b))
	}
	if b.CompareTo(a) != 1 {
		t.Errorf("2.CompareTo(1) = %d, want 1", b.CompareTo(a))
	}
	if b.CompareTo(c) != 0 {
		t.Errorf("2.CompareTo(2) = %d, want 0", b.CompareTo(c))
	}
}

func TestAssignDoesNotReallocate(t *testing.T) {
	v := NewInteger(1)
	ptr := v
	v.Assign(NewInteger(42))
	if ptr != v {
		t.Fatalf("Assign must mutate in place, not reallocate")
	}
	if v.Integer() != 42 {
		t.Errorf("Integer() = %d, want 42", v.Integer())
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	arr := NewArray(KindString)
	arr.AppendElement(NewString("a"))
	arr.AppendElement(NewNull())

	data, err := arr.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Kind() != KindArray || got.Len() != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Array()[0].Str() != "a" {
		t.Errorf("element 0 = %q, want %q", got.Array()[0].Str(), "a")
	}
	if !got.Array()[1].IsNull() {
		t.Errorf("element 1 should be null")
	}
}

func TestUnfoldRLE(t *testing.T) {
	arr := NewArray(KindString)
	arr.AppendElement(NewString(EncodeRLE(3, "x")))
	if err := arr.Apply(Unfold); err != nil {
		t.Fatalf("Apply(Unfold): %v", err)
	}
	if arr.Len() != 3 {
		t.Fatalf("unfolded length = %d, want 3", arr.Len())
	}
	for _, e := range arr.Array() {
		if e.Str() != "x" {
			t.Errorf("unfolded element = %q, want %q", e.Str(), "x")
		}
	}
}

func TestCaseInsensitiveUserNameEquals(t *testing.T) {
	if !CaseInsensitiveEquals("Alice", "alice") {
		t.Errorf("CaseInsensitiveEquals(Alice, alice) = false, want true")
	}
	if CaseInsensitiveEquals("Alice", "bob") {
		t.Errorf("CaseInsensitiveEquals(Alice, bob) = true, want false")
	}
}
