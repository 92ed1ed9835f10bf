package value

import (
	"bytes"
	"time"
)

// CompareTo returns -1/0/+1, total order within each type and across types
// by type-code for sortability (spec.md §4.1). NULL-handling is the
// caller's responsibility (predicates consult IsNull before calling this);
// CompareTo itself treats a null-flagged value as ordering before any
// non-null value of the same kind, purely so sort-based collections have a
// well-defined total order to work with.
func (v *Value) CompareTo(o *Value) int {
	if v.IsNull() != o.IsNull() {
		if v.IsNull() {
			return -1
		}
		return 1
	}
	if v.IsNull() && o.IsNull() {
		return 0
	}
	if v.kind != o.kind {
		return clampSign(int(v.kind) - int(o.kind))
	}
	switch v.kind {
	case KindInteger:
		return clampSign(int(v.integer) - int(o.integer))
	case KindUnsigned:
		return clampSign(int(v.unsigned) - int(o.unsigned))
	case KindLong:
		return clampSign64(v.long - o.long)
	case KindDouble:
		switch {
		case v.double < o.double:
			return -1
		case v.double > o.double:
			return 1
		default:
			return 0
		}
	case KindDecimal:
		return stringCompare(v.decimal, o.decimal)
	case KindString:
		return stringCompare(v.str, o.str)
	case KindWord:
		return stringCompare(v.word, o.word)
	case KindBinary:
		return bytes.Compare(v.binary, o.binary)
	case KindDate, KindTimestamp:
		t1, t2 := valTime(v), valTime(o)
		switch {
		case t1.Before(t2):
			return -1
		case t1.After(t2):
			return 1
		default:
			return 0
		}
	case KindArray:
		return compareArrays(v.array, o.array)
	default:
		return 0
	}
}

func valTime(v *Value) time.Time {
	if v.kind == KindTimestamp {
		return v.timestamp
	}
	return v.date
}

// compareArrays orders arrays lexicographically by element, then by length.
func compareArrays(a, b []*Value) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := a[i].CompareTo(b[i]); c != 0 {
			return c
		}
	}
	return clampSign(len(a) - len(b))
}

// stringCompare orders by Unicode code point, i.e. Go's native byte-wise
// string comparison on UTF-8 data (spec.md §4.1: "String ordering is
// Unicode code-point").
func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func clampSign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func clampSign64(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Equals is total-equality, NULL-aware in the usual SQL sense: two NULLs
// are equal here (this is the "structural" equality used by Distinct, not
// a three-valued SQL comparison — see Eval for that).
func (v *Value) Equals(o *Value) bool {
	return v.CompareTo(o) == 0
}

// Distinct implements spec.md §3/§8: NULL is not distinct from NULL; NULL
// vs non-NULL is distinct; otherwise distinct iff not equal.
func (v *Value) Distinct(o *Value) bool {
	if v.IsNull() && o.IsNull() {
		return false
	}
	if v.IsNull() != o.IsNull() {
		return true
	}
	return !v.Equals(o)
}

// CaseInsensitiveEquals compares strings ignoring ASCII case. Used only
// from user-name paths (spec.md §3: "User-name comparison is
// case-insensitive").
func CaseInsensitiveEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
