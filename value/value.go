// Package value implements the kernel's tagged value type: the unit of data
// that flows between actions through a program's variable table.
package value

import (
	"fmt"
	"time"
)

// Kind tags which variant of Value is populated.
type Kind int

const (
	KindNullMarker Kind = iota
	KindDefaultMarker
	KindInteger
	KindUnsigned
	KindLong
	KindDouble
	KindDecimal
	KindString
	KindBinary
	KindDate
	KindTimestamp
	KindLanguageSet
	KindWord
	KindBitSet
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNullMarker:
		return "null"
	case KindDefaultMarker:
		return "default"
	case KindInteger:
		return "integer"
	case KindUnsigned:
		return "unsigned"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindDate:
		return "date"
	case KindTimestamp:
		return "timestamp"
	case KindLanguageSet:
		return "language"
	case KindWord:
		return "word"
	case KindBitSet:
		return "bitset"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FunctionTag names a transform accepted by Value.Apply.
type FunctionTag int

const (
	// Unfold rewrites packed representations (e.g. compressed arrays) into
	// full form.
	Unfold FunctionTag = iota
)

// Value is the kernel's sum-type data cell. Every Value carries two
// independent flags in addition to its typed payload: IsNull (SQL NULL) and
// IsDefault (unspecified in an INSERT). A Value is never reallocated once
// placed in a program's variable table; Assign/Copy/SetNull mutate or clone
// the payload in place.
type Value struct {
	kind      Kind
	isNull    bool
	isDefault bool

	integer   int32
	unsigned  uint32
	long      int64
	double    float64
	decimal   string // textual decimal, arbitrary precision is out of scope
	str       string
	binary    []byte
	date      time.Time
	timestamp time.Time
	languages []string
	word      string
	bitset    BitSet
	elemType  Kind
	array     []*Value
}

// New constructs a Value of the given kind with zero payload, not null, not
// default.
func New(kind Kind) *Value {
	return &Value{kind: kind}
}

// NewArray constructs an empty array Value whose elements are of elemType.
func NewArray(elemType Kind) *Value {
	return &Value{kind: KindArray, elemType: elemType}
}

func NewInteger(v int32) *Value  { return &Value{kind: KindInteger, integer: v} }
func NewUnsigned(v uint32) *Value { return &Value{kind: KindUnsigned, unsigned: v} }
func NewLong(v int64) *Value     { return &Value{kind: KindLong, long: v} }
func NewDouble(v float64) *Value { return &Value{kind: KindDouble, double: v} }
func NewString(v string) *Value  { return &Value{kind: KindString, str: v} }
func NewBinary(v []byte) *Value  { return &Value{kind: KindBinary, binary: append([]byte(nil), v...)} }
func NewWord(v string) *Value    { return &Value{kind: KindWord, word: v} }
func NewBitSetValue(v BitSet) *Value { return &Value{kind: KindBitSet, bitset: v.Copy()} }

// NewNull returns a Value tagged with the null-marker variant and the
// IsNull flag set; spec.md models both independently (a typed value can
// also carry IsNull, e.g. after SetNull on an Integer slot).
func NewNull() *Value {
	return &Value{kind: KindNullMarker, isNull: true}
}

// NewDefault returns a Value tagged with the default-marker variant and the
// IsDefault flag set.
func NewDefault() *Value {
	return &Value{kind: KindDefaultMarker, isDefault: true}
}

func (v *Value) Kind() Kind       { return v.kind }
func (v *Value) IsNull() bool     { return v.isNull || v.kind == KindNullMarker }
func (v *Value) IsDefault() bool  { return v.isDefault || v.kind == KindDefaultMarker }
func (v *Value) TypeCode() Kind   { return v.kind }

// ElementType reports the element kind for array values. It is undefined
// (returns KindNullMarker) for non-array values, per spec.md §3.
func (v *Value) ElementType() Kind {
	if v.kind != KindArray {
		return KindNullMarker
	}
	return v.elemType
}

func (v *Value) Integer() int32     { return v.integer }
func (v *Value) Unsigned() uint32   { return v.unsigned }
func (v *Value) Long() int64        { return v.long }
func (v *Value) Double() float64    { return v.double }
func (v *Value) Str() string        { return v.str }
func (v *Value) Binary() []byte     { return v.binary }
func (v *Value) Word() string       { return v.word }
func (v *Value) BitSet() BitSet     { return v.bitset }
func (v *Value) Array() []*Value    { return v.array }
func (v *Value) Len() int           { return len(v.array) }

// AppendElement appends an element to an array value. It panics if the
// Value is not KindArray — callers that route through the program's
// IsArray check never hit this.
func (v *Value) AppendElement(elem *Value) {
	if v.kind != KindArray {
		panic("value: AppendElement on non-array value")
	}
	v.array = append(v.array, elem)
}

// SetNull clears the value to the SQL-NULL state, preserving its Kind (and,
// for arrays, its element type) so that downstream type checks still see the
// declared shape of the slot.
func (v *Value) SetNull() {
	v.isNull = true
	v.isDefault = false
	v.integer, v.unsigned, v.long, v.double = 0, 0, 0, 0
	v.decimal, v.str, v.word = "", "", ""
	v.binary = nil
	v.languages = nil
	v.bitset = BitSet{}
	v.array = nil
}

// Copy returns a fresh, independently owned clone.
func (v *Value) Copy() *Value {
	c := *v
	c.binary = append([]byte(nil), v.binary...)
	c.languages = append([]string(nil), v.languages...)
	c.bitset = v.bitset.Copy()
	if v.array != nil {
		c.array = make([]*Value, len(v.array))
		for i, e := range v.array {
			c.array[i] = e.Copy()
		}
	}
	return &c
}

// Assign copies other's contents and null/default flags into v in place,
// without reallocating v (a variable's data-id must stay valid across an
// assignment).
func (v *Value) Assign(other *Value) {
	clone := other.Copy()
	*v = *clone
}

// Apply performs a function-tag transform in place.
func (v *Value) Apply(tag FunctionTag) error {
	switch tag {
	case Unfold:
		return v.unfold()
	default:
		return fmt.Errorf("value: unsupported function tag %d", int(tag))
	}
}

// unfold expands packed representations into full form. The only packed
// representation modeled here is a run-length-compressed array: elements
// whose Str() is of the form "\x00RLE:n:payload" expand to n copies of a
// Value built from payload. Non-array values are left unchanged; this keeps
// the transform idempotent.
func (v *Value) unfold() error {
	if v.kind != KindArray {
		return nil
	}
	out := make([]*Value, 0, len(v.array))
	for _, e := range v.array {
		if e.kind == v.elemType && e.kind == KindString {
			if n, payload, ok := parseRLE(e.str); ok {
				for i := 0; i < n; i++ {
					out = append(out, NewString(payload))
				}
				continue
			}
		}
		out = append(out, e)
	}
	v.array = out
	return nil
}

func (v *Value) String() string {
	if v.IsNull() {
		return "NULL"
	}
	if v.IsDefault() {
		return "DEFAULT"
	}
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.integer)
	case KindUnsigned:
		return fmt.Sprintf("%d", v.unsigned)
	case KindLong:
		return fmt.Sprintf("%d", v.long)
	case KindDouble:
		return fmt.Sprintf("%g", v.double)
	case KindDecimal:
		return v.decimal
	case KindString:
		return v.str
	case KindBinary:
		return fmt.Sprintf("%x", v.binary)
	case KindWord:
		return v.word
	case KindBitSet:
		return v.bitset.String()
	case KindArray:
		return fmt.Sprintf("%v", v.array)
	default:
		return v.kind.String()
	}
}
