package value

import (
	"bytes"
	"encoding/gob"
	"time"
)

// wireValue is the {type-code, null-flag, default-flag, payload} shape from
// spec.md §4.1, flattened into gob-friendly fields.
type wireValue struct {
	Kind      Kind
	IsNull    bool
	IsDefault bool
	Integer   int32
	Unsigned  uint32
	Long      int64
	Double    float64
	Decimal   string
	Str       string
	Binary    []byte
	Date      time.Time
	Timestamp time.Time
	Languages []string
	Word      string
	BitBits   []uint64
	BitSize   int
	ElemType  Kind
	Array     []wireValue
}

func toWire(v *Value) wireValue {
	w := wireValue{
		Kind: v.kind, IsNull: v.isNull, IsDefault: v.isDefault,
		Integer: v.integer, Unsigned: v.unsigned, Long: v.long, Double: v.double,
		Decimal: v.decimal, Str: v.str, Binary: append([]byte(nil), v.binary...),
		Date: v.date, Timestamp: v.timestamp,
		Languages: append([]string(nil), v.languages...),
		Word:      v.word,
		BitBits:   append([]uint64(nil), v.bitset.bits...),
		BitSize:   v.bitset.size,
		ElemType:  v.elemType,
	}
	for _, e := range v.array {
		w.Array = append(w.Array, toWire(e))
	}
	return w
}

func fromWire(w wireValue) *Value {
	v := &Value{
		kind: w.Kind, isNull: w.IsNull, isDefault: w.IsDefault,
		integer: w.Integer, unsigned: w.Unsigned, long: w.Long, double: w.Double,
		decimal: w.Decimal, str: w.Str, binary: append([]byte(nil), w.Binary...),
		date: w.Date, timestamp: w.Timestamp,
		languages: append([]string(nil), w.Languages...),
		word:      w.Word,
		bitset:    BitSet{bits: append([]uint64(nil), w.BitBits...), size: w.BitSize},
		elemType:  w.ElemType,
	}
	for _, e := range w.Array {
		v.array = append(v.array, fromWire(e))
	}
	return v
}

// Serialize encodes v as {type-code, null-flag, default-flag, payload}.
// This is one of the few components of the kernel implemented directly on
// the standard library (encoding/gob): no driver dependency in the example
// pack offers a binary value codec of this shape, so there is nothing
// third-party to ground it on (see DESIGN.md).
func (v *Value) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toWire(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize re-creates the exact Value a prior Serialize produced.
func Deserialize(data []byte) (*Value, error) {
	var w wireValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return nil, err
	}
	return fromWire(w), nil
}
