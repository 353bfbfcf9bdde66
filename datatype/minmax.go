package datatype

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// MinMaxIndex is a per-pack summary of the minimum and maximum value of one
// column, used for predicate pushdown. It is built once on the write path
// and never mutated afterwards.
//
// The binary layout is type-aware: a presence byte, then min and max in the
// column's native width for integers, or uvarint-length-prefixed bytes for
// strings. Deleted rows and NULL rows do not contribute; an index built
// from only such rows serializes as absent-value.
type MinMaxIndex struct {
	t        *DataType
	hasValue bool
	min      Value
	max      Value
}

// NewMinMaxIndex creates an empty index for columns of type t.
func NewMinMaxIndex(t *DataType) *MinMaxIndex {
	return &MinMaxIndex{t: t}
}

// HasValue reports whether at least one live row contributed.
func (m *MinMaxIndex) HasValue() bool { return m.hasValue }

// Min returns the minimum live value. NULL when HasValue is false.
func (m *MinMaxIndex) Min() Value { return m.min }

// Max returns the maximum live value. NULL when HasValue is false.
func (m *MinMaxIndex) Max() Value { return m.max }

// AddPack feeds every row of col into the index. Rows whose position is set
// in delMark are skipped, as are NULL rows of nullable columns. A nil
// delMark means no row is delete-marked.
func (m *MinMaxIndex) AddPack(col Column, delMark *roaring.Bitmap) error {
	inner := m.t
	values := col
	var nullMap []uint8
	if m.t.IsNullable() {
		nc, ok := col.(*NullableColumn)
		if !ok {
			return fmt.Errorf("%w: indexing %T as %s", ErrColumnTypeMismatch, col, m.t.Name())
		}
		nullMap = nc.NullMap
		values = nc.Values
		inner = m.t.Nested()
	}
	for i := 0; i < values.Len(); i++ {
		if delMark != nil && delMark.Contains(uint32(i)) {
			continue
		}
		if nullMap != nil && nullMap[i] != 0 {
			continue
		}
		v, err := scalarAt(inner, values, i)
		if err != nil {
			return err
		}
		m.update(inner, v)
	}
	return nil
}

func (m *MinMaxIndex) update(inner *DataType, v Value) {
	if !m.hasValue {
		m.min, m.max = v, v
		m.hasValue = true
		return
	}
	if compareScalar(inner, v, m.min) < 0 {
		m.min = v
	}
	if compareScalar(inner, v, m.max) > 0 {
		m.max = v
	}
}

// Write serializes the index. The layout delegates to the column type.
func (m *MinMaxIndex) Write(w io.Writer) error {
	present := uint8(0)
	if m.hasValue {
		present = 1
	}
	if _, err := w.Write([]byte{present}); err != nil {
		return err
	}
	if !m.hasValue {
		return nil
	}
	if err := writeScalar(m.innerType(), m.min, w); err != nil {
		return err
	}
	return writeScalar(m.innerType(), m.max, w)
}

// ReadMinMaxIndex deserializes an index for columns of type t.
func ReadMinMaxIndex(t *DataType, r io.Reader) (*MinMaxIndex, error) {
	m := NewMinMaxIndex(t)
	var present [1]byte
	if _, err := io.ReadFull(r, present[:]); err != nil {
		return nil, err
	}
	if present[0] == 0 {
		return m, nil
	}
	var err error
	if m.min, err = readScalar(m.innerType(), r); err != nil {
		return nil, err
	}
	if m.max, err = readScalar(m.innerType(), r); err != nil {
		return nil, err
	}
	m.hasValue = true
	return m, nil
}

func (m *MinMaxIndex) innerType() *DataType {
	if m.t.IsNullable() {
		return m.t.Nested()
	}
	return m.t
}

// scalarAt extracts row i of a non-nullable column as a Value.
func scalarAt(t *DataType, col Column, i int) (Value, error) {
	switch t.kind {
	case KindInt8:
		return numberAt[int8](col, i, true)
	case KindInt16:
		return numberAt[int16](col, i, true)
	case KindInt32:
		return numberAt[int32](col, i, true)
	case KindInt64:
		return numberAt[int64](col, i, true)
	case KindUInt8:
		return numberAt[uint8](col, i, false)
	case KindUInt16:
		return numberAt[uint16](col, i, false)
	case KindUInt32:
		return numberAt[uint32](col, i, false)
	case KindUInt64:
		return numberAt[uint64](col, i, false)
	case KindString:
		c, ok := col.(*StringColumn)
		if !ok {
			return Value{}, fmt.Errorf("%w: reading %T as String", ErrColumnTypeMismatch, col)
		}
		return StringValue(c.Data[i]), nil
	default:
		return Value{}, fmt.Errorf("%w: scalar of kind %d", ErrColumnTypeMismatch, t.kind)
	}
}

func numberAt[T Integer](col Column, i int, signed bool) (Value, error) {
	c, ok := col.(*NumberColumn[T])
	if !ok {
		return Value{}, fmt.Errorf("%w: reading %T as numeric column", ErrColumnTypeMismatch, col)
	}
	if signed {
		return Int64Value(int64(c.Data[i])), nil
	}
	return UInt64Value(uint64(c.Data[i])), nil
}

func compareScalar(t *DataType, a, b Value) int {
	switch {
	case t.kind.isInteger() && t.kind.isSigned():
		av, _ := a.AsInt64()
		bv, _ := b.AsInt64()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case t.kind.isInteger():
		av, _ := a.AsUInt64()
		bv, _ := b.AsUInt64()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	default:
		av, _ := a.AsString()
		bv, _ := b.AsString()
		return strings.Compare(av, bv)
	}
}

func writeScalar(t *DataType, v Value, w io.Writer) error {
	if t.kind.isInteger() {
		var raw uint64
		if t.kind.isSigned() {
			i, _ := v.AsInt64()
			raw = uint64(i)
		} else {
			raw, _ = v.AsUInt64()
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], raw)
		_, err := w.Write(buf[:t.kind.width()])
		return err
	}
	s, _ := v.AsString()
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readScalar(t *DataType, r io.Reader) (Value, error) {
	if t.kind.isInteger() {
		width := t.kind.width()
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:width]); err != nil {
			return Value{}, err
		}
		raw := binary.LittleEndian.Uint64(buf[:])
		if t.kind.isSigned() {
			// Sign-extend from the native width.
			shift := uint(64 - 8*width)
			return Int64Value(int64(raw<<shift) >> shift), nil
		}
		return UInt64Value(raw), nil
	}
	br := newByteReader(r)
	l, err := binary.ReadUvarint(br)
	if err != nil {
		return Value{}, err
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(br, buf); err != nil {
		return Value{}, err
	}
	return StringValue(string(buf)), nil
}
