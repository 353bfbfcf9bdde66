package datatype

import "fmt"

// IsSupportedCast reports whether a column persisted as from may be read as
// to. Besides nullability reconciliation, only lossless same-sign integer
// widening is supported; cross-sign crossings are rejected.
func IsSupportedCast(from, to *DataType) bool {
	f, t := from, to
	if f.IsNullable() {
		f = f.Nested()
	}
	if t.IsNullable() {
		t = t.Nested()
	}
	if f.Equals(t) {
		return true
	}
	return isWidening(f.kind, t.kind)
}

func isWidening(from, to Kind) bool {
	if !from.isInteger() || !to.isInteger() {
		return false
	}
	if from.isSigned() != to.isSigned() {
		return false
	}
	return to.width() > from.width()
}

// CastColumn reconciles nullability between the on-disk type and the
// requested type, then appends rows [rowsOffset, rowsOffset+rowsLimit) of
// diskCol into dest, applying the integer widening cast when the inner
// types differ.
//
// defaultValue is the reading column's declared default. It is only
// materialized when a NULL row is cast into a non-nullable destination on
// the widening path; everywhere else a NULL hitting a non-nullable
// destination fails with ErrNullInNonNullable.
func CastColumn(diskType *DataType, diskCol Column, readType *DataType, defaultValue Value, dest Column, rowsOffset, rowsLimit int) error {
	diskValues := diskCol
	destValues := dest
	diskInner := diskType
	readInner := readType
	var nullMap []uint8

	switch {
	case diskType.IsNullable() && readType.IsNullable():
		dn, ok := diskCol.(*NullableColumn)
		if !ok {
			return fmt.Errorf("%w: %T is not nullable", ErrColumnTypeMismatch, diskCol)
		}
		mn, ok := dest.(*NullableColumn)
		if !ok {
			return fmt.Errorf("%w: %T is not nullable", ErrColumnTypeMismatch, dest)
		}
		// The on-disk null map carries rowsOffset+rowsLimit entries and is
		// copied verbatim; readers established this shape and it must not
		// be compacted to the window.
		mn.NullMap = append(mn.NullMap, dn.NullMap...)
		diskValues, destValues = dn.Values, mn.Values
		diskInner, readInner = diskType.Nested(), readType.Nested()

	case !diskType.IsNullable() && readType.IsNullable():
		mn, ok := dest.(*NullableColumn)
		if !ok {
			return fmt.Errorf("%w: %T is not nullable", ErrColumnTypeMismatch, dest)
		}
		mn.NullMap = append(mn.NullMap, make([]uint8, rowsOffset+rowsLimit)...)
		destValues = mn.Values
		readInner = readType.Nested()

	case diskType.IsNullable() && !readType.IsNullable():
		dn, ok := diskCol.(*NullableColumn)
		if !ok {
			return fmt.Errorf("%w: %T is not nullable", ErrColumnTypeMismatch, diskCol)
		}
		nullMap = dn.NullMap
		diskValues = dn.Values
		diskInner = diskType.Nested()
	}

	if diskInner.Equals(readInner) {
		if err := destValues.AppendRange(diskValues, rowsOffset, rowsLimit); err != nil {
			return err
		}
		if nullMap != nil {
			for i := 0; i < rowsLimit; i++ {
				if nullMap[rowsOffset+i] != 0 {
					return fmt.Errorf("%w: cast from %s to %s", ErrNullInNonNullable, diskType.Name(), readType.Name())
				}
			}
		}
		return nil
	}

	ok, err := castNumericColumn(diskInner, diskValues, readInner, nullMap, defaultValue, destValues, rowsOffset, rowsLimit)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: cast and assign from %s to %s", ErrCastUnsupported, diskType.Name(), readType.Name())
	}
	return nil
}

// castNumericColumn applies the enumerated same-sign widening casts. It
// returns false when the (from, to) pair is not in the matrix.
func castNumericColumn(from *DataType, fromCol Column, to *DataType, nullMap []uint8, defaultValue Value, toCol Column, rowsOffset, rowsLimit int) (bool, error) {
	switch from.kind {
	case KindUInt8:
		switch to.kind {
		case KindUInt16:
			return true, widenAppend[uint8, uint16](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		case KindUInt32:
			return true, widenAppend[uint8, uint32](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		case KindUInt64:
			return true, widenAppend[uint8, uint64](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		}
	case KindInt8:
		switch to.kind {
		case KindInt16:
			return true, widenAppend[int8, int16](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		case KindInt32:
			return true, widenAppend[int8, int32](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		case KindInt64:
			return true, widenAppend[int8, int64](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		}
	case KindUInt16:
		switch to.kind {
		case KindUInt32:
			return true, widenAppend[uint16, uint32](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		case KindUInt64:
			return true, widenAppend[uint16, uint64](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		}
	case KindInt16:
		switch to.kind {
		case KindInt32:
			return true, widenAppend[int16, int32](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		case KindInt64:
			return true, widenAppend[int16, int64](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		}
	case KindUInt32:
		if to.kind == KindUInt64 {
			return true, widenAppend[uint32, uint64](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		}
	case KindInt32:
		if to.kind == KindInt64 {
			return true, widenAppend[int32, int64](fromCol, nullMap, defaultValue, toCol, rowsOffset, rowsLimit)
		}
	}
	return false, nil
}

// widenAppend appends rows [rowsOffset, rowsOffset+rowsLimit) of fromCol
// into toCol through a static widening conversion. When nullMap is set the
// cast lands in a non-nullable destination, and NULL positions are
// overwritten with the declared default value.
func widenAppend[F, T Integer](fromCol Column, nullMap []uint8, defaultValue Value, toCol Column, rowsOffset, rowsLimit int) error {
	from, ok := fromCol.(*NumberColumn[F])
	if !ok {
		return fmt.Errorf("%w: widening from %T", ErrColumnTypeMismatch, fromCol)
	}
	to, ok := toCol.(*NumberColumn[T])
	if !ok {
		return fmt.Errorf("%w: widening into %T", ErrColumnTypeMismatch, toCol)
	}
	if rowsOffset+rowsLimit > len(from.Data) {
		return fmt.Errorf("cast range [%d, %d) out of bounds for column of %d rows", rowsOffset, rowsOffset+rowsLimit, len(from.Data))
	}

	to.Reserve(len(to.Data) + rowsLimit)
	for i := 0; i < rowsLimit; i++ {
		to.Data = append(to.Data, T(from.Data[rowsOffset+i]))
	}

	if nullMap == nil {
		return nil
	}

	// NULL rows land in a non-nullable destination: substitute the column's
	// declared default. Accept a signed or unsigned integer default only.
	var def T
	switch defaultValue.kind {
	case valueNull:
	case valueInt64:
		def = T(defaultValue.i)
	case valueUInt64:
		def = T(defaultValue.u)
	default:
		return fmt.Errorf("%w: %s for integer column", ErrInvalidDefaultValue, defaultValue)
	}

	base := len(to.Data) - rowsLimit
	for i := 0; i < rowsLimit; i++ {
		if nullMap[rowsOffset+i] != 0 {
			to.Data[base+i] = def
		}
	}
	return nil
}
