package datatype

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedCast(t *testing.T) {
	t.Run("Widening", func(t *testing.T) {
		supported := [][2]*DataType{
			{UInt8, UInt16}, {UInt8, UInt32}, {UInt8, UInt64},
			{Int8, Int16}, {Int8, Int32}, {Int8, Int64},
			{UInt16, UInt32}, {UInt16, UInt64},
			{Int16, Int32}, {Int16, Int64},
			{UInt32, UInt64},
			{Int32, Int64},
		}
		for _, pair := range supported {
			assert.True(t, IsSupportedCast(pair[0], pair[1]), "%s -> %s", pair[0].Name(), pair[1].Name())
		}
	})

	t.Run("NullabilityOnly", func(t *testing.T) {
		assert.True(t, IsSupportedCast(Int32, Nullable(Int32)))
		assert.True(t, IsSupportedCast(Nullable(Int32), Int32))
		assert.True(t, IsSupportedCast(Nullable(Int32), Nullable(Int64)))
	})

	t.Run("Rejected", func(t *testing.T) {
		rejected := [][2]*DataType{
			{UInt32, Int64}, // cross-sign
			{Int32, UInt64},
			{Int64, Int32}, // narrowing
			{UInt64, UInt8},
			{String, Int64},
			{Int64, String},
		}
		for _, pair := range rejected {
			assert.False(t, IsSupportedCast(pair[0], pair[1]), "%s -> %s", pair[0].Name(), pair[1].Name())
		}
	})
}

// boundary values of each narrow type survive the widening intact.
func TestCastColumnWidening(t *testing.T) {
	t.Run("Int8ToInt64", func(t *testing.T) {
		disk := &NumberColumn[int8]{Data: []int8{0, 1, math.MaxInt8, math.MinInt8}}
		dest := Int64.CreateColumn()
		require.NoError(t, CastColumn(Int8, disk, Int64, NullValue(), dest, 0, 4))
		assert.Equal(t, []int64{0, 1, math.MaxInt8, math.MinInt8}, dest.(*NumberColumn[int64]).Data)
	})

	t.Run("UInt8ToUInt16", func(t *testing.T) {
		disk := &NumberColumn[uint8]{Data: []uint8{0, 1, math.MaxUint8}}
		dest := UInt16.CreateColumn()
		require.NoError(t, CastColumn(UInt8, disk, UInt16, NullValue(), dest, 0, 3))
		assert.Equal(t, []uint16{0, 1, math.MaxUint8}, dest.(*NumberColumn[uint16]).Data)
	})

	t.Run("Int16ToInt32", func(t *testing.T) {
		disk := &NumberColumn[int16]{Data: []int16{0, 1, math.MaxInt16, math.MinInt16}}
		dest := Int32.CreateColumn()
		require.NoError(t, CastColumn(Int16, disk, Int32, NullValue(), dest, 0, 4))
		assert.Equal(t, []int32{0, 1, math.MaxInt16, math.MinInt16}, dest.(*NumberColumn[int32]).Data)
	})

	t.Run("UInt32ToUInt64", func(t *testing.T) {
		disk := &NumberColumn[uint32]{Data: []uint32{0, 1, math.MaxUint32}}
		dest := UInt64.CreateColumn()
		require.NoError(t, CastColumn(UInt32, disk, UInt64, NullValue(), dest, 0, 3))
		assert.Equal(t, []uint64{0, 1, math.MaxUint32}, dest.(*NumberColumn[uint64]).Data)
	})

	t.Run("Window", func(t *testing.T) {
		disk := &NumberColumn[int32]{Data: []int32{1, 2, 3, 4, 5}}
		dest := Int64.CreateColumn()
		require.NoError(t, CastColumn(Int32, disk, Int64, NullValue(), dest, 2, 2))
		assert.Equal(t, []int64{3, 4}, dest.(*NumberColumn[int64]).Data)
	})

	t.Run("CrossSign", func(t *testing.T) {
		disk := &NumberColumn[uint32]{Data: []uint32{1}}
		dest := Int64.CreateColumn()
		err := CastColumn(UInt32, disk, Int64, NullValue(), dest, 0, 1)
		assert.ErrorIs(t, err, ErrCastUnsupported)
	})
}

func TestCastColumnNullability(t *testing.T) {
	t.Run("NotNullToNullable", func(t *testing.T) {
		disk := &NumberColumn[uint32]{Data: []uint32{5, 6, 7}}
		dest := Nullable(UInt64).CreateColumn()
		require.NoError(t, CastColumn(UInt32, disk, Nullable(UInt64), NullValue(), dest, 0, 3))

		nc := dest.(*NullableColumn)
		assert.Equal(t, []uint8{0, 0, 0}, nc.NullMap)
		assert.Equal(t, []uint64{5, 6, 7}, nc.Values.(*NumberColumn[uint64]).Data)
	})

	t.Run("NullableToNullable", func(t *testing.T) {
		disk := &NullableColumn{
			NullMap: []uint8{0, 1, 0},
			Values:  &NumberColumn[int32]{Data: []int32{1, 0, 3}},
		}
		dest := Nullable(Int64).CreateColumn()
		require.NoError(t, CastColumn(Nullable(Int32), disk, Nullable(Int64), NullValue(), dest, 0, 3))

		nc := dest.(*NullableColumn)
		assert.Equal(t, []uint8{0, 1, 0}, nc.NullMap)
		assert.Equal(t, []int64{1, 0, 3}, nc.Values.(*NumberColumn[int64]).Data)
	})

	t.Run("NullableToNotNullSameInnerRejectsNull", func(t *testing.T) {
		disk := &NullableColumn{
			NullMap: []uint8{0, 1, 0},
			Values:  &NumberColumn[int64]{Data: []int64{1, 0, 3}},
		}
		dest := Int64.CreateColumn()
		err := CastColumn(Nullable(Int64), disk, Int64, Int64Value(9), dest, 0, 3)
		assert.ErrorIs(t, err, ErrNullInNonNullable)
	})

	t.Run("NullableToNotNullSameInnerNoNullInWindow", func(t *testing.T) {
		disk := &NullableColumn{
			NullMap: []uint8{1, 0, 0},
			Values:  &NumberColumn[int64]{Data: []int64{0, 2, 3}},
		}
		dest := Int64.CreateColumn()
		require.NoError(t, CastColumn(Nullable(Int64), disk, Int64, NullValue(), dest, 1, 2))
		assert.Equal(t, []int64{2, 3}, dest.(*NumberColumn[int64]).Data)
	})

	t.Run("NullableToNotNullWideningSubstitutesDefault", func(t *testing.T) {
		disk := &NullableColumn{
			NullMap: []uint8{0, 1, 0},
			Values:  &NumberColumn[int32]{Data: []int32{1, 0, 3}},
		}
		dest := Int64.CreateColumn()
		require.NoError(t, CastColumn(Nullable(Int32), disk, Int64, Int64Value(9), dest, 0, 3))
		assert.Equal(t, []int64{1, 9, 3}, dest.(*NumberColumn[int64]).Data)
	})

	t.Run("NullDefaultFillsZero", func(t *testing.T) {
		disk := &NullableColumn{
			NullMap: []uint8{1},
			Values:  &NumberColumn[uint16]{Data: []uint16{42}},
		}
		dest := UInt32.CreateColumn()
		require.NoError(t, CastColumn(Nullable(UInt16), disk, UInt32, NullValue(), dest, 0, 1))
		assert.Equal(t, []uint32{0}, dest.(*NumberColumn[uint32]).Data)
	})

	t.Run("ForeignDefault", func(t *testing.T) {
		disk := &NullableColumn{
			NullMap: []uint8{1},
			Values:  &NumberColumn[int32]{Data: []int32{0}},
		}
		dest := Int64.CreateColumn()
		err := CastColumn(Nullable(Int32), disk, Int64, StringValue("x"), dest, 0, 1)
		assert.ErrorIs(t, err, ErrInvalidDefaultValue)
	})
}
