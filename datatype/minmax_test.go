package datatype

import (
	"bytes"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinMaxIndex(t *testing.T) {
	t.Run("Int64", func(t *testing.T) {
		m := NewMinMaxIndex(Int64)
		col := &NumberColumn[int64]{Data: []int64{10, 11, 12}}
		require.NoError(t, m.AddPack(col, nil))

		require.True(t, m.HasValue())
		min, _ := m.Min().AsInt64()
		max, _ := m.Max().AsInt64()
		assert.Equal(t, int64(10), min)
		assert.Equal(t, int64(12), max)
	})

	t.Run("DeleteMarksSkipped", func(t *testing.T) {
		m := NewMinMaxIndex(UInt32)
		col := &NumberColumn[uint32]{Data: []uint32{1, 100, 5}}
		delMark := roaring.BitmapOf(1)
		require.NoError(t, m.AddPack(col, delMark))

		max, _ := m.Max().AsUInt64()
		assert.Equal(t, uint64(5), max)
	})

	t.Run("NullsSkipped", func(t *testing.T) {
		m := NewMinMaxIndex(Nullable(Int32))
		col := &NullableColumn{
			NullMap: []uint8{1, 0, 0},
			Values:  &NumberColumn[int32]{Data: []int32{-100, 3, 7}},
		}
		require.NoError(t, m.AddPack(col, nil))

		min, _ := m.Min().AsInt64()
		assert.Equal(t, int64(3), min)
	})

	t.Run("AllRowsDead", func(t *testing.T) {
		m := NewMinMaxIndex(Int8)
		col := &NumberColumn[int8]{Data: []int8{1, 2}}
		require.NoError(t, m.AddPack(col, roaring.BitmapOf(0, 1)))
		assert.False(t, m.HasValue())
	})

	t.Run("String", func(t *testing.T) {
		m := NewMinMaxIndex(String)
		col := &StringColumn{Data: []string{"bb", "a", "ccc"}}
		require.NoError(t, m.AddPack(col, nil))

		min, _ := m.Min().AsString()
		max, _ := m.Max().AsString()
		assert.Equal(t, "a", min)
		assert.Equal(t, "ccc", max)
	})

	t.Run("WriteReadRoundTrip", func(t *testing.T) {
		for _, tc := range []struct {
			typ *DataType
			col Column
		}{
			{Int64, &NumberColumn[int64]{Data: []int64{-5, 0, 9}}},
			{Int16, &NumberColumn[int16]{Data: []int16{-300, 200}}},
			{UInt8, &NumberColumn[uint8]{Data: []uint8{3, 250}}},
			{String, &StringColumn{Data: []string{"x", "yy"}}},
		} {
			m := NewMinMaxIndex(tc.typ)
			require.NoError(t, m.AddPack(tc.col, nil))

			var buf bytes.Buffer
			require.NoError(t, m.Write(&buf))

			got, err := ReadMinMaxIndex(tc.typ, bytes.NewReader(buf.Bytes()))
			require.NoError(t, err, tc.typ.Name())
			assert.Equal(t, m, got, tc.typ.Name())
		}
	})

	t.Run("EmptyRoundTrip", func(t *testing.T) {
		m := NewMinMaxIndex(Int64)

		var buf bytes.Buffer
		require.NoError(t, m.Write(&buf))
		assert.Equal(t, 1, buf.Len())

		got, err := ReadMinMaxIndex(Int64, bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.False(t, got.HasValue())
	})
}
