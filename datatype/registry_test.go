package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		for _, typ := range []*DataType{
			Int8, Int16, Int32, Int64,
			UInt8, UInt16, UInt32, UInt64,
			String,
			Nullable(Int32), Nullable(UInt64), Nullable(String),
		} {
			got, err := Get(typ.Name())
			require.NoError(t, err, typ.Name())
			assert.True(t, got.Equals(typ), typ.Name())
		}
	})

	t.Run("BaseTypesAreShared", func(t *testing.T) {
		got, err := Get("Int32")
		require.NoError(t, err)
		assert.Same(t, Int32, got)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := Get("Float128")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := Get("Nullable(Int32")
		assert.ErrorIs(t, err, ErrUnknownType)

		_, err = Get("Nullable(Nullable(Int32))")
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestDataType(t *testing.T) {
	t.Run("Equals", func(t *testing.T) {
		assert.True(t, Int32.Equals(Int32))
		assert.False(t, Int32.Equals(Int64))
		assert.False(t, Int32.Equals(UInt32))
		assert.True(t, Nullable(Int32).Equals(Nullable(Int32)))
		assert.False(t, Nullable(Int32).Equals(Int32))
	})

	t.Run("Nested", func(t *testing.T) {
		n := Nullable(String)
		require.True(t, n.IsNullable())
		assert.Same(t, String, n.Nested())
		assert.Nil(t, String.Nested())
	})

	t.Run("NullableIdempotent", func(t *testing.T) {
		n := Nullable(Int8)
		assert.Same(t, n, Nullable(n))
	})
}
