package datatype

import "fmt"

// Integer constrains the fixed-width integer element types.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Column is a mutable in-memory column vector.
//
// Columns are not safe for concurrent mutation; the pack reader guarantees
// that no two page handlers target the same destination column.
type Column interface {
	// Len returns the number of rows.
	Len() int
	// Reserve grows the underlying storage to hold at least n rows.
	Reserve(n int)
	// AppendRange appends rows [offset, offset+limit) of src, which must be
	// a column of the same concrete type.
	AppendRange(src Column, offset, limit int) error
}

// NumberColumn is a column of fixed-width integers.
type NumberColumn[T Integer] struct {
	Data []T
}

// Len returns the number of rows.
func (c *NumberColumn[T]) Len() int { return len(c.Data) }

// Reserve grows the underlying storage to hold at least n rows.
func (c *NumberColumn[T]) Reserve(n int) {
	if cap(c.Data) < n {
		grown := make([]T, len(c.Data), n)
		copy(grown, c.Data)
		c.Data = grown
	}
}

// AppendRange appends rows [offset, offset+limit) of src.
func (c *NumberColumn[T]) AppendRange(src Column, offset, limit int) error {
	s, ok := src.(*NumberColumn[T])
	if !ok {
		return fmt.Errorf("%w: appending %T into %T", ErrColumnTypeMismatch, src, c)
	}
	if offset+limit > len(s.Data) {
		return fmt.Errorf("append range [%d, %d) out of bounds for column of %d rows", offset, offset+limit, len(s.Data))
	}
	c.Data = append(c.Data, s.Data[offset:offset+limit]...)
	return nil
}

// StringColumn is a column of variable-length strings.
type StringColumn struct {
	Data []string
}

// Len returns the number of rows.
func (c *StringColumn) Len() int { return len(c.Data) }

// Reserve grows the underlying storage to hold at least n rows.
func (c *StringColumn) Reserve(n int) {
	if cap(c.Data) < n {
		grown := make([]string, len(c.Data), n)
		copy(grown, c.Data)
		c.Data = grown
	}
}

// AppendRange appends rows [offset, offset+limit) of src.
func (c *StringColumn) AppendRange(src Column, offset, limit int) error {
	s, ok := src.(*StringColumn)
	if !ok {
		return fmt.Errorf("%w: appending %T into %T", ErrColumnTypeMismatch, src, c)
	}
	if offset+limit > len(s.Data) {
		return fmt.Errorf("append range [%d, %d) out of bounds for column of %d rows", offset, offset+limit, len(s.Data))
	}
	c.Data = append(c.Data, s.Data[offset:offset+limit]...)
	return nil
}

// NullableColumn wraps an inner values column with a byte-per-row null map.
// A non-zero null-map entry marks the row as NULL; the inner column still
// carries a placeholder value at that position.
type NullableColumn struct {
	NullMap []uint8
	Values  Column
}

// Len returns the number of value rows.
func (c *NullableColumn) Len() int { return c.Values.Len() }

// Reserve grows the underlying storage to hold at least n rows.
func (c *NullableColumn) Reserve(n int) {
	if cap(c.NullMap) < n {
		grown := make([]uint8, len(c.NullMap), n)
		copy(grown, c.NullMap)
		c.NullMap = grown
	}
	c.Values.Reserve(n)
}

// AppendRange appends rows [offset, offset+limit) of src, null map included.
func (c *NullableColumn) AppendRange(src Column, offset, limit int) error {
	s, ok := src.(*NullableColumn)
	if !ok {
		return fmt.Errorf("%w: appending %T into %T", ErrColumnTypeMismatch, src, c)
	}
	if err := c.Values.AppendRange(s.Values, offset, limit); err != nil {
		return err
	}
	c.NullMap = append(c.NullMap, s.NullMap[offset:offset+limit]...)
	return nil
}

// IsNullAt reports whether row i is NULL.
func (c *NullableColumn) IsNullAt(i int) bool { return c.NullMap[i] != 0 }
