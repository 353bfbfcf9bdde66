package datatype

import "errors"

var (
	// ErrUnknownType is returned by the registry for a name it cannot resolve.
	ErrUnknownType = errors.New("unknown data type")

	// ErrCastUnsupported is returned when the on-disk type cannot be cast to
	// the requested type. Only same-sign integer widening is supported.
	ErrCastUnsupported = errors.New("unsupported data type cast")

	// ErrNullInNonNullable is returned when a NULL value is encountered while
	// reading a nullable on-disk column into a non-nullable destination.
	ErrNullInNonNullable = errors.New("null value read into non-nullable column")

	// ErrInvalidDefaultValue is returned when a column's declared default
	// value cannot be materialized for its type. It indicates a DDL bug.
	ErrInvalidDefaultValue = errors.New("invalid column default value")

	// ErrColumnTypeMismatch is returned when a column value object does not
	// match the data type operating on it.
	ErrColumnTypeMismatch = errors.New("column type mismatch")
)
