package deltapack

import "errors"

var (
	// ErrFormatVersion is returned when a pack descriptor carries a binary
	// version other than CurrentVersion. The pack must be discarded.
	ErrFormatVersion = errors.New("pack binary version mismatch")

	// ErrRowsMismatch is returned when a column meta's row count disagrees
	// with the pack-wide row count. It indicates corruption.
	ErrRowsMismatch = errors.New("pack column rows mismatch")

	// ErrSchemaMismatch is returned by the write path when the block does
	// not carry a column the schema declares.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrEmptyBlock is returned by the write path for a block with no rows;
	// the handle bounds of such a block are undefined.
	ErrEmptyBlock = errors.New("cannot build pack from empty block")

	// ErrDeleteRange is returned when column data is inserted into or read
	// from a delete-range pack.
	ErrDeleteRange = errors.New("delete-range pack carries no columns")
)
