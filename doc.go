// Package deltapack implements the on-disk unit of a delta-merge columnar
// storage engine: the pack. A pack groups a contiguous, handle-ordered run
// of rows and references one page per column in an external page store.
//
// The package owns the versioned binary pack descriptor, the column page
// write path (bulk encoding plus a framed compression wrapper), ref-packs
// (copy-on-write twins sharing pages through reference pages), and the read
// path including schema evolution: missing columns materialize their
// declared defaults, and on-disk types are widened to the reader's declared
// types through the enumerated cast matrix in package datatype.
//
// Packs are immutable once written. Schema changes are applied on read.
package deltapack
