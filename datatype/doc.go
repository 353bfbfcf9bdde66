// Package datatype implements the data-type system of the pack subsystem:
// a tagged variant over concrete type descriptors, typed in-memory columns,
// a process-wide name registry, the bulk binary column codec, the per-pack
// min/max index and the schema-evolution cast engine.
//
// Types are immutable and safe for concurrent use once obtained from the
// registry. Nullability is a wrapper variant carrying the inner type.
package datatype
