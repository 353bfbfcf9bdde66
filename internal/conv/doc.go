// Package conv provides checked integer conversions for codec boundaries,
// where in-memory lengths cross into fixed-width on-disk fields.
package conv
