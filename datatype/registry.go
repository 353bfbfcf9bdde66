package datatype

import (
	"fmt"
	"strings"
)

// The registry is process-wide, initialized at package load and read-only
// thereafter.
var registry = map[string]*DataType{
	"Int8":   Int8,
	"Int16":  Int16,
	"Int32":  Int32,
	"Int64":  Int64,
	"UInt8":  UInt8,
	"UInt16": UInt16,
	"UInt32": UInt32,
	"UInt64": UInt64,
	"String": String,
}

// Get resolves a canonical type name back to its descriptor. It is the
// inverse of DataType.Name.
func Get(name string) (*DataType, error) {
	if inner, ok := strings.CutPrefix(name, "Nullable("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return nil, fmt.Errorf("%w: malformed name %q", ErrUnknownType, name)
		}
		t, err := Get(inner)
		if err != nil {
			return nil, err
		}
		if t.IsNullable() {
			return nil, fmt.Errorf("%w: nested nullable in %q", ErrUnknownType, name)
		}
		return Nullable(t), nil
	}
	t, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}
