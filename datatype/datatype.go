package datatype

// Kind enumerates the concrete type descriptors.
type Kind uint8

const (
	KindInt8 Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindString
	KindNullable
)

// DataType is a tagged variant over the concrete type descriptors.
// Nullable is a wrapper variant carrying the inner type.
//
// DataType values obtained from the package-level singletons or the registry
// are shared and must never be mutated.
type DataType struct {
	kind  Kind
	inner *DataType // only for KindNullable
}

// Shared descriptors for the base types.
var (
	Int8   = &DataType{kind: KindInt8}
	Int16  = &DataType{kind: KindInt16}
	Int32  = &DataType{kind: KindInt32}
	Int64  = &DataType{kind: KindInt64}
	UInt8  = &DataType{kind: KindUInt8}
	UInt16 = &DataType{kind: KindUInt16}
	UInt32 = &DataType{kind: KindUInt32}
	UInt64 = &DataType{kind: KindUInt64}
	String = &DataType{kind: KindString}
)

// Nullable wraps t in the nullable variant. Wrapping a nullable type again
// is not meaningful and returns t unchanged.
func Nullable(t *DataType) *DataType {
	if t == nil || t.kind == KindNullable {
		return t
	}
	return &DataType{kind: KindNullable, inner: t}
}

var kindNames = [...]string{
	KindInt8:   "Int8",
	KindInt16:  "Int16",
	KindInt32:  "Int32",
	KindInt64:  "Int64",
	KindUInt8:  "UInt8",
	KindUInt16: "UInt16",
	KindUInt32: "UInt32",
	KindUInt64: "UInt64",
	KindString: "String",
}

// Name returns the canonical textual encoding of the type. The registry's
// Get is its inverse.
func (t *DataType) Name() string {
	if t.kind == KindNullable {
		return "Nullable(" + t.inner.Name() + ")"
	}
	return kindNames[t.kind]
}

// Kind returns the type tag.
func (t *DataType) Kind() Kind { return t.kind }

// IsNullable reports whether t is the nullable wrapper variant.
func (t *DataType) IsNullable() bool { return t.kind == KindNullable }

// Nested returns the inner type of a nullable wrapper, or nil.
func (t *DataType) Nested() *DataType {
	if t.kind == KindNullable {
		return t.inner
	}
	return nil
}

// Equals reports structural equality.
func (t *DataType) Equals(o *DataType) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.kind != o.kind {
		return false
	}
	if t.kind == KindNullable {
		return t.inner.Equals(o.inner)
	}
	return true
}

// IsInteger reports whether t is one of the fixed-width integer types.
func (t *DataType) IsInteger() bool {
	return t.kind <= KindUInt64
}

func (k Kind) isInteger() bool { return k <= KindUInt64 }

func (k Kind) isSigned() bool { return k <= KindInt64 }

// width returns the value width in bytes for integer kinds.
func (k Kind) width() int {
	switch k {
	case KindInt8, KindUInt8:
		return 1
	case KindInt16, KindUInt16:
		return 2
	case KindInt32, KindUInt32:
		return 4
	case KindInt64, KindUInt64:
		return 8
	default:
		return 0
	}
}

// CreateColumn creates an empty mutable column of this type.
func (t *DataType) CreateColumn() Column {
	switch t.kind {
	case KindInt8:
		return &NumberColumn[int8]{}
	case KindInt16:
		return &NumberColumn[int16]{}
	case KindInt32:
		return &NumberColumn[int32]{}
	case KindInt64:
		return &NumberColumn[int64]{}
	case KindUInt8:
		return &NumberColumn[uint8]{}
	case KindUInt16:
		return &NumberColumn[uint16]{}
	case KindUInt32:
		return &NumberColumn[uint32]{}
	case KindUInt64:
		return &NumberColumn[uint64]{}
	case KindString:
		return &StringColumn{}
	case KindNullable:
		return &NullableColumn{Values: t.inner.CreateColumn()}
	default:
		panic("datatype: unreachable kind")
	}
}

// CreateColumnConst creates a column holding n copies of v. A null v yields
// the type default: zero for integers, the empty string for String, and NULL
// rows for nullable types.
func (t *DataType) CreateColumnConst(n int, v Value) (Column, error) {
	if t.kind == KindNullable {
		nm := make([]uint8, n)
		var inner Column
		var err error
		if v.IsNull() {
			for i := range nm {
				nm[i] = 1
			}
			inner, err = t.inner.CreateColumnConst(n, Value{})
		} else {
			inner, err = t.inner.CreateColumnConst(n, v)
		}
		if err != nil {
			return nil, err
		}
		return &NullableColumn{NullMap: nm, Values: inner}, nil
	}

	switch t.kind {
	case KindString:
		var s string
		if !v.IsNull() {
			sv, ok := v.AsString()
			if !ok {
				return nil, ErrInvalidDefaultValue
			}
			s = sv
		}
		col := &StringColumn{Data: make([]string, n)}
		for i := range col.Data {
			col.Data[i] = s
		}
		return col, nil
	default:
		return constNumberColumn(t.kind, n, v)
	}
}
