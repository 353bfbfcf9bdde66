// Package fieldtype synthesizes the field types of scan outputs, the
// surface downstream query planning consumes. Table-scan output types are
// built from schema column info; aggregation output types are collected
// from the aggregate and group-by expressions, each of which must declare
// its own field type.
package fieldtype

import (
	"errors"
	"fmt"

	"github.com/hupe1980/deltapack/datatype"
)

// ErrBadRequest is returned when a request is malformed, e.g. an
// aggregation expression lacking a field type.
var ErrBadRequest = errors.New("bad request")

// Type codes, following the MySQL wire protocol numbering.
const (
	TypeTiny     uint8 = 1
	TypeShort    uint8 = 2
	TypeLong     uint8 = 3
	TypeLongLong uint8 = 8
	TypeVarChar  uint8 = 15
	TypeString   uint8 = 254
)

// Field type flags.
const (
	NotNullFlag  uint32 = 1
	UnsignedFlag uint32 = 32
)

// FieldType describes one output column of a scan or aggregation.
type FieldType struct {
	Tp      uint8
	Flag    uint32
	Flen    int32
	Decimal int32
}

// ColumnInfo is the schema column info carried by a table scan.
type ColumnInfo struct {
	Tp        uint8
	Flag      uint32
	ColumnLen int32
	Decimal   int32
}

// FromColumnInfo synthesizes a field type from table-scan column info.
func FromColumnInfo(ci ColumnInfo) FieldType {
	return FieldType{
		Tp:      ci.Tp,
		Flag:    ci.Flag,
		Flen:    ci.ColumnLen,
		Decimal: ci.Decimal,
	}
}

// TableScanOutput synthesizes the output field types of a table scan.
func TableScanOutput(cols []ColumnInfo) []FieldType {
	out := make([]FieldType, 0, len(cols))
	for _, ci := range cols {
		out = append(out, FromColumnInfo(ci))
	}
	return out
}

// Expr is an expression that may declare an output field type.
type Expr interface {
	// FieldType returns the expression's declared field type, and whether
	// one is declared.
	FieldType() (FieldType, bool)
}

// AggOutput collects the output field types of an aggregation: one per
// aggregate function, then one per group-by expression. An expression
// without a valid field type fails with ErrBadRequest.
func AggOutput(aggFuncs, groupBy []Expr) ([]FieldType, error) {
	out := make([]FieldType, 0, len(aggFuncs)+len(groupBy))
	for _, expr := range aggFuncs {
		ft, ok := expr.FieldType()
		if !ok {
			return nil, fmt.Errorf("%w: agg expression without valid field type", ErrBadRequest)
		}
		out = append(out, ft)
	}
	for _, expr := range groupBy {
		ft, ok := expr.FieldType()
		if !ok {
			return nil, fmt.Errorf("%w: group by expression without valid field type", ErrBadRequest)
		}
		out = append(out, ft)
	}
	return out, nil
}

// DataType resolves the field type to a storage data type: integer widths
// by type code, sign by the unsigned flag, nullability by the not-null
// flag.
func (ft FieldType) DataType() (*datatype.DataType, error) {
	unsigned := ft.Flag&UnsignedFlag != 0

	var t *datatype.DataType
	switch ft.Tp {
	case TypeTiny:
		t = pick(unsigned, datatype.UInt8, datatype.Int8)
	case TypeShort:
		t = pick(unsigned, datatype.UInt16, datatype.Int16)
	case TypeLong:
		t = pick(unsigned, datatype.UInt32, datatype.Int32)
	case TypeLongLong:
		t = pick(unsigned, datatype.UInt64, datatype.Int64)
	case TypeVarChar, TypeString:
		t = datatype.String
	default:
		return nil, fmt.Errorf("%w: unsupported field type code %d", ErrBadRequest, ft.Tp)
	}
	if ft.Flag&NotNullFlag == 0 {
		t = datatype.Nullable(t)
	}
	return t, nil
}

func pick(unsigned bool, u, s *datatype.DataType) *datatype.DataType {
	if unsigned {
		return u
	}
	return s
}
