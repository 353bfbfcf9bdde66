package deltapack

import "github.com/hupe1980/deltapack/datatype"

// ColumnDefine declares a column of the reading or writing schema: its
// stable id, name, current in-memory type and declared default value.
//
// The default is materialized when a pack predating the column is read, and
// when NULL values are cast into a non-nullable destination on the widening
// path.
type ColumnDefine struct {
	ID      int64
	Name    string
	Type    *datatype.DataType
	Default datatype.Value
}

// ColumnWithTypeAndName is one column of a Block.
type ColumnWithTypeAndName struct {
	Column datatype.Column
	Type   *datatype.DataType
	Name   string
	ID     int64
}

// Block is an in-memory batch of rows in columnar layout. The write path
// consumes blocks sorted by handle; the read path produces them.
type Block struct {
	cols   []ColumnWithTypeAndName
	byName map[string]int
}

// NewBlock creates a block from cols.
func NewBlock(cols ...ColumnWithTypeAndName) *Block {
	b := &Block{byName: make(map[string]int, len(cols))}
	for _, c := range cols {
		b.Insert(c)
	}
	return b
}

// Insert appends a column.
func (b *Block) Insert(c ColumnWithTypeAndName) {
	b.byName[c.Name] = len(b.cols)
	b.cols = append(b.cols, c)
}

// ByName returns the column named name.
func (b *Block) ByName(name string) (ColumnWithTypeAndName, bool) {
	i, ok := b.byName[name]
	if !ok {
		return ColumnWithTypeAndName{}, false
	}
	return b.cols[i], true
}

// Columns returns the columns in insertion order.
func (b *Block) Columns() []ColumnWithTypeAndName { return b.cols }

// Rows returns the row count of the first column; 0 for an empty block.
func (b *Block) Rows() int {
	if len(b.cols) == 0 {
		return 0
	}
	return b.cols[0].Column.Len()
}
