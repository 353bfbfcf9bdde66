package deltapack

import (
	"fmt"

	"github.com/hupe1980/deltapack/datatype"
	"github.com/hupe1980/deltapack/pagestore"
)

// Handle is the primary-key integer of a row. Rows within a pack are
// ordered by handle and lie in the pack's handle bounds.
type Handle = int64

// Version numbers the pack descriptor binary format.
type Version = uint64

// CurrentVersion is the only descriptor version readers accept. Any other
// version is a corruption error; there is no compatibility shim.
const CurrentVersion Version = 1

// ExtraHandleColumnID is the well-known column id of the handle column.
// Only this column carries a min/max index in the current format.
const ExtraHandleColumnID int64 = -1

// ColumnMeta describes one column of one pack: where its page lives, how
// many rows and bytes it holds, its on-disk type and an optional min/max
// index. Type and MinMax are shared-owned and never mutated after write.
type ColumnMeta struct {
	ColID  int64
	PageID pagestore.PageID
	Rows   uint64
	Bytes  uint64
	Type   *datatype.DataType
	MinMax *datatype.MinMaxIndex
}

// Pack is an immutable descriptor of a contiguous, handle-ordered block of
// rows, referencing one page per column. A delete-range pack carries no
// columns and tombstones the half-open handle interval [start, end); for
// packs with data both bounds are inclusive. This asymmetry is part of the
// persisted contract and must not be normalized.
//
// Packs are plain value objects; once constructed they are safe for
// concurrent reads.
type Pack struct {
	handleStart Handle
	handleEnd   Handle

	isDeleteRange bool

	colIDs  []int64
	columns map[int64]ColumnMeta
	rows    uint64
}

// New creates an empty pack covering the inclusive handle range
// [start, end], ready for ColumnMeta insertion.
func New(start, end Handle) *Pack {
	return &Pack{
		handleStart: start,
		handleEnd:   end,
		columns:     make(map[int64]ColumnMeta),
	}
}

// NewDeleteRange creates a tombstone pack over the handle interval
// [start, end).
func NewDeleteRange(start, end Handle) *Pack {
	p := New(start, end)
	p.isDeleteRange = true
	return p
}

// HandleFirstLast returns the pack's handle bounds.
func (p *Pack) HandleFirstLast() (Handle, Handle) {
	return p.handleStart, p.handleEnd
}

// IsDeleteRange reports whether the pack is a tombstone.
func (p *Pack) IsDeleteRange() bool { return p.isDeleteRange }

// DeleteRange returns the tombstoned handle interval. Only meaningful for
// delete-range packs.
func (p *Pack) DeleteRange() (Handle, Handle) {
	return p.handleStart, p.handleEnd
}

// Rows returns the common row count across all columns; 0 for delete-range
// packs.
func (p *Pack) Rows() uint64 { return p.rows }

// HasColumn reports whether the pack stores column colID.
func (p *Pack) HasColumn(colID int64) bool {
	_, ok := p.columns[colID]
	return ok
}

// Column returns the meta of column colID.
func (p *Pack) Column(colID int64) (ColumnMeta, bool) {
	m, ok := p.columns[colID]
	return m, ok
}

// Metas returns the column metas in insertion order. Insertion order is not
// significant for reads, but it is significant for bit-exact descriptor
// round-trips.
func (p *Pack) Metas() []ColumnMeta {
	metas := make([]ColumnMeta, 0, len(p.colIDs))
	for _, id := range p.colIDs {
		metas = append(metas, p.columns[id])
	}
	return metas
}

// Insert adds a column meta during construction, enforcing the pack-wide
// row-count invariant.
func (p *Pack) Insert(m ColumnMeta) error {
	if p.isDeleteRange {
		return fmt.Errorf("%w: inserting column %d", ErrDeleteRange, m.ColID)
	}
	if _, ok := p.columns[m.ColID]; ok {
		return fmt.Errorf("column %d inserted twice", m.ColID)
	}
	if len(p.colIDs) > 0 && p.rows != m.Rows {
		return fmt.Errorf("%w: column %d has %d rows, pack has %d", ErrRowsMismatch, m.ColID, m.Rows, p.rows)
	}
	p.rows = m.Rows
	p.colIDs = append(p.colIDs, m.ColID)
	p.columns[m.ColID] = m
	return nil
}
