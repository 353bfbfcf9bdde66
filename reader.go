package deltapack

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hupe1980/deltapack/datatype"
	"github.com/hupe1980/deltapack/internal/conv"
	"github.com/hupe1980/deltapack/pagestore"
)

// deserializeColumn decodes rowsLimit rows of a column page into col. The
// average-bytes-per-row hint sizes the decoder's buffers.
func deserializeColumn(col datatype.Column, meta ColumnMeta, page pagestore.Page, rowsLimit int) error {
	data, err := decompressFrame(page.Data)
	if err != nil {
		return err
	}
	var avgValueSize float64
	if meta.Rows > 0 {
		avgValueSize = float64(len(page.Data)) / float64(meta.Rows)
	}
	return meta.Type.DeserializeBulk(col, bytes.NewReader(data), rowsLimit, avgValueSize)
}

// Reader materializes pack columns from a page store.
type Reader struct {
	pages  pagestore.Reader
	logger *Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithReaderLogger attaches a logger to the read path.
func WithReaderLogger(l *Logger) ReaderOption {
	return func(r *Reader) { r.logger = l }
}

// NewReader creates a reader on top of pages.
func NewReader(pages pagestore.Reader, opts ...ReaderOption) *Reader {
	r := &Reader{pages: pages, logger: NoopLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadInto materializes the window [rowsOffset, rowsOffset+rowsLimit) of
// the requested columns into dest, one destination column per define.
//
// Columns absent from the pack were added by DDL after it was written;
// they are filled with the define's default value (or the type default)
// without touching the page store. Columns whose on-disk type differs from
// the define's type go through the schema-evolution cast engine.
//
// Page handlers run on the page store's workers; each targets a distinct
// destination column.
func (r *Reader) ReadInto(ctx context.Context, dest []datatype.Column, defines []ColumnDefine, pack *Pack, rowsOffset, rowsLimit uint64) error {
	if pack.IsDeleteRange() {
		return fmt.Errorf("%w: reading rows", ErrDeleteRange)
	}
	if rowsOffset+rowsLimit > pack.Rows() {
		return fmt.Errorf("read window [%d, %d) out of bounds for pack of %d rows", rowsOffset, rowsOffset+rowsLimit, pack.Rows())
	}
	if len(dest) != len(defines) {
		return fmt.Errorf("%d destination columns for %d column defines", len(dest), len(defines))
	}
	limit, err := conv.Uint64ToInt(rowsLimit)
	if err != nil {
		return err
	}
	offset, err := conv.Uint64ToInt(rowsOffset)
	if err != nil {
		return err
	}

	pageToIndex := make(map[pagestore.PageID]int, len(defines))
	pageIDs := make([]pagestore.PageID, 0, len(defines))
	for index, define := range defines {
		if meta, ok := pack.Column(define.ID); ok {
			pageIDs = append(pageIDs, meta.PageID)
			pageToIndex[meta.PageID] = index
			continue
		}

		// New column after ddl does not exist in the pack's meta: fill with
		// the declared default value.
		filler, err := define.Type.CreateColumnConst(limit, define.Default)
		if err != nil {
			return err
		}
		if err := dest[index].AppendRange(filler, 0, limit); err != nil {
			return err
		}
	}
	if len(pageIDs) == 0 {
		return nil
	}

	handler := func(id pagestore.PageID, page pagestore.Page) error {
		index := pageToIndex[id]
		col := dest[index]
		define := defines[index]
		meta, _ := pack.Column(define.ID)

		// define.Type is the current in-memory type; meta.Type is the type
		// on disk and may lag behind it.
		if define.Type.Equals(meta.Type) {
			if offset == 0 {
				return deserializeColumn(col, meta, page, limit)
			}
			tmp := define.Type.CreateColumn()
			if err := deserializeColumn(tmp, meta, page, offset+limit); err != nil {
				return err
			}
			return col.AppendRange(tmp, offset, limit)
		}

		r.logger.WithPack(pack).WithColumn(define.ID).Debug("reading pack column as evolved type",
			"disk_type", meta.Type.Name(), "read_type", define.Type.Name())

		if !datatype.IsSupportedCast(meta.Type, define.Type) {
			return fmt.Errorf("%w: reading column %d as %s, stored as %s",
				datatype.ErrCastUnsupported, define.ID, define.Type.Name(), meta.Type.Name())
		}

		diskCol := meta.Type.CreateColumn()
		if err := deserializeColumn(diskCol, meta, page, offset+limit); err != nil {
			return err
		}
		return datatype.CastColumn(meta.Type, diskCol, define.Type, define.Default, col, offset, limit)
	}
	return r.pages.Read(ctx, pageIDs, handler)
}

// Read materializes the whole pack for the requested columns. An empty
// define list yields an empty block, and a zero-row pack yields a block
// whose columns are all empty; neither touches the page store.
func (r *Reader) Read(ctx context.Context, pack *Pack, defines []ColumnDefine) (*Block, error) {
	if len(defines) == 0 {
		return NewBlock(), nil
	}

	rows, err := conv.Uint64ToInt(pack.Rows())
	if err != nil {
		return nil, err
	}
	dest := make([]datatype.Column, 0, len(defines))
	for _, define := range defines {
		col := define.Type.CreateColumn()
		col.Reserve(rows)
		dest = append(dest, col)
	}

	if pack.Rows() > 0 {
		if err := r.ReadInto(ctx, dest, defines, pack, 0, pack.Rows()); err != nil {
			return nil, err
		}
	}

	block := NewBlock()
	for index, define := range defines {
		block.Insert(ColumnWithTypeAndName{
			Column: dest[index],
			Type:   define.Type,
			Name:   define.Name,
			ID:     define.ID,
		})
	}
	return block, nil
}
