package deltapack

import (
	"bytes"
	"fmt"

	"github.com/hupe1980/deltapack/datatype"
	"github.com/hupe1980/deltapack/internal/conv"
	"github.com/hupe1980/deltapack/pagestore"
)

// serializeColumn encodes rows [offset, offset+num) of col through the
// type's bulk codec and wraps the result in a column page frame. The
// length of the returned frame is the post-compression byte count; it
// becomes ColumnMeta.Bytes.
func serializeColumn(col datatype.Column, t *datatype.DataType, offset, num int, codec Codec) ([]byte, error) {
	var plain bytes.Buffer
	if err := t.SerializeBulk(col, &plain, offset, num); err != nil {
		return nil, err
	}
	return compressFrame(plain.Bytes(), codec)
}

// Builder assembles packs from row blocks: it writes each store column as
// one page into a write batch and emits the descriptor, attaching a min/max
// index on the handle column.
type Builder struct {
	handle       ColumnDefine
	storeColumns []ColumnDefine
	notCompress  map[int64]struct{}
	genPageID    pagestore.GenPageID
	codec        Codec
	logger       *Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithNotCompress stores the given columns uncompressed. Their pages still
// carry the frame header, under the pass-through codec.
func WithNotCompress(colIDs ...int64) BuilderOption {
	return func(b *Builder) {
		for _, id := range colIDs {
			b.notCompress[id] = struct{}{}
		}
	}
}

// WithCodec selects the compression codec for the write path.
// The default is CodecLZ4.
func WithCodec(c Codec) BuilderOption {
	return func(b *Builder) { b.codec = c }
}

// WithBuilderLogger attaches a logger to the write path.
func WithBuilderLogger(l *Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder for the given schema. handle names the
// handle column (its define must also appear in storeColumns); genPageID
// allocates page ids for column pages.
func NewBuilder(handle ColumnDefine, storeColumns []ColumnDefine, genPageID pagestore.GenPageID, opts ...BuilderOption) *Builder {
	b := &Builder{
		handle:       handle,
		storeColumns: storeColumns,
		notCompress:  make(map[int64]struct{}),
		genPageID:    genPageID,
		codec:        CodecLZ4,
		logger:       NoopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build serializes block into one page per store column, staging the pages
// in wb, and returns the pack descriptor. The caller guarantees the block
// is sorted by handle; the handle bounds are taken from its first and last
// rows.
//
// The descriptor must only become visible in a manifest after wb has been
// applied.
func (b *Builder) Build(block *Block, wb *pagestore.WriteBatch) (*Pack, error) {
	handleCol, ok := block.ByName(b.handle.Name)
	if !ok {
		return nil, fmt.Errorf("%w: block has no handle column %q", ErrSchemaMismatch, b.handle.Name)
	}
	handles, ok := handleCol.Column.(*datatype.NumberColumn[int64])
	if !ok {
		return nil, fmt.Errorf("%w: handle column %q is %T, want Int64", ErrSchemaMismatch, b.handle.Name, handleCol.Column)
	}
	if len(handles.Data) == 0 {
		return nil, ErrEmptyBlock
	}

	pack := New(handles.Data[0], handles.Data[len(handles.Data)-1])
	for _, define := range b.storeColumns {
		c, ok := block.ByName(define.Name)
		if !ok {
			return nil, fmt.Errorf("%w: block has no column %q", ErrSchemaMismatch, define.Name)
		}

		codec := b.codec
		if _, skip := b.notCompress[define.ID]; skip {
			codec = CodecNone
		}
		buf, err := serializeColumn(c.Column, define.Type, 0, c.Column.Len(), codec)
		if err != nil {
			return nil, err
		}

		pageID := b.genPageID()
		wb.PutPage(pageID, 0, buf)

		rows, err := conv.IntToUint64(c.Column.Len())
		if err != nil {
			return nil, err
		}
		m := ColumnMeta{
			ColID:  define.ID,
			PageID: pageID,
			Rows:   rows,
			Bytes:  uint64(len(buf)),
			Type:   define.Type,
		}
		if define.ID == ExtraHandleColumnID {
			// Only index the handle column for now. No delete marks on the
			// write path.
			minmax := datatype.NewMinMaxIndex(define.Type)
			if err := minmax.AddPack(c.Column, nil); err != nil {
				return nil, err
			}
			m.MinMax = minmax
		}

		if err := pack.Insert(m); err != nil {
			return nil, err
		}
	}

	b.logger.WithPack(pack).Debug("pack built", "rows", pack.Rows(), "columns", len(b.storeColumns))
	return pack, nil
}
