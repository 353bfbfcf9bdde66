package datatype

import (
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"
)

// SerializeBulk writes rows [offset, offset+limit) of col to w using the
// type's binary bulk encoding. For composite types every substream is
// written into w in substream-declaration order: for nullable columns the
// null map precedes the values.
//
// Integer payloads are raw native-width little-endian values, written
// directly from column memory (native on x86/ARM, matching the page-store
// convention). Strings are uvarint-length-prefixed bytes per row.
func (t *DataType) SerializeBulk(col Column, w io.Writer, offset, limit int) error {
	switch t.kind {
	case KindInt8:
		return serializeNumbers[int8](col, w, offset, limit)
	case KindInt16:
		return serializeNumbers[int16](col, w, offset, limit)
	case KindInt32:
		return serializeNumbers[int32](col, w, offset, limit)
	case KindInt64:
		return serializeNumbers[int64](col, w, offset, limit)
	case KindUInt8:
		return serializeNumbers[uint8](col, w, offset, limit)
	case KindUInt16:
		return serializeNumbers[uint16](col, w, offset, limit)
	case KindUInt32:
		return serializeNumbers[uint32](col, w, offset, limit)
	case KindUInt64:
		return serializeNumbers[uint64](col, w, offset, limit)
	case KindString:
		return serializeStrings(col, w, offset, limit)
	case KindNullable:
		c, ok := col.(*NullableColumn)
		if !ok {
			return fmt.Errorf("%w: serializing %T as %s", ErrColumnTypeMismatch, col, t.Name())
		}
		if offset+limit > len(c.NullMap) {
			return fmt.Errorf("serialize range [%d, %d) out of bounds for null map of %d rows", offset, offset+limit, len(c.NullMap))
		}
		if _, err := w.Write(c.NullMap[offset : offset+limit]); err != nil {
			return err
		}
		return t.inner.SerializeBulk(c.Values, w, offset, limit)
	default:
		panic("datatype: unreachable kind")
	}
}

// DeserializeBulk reads limit rows from r, appending them to col.
// avgValueSize is an average-bytes-per-row hint used to presize buffers for
// variable-length types; it carries no semantic meaning.
func (t *DataType) DeserializeBulk(col Column, r io.Reader, limit int, avgValueSize float64) error {
	switch t.kind {
	case KindInt8:
		return deserializeNumbers[int8](col, r, limit)
	case KindInt16:
		return deserializeNumbers[int16](col, r, limit)
	case KindInt32:
		return deserializeNumbers[int32](col, r, limit)
	case KindInt64:
		return deserializeNumbers[int64](col, r, limit)
	case KindUInt8:
		return deserializeNumbers[uint8](col, r, limit)
	case KindUInt16:
		return deserializeNumbers[uint16](col, r, limit)
	case KindUInt32:
		return deserializeNumbers[uint32](col, r, limit)
	case KindUInt64:
		return deserializeNumbers[uint64](col, r, limit)
	case KindString:
		return deserializeStrings(col, r, limit, avgValueSize)
	case KindNullable:
		c, ok := col.(*NullableColumn)
		if !ok {
			return fmt.Errorf("%w: deserializing %s into %T", ErrColumnTypeMismatch, t.Name(), col)
		}
		start := len(c.NullMap)
		c.NullMap = append(c.NullMap, make([]uint8, limit)...)
		if _, err := io.ReadFull(r, c.NullMap[start:]); err != nil {
			return err
		}
		return t.inner.DeserializeBulk(c.Values, r, limit, avgValueSize)
	default:
		panic("datatype: unreachable kind")
	}
}

func serializeNumbers[T Integer](col Column, w io.Writer, offset, limit int) error {
	c, ok := col.(*NumberColumn[T])
	if !ok {
		return fmt.Errorf("%w: serializing %T as numeric column", ErrColumnTypeMismatch, col)
	}
	if offset+limit > len(c.Data) {
		return fmt.Errorf("serialize range [%d, %d) out of bounds for column of %d rows", offset, offset+limit, len(c.Data))
	}
	data := c.Data[offset : offset+limit]
	if len(data) == 0 {
		return nil
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*int(unsafe.Sizeof(data[0])))
	_, err := w.Write(raw)
	return err
}

func deserializeNumbers[T Integer](col Column, r io.Reader, limit int) error {
	c, ok := col.(*NumberColumn[T])
	if !ok {
		return fmt.Errorf("%w: deserializing numeric column into %T", ErrColumnTypeMismatch, col)
	}
	if limit == 0 {
		return nil
	}
	start := len(c.Data)
	c.Data = append(c.Data, make([]T, limit)...)
	dst := c.Data[start:]
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), len(dst)*int(unsafe.Sizeof(dst[0])))
	if _, err := io.ReadFull(r, raw); err != nil {
		c.Data = c.Data[:start]
		return err
	}
	return nil
}

func serializeStrings(col Column, w io.Writer, offset, limit int) error {
	c, ok := col.(*StringColumn)
	if !ok {
		return fmt.Errorf("%w: serializing %T as String", ErrColumnTypeMismatch, col)
	}
	if offset+limit > len(c.Data) {
		return fmt.Errorf("serialize range [%d, %d) out of bounds for column of %d rows", offset, offset+limit, len(c.Data))
	}
	var lenBuf [binary.MaxVarintLen64]byte
	for _, s := range c.Data[offset : offset+limit] {
		n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
		if _, err := w.Write(lenBuf[:n]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

func deserializeStrings(col Column, r io.Reader, limit int, avgValueSize float64) error {
	c, ok := col.(*StringColumn)
	if !ok {
		return fmt.Errorf("%w: deserializing String into %T", ErrColumnTypeMismatch, col)
	}
	c.Reserve(len(c.Data) + limit)
	br := newByteReader(r)
	var scratch []byte
	if avgValueSize > 0 {
		scratch = make([]byte, 0, int(avgValueSize)+1)
	}
	for i := 0; i < limit; i++ {
		l, err := binary.ReadUvarint(br)
		if err != nil {
			return err
		}
		if uint64(cap(scratch)) < l {
			scratch = make([]byte, 0, l)
		}
		buf := scratch[:l]
		if _, err := io.ReadFull(br, buf); err != nil {
			return err
		}
		c.Data = append(c.Data, string(buf))
	}
	return nil
}

// byteReader adapts an io.Reader to io.ByteReader without buffering ahead,
// so substreams that follow in the same buffer stay positioned correctly.
type byteReader struct {
	r io.Reader
	b [1]byte
}

func newByteReader(r io.Reader) *byteReader {
	return &byteReader{r: r}
}

func (br *byteReader) Read(p []byte) (int, error) { return br.r.Read(p) }

func (br *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(br.r, br.b[:]); err != nil {
		return 0, err
	}
	return br.b[0], nil
}
