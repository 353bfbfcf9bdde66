package deltapack

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/deltapack/datatype"
	"github.com/hupe1980/deltapack/internal/conv"
	"github.com/hupe1980/deltapack/pagestore"
)

// binWriter writes the descriptor primitives in little-endian order.
type binWriter struct {
	w   io.Writer
	buf [binary.MaxVarintLen64]byte
}

func (bw *binWriter) uvarint(v uint64) error {
	n := binary.PutUvarint(bw.buf[:], v)
	_, err := bw.w.Write(bw.buf[:n])
	return err
}

func (bw *binWriter) u64(v uint64) error {
	binary.LittleEndian.PutUint64(bw.buf[:8], v)
	_, err := bw.w.Write(bw.buf[:8])
	return err
}

func (bw *binWriter) i64(v int64) error {
	return bw.u64(uint64(v))
}

func (bw *binWriter) bool(v bool) error {
	bw.buf[0] = 0
	if v {
		bw.buf[0] = 1
	}
	_, err := bw.w.Write(bw.buf[:1])
	return err
}

func (bw *binWriter) str(s string) error {
	l, err := conv.IntToUint64(len(s))
	if err != nil {
		return err
	}
	if err := bw.u64(l); err != nil {
		return err
	}
	_, err = io.WriteString(bw.w, s)
	return err
}

// binReader reads the descriptor primitives. It never reads past the data
// it consumes, so descriptors can be concatenated in one buffer.
type binReader struct {
	r   io.Reader
	buf [8]byte
}

func (br *binReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(br.r, br.buf[:1]); err != nil {
		return 0, err
	}
	return br.buf[0], nil
}

func (br *binReader) uvarint() (uint64, error) {
	return binary.ReadUvarint(br)
}

func (br *binReader) u64() (uint64, error) {
	if _, err := io.ReadFull(br.r, br.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(br.buf[:8]), nil
}

func (br *binReader) i64() (int64, error) {
	v, err := br.u64()
	return int64(v), err
}

func (br *binReader) bool() (bool, error) {
	b, err := br.ReadByte()
	return b != 0, err
}

func (br *binReader) str() (string, error) {
	l, err := br.u64()
	if err != nil {
		return "", err
	}
	n, err := conv.Uint64ToInt(l)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Serialize writes the pack descriptor to w. Column metas are written in
// insertion order so descriptors round-trip bit-exactly.
func (p *Pack) Serialize(w io.Writer) error {
	bw := &binWriter{w: w}

	if err := bw.uvarint(CurrentVersion); err != nil {
		return err
	}
	if err := bw.i64(p.handleStart); err != nil {
		return err
	}
	if err := bw.i64(p.handleEnd); err != nil {
		return err
	}
	if err := bw.bool(p.isDeleteRange); err != nil {
		return err
	}
	ncols, err := conv.IntToUint64(len(p.colIDs))
	if err != nil {
		return err
	}
	if err := bw.u64(ncols); err != nil {
		return err
	}
	for _, m := range p.Metas() {
		if err := bw.i64(m.ColID); err != nil {
			return err
		}
		if err := bw.u64(uint64(m.PageID)); err != nil {
			return err
		}
		if err := bw.u64(m.Rows); err != nil {
			return err
		}
		if err := bw.u64(m.Bytes); err != nil {
			return err
		}
		if err := bw.str(m.Type.Name()); err != nil {
			return err
		}
		if err := bw.bool(m.MinMax != nil); err != nil {
			return err
		}
		if m.MinMax != nil {
			if err := m.MinMax.Write(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeserializePack reads one pack descriptor from r.
func DeserializePack(r io.Reader) (*Pack, error) {
	br := &binReader{r: r}

	version, err := br.uvarint()
	if err != nil {
		return nil, err
	}
	if version != CurrentVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFormatVersion, version, CurrentVersion)
	}

	start, err := br.i64()
	if err != nil {
		return nil, err
	}
	end, err := br.i64()
	if err != nil {
		return nil, err
	}
	pack := New(start, end)
	if pack.isDeleteRange, err = br.bool(); err != nil {
		return nil, err
	}
	ncols, err := br.u64()
	if err != nil {
		return nil, err
	}
	n, err := conv.Uint64ToInt(ncols)
	if err != nil {
		return nil, err
	}
	for ci := 0; ci < n; ci++ {
		var m ColumnMeta
		if m.ColID, err = br.i64(); err != nil {
			return nil, err
		}
		pageID, err := br.u64()
		if err != nil {
			return nil, err
		}
		m.PageID = pagestore.PageID(pageID)
		if m.Rows, err = br.u64(); err != nil {
			return nil, err
		}
		if m.Bytes, err = br.u64(); err != nil {
			return nil, err
		}
		typeName, err := br.str()
		if err != nil {
			return nil, err
		}
		if m.Type, err = datatype.Get(typeName); err != nil {
			return nil, err
		}
		hasMinMax, err := br.bool()
		if err != nil {
			return nil, err
		}
		if hasMinMax {
			if m.MinMax, err = datatype.ReadMinMaxIndex(m.Type, r); err != nil {
				return nil, err
			}
		}
		if err := pack.Insert(m); err != nil {
			return nil, err
		}
	}
	return pack, nil
}

// SerializePacks writes packs, then any non-nil extras, preceded by the
// total count. Commit logs use the extras to append packs created during
// the same atomic mutation without copying the main slice.
func SerializePacks(w io.Writer, packs []*Pack, extras ...*Pack) error {
	total := len(packs)
	for _, extra := range extras {
		if extra != nil {
			total++
		}
	}

	bw := &binWriter{w: w}
	count, err := conv.IntToUint64(total)
	if err != nil {
		return err
	}
	if err := bw.u64(count); err != nil {
		return err
	}
	for _, pack := range packs {
		if err := pack.Serialize(w); err != nil {
			return err
		}
	}
	for _, extra := range extras {
		if extra == nil {
			continue
		}
		if err := extra.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// DeserializePacks reads a pack list written by SerializePacks.
func DeserializePacks(r io.Reader) ([]*Pack, error) {
	br := &binReader{r: r}
	count, err := br.u64()
	if err != nil {
		return nil, err
	}
	n, err := conv.Uint64ToInt(count)
	if err != nil {
		return nil, err
	}
	packs := make([]*Pack, 0, n)
	for i := 0; i < n; i++ {
		pack, err := DeserializePack(r)
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	return packs, nil
}
