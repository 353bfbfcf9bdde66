package deltapack

import "github.com/hupe1980/deltapack/pagestore"

// NewRefPack produces a twin of pack whose column pages are reference
// pages onto pack's pages, each under a fresh page id. Segment splits and
// delta-layer reorganization go through here; nothing else calls
// PutRefPage for column pages.
//
// The returned descriptor must only become visible after wb is applied.
// Row counts, byte counts, types and min/max indexes are shared with the
// source.
func NewRefPack(pack *Pack, genPageID pagestore.GenPageID, wb *pagestore.WriteBatch) (*Pack, error) {
	if pack.IsDeleteRange() {
		start, end := pack.DeleteRange()
		return NewDeleteRange(start, end), nil
	}

	first, last := pack.HandleFirstLast()
	ref := New(first, last)
	for _, m := range pack.Metas() {
		refMeta := m
		refMeta.PageID = genPageID()
		wb.PutRefPage(refMeta.PageID, m.PageID)
		if err := ref.Insert(refMeta); err != nil {
			return nil, err
		}
	}
	return ref, nil
}

// NewRefPacks produces ref-packs for every pack in packs, staging all
// reference pages in the same write batch.
func NewRefPacks(packs []*Pack, genPageID pagestore.GenPageID, wb *pagestore.WriteBatch) ([]*Pack, error) {
	refs := make([]*Pack, 0, len(packs))
	for _, pack := range packs {
		ref, err := NewRefPack(pack, genPageID, wb)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
