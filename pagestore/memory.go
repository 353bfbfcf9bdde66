package pagestore

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

type memPage struct {
	id          PageID
	data        []byte
	fieldOffset uint64

	isRef  bool
	target PageID // root page id, only for refs

	refs    int  // incoming reference count, only for roots
	deleted bool // root no longer addressable; bytes live while refs > 0
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore is the in-memory reference implementation of Store.
//
// Reference pages resolve to their root page's bytes. Deleting a root that
// still has live references keeps the bytes alive (and readable through the
// references) until the last reference is dropped.
type MemoryStore struct {
	mu    sync.RWMutex
	pages map[PageID]*memPage
	ctrl  *Controller
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithController attaches an IO controller bounding read fan-out.
func WithController(c *Controller) MemoryOption {
	return func(s *MemoryStore) { s.ctrl = c }
}

// NewMemoryStore creates an empty store. Without a controller, reads fan
// out one goroutine per page.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{pages: make(map[PageID]*memPage)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply commits wb atomically. Staged puts may be referenced by staged refs
// in the same batch.
func (s *MemoryStore) Apply(_ context.Context, wb *WriteBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before mutating anything.
	staged := make(map[PageID]struct{}, len(wb.puts))
	for _, put := range wb.puts {
		if _, ok := s.pages[put.ID]; ok {
			return fmt.Errorf("%w: %d", ErrPageExists, put.ID)
		}
		if _, ok := staged[put.ID]; ok {
			return fmt.Errorf("%w: %d staged twice", ErrPageExists, put.ID)
		}
		staged[put.ID] = struct{}{}
	}
	for _, ref := range wb.refs {
		if _, ok := staged[ref.Target]; ok {
			continue
		}
		p, ok := s.pages[ref.Target]
		if !ok || (p.deleted && !p.isRef) {
			return fmt.Errorf("%w: %d -> %d", ErrRefTargetNotFound, ref.ID, ref.Target)
		}
		if _, ok := s.pages[ref.ID]; ok {
			return fmt.Errorf("%w: %d", ErrPageExists, ref.ID)
		}
	}
	for _, id := range wb.dels {
		if _, inBatch := staged[id]; inBatch {
			continue
		}
		if _, ok := s.pages[id]; !ok {
			return fmt.Errorf("%w: delete %d", ErrPageNotFound, id)
		}
	}

	for _, put := range wb.puts {
		data := make([]byte, len(put.Data))
		copy(data, put.Data)
		s.pages[put.ID] = &memPage{id: put.ID, data: data, fieldOffset: put.FieldOffset}
	}
	for _, ref := range wb.refs {
		root := s.root(ref.Target)
		root.refs++
		s.pages[ref.ID] = &memPage{id: ref.ID, isRef: true, target: root.id}
	}
	for _, id := range wb.dels {
		s.del(id)
	}
	return nil
}

// root resolves p's id chain to the root page. Refs always point directly
// at a root, so the chain is at most one hop.
func (s *MemoryStore) root(id PageID) *memPage {
	p := s.pages[id]
	if p.isRef {
		return s.pages[p.target]
	}
	return p
}

func (s *MemoryStore) del(id PageID) {
	p, ok := s.pages[id]
	if !ok {
		return
	}
	if p.isRef {
		delete(s.pages, id)
		root := s.pages[p.target]
		root.refs--
		s.sweep(root)
		return
	}
	p.deleted = true
	s.sweep(p)
}

func (s *MemoryStore) sweep(root *memPage) {
	if root.deleted && root.refs == 0 {
		delete(s.pages, root.id)
	}
}

// Read resolves ids and fans handler invocations out over a goroutine per
// page, bounded by the attached controller. Handlers run concurrently and
// in arbitrary order.
func (s *MemoryStore) Read(ctx context.Context, ids []PageID, handler Handler) error {
	pages := make([]Page, 0, len(ids))

	s.mu.RLock()
	for _, id := range ids {
		p, ok := s.pages[id]
		if !ok || (p.deleted && !p.isRef) {
			s.mu.RUnlock()
			return fmt.Errorf("%w: %d", ErrPageNotFound, id)
		}
		data := p.data
		if p.isRef {
			data = s.pages[p.target].data
		}
		pages = append(pages, Page{ID: id, Data: data})
	}
	s.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, page := range pages {
		page := page
		g.Go(func() error {
			if s.ctrl != nil {
				if err := s.ctrl.AcquireRead(ctx); err != nil {
					return err
				}
				defer s.ctrl.ReleaseRead()
				if err := s.ctrl.WaitIO(ctx, len(page.Data)); err != nil {
					return err
				}
			}
			return handler(page.ID, page)
		})
	}
	return g.Wait()
}
