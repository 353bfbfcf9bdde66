package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/deltapack/pagestore"
)

var _ pagestore.Store = (*Store)(nil)

// Store implements pagestore.Store on MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
	ctrl   *pagestore.Controller
}

// Option configures a Store.
type Option func(*Store)

// WithController attaches an IO controller bounding read fan-out.
func WithController(c *pagestore.Controller) Option {
	return func(s *Store) { s.ctrl = c }
}

// NewStore creates a new MinIO page store.
// bucket is the MinIO bucket name.
// rootPrefix is prepended to all keys (e.g. "delta/").
func NewStore(client *minio.Client, bucket, rootPrefix string, opts ...Option) *Store {
	s := &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(id pagestore.PageID) string {
	return path.Join(s.prefix, "pages", fmt.Sprintf("%020d", uint64(id)))
}

func isNotFound(err error) bool {
	errResp := minio.ToErrorResponse(err)
	return errResp.Code == "NoSuchKey" || errResp.Code == "NotFound"
}

// Apply commits wb: puts, then refs, then deletes. A ref is a server-side
// copy of its target object under the new page id. On error, objects the
// batch already wrote are removed again.
func (s *Store) Apply(ctx context.Context, wb *pagestore.WriteBatch) error {
	var written []pagestore.PageID

	abort := func() {
		for _, id := range written {
			_ = s.client.RemoveObject(ctx, s.bucket, s.key(id), minio.RemoveObjectOptions{})
		}
	}

	for _, put := range wb.Puts() {
		_, err := s.client.PutObject(ctx, s.bucket, s.key(put.ID), bytes.NewReader(put.Data), int64(len(put.Data)), minio.PutObjectOptions{})
		if err != nil {
			abort()
			return err
		}
		written = append(written, put.ID)
	}

	for _, ref := range wb.Refs() {
		_, err := s.client.CopyObject(ctx,
			minio.CopyDestOptions{Bucket: s.bucket, Object: s.key(ref.ID)},
			minio.CopySrcOptions{Bucket: s.bucket, Object: s.key(ref.Target)},
		)
		if err != nil {
			abort()
			if isNotFound(err) {
				return fmt.Errorf("%w: %d -> %d", pagestore.ErrRefTargetNotFound, ref.ID, ref.Target)
			}
			return err
		}
		written = append(written, ref.ID)
	}

	for _, id := range wb.Dels() {
		if err := s.client.RemoveObject(ctx, s.bucket, s.key(id), minio.RemoveObjectOptions{}); err != nil && !isNotFound(err) {
			abort()
			return err
		}
	}
	return nil
}

// Read fetches every page object and invokes handler, fanning out one
// goroutine per page bounded by the attached controller.
func (s *Store) Read(ctx context.Context, ids []pagestore.PageID, handler pagestore.Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if s.ctrl != nil {
				if err := s.ctrl.AcquireRead(ctx); err != nil {
					return err
				}
				defer s.ctrl.ReleaseRead()
			}

			data, err := s.get(ctx, id)
			if err != nil {
				return err
			}
			if s.ctrl != nil {
				if err := s.ctrl.WaitIO(ctx, len(data)); err != nil {
					return err
				}
			}
			return handler(id, pagestore.Page{ID: id, Data: data})
		})
	}
	return g.Wait()
}

func (s *Store) get(ctx context.Context, id pagestore.PageID) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %d", pagestore.ErrPageNotFound, id)
		}
		return nil, err
	}
	return data, nil
}
