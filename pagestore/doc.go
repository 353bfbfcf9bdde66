// Package pagestore defines the page-store surface the pack subsystem is
// written against: batched page reads, atomically applied write batches,
// reference pages and page-id allocation.
//
// The package ships an in-memory reference store used by tests and by
// embedders that keep the delta layer resident; pagestore/minio provides an
// S3-compatible object-tier backend.
package pagestore
