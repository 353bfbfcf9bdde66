// Package minio implements a pagestore backend on MinIO and S3-compatible
// object storage. Every page is one object; reference pages are server-side
// object copies, so a ref stays readable after its source page is removed.
//
// Object stores cannot apply a batch atomically. Batches are staged puts
// first, refs second, deletes last, and a failed batch removes the objects
// it already wrote; the manifest only references pages of fully applied
// batches, so stray objects from a torn batch are unreachable garbage.
package minio
