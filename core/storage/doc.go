// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface the service needs.
// The catalog feature stores its merge audit records through it; both AWS S3 and
// self-hosted MinIO endpoints work.
//
// # Client Interface
//
// The Client interface makes storage interactions easy to mock in unit tests
// (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: make sure the audit bucket is there.
//   - PutObject: upload an audit record.
//   - GetObject: read an audit record back.
//   - ListObjects: enumerate audit records under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	created, err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket)
package storage
