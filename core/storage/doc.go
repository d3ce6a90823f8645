// Package storage provides the object storage client and the raw feed archive.
//
// The Client interface wraps the MinIO Go client (S3 compatible) and is mocked in
// core/storage/mocks. Archive builds on it to keep every document fetched from a
// provider under feeds/<provider>/<timestamp>.xml so a sync can be replayed later.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	archive := storage.NewArchive(client, cfg.Storage.Bucket, logger)
//	key, err := archive.Save(ctx, "acme", time.Now(), document)
package storage
