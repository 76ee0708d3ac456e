// Package storage defines the storage abstraction for deployed site bundles.
// It provides a unified interface over local filesystem, S3-compatible object
// storage and Qiniu Kodo.
package storage

import (
	"context"
	"io"
	"time"
)

// Storage defines the interface for object storage operations.
// All backends (local, s3, kodo) must implement this interface.
type Storage interface {
	// PutObject uploads one object.
	// key: object key in format "{storagePrefix}/{relativePath}"
	// data: object content reader
	// contentType: MIME type of the object
	// size: object size in bytes
	PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error

	// GetObject retrieves an object from storage.
	// Returns a ReadCloser that must be closed by the caller.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// ListObjects returns every key starting with prefix. Backends that
	// paginate keep fetching pages until the listing is exhausted.
	ListObjects(ctx context.Context, prefix string) ([]string, error)

	// DeleteObjects removes the given keys in one batched pass and returns
	// the number of confirmed deletions. Individual failures (e.g. a key
	// already gone) do not fail the call.
	DeleteObjects(ctx context.Context, keys []string) (int, error)

	// Type returns the storage type identifier ("local", "s3" or "kodo").
	Type() string
}

// BatchPreparer is implemented by backends that mint an upload credential.
// PrepareBatch is called once before a bulk upload; the credential stays
// valid for ttl and is reused for every PutObject in the batch.
type BatchPreparer interface {
	PrepareBatch(ctx context.Context, ttl time.Duration) error
}

// PublicURLer is implemented by backends that can name an object with an
// unsigned canonical URL. The URL is only directly fetchable when the bucket
// is public; for private buckets it is informational.
type PublicURLer interface {
	PublicURL(key string) string
}

// URLSigner is implemented by backends whose buckets are private and gated
// by time-limited signed URLs. Local storage does not implement it; callers
// fall back to GetObject.
type URLSigner interface {
	// SignURL produces a read URL for key that the backend rejects once
	// wall-clock time passes the embedded deadline.
	SignURL(ctx context.Context, key string, lifetime time.Duration) (string, error)
}
