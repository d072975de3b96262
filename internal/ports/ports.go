package ports

import (
	"context"
)

// Record is a single key-value item: attribute name to string value.
type Record map[string]string

// Key addresses a record within a table. By convention a single-attribute
// key is used; see MemoryDatabase for how multi-attribute keys are resolved.
type Key map[string]string

// Database provides an abstraction for key-value record access.
// Implementations must be safe for concurrent use; the request path only
// ever reads.
type Database interface {
	// GetItem fetches the record addressed by key from table.
	// A missing record is (nil, nil), never an error.
	GetItem(ctx context.Context, table string, key Key) (Record, error)

	// PutItem stores item in table, overwriting any existing record
	// with the same key attributes.
	PutItem(ctx context.Context, table string, item Record) error
}

// ObjectStore provides an abstraction for binary object access.
// Unlike Database, a missing object is reported as an error (kind
// NotFound), not as an empty success; callers distinguish "missing" from
// other failures via IsNotFound.
type ObjectStore interface {
	// GetObject fetches the raw bytes of the object at key in bucket.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// PutObject stores body at key in bucket.
	PutObject(ctx context.Context, bucket, key string, body []byte) error
}
