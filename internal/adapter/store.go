package adapter

import (
	"context"
	"errors"
)

// ErrObjectNotFound means the storage branch has no object under the
// requested key. Callers treat it as "no baseline yet", not as a failure.
var ErrObjectNotFound = errors.New("object not found in storage branch")

// ObjectGetter reads objects out of the storage branch.
type ObjectGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// ObjectStore is a writable view of the storage branch. Put stages an object
// under its key; nothing becomes durable until CommitAndPush. Close releases
// local resources without publishing anything.
type ObjectStore interface {
	ObjectGetter
	Put(ctx context.Context, key string, data []byte) error
	CommitAndPush(ctx context.Context, message string) error
	Close() error
}

// StoreOpener materializes a writable ObjectStore for one update run.
type StoreOpener interface {
	Open(ctx context.Context) (ObjectStore, error)
}
