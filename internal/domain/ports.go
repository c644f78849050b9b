package domain

import "context"

// HotelStore persists the catalog as a single document. WriteAll must be
// atomic from the caller's perspective: a reader never observes a document
// reflecting only part of the input sequence.
type HotelStore interface {
	ReadAll(ctx context.Context) (HotelDocument, error)
	WriteAll(ctx context.Context, doc HotelDocument) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
