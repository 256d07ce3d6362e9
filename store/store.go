package store

import (
	"context"

	"github.com/clearcart/trustlens/models"
)

// Store is the persistence collaborator: upsert-by-URL product tracking,
// append-only price points, and time-ordered history read-back.
type Store interface {
	// TrackProduct upserts a tracked product by URL and records its first
	// observed price point.
	TrackProduct(ctx context.Context, url, title string, price float64) error

	// AddPricePoint appends one price observation for an already tracked
	// product. Unknown URLs are a no-op.
	AddPricePoint(ctx context.Context, url string, price float64) error

	// PriceHistory returns all recorded price points for a URL, ordered by
	// observation time ascending. Unknown URLs return an empty history.
	PriceHistory(ctx context.Context, url string) ([]models.PricePoint, error)

	Close() error
}

// Noop is the Store used when no database is configured: writes vanish and
// history is always empty.
type Noop struct{}

func (Noop) TrackProduct(context.Context, string, string, float64) error { return nil }
func (Noop) AddPricePoint(context.Context, string, float64) error        { return nil }
func (Noop) PriceHistory(context.Context, string) ([]models.PricePoint, error) {
	return nil, nil
}
func (Noop) Close() error { return nil }
