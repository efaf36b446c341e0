package reviewintel

import (
	"context"

	"github.com/askora-ai/askora/internal/domain/catalog"
)

// ReviewReader loads persisted reviews.
type ReviewReader interface {
	ListByItem(ctx context.Context, itemID string) ([]catalog.Review, error)
	ListAll(ctx context.Context) ([]catalog.Review, error)
}
