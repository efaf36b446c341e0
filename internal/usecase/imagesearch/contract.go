package imagesearch

import (
	"context"

	"github.com/askora-ai/askora/internal/domain/catalog"
)

// ItemReader lists catalog items for scoring.
type ItemReader interface {
	ListItems(ctx context.Context) ([]catalog.Item, error)
}
