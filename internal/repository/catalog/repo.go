// Package catalog reads catalog items from the JSON document store.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	domcat "github.com/askora-ai/askora/internal/domain/catalog"
)

// store is the consumer interface for the item repository (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// Repo implements the item reader contracts of the search usecases.
type Repo struct {
	store     store
	keyPrefix string
	logger    *zap.Logger
}

// New creates an item repository.
func New(s store, keyPrefix string, logger *zap.Logger) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, logger: logger}
}

// ListItems returns every catalog item. Documents that fail to parse are
// skipped with a warning; one bad record must not abort the whole scan.
func (r *Repo) ListItems(ctx context.Context) ([]domcat.Item, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+"item:*")
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	items := make([]domcat.Item, 0, len(docs))
	for i, raw := range docs {
		if len(raw) == 0 {
			continue
		}
		var doc itemDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			r.logger.Warn("Skipping unparseable item document",
				zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		items = append(items, doc.toDomain())
	}
	return items, nil
}
