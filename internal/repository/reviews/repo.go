// Package reviews reads item reviews from the JSON document store.
package reviews

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	domcat "github.com/askora-ai/askora/internal/domain/catalog"
)

// store is the consumer interface for the review repository (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// Repo implements the review reader contract of the evidence aggregator.
type Repo struct {
	store     store
	keyPrefix string
	logger    *zap.Logger
}

// New creates a review repository.
func New(s store, keyPrefix string, logger *zap.Logger) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, logger: logger}
}

// reviewDoc mirrors the stored review JSON.
type reviewDoc struct {
	ItemID    string    `json:"item_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Pros      []string  `json:"pros"`
	Cons      []string  `json:"cons"`
	Verified  bool      `json:"verified"`
	Language  string    `json:"language"`
	Embedding []float32 `json:"embedding"`
}

// ListByItem returns every review of one item. Unparseable documents are
// skipped with a warning.
func (r *Repo) ListByItem(ctx context.Context, itemID string) ([]domcat.Review, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+"review:"+itemID+":*")
	if err != nil {
		return nil, fmt.Errorf("scan reviews for %s: %w", itemID, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews for %s: %w", itemID, err)
	}

	out := make([]domcat.Review, 0, len(docs))
	for i, raw := range docs {
		if len(raw) == 0 {
			continue
		}
		var doc reviewDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			r.logger.Warn("Skipping unparseable review document",
				zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		if doc.ItemID == "" {
			doc.ItemID = itemID
		}
		out = append(out, domcat.ReconstructReview(
			doc.ItemID, doc.Author, doc.Rating,
			doc.Title, doc.Body,
			doc.Pros, doc.Cons,
			doc.Verified, doc.Language,
			doc.Embedding,
		))
	}
	return out, nil
}

// ListAll returns every review in the corpus, used by the standalone review
// search operation.
func (r *Repo) ListAll(ctx context.Context) ([]domcat.Review, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+"review:*")
	if err != nil {
		return nil, fmt.Errorf("scan reviews: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	out := make([]domcat.Review, 0, len(docs))
	for i, raw := range docs {
		if len(raw) == 0 {
			continue
		}
		var doc reviewDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			r.logger.Warn("Skipping unparseable review document",
				zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		out = append(out, domcat.ReconstructReview(
			doc.ItemID, doc.Author, doc.Rating,
			doc.Title, doc.Body,
			doc.Pros, doc.Cons,
			doc.Verified, doc.Language,
			doc.Embedding,
		))
	}
	return out, nil
}
