// Package textsearch ranks catalog items against a text query by blending
// semantic similarity with keyword overlap.
package textsearch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/domain"
	"github.com/askora-ai/askora/internal/domain/catalog"
	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
	"github.com/askora-ai/askora/internal/domain/vector"
	"github.com/askora-ai/askora/internal/metrics"
)

// Service performs text retrieval over the catalog.
type Service struct {
	items    ItemReader
	embedder domain.Embedder
	logger   *zap.Logger
}

// New creates a text retrieval service.
func New(items ItemReader, embedder domain.Embedder, logger *zap.Logger) *Service {
	return &Service{items: items, embedder: embedder, logger: logger}
}

// Search embeds the query text and scores every eligible item. Items without
// a text embedding, outside the category or price filters, or below the
// hybrid-score threshold are excluded. Results are ordered by hybrid score
// descending with item ID as the deterministic tie-break.
func (s *Service) Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error) {
	if !q.HasText() {
		return nil, fmt.Errorf("%w: text retrieval requires query text", domain.ErrInvalidQuery)
	}

	result, err := s.embedder.Embed(ctx, q.Text())
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("text", "error").Inc()
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := result.Embedding

	items, err := s.items.ListItems(ctx)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("text", "error").Inc()
		return nil, fmt.Errorf("list items: %w", err)
	}

	queryLower := strings.ToLower(q.Text())

	candidates := make([]candidate.Candidate, 0, len(items))
	for i := range items {
		item := &items[i]
		if !s.eligible(item, q) {
			continue
		}

		semantic, err := vector.Cosine(queryVec, item.TextEmbedding())
		if err != nil {
			s.logger.Warn("Skipping item with incompatible text embedding",
				zap.String("item_id", item.ID()),
				zap.Error(err))
			continue
		}

		keyword := keywordScore(queryLower, item)
		boost := exactBoost(queryLower, item)
		hybrid := hybridScore(semantic, keyword, boost)

		if hybrid < q.MinScore() {
			continue
		}

		candidates = append(candidates, candidate.FromText(*item, semantic, keyword, boost, hybrid))
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].HybridScore() != candidates[j].HybridScore() {
			return candidates[i].HybridScore() > candidates[j].HybridScore()
		}
		return candidates[i].ID() < candidates[j].ID()
	})

	if len(candidates) > q.Limit() {
		candidates = candidates[:q.Limit()]
	}

	metrics.RetrievalRequestsTotal.WithLabelValues("text", "success").Inc()
	metrics.RetrievalCandidates.WithLabelValues("text").Observe(float64(len(candidates)))

	return candidates, nil
}

func (s *Service) eligible(item *catalog.Item, q query.Query) bool {
	if !item.HasTextEmbedding() {
		return false
	}
	if q.Category() != "" && !strings.EqualFold(item.Category(), q.Category()) {
		return false
	}
	if !q.Price().Contains(item.Price()) {
		return false
	}
	return true
}
