// Package imagesearch ranks catalog items against the shared text-image
// vector space. Text queries go through the multimodal text encoder, image
// queries through the image encoder; both land in the same space as the
// items' image embeddings.
package imagesearch

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

// Service performs image-space retrieval over the catalog.
type Service struct {
	items        ItemReader
	textEncoder  domain.Embedder
	imageEncoder domain.ImageEmbedder
	logger       *zap.Logger
}

// New creates an image retrieval service. textEncoder must be the multimodal
// text tower, not the description embedder.
func New(items ItemReader, textEncoder domain.Embedder, imageEncoder domain.ImageEmbedder, logger *zap.Logger) *Service {
	return &Service{
		items:        items,
		textEncoder:  textEncoder,
		imageEncoder: imageEncoder,
		logger:       logger,
	}
}

// Search encodes the query into the shared space and scores every item that
// carries an image embedding. The similarity floor is fixed at
// query.ImageMinScore regardless of the request's min_score. Results are
// ordered by score descending with item ID as the deterministic tie-break.
func (s *Service) Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error) {
	queryVec, err := s.encode(ctx, q)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("image", "error").Inc()
		return nil, err
	}

	items, err := s.items.ListItems(ctx)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("image", "error").Inc()
		return nil, fmt.Errorf("list items: %w", err)
	}

	candidates := make([]candidate.Candidate, 0, len(items))
	for i := range items {
		item := &items[i]
		if !s.eligible(item, q) {
			continue
		}

		score, err := vector.Cosine(queryVec, item.ImageEmbedding())
		if err != nil {
			s.logger.Warn("Skipping item with incompatible image embedding",
				zap.String("item_id", item.ID()),
				zap.Error(err))
			continue
		}

		if score < query.ImageMinScore {
			continue
		}

		candidates = append(candidates, candidate.FromImage(*item, score))
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ImageScore() != candidates[j].ImageScore() {
			return candidates[i].ImageScore() > candidates[j].ImageScore()
		}
		return candidates[i].ID() < candidates[j].ID()
	})

	if len(candidates) > q.Limit() {
		candidates = candidates[:q.Limit()]
	}

	metrics.RetrievalRequestsTotal.WithLabelValues("image", "success").Inc()
	metrics.RetrievalCandidates.WithLabelValues("image").Observe(float64(len(candidates)))

	return candidates, nil
}

func (s *Service) encode(ctx context.Context, q query.Query) ([]float32, error) {
	if q.HasImage() {
		result, err := s.imageEncoder.EmbedImage(ctx, q.Image())
		if err != nil {
			return nil, fmt.Errorf("embed query image: %w", err)
		}
		return result.Embedding, nil
	}
	if q.HasText() {
		result, err := s.textEncoder.Embed(ctx, q.Text())
		if err != nil {
			return nil, fmt.Errorf("embed query text: %w", err)
		}
		return result.Embedding, nil
	}
	return nil, fmt.Errorf("%w: image retrieval requires text or image", domain.ErrInvalidQuery)
}

func (s *Service) eligible(item *catalog.Item, q query.Query) bool {
	if !item.HasImageEmbedding() {
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
