// Package reviewintel selects review evidence for answer grounding and serves
// standalone review search.
package reviewintel

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/domain"
	"github.com/askora-ai/askora/internal/domain/catalog"
	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
	"github.com/askora-ai/askora/internal/domain/vector"
)

const maxListedPhrases = 3

// Highlight is one review selected as evidence, with pros and cons capped for
// prompt budget.
type Highlight struct {
	Author     string
	Rating     int
	Title      string
	Body       string
	Pros       []string
	Cons       []string
	Verified   bool
	Similarity float64
}

// Match is a standalone review search hit.
type Match struct {
	Review catalog.Review
	Score  float64
}

// Service aggregates review evidence for fused candidates.
type Service struct {
	reviews       ReviewReader
	embedder      domain.Embedder
	maxReviews    int
	evidenceLimit int
	logger        *zap.Logger
}

// New creates a review evidence service. maxReviews caps highlights per item;
// evidenceLimit caps how many fused candidates receive evidence.
func New(reviews ReviewReader, embedder domain.Embedder, maxReviews, evidenceLimit int, logger *zap.Logger) *Service {
	if maxReviews <= 0 {
		maxReviews = query.DefaultMaxReviews
	}
	if evidenceLimit <= 0 {
		evidenceLimit = query.EvidenceCandidates
	}
	return &Service{
		reviews:       reviews,
		embedder:      embedder,
		maxReviews:    maxReviews,
		evidenceLimit: evidenceLimit,
		logger:        logger,
	}
}

// Collect returns per-item review highlights for the leading fused candidates.
// With query text present, reviews rank by embedding similarity to the query;
// without it (image-only requests) they rank by rating with verified purchases
// first. A missing or incompatible review embedding demotes the review, it
// never fails the call.
func (s *Service) Collect(ctx context.Context, queryText string, cands []candidate.Candidate) (map[string][]Highlight, error) {
	if len(cands) > s.evidenceLimit {
		cands = cands[:s.evidenceLimit]
	}

	var queryVec []float32
	if queryText != "" {
		result, err := s.embedder.Embed(ctx, queryText)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		queryVec = result.Embedding
	}

	evidence := make(map[string][]Highlight, len(cands))
	for i := range cands {
		itemID := cands[i].ID()

		reviews, err := s.reviews.ListByItem(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("list reviews for %s: %w", itemID, err)
		}
		if len(reviews) == 0 {
			continue
		}

		evidence[itemID] = s.selectHighlights(reviews, queryVec)
	}

	return evidence, nil
}

// SearchReviews ranks all stored reviews against the query text. Reviews
// without an embedding are excluded; verifiedOnly additionally drops
// unverified purchases.
func (s *Service) SearchReviews(ctx context.Context, q query.Query, verifiedOnly bool) ([]Match, error) {
	if !q.HasText() {
		return nil, fmt.Errorf("%w: review search requires query text", domain.ErrInvalidQuery)
	}

	result, err := s.embedder.Embed(ctx, q.Text())
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := result.Embedding

	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	matches := make([]Match, 0, len(reviews))
	for i := range reviews {
		rv := &reviews[i]
		if !rv.HasEmbedding() {
			continue
		}
		if verifiedOnly && !rv.Verified() {
			continue
		}

		score, err := vector.Cosine(queryVec, rv.Embedding())
		if err != nil {
			s.logger.Warn("Skipping review with incompatible embedding",
				zap.String("item_id", rv.ItemID()),
				zap.Error(err))
			continue
		}
		if score < q.MinScore() {
			continue
		}

		matches = append(matches, Match{Review: *rv, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Review.ItemID() != matches[j].Review.ItemID() {
			return matches[i].Review.ItemID() < matches[j].Review.ItemID()
		}
		return matches[i].Review.Author() < matches[j].Review.Author()
	})

	if len(matches) > q.Limit() {
		matches = matches[:q.Limit()]
	}

	return matches, nil
}

func (s *Service) selectHighlights(reviews []catalog.Review, queryVec []float32) []Highlight {
	type scored struct {
		review *catalog.Review
		sim    float64
	}

	ranked := make([]scored, 0, len(reviews))
	for i := range reviews {
		rv := &reviews[i]
		sim := 0.0
		if queryVec != nil && rv.HasEmbedding() {
			v, err := vector.Cosine(queryVec, rv.Embedding())
			if err != nil {
				s.logger.Warn("Review embedding incompatible with query",
					zap.String("item_id", rv.ItemID()),
					zap.Error(err))
			} else {
				sim = v
			}
		}
		ranked = append(ranked, scored{review: rv, sim: sim})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if queryVec != nil && ranked[i].sim != ranked[j].sim {
			return ranked[i].sim > ranked[j].sim
		}
		if ranked[i].review.Verified() != ranked[j].review.Verified() {
			return ranked[i].review.Verified()
		}
		if ranked[i].review.Rating() != ranked[j].review.Rating() {
			return ranked[i].review.Rating() > ranked[j].review.Rating()
		}
		return ranked[i].review.Author() < ranked[j].review.Author()
	})

	if len(ranked) > s.maxReviews {
		ranked = ranked[:s.maxReviews]
	}

	highlights := make([]Highlight, 0, len(ranked))
	for _, sc := range ranked {
		highlights = append(highlights, Highlight{
			Author:     sc.review.Author(),
			Rating:     sc.review.Rating(),
			Title:      sc.review.Title(),
			Body:       sc.review.Body(),
			Pros:       capPhrases(sc.review.Pros()),
			Cons:       capPhrases(sc.review.Cons()),
			Verified:   sc.review.Verified(),
			Similarity: sc.sim,
		})
	}
	return highlights
}

func capPhrases(phrases []string) []string {
	if len(phrases) > maxListedPhrases {
		return phrases[:maxListedPhrases]
	}
	return phrases
}
