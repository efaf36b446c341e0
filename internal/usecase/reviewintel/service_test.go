package reviewintel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/domain"
	"github.com/askora-ai/askora/internal/domain/catalog"
	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
)

type mockReviews struct {
	byItem map[string][]catalog.Review
	all    []catalog.Review
	err    error
}

func (m *mockReviews) ListByItem(_ context.Context, itemID string) ([]catalog.Review, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byItem[itemID], nil
}

func (m *mockReviews) ListAll(_ context.Context) ([]catalog.Review, error) {
	return m.all, m.err
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func review(itemID, author string, rating int, verified bool, emb []float32) catalog.Review {
	return catalog.ReconstructReview(
		itemID, author, rating,
		"title by "+author, "body by "+author,
		[]string{"quiet", "cool", "light", "cheap"}, []string{"heavy"},
		verified, "en", emb,
	)
}

func cand(id string) candidate.Candidate {
	item := catalog.Reconstruct(
		id, "Widget "+id, "generic",
		catalog.NewBrand("Acme", "US"), "Gadgets",
		50, catalog.Available, 4.0, 5,
		nil, []float32{1}, nil,
	)
	return candidate.Fused(item, 0.8, 0, 0.56)
}

func TestCollect_RanksBySimilarity(t *testing.T) {
	reviews := &mockReviews{byItem: map[string][]catalog.Review{
		"p-1": {
			review("p-1", "far", 5, true, []float32{0, 1}),
			review("p-1", "near", 3, false, []float32{1, 0}),
		},
	}}
	svc := New(reviews, &mockEmbedder{vec: []float32{1, 0}}, 3, 0, zap.NewNop())

	got, err := svc.Collect(context.Background(), "quiet pad", []candidate.Candidate{cand("p-1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hl := got["p-1"]
	if len(hl) != 2 {
		t.Fatalf("expected 2 highlights, got %d", len(hl))
	}
	if hl[0].Author != "near" {
		t.Errorf("expected most similar review first, got %s", hl[0].Author)
	}
	if hl[0].Similarity < 0.99 {
		t.Errorf("unexpected similarity: %f", hl[0].Similarity)
	}
}

func TestCollect_CapsReviewsPerItem(t *testing.T) {
	var many []catalog.Review
	for i := 0; i < 6; i++ {
		many = append(many, review("p-1", fmt.Sprintf("a%d", i), 4, true, []float32{1, 0}))
	}
	reviews := &mockReviews{byItem: map[string][]catalog.Review{"p-1": many}}
	svc := New(reviews, &mockEmbedder{vec: []float32{1, 0}}, 3, 0, zap.NewNop())

	got, err := svc.Collect(context.Background(), "q", []candidate.Candidate{cand("p-1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got["p-1"]) != 3 {
		t.Errorf("expected 3 highlights, got %d", len(got["p-1"]))
	}
}

func TestCollect_CapsProsAndCons(t *testing.T) {
	reviews := &mockReviews{byItem: map[string][]catalog.Review{
		"p-1": {review("p-1", "a", 5, true, []float32{1, 0})},
	}}
	svc := New(reviews, &mockEmbedder{vec: []float32{1, 0}}, 3, 0, zap.NewNop())

	got, err := svc.Collect(context.Background(), "q", []candidate.Candidate{cand("p-1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got["p-1"][0].Pros) != 3 {
		t.Errorf("expected pros capped at 3, got %d", len(got["p-1"][0].Pros))
	}
}

func TestCollect_OnlyLeadingCandidates(t *testing.T) {
	byItem := map[string][]catalog.Review{}
	var cands []candidate.Candidate
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("p-%d", i)
		byItem[id] = []catalog.Review{review(id, "a", 4, true, []float32{1, 0})}
		cands = append(cands, cand(id))
	}
	svc := New(&mockReviews{byItem: byItem}, &mockEmbedder{vec: []float32{1, 0}}, 3, 0, zap.NewNop())

	got, err := svc.Collect(context.Background(), "q", cands)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != query.EvidenceCandidates {
		t.Errorf("expected evidence for %d items, got %d", query.EvidenceCandidates, len(got))
	}
	if _, ok := got["p-7"]; ok {
		t.Error("trailing candidate must not receive evidence")
	}
}

func TestCollect_NoTextRanksByRating(t *testing.T) {
	reviews := &mockReviews{byItem: map[string][]catalog.Review{
		"p-1": {
			review("p-1", "low", 2, true, []float32{1, 0}),
			review("p-1", "high", 5, true, []float32{0, 1}),
		},
	}}
	svc := New(reviews, &mockEmbedder{}, 3, 0, zap.NewNop())

	got, err := svc.Collect(context.Background(), "", []candidate.Candidate{cand("p-1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["p-1"][0].Author != "high" {
		t.Errorf("expected highest rating first without query text, got %s", got["p-1"][0].Author)
	}
}

func TestCollect_ItemWithoutReviewsOmitted(t *testing.T) {
	svc := New(&mockReviews{byItem: map[string][]catalog.Review{}}, &mockEmbedder{vec: []float32{1}}, 3, 0, zap.NewNop())

	got, err := svc.Collect(context.Background(), "q", []candidate.Candidate{cand("p-1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["p-1"]; ok {
		t.Error("item without reviews must be absent from evidence")
	}
}

func TestSearchReviews_FiltersAndRanks(t *testing.T) {
	reviews := &mockReviews{all: []catalog.Review{
		review("p-1", "match", 5, true, []float32{1, 0}),
		review("p-2", "weak", 4, true, []float32{0, 1}),
		review("p-3", "blind", 4, true, nil),
	}}
	svc := New(reviews, &mockEmbedder{vec: []float32{1, 0}}, 3, 0, zap.NewNop())

	q, err := query.New("quiet pad", nil, 10, 0, "", query.PriceRange{})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	got, err := svc.SearchReviews(context.Background(), q, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Review.Author() != "match" {
		t.Errorf("unexpected match: %s", got[0].Review.Author())
	}
}

func TestSearchReviews_VerifiedOnly(t *testing.T) {
	reviews := &mockReviews{all: []catalog.Review{
		review("p-1", "unverified", 5, false, []float32{1, 0}),
		review("p-2", "verified", 4, true, []float32{1, 0}),
	}}
	svc := New(reviews, &mockEmbedder{vec: []float32{1, 0}}, 3, 0, zap.NewNop())

	q, err := query.New("quiet pad", nil, 10, 0, "", query.PriceRange{})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	got, err := svc.SearchReviews(context.Background(), q, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Review.Author() != "verified" {
		t.Errorf("expected only the verified review, got %d matches", len(got))
	}
}

func TestSearchReviews_EmbedderError(t *testing.T) {
	svc := New(&mockReviews{}, &mockEmbedder{err: domain.ErrEncoderUnavailable}, 3, 0, zap.NewNop())

	q, err := query.New("q", nil, 10, 0, "", query.PriceRange{})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if _, err := svc.SearchReviews(context.Background(), q, false); !errors.Is(err, domain.ErrEncoderUnavailable) {
		t.Fatalf("expected encoder error to propagate, got %v", err)
	}
}
