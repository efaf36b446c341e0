package imagesearch

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/domain"
	"github.com/askora-ai/askora/internal/domain/catalog"
	"github.com/askora-ai/askora/internal/domain/search/query"
)

type mockItems struct {
	items []catalog.Item
	err   error
}

func (m *mockItems) ListItems(_ context.Context) ([]catalog.Item, error) {
	return m.items, m.err
}

type mockTextEncoder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockTextEncoder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockImageEncoder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockImageEncoder) EmbedImage(_ context.Context, _ []byte) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func item(id string, imageEmb []float32) catalog.Item {
	return catalog.Reconstruct(
		id, "Widget", "generic",
		catalog.NewBrand("Acme", "US"), "Gadgets",
		50, catalog.Available, 4.0, 5,
		nil, nil, imageEmb,
	)
}

func textQuery(t *testing.T, limit int) query.Query {
	t.Helper()
	q, err := query.New("red backpack", nil, limit, 0, "", query.PriceRange{})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	return q
}

func imageQuery(t *testing.T) query.Query {
	t.Helper()
	q, err := query.New("", []byte{0xFF, 0xD8}, 10, 0, "", query.PriceRange{})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	return q
}

func TestSearch_TextQueryUsesTextTower(t *testing.T) {
	text := &mockTextEncoder{vec: []float32{1, 0}}
	img := &mockImageEncoder{vec: []float32{0, 1}}
	items := &mockItems{items: []catalog.Item{item("p-1", []float32{1, 0})}}
	svc := New(items, text, img, zap.NewNop())

	got, err := svc.Search(context.Background(), textQuery(t, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text.calls != 1 || img.calls != 0 {
		t.Errorf("expected text tower only, got text=%d image=%d", text.calls, img.calls)
	}
	if len(got) != 1 || got[0].ImageScore() < 0.99 {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestSearch_ImageQueryUsesImageTower(t *testing.T) {
	text := &mockTextEncoder{vec: []float32{0, 1}}
	img := &mockImageEncoder{vec: []float32{1, 0}}
	items := &mockItems{items: []catalog.Item{item("p-1", []float32{1, 0})}}
	svc := New(items, text, img, zap.NewNop())

	got, err := svc.Search(context.Background(), imageQuery(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.calls != 1 || text.calls != 0 {
		t.Errorf("expected image tower only, got text=%d image=%d", text.calls, img.calls)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
}

func TestSearch_FixedFloorFiltersWeakMatches(t *testing.T) {
	// Cosine 0.05 sits below the fixed 0.1 image floor.
	text := &mockTextEncoder{vec: []float32{1, 0}}
	items := &mockItems{items: []catalog.Item{
		item("p-weak", []float32{0.05, 0.99875}),
		item("p-strong", []float32{1, 0}),
	}}
	svc := New(items, text, &mockImageEncoder{}, zap.NewNop())

	got, err := svc.Search(context.Background(), textQuery(t, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "p-strong" {
		t.Errorf("expected weak match excluded, got %v", got)
	}
}

func TestSearch_SkipsItemsWithoutImageEmbedding(t *testing.T) {
	text := &mockTextEncoder{vec: []float32{1, 0}}
	items := &mockItems{items: []catalog.Item{
		item("p-blind", nil),
		item("p-ok", []float32{1, 0}),
	}}
	svc := New(items, text, &mockImageEncoder{}, zap.NewNop())

	got, err := svc.Search(context.Background(), textQuery(t, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "p-ok" {
		t.Errorf("expected only the embedded item, got %v", got)
	}
}

func TestSearch_SkipsDimensionMismatch(t *testing.T) {
	text := &mockTextEncoder{vec: []float32{1, 0}}
	items := &mockItems{items: []catalog.Item{
		item("p-bad", []float32{1, 0, 0}),
		item("p-ok", []float32{1, 0}),
	}}
	svc := New(items, text, &mockImageEncoder{}, zap.NewNop())

	got, err := svc.Search(context.Background(), textQuery(t, 10))
	if err != nil {
		t.Fatalf("mismatched item must be skipped, not fatal: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "p-ok" {
		t.Errorf("expected only the compatible item, got %v", got)
	}
}

func TestSearch_DeterministicTieBreak(t *testing.T) {
	text := &mockTextEncoder{vec: []float32{1, 0}}
	items := &mockItems{items: []catalog.Item{
		item("p-b", []float32{1, 0}),
		item("p-a", []float32{1, 0}),
	}}
	svc := New(items, text, &mockImageEncoder{}, zap.NewNop())

	got, err := svc.Search(context.Background(), textQuery(t, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].ID() != "p-a" {
		t.Errorf("expected lexicographically smaller ID first, got %s", got[0].ID())
	}
}

func TestSearch_EmptyCorpus(t *testing.T) {
	svc := New(&mockItems{}, &mockTextEncoder{vec: []float32{1}}, &mockImageEncoder{}, zap.NewNop())

	got, err := svc.Search(context.Background(), textQuery(t, 10))
	if err != nil {
		t.Fatalf("empty corpus must not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestSearch_EncoderError(t *testing.T) {
	svc := New(&mockItems{}, &mockTextEncoder{err: domain.ErrEncoderUnavailable}, &mockImageEncoder{}, zap.NewNop())

	_, err := svc.Search(context.Background(), textQuery(t, 10))
	if !errors.Is(err, domain.ErrEncoderUnavailable) {
		t.Fatalf("expected encoder error to propagate, got %v", err)
	}
}
