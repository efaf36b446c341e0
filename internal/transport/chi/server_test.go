package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/domain"
	"github.com/askora-ai/askora/internal/domain/catalog"
	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
	"github.com/askora-ai/askora/internal/usecase/answer"
	"github.com/askora-ai/askora/internal/usecase/health"
	"github.com/askora-ai/askora/internal/usecase/reviewintel"
)

type mockAnswerer struct {
	result answer.Result
	err    error
	gotQ   query.Query
}

func (m *mockAnswerer) Answer(_ context.Context, q query.Query) (answer.Result, error) {
	m.gotQ = q
	return m.result, m.err
}

type mockSearcher struct {
	cands []candidate.Candidate
	err   error
}

func (m *mockSearcher) Search(_ context.Context, _ query.Query) ([]candidate.Candidate, error) {
	return m.cands, m.err
}

type mockReviewSearcher struct {
	matches []reviewintel.Match
	err     error
}

func (m *mockReviewSearcher) SearchReviews(_ context.Context, _ query.Query, _ bool) ([]reviewintel.Match, error) {
	return m.matches, m.err
}

type mockHealth struct{ report health.Report }

func (m *mockHealth) Check(_ context.Context) health.Report { return m.report }

func testCandidate() candidate.Candidate {
	item := catalog.Reconstruct(
		"p-1", "CoolAir 15", "quiet pad",
		catalog.NewBrand("Acme", "US"), "Cooling",
		39.99, catalog.Available, 4.2, 17,
		nil, []float32{1}, []float32{1},
	)
	return candidate.Fused(item, 0.82, 0.55, 0.592)
}

func newTestServer(
	answerer *mockAnswerer,
	text, image *mockSearcher,
	reviews *mockReviewSearcher,
	apiKeys []string,
) *Server {
	h := &mockHealth{report: health.Report{"storage": {Healthy: true}}}
	return NewServer(answerer, text, image, reviews, h, apiKeys, zap.NewNop())
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleAnswer(t *testing.T) {
	answerer := &mockAnswerer{result: answer.Result{
		Answer:     "The CoolAir 15 fits best.",
		Candidates: []candidate.Candidate{testCandidate()},
		Metadata:   answer.Metadata{TextCount: 1, FusedCount: 1, ModesUsed: []string{"text"}, Generated: true},
	}}
	s := newTestServer(answerer, &mockSearcher{}, &mockSearcher{}, &mockReviewSearcher{}, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/answer", `{"query": "quiet cooling pad"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp answerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer == "" || len(resp.Candidates) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Candidates[0].ID != "p-1" || resp.Candidates[0].Score != 0.592 {
		t.Errorf("unexpected candidate: %+v", resp.Candidates[0])
	}
	if !resp.Metadata.Generated {
		t.Error("expected generated metadata")
	}
	if answerer.gotQ.Text() != "quiet cooling pad" {
		t.Errorf("query not passed through: %q", answerer.gotQ.Text())
	}
}

func TestHandleAnswer_EmptyQuery(t *testing.T) {
	s := newTestServer(&mockAnswerer{}, &mockSearcher{}, &mockSearcher{}, &mockReviewSearcher{}, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/answer", `{"query": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != codeInvalidQuery {
		t.Errorf("expected %s, got %s", codeInvalidQuery, resp.Code)
	}
}

func TestHandleAnswer_InvalidBase64(t *testing.T) {
	s := newTestServer(&mockAnswerer{}, &mockSearcher{}, &mockSearcher{}, &mockReviewSearcher{}, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/answer", `{"image_base64": "%%%"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleAnswer_EncoderDown(t *testing.T) {
	answerer := &mockAnswerer{err: domain.ErrEncoderUnavailable}
	s := newTestServer(answerer, &mockSearcher{}, &mockSearcher{}, &mockReviewSearcher{}, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/answer", `{"query": "q"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != codeEncoderUnavailable {
		t.Errorf("expected %s, got %s", codeEncoderUnavailable, resp.Code)
	}
}

func TestHandleSearchText(t *testing.T) {
	text := &mockSearcher{cands: []candidate.Candidate{testCandidate()}}
	s := newTestServer(&mockAnswerer{}, text, &mockSearcher{}, &mockReviewSearcher{}, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/search/text", `{"query": "quiet pad"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].Name != "CoolAir 15" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleSearchText_NoEmbeddingsOnWire(t *testing.T) {
	text := &mockSearcher{cands: []candidate.Candidate{testCandidate()}}
	s := newTestServer(&mockAnswerer{}, text, &mockSearcher{}, &mockReviewSearcher{}, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/search/text", `{"query": "quiet pad"}`)
	if strings.Contains(rec.Body.String(), "embedding") {
		t.Errorf("embeddings must never leave the service: %s", rec.Body.String())
	}
}

func TestHandleSearchText_MalformedBody(t *testing.T) {
	s := newTestServer(&mockAnswerer{}, &mockSearcher{}, &mockSearcher{}, &mockReviewSearcher{}, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/search/text", `{broken`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSearchReviews(t *testing.T) {
	rv := catalog.ReconstructReview(
		"p-1", "ana", 5, "Great", "quiet under load",
		nil, nil, true, "en", []float32{1},
	)
	reviews := &mockReviewSearcher{matches: []reviewintel.Match{{Review: rv, Score: 0.91}}}
	s := newTestServer(&mockAnswerer{}, &mockSearcher{}, &mockSearcher{}, reviews, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/search/reviews", `{"query": "quiet", "verified_only": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp reviewSearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].Author != "ana" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&mockAnswerer{}, &mockSearcher{}, &mockSearcher{}, &mockReviewSearcher{}, nil)

	rec := doRequest(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleHealth_Unhealthy(t *testing.T) {
	h := &mockHealth{report: health.Report{"storage": {Healthy: false, Error: "down"}}}
	s := NewServer(&mockAnswerer{}, &mockSearcher{}, &mockSearcher{}, &mockReviewSearcher{}, h, nil, zap.NewNop())

	rec := doRequest(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
