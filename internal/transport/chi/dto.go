package chi

import (
	"encoding/base64"
	"fmt"

	"github.com/askora-ai/askora/internal/domain"
	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
	"github.com/askora-ai/askora/internal/usecase/answer"
	"github.com/askora-ai/askora/internal/usecase/reviewintel"
)

// searchRequest is the shared request body for answer and search endpoints.
// The image travels base64-encoded; embeddings never appear on the wire.
type searchRequest struct {
	Query        string   `json:"query,omitempty"`
	ImageBase64  string   `json:"image_base64,omitempty"`
	Limit        int      `json:"limit,omitempty"`
	MinScore     float64  `json:"min_score,omitempty"`
	Category     string   `json:"category,omitempty"`
	PriceMin     *float64 `json:"price_min,omitempty"`
	PriceMax     *float64 `json:"price_max,omitempty"`
	VerifiedOnly bool     `json:"verified_only,omitempty"`
}

func (r *searchRequest) toQuery() (query.Query, error) {
	var image []byte
	if r.ImageBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(r.ImageBase64)
		if err != nil {
			return query.Query{}, fmt.Errorf("%w: image_base64 is not valid base64", domain.ErrInvalidQuery)
		}
		image = decoded
	}

	return query.New(
		r.Query, image,
		r.Limit, r.MinScore,
		r.Category,
		query.PriceRange{Min: r.PriceMin, Max: r.PriceMax},
	)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type candidateResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand,omitempty"`
	Category     string  `json:"category,omitempty"`
	PriceUSD     float64 `json:"price_usd"`
	Availability string  `json:"availability"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"review_count"`
	TextScore    float64 `json:"text_score,omitempty"`
	ImageScore   float64 `json:"image_score,omitempty"`
	Score        float64 `json:"score"`
}

func candidateToResponse(c *candidate.Candidate) candidateResponse {
	item := c.Item()
	return candidateResponse{
		ID:           item.ID(),
		Name:         item.Name(),
		Brand:        item.Brand().Name(),
		Category:     item.Category(),
		PriceUSD:     item.Price(),
		Availability: string(item.Availability()),
		Rating:       item.Rating(),
		ReviewCount:  item.ReviewCount(),
		TextScore:    c.TextScore(),
		ImageScore:   c.ImageScore(),
		Score:        c.HybridScore(),
	}
}

func candidatesToResponse(cands []candidate.Candidate) []candidateResponse {
	out := make([]candidateResponse, len(cands))
	for i := range cands {
		out[i] = candidateToResponse(&cands[i])
	}
	return out
}

type searchResponse struct {
	Items []candidateResponse `json:"items"`
	Total int                 `json:"total"`
}

type answerMetadata struct {
	TextCount  int      `json:"text_count"`
	ImageCount int      `json:"image_count"`
	FusedCount int      `json:"fused_count"`
	ModesUsed  []string `json:"modes_used"`
	Generated  bool     `json:"generated"`
}

type answerResponse struct {
	Answer     string              `json:"answer"`
	Candidates []candidateResponse `json:"candidates"`
	Metadata   answerMetadata      `json:"metadata"`
}

func answerToResponse(res answer.Result) answerResponse {
	return answerResponse{
		Answer:     res.Answer,
		Candidates: candidatesToResponse(res.Candidates),
		Metadata: answerMetadata{
			TextCount:  res.Metadata.TextCount,
			ImageCount: res.Metadata.ImageCount,
			FusedCount: res.Metadata.FusedCount,
			ModesUsed:  res.Metadata.ModesUsed,
			Generated:  res.Metadata.Generated,
		},
	}
}

type reviewMatchResponse struct {
	ItemID   string  `json:"item_id"`
	Author   string  `json:"author"`
	Rating   int     `json:"rating"`
	Title    string  `json:"title,omitempty"`
	Body     string  `json:"body,omitempty"`
	Verified bool    `json:"verified"`
	Score    float64 `json:"score"`
}

func reviewMatchesToResponse(matches []reviewintel.Match) []reviewMatchResponse {
	out := make([]reviewMatchResponse, len(matches))
	for i := range matches {
		rv := &matches[i].Review
		out[i] = reviewMatchResponse{
			ItemID:   rv.ItemID(),
			Author:   rv.Author(),
			Rating:   rv.Rating(),
			Title:    rv.Title(),
			Body:     rv.Body(),
			Verified: rv.Verified(),
			Score:    matches[i].Score,
		}
	}
	return out
}

type reviewSearchResponse struct {
	Items []reviewMatchResponse `json:"items"`
	Total int                   `json:"total"`
}
