// Package query models a validated retrieval request.
package query

import (
	"fmt"
	"strings"

	"github.com/askora-ai/askora/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query text length.
	MaxQueryLength = 4096
	DefaultLimit   = 10
	MaxLimit       = 50
	// DefaultMinScore filters text candidates on their hybrid score.
	DefaultMinScore = 0.3
	// ImageMinScore is the fixed image similarity floor. Multimodal scores run
	// numerically lower than text-embedding scores, hence the lower bar.
	ImageMinScore      = 0.1
	DefaultMaxReviews  = 3
	EvidenceCandidates = 6
)

// PriceRange bounds item price; either bound may be nil.
type PriceRange struct {
	Min *float64
	Max *float64
}

// Contains reports whether price falls within the range.
func (p PriceRange) Contains(price float64) bool {
	if p.Min != nil && price < *p.Min {
		return false
	}
	if p.Max != nil && price > *p.Max {
		return false
	}
	return true
}

// IsEmpty reports whether no bound is set.
func (p PriceRange) IsEmpty() bool { return p.Min == nil && p.Max == nil }

// Query is a validated retrieval request. At least one of text or image must
// be present.
type Query struct {
	text     string
	image    []byte
	limit    int
	minScore float64
	category string
	price    PriceRange
}

// New validates and normalizes query parameters.
// Defaults: limit=10, minScore=0.3. An all-whitespace text counts as empty.
func New(
	text string, image []byte,
	limit int, minScore float64,
	category string, price PriceRange,
) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(image) == 0 {
		return Query{}, fmt.Errorf("%w: query text or image is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if minScore < 0 || minScore > 1 {
		return Query{}, fmt.Errorf("%w: min_score must be between 0 and 1", domain.ErrInvalidQuery)
	}
	if minScore == 0 {
		minScore = DefaultMinScore
	}
	if price.Min != nil && price.Max != nil && *price.Min > *price.Max {
		return Query{}, fmt.Errorf("%w: price range min exceeds max", domain.ErrInvalidQuery)
	}

	return Query{
		text:     text,
		image:    image,
		limit:    limit,
		minScore: minScore,
		category: category,
		price:    price,
	}, nil
}

// Text returns the query text ("" for image-only queries).
func (q *Query) Text() string { return q.text }

// Image returns the raw query image bytes (nil for text-only queries).
func (q *Query) Image() []byte { return q.image }

// HasText reports whether the query carries text.
func (q *Query) HasText() bool { return q.text != "" }

// HasImage reports whether the query carries an image.
func (q *Query) HasImage() bool { return len(q.image) > 0 }

// Limit returns the maximum results to return.
func (q *Query) Limit() int { return q.limit }

// MinScore returns the hybrid-score threshold for text retrieval.
func (q *Query) MinScore() float64 { return q.minScore }

// Category returns the category filter ("" = no filter).
func (q *Query) Category() string { return q.category }

// Price returns the price range filter.
func (q *Query) Price() PriceRange { return q.price }
