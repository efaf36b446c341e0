// Package candidate models retrieval-time scored items. Candidates exist only
// between retrieval and context assembly; they are never persisted.
package candidate

import "github.com/askora-ai/askora/internal/domain/catalog"

// Fusion weights. Items found by both modalities get a materially different
// blend than single-modality hits: agreement between independent signals
// carries more confidence than strength in one.
const (
	TextOnlyWeight   = 0.7
	FusedTextWeight  = 0.6
	FusedImageWeight = 0.4
	ImageOnlyWeight  = 0.4
)

// Candidate wraps an item with per-retrieval-path scores. Identity key is the
// item identifier.
type Candidate struct {
	item         catalog.Item
	textScore    float64
	imageScore   float64
	hybridScore  float64
	keywordScore float64
	exactBoost   float64
}

// FromText creates a text-retrieval candidate. textScore holds the raw
// semantic similarity; hybridScore holds the keyword-boosted blend used for
// threshold filtering and single-list ranking.
func FromText(item catalog.Item, semantic, keyword, boost, hybrid float64) Candidate {
	return Candidate{
		item:         item,
		textScore:    semantic,
		hybridScore:  hybrid,
		keywordScore: keyword,
		exactBoost:   boost,
	}
}

// FromImage creates an image-retrieval candidate.
func FromImage(item catalog.Item, score float64) Candidate {
	return Candidate{item: item, imageScore: score, hybridScore: score}
}

// Fused rebuilds a candidate with cross-modal scores assigned by the fusion
// engine.
func Fused(item catalog.Item, textScore, imageScore, hybridScore float64) Candidate {
	return Candidate{
		item:        item,
		textScore:   textScore,
		imageScore:  imageScore,
		hybridScore: hybridScore,
	}
}

// Item returns the wrapped catalog item.
func (c *Candidate) Item() catalog.Item { return c.item }

// ID returns the item identifier (the fusion identity key).
func (c *Candidate) ID() string { return c.item.ID() }

// TextScore returns the semantic text similarity (0 if absent from text results).
func (c *Candidate) TextScore() float64 { return c.textScore }

// ImageScore returns the image similarity (0 if absent from image results).
func (c *Candidate) ImageScore() float64 { return c.imageScore }

// HybridScore returns the blended ranking score.
func (c *Candidate) HybridScore() float64 { return c.hybridScore }

// KeywordScore returns the keyword-overlap component (text retrieval only).
func (c *Candidate) KeywordScore() float64 { return c.keywordScore }

// ExactBoost returns the exact-match boost component (text retrieval only).
func (c *Candidate) ExactBoost() float64 { return c.exactBoost }
