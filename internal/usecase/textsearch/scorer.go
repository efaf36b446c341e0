package textsearch

import (
	"strings"

	"github.com/askora-ai/askora/internal/domain/catalog"
)

// Hybrid score blend. The boost is additive on top of the weighted blend, so
// an exact name match can push the score past 1; ranking only compares scores,
// it never normalizes them.
const (
	semanticWeight = 0.6
	keywordWeight  = 0.3
	nameBoost      = 0.3
	categoryBoost  = 0.25
)

// keywordScore returns the fraction of query tokens found as substrings in the
// item's searchable text. Both sides are lower-cased; tokens are
// whitespace-split.
func keywordScore(queryLower string, item *catalog.Item) float64 {
	tokens := strings.Fields(queryLower)
	if len(tokens) == 0 {
		return 0
	}

	haystack := strings.ToLower(
		item.Name() + " " + item.Description() + " " + item.Category() + " " + item.Brand().Name(),
	)

	matched := 0
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}

// exactBoost returns the additive exact-match bonus. A whole-query substring
// match in the name outranks one in the category; the two do not stack.
func exactBoost(queryLower string, item *catalog.Item) float64 {
	if strings.Contains(strings.ToLower(item.Name()), queryLower) {
		return nameBoost
	}
	if strings.Contains(strings.ToLower(item.Category()), queryLower) {
		return categoryBoost
	}
	return 0
}

// hybridScore blends semantic similarity with keyword overlap and the
// exact-match boost.
func hybridScore(semantic, keyword, boost float64) float64 {
	return semanticWeight*semantic + keywordWeight*keyword + boost
}
