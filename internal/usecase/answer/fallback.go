package answer

import (
	"fmt"
	"strings"

	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
	"github.com/askora-ai/askora/internal/usecase/reviewintel"
)

const (
	fallbackCandidates = 3
	maxListedPros      = 3
)

// fallbackAnswer builds a templated summary when generation is unavailable.
// It lists the leading candidates with their match percentage and, where
// review evidence exists, the advantages reviewers mentioned.
func fallbackAnswer(q query.Query, cands []candidate.Candidate, evidence map[string][]reviewintel.Highlight) string {
	var b strings.Builder

	if len(cands) == 0 {
		b.WriteString("No products in the catalog matched the query.")
		return b.String()
	}

	if q.HasText() {
		fmt.Fprintf(&b, "Top matches for %q:\n", q.Text())
	} else {
		b.WriteString("Top matches for the provided image:\n")
	}

	shown := cands
	if len(shown) > fallbackCandidates {
		shown = shown[:fallbackCandidates]
	}

	for i := range shown {
		c := &shown[i]
		item := c.Item()
		fmt.Fprintf(&b, "%d. %s ($%.2f, %.0f%% match)", i+1, item.Name(), item.Price(), c.HybridScore()*100)
		if pros := collectPros(evidence[c.ID()]); len(pros) > 0 {
			fmt.Fprintf(&b, " | Reviewers liked: %s", strings.Join(pros, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("A detailed comparison is temporarily unavailable.")
	return b.String()
}

// collectPros gathers distinct pros across an item's highlights, capped to
// keep the summary one line per product.
func collectPros(highlights []reviewintel.Highlight) []string {
	seen := make(map[string]bool)
	var pros []string
	for _, hl := range highlights {
		for _, p := range hl.Pros {
			if seen[p] || len(pros) >= maxListedPros {
				continue
			}
			seen[p] = true
			pros = append(pros, p)
		}
	}
	return pros
}
