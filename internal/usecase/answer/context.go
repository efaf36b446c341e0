package answer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
	"github.com/askora-ai/askora/internal/usecase/reviewintel"
)

const maxListedSpecs = 4

// assembleContext renders fused candidates and their review evidence into the
// generation prompt context. Scores render as whole percentages; at most four
// spec fields are listed per item, in key order for determinism.
func assembleContext(q query.Query, cands []candidate.Candidate, evidence map[string][]reviewintel.Highlight) string {
	var b strings.Builder

	if q.HasText() {
		fmt.Fprintf(&b, "Query: %s\n", q.Text())
	} else {
		b.WriteString("Query: (image)\n")
	}

	if len(cands) == 0 {
		b.WriteString("No matching products found in the catalog.\n")
		return b.String()
	}

	b.WriteString("Matching products:\n")
	for i := range cands {
		c := &cands[i]
		item := c.Item()

		fmt.Fprintf(&b, "\n%d. %s", i+1, item.Name())
		if item.Brand().Name() != "" {
			fmt.Fprintf(&b, " by %s", item.Brand().Name())
		}
		fmt.Fprintf(&b, " | $%.2f | %s | %s\n",
			item.Price(), item.Category(), item.Availability())
		fmt.Fprintf(&b, "   Rating: %.1f/5 (%d reviews)\n", item.Rating(), item.ReviewCount())
		fmt.Fprintf(&b, "   Match: %s\n", formatScores(c))

		if item.Description() != "" {
			fmt.Fprintf(&b, "   %s\n", item.Description())
		}
		if specs := formatSpecs(item.Specs()); specs != "" {
			fmt.Fprintf(&b, "   Specs: %s\n", specs)
		}

		for _, hl := range evidence[c.ID()] {
			writeHighlight(&b, hl)
		}
	}

	return b.String()
}

func formatScores(c *candidate.Candidate) string {
	parts := make([]string, 0, 3)
	if c.TextScore() > 0 {
		parts = append(parts, fmt.Sprintf("text %.0f%%", c.TextScore()*100))
	}
	if c.ImageScore() > 0 {
		parts = append(parts, fmt.Sprintf("image %.0f%%", c.ImageScore()*100))
	}
	parts = append(parts, fmt.Sprintf("overall %.0f%%", c.HybridScore()*100))
	return strings.Join(parts, ", ")
}

func formatSpecs(specs map[string]string) string {
	if len(specs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxListedSpecs {
		keys = keys[:maxListedSpecs]
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+specs[k])
	}
	return strings.Join(parts, ", ")
}

func writeHighlight(b *strings.Builder, hl reviewintel.Highlight) {
	fmt.Fprintf(b, "   Review (%d/5", hl.Rating)
	if hl.Verified {
		b.WriteString(", verified")
	}
	b.WriteString(")")
	if hl.Title != "" {
		fmt.Fprintf(b, " %q", hl.Title)
	}
	if hl.Body != "" {
		fmt.Fprintf(b, ": %s", hl.Body)
	}
	b.WriteString("\n")
	if len(hl.Pros) > 0 {
		fmt.Fprintf(b, "     Pros: %s\n", strings.Join(hl.Pros, ", "))
	}
	if len(hl.Cons) > 0 {
		fmt.Fprintf(b, "     Cons: %s\n", strings.Join(hl.Cons, ", "))
	}
}
