// Package fusion merges text and image candidate lists into one cross-modal
// ranking. Fusion is a pure computation; it performs no I/O.
package fusion

import (
	"sort"

	"github.com/askora-ai/askora/internal/domain/search/candidate"
)

// Fuse merges the two candidate lists keyed by item ID. Items found by both
// modalities blend both scores; single-modality items are down-weighted. The
// text side contributes the raw semantic similarity, not the keyword-boosted
// hybrid. Output is ordered by fused score descending with item ID as the
// deterministic tie-break, truncated to limit.
func Fuse(text, image []candidate.Candidate, limit int) []candidate.Candidate {
	textByID := make(map[string]*candidate.Candidate, len(text))
	for i := range text {
		textByID[text[i].ID()] = &text[i]
	}
	imageByID := make(map[string]*candidate.Candidate, len(image))
	for i := range image {
		imageByID[image[i].ID()] = &image[i]
	}

	fused := make([]candidate.Candidate, 0, len(textByID)+len(imageByID))

	for id, tc := range textByID {
		t := tc.TextScore()
		if ic, ok := imageByID[id]; ok {
			i := ic.ImageScore()
			score := candidate.FusedTextWeight*t + candidate.FusedImageWeight*i
			fused = append(fused, candidate.Fused(tc.Item(), t, i, score))
			continue
		}
		fused = append(fused, candidate.Fused(tc.Item(), t, 0, candidate.TextOnlyWeight*t))
	}

	for id, ic := range imageByID {
		if _, ok := textByID[id]; ok {
			continue
		}
		i := ic.ImageScore()
		fused = append(fused, candidate.Fused(ic.Item(), 0, i, candidate.ImageOnlyWeight*i))
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].HybridScore() != fused[j].HybridScore() {
			return fused[i].HybridScore() > fused[j].HybridScore()
		}
		return fused[i].ID() < fused[j].ID()
	})

	if limit > 0 && len(fused) > limit {
		fused = fused[:limit]
	}

	return fused
}
