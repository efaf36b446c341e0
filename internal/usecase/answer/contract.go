package answer

import (
	"context"

	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
	"github.com/askora-ai/askora/internal/usecase/reviewintel"
)

// TextSearcher retrieves text-modality candidates.
type TextSearcher interface {
	Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error)
}

// ImageSearcher retrieves shared-space candidates.
type ImageSearcher interface {
	Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error)
}

// EvidenceProvider collects review highlights for fused candidates.
type EvidenceProvider interface {
	Collect(ctx context.Context, queryText string, cands []candidate.Candidate) (map[string][]reviewintel.Highlight, error)
}
