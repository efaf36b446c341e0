// Package answer composes retrieval, fusion, evidence aggregation, and
// generation into the question answering pipeline.
package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/domain"
	"github.com/askora-ai/askora/internal/domain/search/candidate"
	"github.com/askora-ai/askora/internal/domain/search/query"
	"github.com/askora-ai/askora/internal/metrics"
	"github.com/askora-ai/askora/internal/usecase/fusion"
	"github.com/askora-ai/askora/internal/usecase/reviewintel"
)

// Metadata describes how a result was produced.
type Metadata struct {
	TextCount  int
	ImageCount int
	FusedCount int
	ModesUsed  []string
	Generated  bool
}

// Result is the assembled answer with its supporting candidates.
type Result struct {
	Answer     string
	Context    string
	Candidates []candidate.Candidate
	Evidence   map[string][]reviewintel.Highlight
	Metadata   Metadata
}

// Service runs the answer pipeline.
type Service struct {
	text      TextSearcher
	image     ImageSearcher
	evidence  EvidenceProvider
	generator domain.Generator
	logger    *zap.Logger
}

// New creates the answer pipeline service.
func New(
	text TextSearcher,
	image ImageSearcher,
	evidence EvidenceProvider,
	generator domain.Generator,
	logger *zap.Logger,
) *Service {
	return &Service{
		text:      text,
		image:     image,
		evidence:  evidence,
		generator: generator,
		logger:    logger,
	}
}

// Answer runs retrieval across both modalities, fuses the results, gathers
// review evidence, and generates a grounded answer. A single failing modality
// degrades the result rather than failing the request; only when every
// applicable modality fails does the call return an error. A generation
// failure falls back to a templated summary built from the retrieved
// candidates.
func (s *Service) Answer(ctx context.Context, q query.Query) (Result, error) {
	var (
		textCands  []candidate.Candidate
		imageCands []candidate.Candidate
		modesUsed  []string
		lastErr    error
	)

	if q.HasText() {
		cands, err := s.text.Search(ctx, q)
		if err != nil {
			s.logger.Warn("Text retrieval degraded", zap.Error(err))
			metrics.RetrievalRequestsTotal.WithLabelValues("text", "degraded").Inc()
			lastErr = err
		} else {
			textCands = cands
			modesUsed = append(modesUsed, "text")
		}
	}

	// The shared space accepts both query forms, so image retrieval runs for
	// text-only requests too.
	cands, err := s.image.Search(ctx, q)
	if err != nil {
		s.logger.Warn("Image retrieval degraded", zap.Error(err))
		metrics.RetrievalRequestsTotal.WithLabelValues("image", "degraded").Inc()
		lastErr = err
	} else {
		imageCands = cands
		modesUsed = append(modesUsed, "image")
	}

	if len(modesUsed) == 0 {
		return Result{}, fmt.Errorf("all retrieval modes failed: %w", lastErr)
	}

	fused := fusion.Fuse(textCands, imageCands, q.Limit())

	evidence, err := s.evidence.Collect(ctx, q.Text(), fused)
	if err != nil {
		// Evidence is an enrichment; the answer still stands on the candidates.
		s.logger.Warn("Review evidence unavailable", zap.Error(err))
		evidence = nil
	}

	assembled := assembleContext(q, fused, evidence)

	result := Result{
		Context:    assembled,
		Candidates: fused,
		Evidence:   evidence,
		Metadata: Metadata{
			TextCount:  len(textCands),
			ImageCount: len(imageCands),
			FusedCount: len(fused),
			ModesUsed:  modesUsed,
		},
	}

	answer, err := s.generator.Generate(ctx, assembled, q.Text())
	if err != nil {
		s.logger.Warn("Generation failed, serving templated fallback", zap.Error(err))
		metrics.GenerationRequestsTotal.WithLabelValues("fallback").Inc()
		result.Answer = fallbackAnswer(q, fused, evidence)
		return result, nil
	}

	metrics.GenerationRequestsTotal.WithLabelValues("success").Inc()
	result.Answer = answer
	result.Metadata.Generated = true
	return result, nil
}
