package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appcfg "github.com/modassist/core/internal/config"
	"github.com/modassist/core/internal/modules/processing/knowledge"
	"go.uber.org/zap"
)

// ErrMalformedOutput signals that the generator returned unparseable JSON
// twice in a row for the same request.
var ErrMalformedOutput = errors.New("malformed JSON from AI after retry")

// ErrKnowledgeUnavailable wraps a failed knowledge base load while retrieval
// is enabled.
var ErrKnowledgeUnavailable = errors.New("knowledge base unavailable")

const malformedRetryInstruction = "\n\nReturn ONLY a valid JSON object matching the schema. No prose, no markdown fences."

// Service runs the full comment pipeline: classify, retrieve, generate,
// enforce, render, lint, repair.
type Service struct {
	cfg       *appcfg.AppConfig
	log       *zap.Logger
	knowledge *knowledge.Service
	client    generationClient
}

// NewService wires the pipeline. A missing provider credential is not a
// startup failure; Analyze reports it per request.
func NewService(cfg *appcfg.AppConfig, log *zap.Logger, ks *knowledge.Service) *Service {
	s := &Service{cfg: cfg, log: log, knowledge: ks}
	if client, err := newProviderClient(cfg.AI); err == nil {
		s.client = client
	}
	return s
}

// Analyze turns one comment into the rendered moderation document. The
// generation is retried with corrective feedback while lint findings remain
// and repair budget is left; an exhausted budget yields the best-effort
// document with the remaining findings as warnings.
func (s *Service) Analyze(ctx context.Context, text, mode string) (*Result, error) {
	if s.client == nil {
		return nil, ErrNoProvider
	}

	category := Classify(text)

	var snippets []knowledge.Scored
	if s.cfg.RetrievalEnabled() {
		corpus, err := s.knowledge.Corpus()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKnowledgeUnavailable, err)
		}
		snippets = knowledge.Retrieve(text, corpus, s.cfg.RetrievalTopK)
	}

	base := composePrompt(text, category, snippets, s.cfg.ToneProfile, mode)
	req := base

	maxAttempts := 1 + s.cfg.MaxRepairAttempts

	var (
		analysis StructuredAnalysis
		doc      string
		findings []string
		attempts int
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		generated, err := s.generate(ctx, req)
		if err != nil {
			return nil, err
		}

		analysis = enforce(generated, category, text)
		doc = renderDocument(analysis)
		findings = lint(doc, analysis, category)
		attempts = attempt

		if len(findings) == 0 {
			break
		}

		s.log.Warn("lint findings on generated document",
			zap.Int("attempt", attempt),
			zap.Int("findings", len(findings)),
			zap.String("category", string(category)))

		if attempt < maxAttempts {
			req = repairRequest(base, analysis, findings)
		}
	}

	var warnings []string
	if len(findings) > 0 {
		warnings = findings
		s.log.Warn("repair budget exhausted, returning best-effort document",
			zap.Int("attempts", attempts),
			zap.Int("findings", len(findings)))
	}

	s.log.Info("comment analyzed",
		zap.String("category", string(category)),
		zap.Int("attempts", attempts),
		zap.Int("warnings", len(warnings)),
		zap.Int("snippets", len(snippets)))

	return &Result{
		Document: doc,
		Analysis: analysis,
		Category: category,
		Model:    s.client.Model(),
		Attempts: attempts,
		Warnings: warnings,
	}, nil
}

// generate performs one provider call. Malformed JSON is retried exactly
// once with a stricter instruction; provider errors are fatal for the
// attempt.
func (s *Service) generate(ctx context.Context, req GenerationRequest) (StructuredAnalysis, error) {
	raw, err := s.client.Complete(ctx, req.SystemPrompt, req.Prompt)
	if err != nil {
		return StructuredAnalysis{}, fmt.Errorf("generation failed: %w", err)
	}
	var analysis StructuredAnalysis
	if err := unmarshalAIJSON(raw, &analysis); err == nil {
		return analysis, nil
	}

	s.log.Warn("malformed JSON from generator, retrying once")

	raw, err = s.client.Complete(ctx, req.SystemPrompt, req.Prompt+malformedRetryInstruction)
	if err != nil {
		return StructuredAnalysis{}, fmt.Errorf("generation failed: %w", err)
	}
	var retried StructuredAnalysis
	if err := unmarshalAIJSON(raw, &retried); err != nil {
		return StructuredAnalysis{}, fmt.Errorf("%w: %s", ErrMalformedOutput, truncateText(strings.TrimSpace(raw), 120))
	}
	return retried, nil
}
