// Package narrative turns scenario comparisons into model-written analyses,
// cached by the content hash of the diff payload.
package narrative

import (
	"context"
	"encoding/json"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/delphienergia/capex-backend/internal/capex"
	"github.com/delphienergia/capex-backend/internal/compare"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
	"github.com/delphienergia/capex-backend/pkg/logger"
	"github.com/delphienergia/capex-backend/pkg/metrics"
)

// Generator produces a JSON document for a prompt. Satisfied by the Gemini
// client.
type Generator interface {
	GenerateJSON(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// Cache stores rendered analyses keyed by diff hash. Satisfied by the
// Redis client.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	NarrativeKey(hash string) string
}

// Service orchestrates diff hashing, cache lookups and model calls.
type Service struct {
	generator Generator
	cache     Cache
	ttl       time.Duration
	metrics   *metrics.NarrativeMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the narrative pipeline. metrics may be nil.
func NewService(generator Generator, cache Cache, ttl time.Duration, narrativeMetrics *metrics.NarrativeMetrics, logg *logger.Logger) *Service {
	return &Service{
		generator: generator,
		cache:     cache,
		ttl:       ttl,
		metrics:   narrativeMetrics,
		logg:      logg,
		now:       time.Now,
	}
}

type cacheEnvelope struct {
	Hash      string   `json:"hash"`
	Timestamp string   `json:"timestamp"`
	Analysis  Analysis `json:"analysis"`
}

// Analyze compares two scenarios and returns the narrative for the result.
// The diff pack is computed locally and never fails; only the model call
// can error. When force is set the cache read is skipped but the fresh
// result is still written back.
func (s *Service) Analyze(ctx context.Context, scenarioA capex.Scenario, summaryA capex.Summary, scenarioB capex.Scenario, summaryB capex.Summary, thresholds compare.Thresholds, force bool) (*Result, error) {
	pack := compare.BuildDiffPack(scenarioA, summaryA, scenarioB, summaryB, thresholds)
	return s.AnalyzePack(ctx, pack, force)
}

// AnalyzePack runs the narrative flow for an already-built diff pack.
func (s *Service) AnalyzePack(ctx context.Context, pack compare.DiffPack, force bool) (*Result, error) {
	hash, err := compare.Hash(pack)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing diff pack")
	}

	ctx = s.logg.WithField(ctx, "diff_hash", hash)
	key := s.cache.NarrativeKey(hash)

	if !force {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
			var envelope cacheEnvelope
			if err := json.Unmarshal([]byte(cached), &envelope); err == nil {
				s.metrics.IncCacheHit()
				return &Result{
					Hash:      hash,
					FromCache: true,
					Timestamp: envelope.Timestamp,
					Analysis:  envelope.Analysis,
				}, nil
			}
			s.logg.Warn(ctx, "discarding unreadable cached narrative")
		}
	}
	s.metrics.IncCacheMiss()

	prompt, err := buildPrompt(pack)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering narrative prompt")
	}

	started := s.now()
	raw, err := s.generator.GenerateJSON(ctx, systemPrompt, prompt)
	s.metrics.ObserveGeneration(s.now().Sub(started))
	if err != nil {
		s.metrics.IncGenerationFailure()
		return nil, err
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		s.metrics.IncGenerationFailure()
		return nil, err
	}

	envelope := cacheEnvelope{
		Hash:      hash,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Analysis:  analysis,
	}
	if payload, err := json.Marshal(envelope); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
			// A cache write failure only costs a regeneration later.
			s.logg.Warn(ctx, "failed to cache narrative")
		}
	}

	return &Result{
		Hash:      hash,
		Timestamp: envelope.Timestamp,
		Analysis:  analysis,
	}, nil
}

// parseAnalysis repairs and decodes the model output. Models wrap JSON in
// markdown fences or drop commas often enough that a repair pass runs
// before decoding.
func parseAnalysis(raw string) (Analysis, error) {
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return Analysis{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "repairing model response")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(repaired), &analysis); err != nil {
		return Analysis{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding model response")
	}

	if analysis.ExecutiveSummary == nil {
		analysis.ExecutiveSummary = []string{}
	}
	if analysis.MainDrivers == nil {
		analysis.MainDrivers = []Driver{}
	}
	if analysis.RootCauses == nil {
		analysis.RootCauses = []RootCause{}
	}
	if analysis.RedFlags == nil {
		analysis.RedFlags = []RedFlag{}
	}
	if analysis.RecommendedActions == nil {
		analysis.RecommendedActions = []RecommendedAction{}
	}
	if analysis.QuestionsToValidate == nil {
		analysis.QuestionsToValidate = []string{}
	}
	return analysis, nil
}
