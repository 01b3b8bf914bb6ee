//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

// Package metric provides the judge-model-backed quality metrics.
package metric

import (
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/rageval/judge"
	"trpc.group/trpc-go/rageval/pipeline"
)

// Metric name constants.
const (
	MetricFaithfulness     = "faithfulness"
	MetricAnswerRelevancy  = "answer_relevancy"
	MetricContextPrecision = "context_precision"
	MetricContextRecall    = "context_recall"
)

// AllMetrics returns the names of every supported metric.
func AllMetrics() []string {
	return []string{
		MetricFaithfulness,
		MetricAnswerRelevancy,
		MetricContextPrecision,
		MetricContextRecall,
	}
}

// IsValidMetric reports whether name is a supported metric name.
func IsValidMetric(name string) bool {
	switch name {
	case MetricFaithfulness, MetricAnswerRelevancy, MetricContextPrecision, MetricContextRecall:
		return true
	default:
		return false
	}
}

// Input carries one item's pipeline outputs into the scorers.
// Each scorer reads its own copy of the fields and never mutates them.
type Input struct {
	// Question is the original user question.
	Question string
	// Answer is the generated answer under evaluation.
	Answer string
	// GroundTruth is the reference answer text.
	GroundTruth string
	// GroundTruthChunks lists chunk IDs that should have been retrieved.
	GroundTruthChunks []string
	// Chunks is the retrieved context in rank order.
	Chunks []pipeline.RetrievedChunk
}

// Scores holds the metric scores for one item, each in [0,1].
type Scores struct {
	// Faithfulness is the fraction of answer claims supported by the context.
	Faithfulness float64 `json:"faithfulness"`
	// AnswerRelevancy is how directly and completely the answer addresses the question.
	AnswerRelevancy float64 `json:"answerRelevancy"`
	// ContextPrecision is the rank-weighted fraction of relevant retrieved chunks.
	ContextPrecision float64 `json:"contextPrecision"`
	// ContextRecall is nil when recall was not requested.
	ContextRecall *float64 `json:"contextRecall,omitempty"`
}

// FailureDefaults is the per-metric score recorded when a scorer fails outright.
// The 0.5 defaults for relevancy and heuristic recall signal "unknown" rather
// than "bad"; faithfulness and precision reach 0 through their own mechanics.
type FailureDefaults struct {
	Faithfulness     float64 `json:"faithfulness"`
	AnswerRelevancy  float64 `json:"answerRelevancy"`
	ContextPrecision float64 `json:"contextPrecision"`
	ContextRecall    float64 `json:"contextRecall"`
}

// DefaultFailureDefaults mirrors the historical per-metric failure scores.
func DefaultFailureDefaults() FailureDefaults {
	return FailureDefaults{
		Faithfulness:     0,
		AnswerRelevancy:  0.5,
		ContextPrecision: 0,
		ContextRecall:    0.5,
	}
}

// For returns the failure default for the named metric.
func (d FailureDefaults) For(name string) float64 {
	switch name {
	case MetricFaithfulness:
		return d.Faithfulness
	case MetricAnswerRelevancy:
		return d.AnswerRelevancy
	case MetricContextPrecision:
		return d.ContextPrecision
	case MetricContextRecall:
		return d.ContextRecall
	default:
		return 0
	}
}

// Scorer evaluates pipeline outputs with a judge model.
type Scorer struct {
	judge     judge.Judge
	pool      *ants.Pool
	judgeOpts *judge.Options
	defaults  FailureDefaults
}

// NewScorer creates a Scorer backed by the given judge.
func NewScorer(j judge.Judge, opt ...Option) *Scorer {
	opts := newOptions(opt...)
	return &Scorer{
		judge:     j,
		pool:      opts.pool,
		judgeOpts: opts.judgeOpts,
		defaults:  opts.defaults,
	}
}

// Defaults returns the configured failure-default policy.
func (s *Scorer) Defaults() FailureDefaults {
	return s.defaults
}

// runConcurrently executes fn for each index in [0, n) and waits for all to
// finish. Tasks are scheduled on the shared ants pool when one is configured,
// falling back to plain goroutines. Each task owns its own index; callers
// collect results into preallocated per-index slots.
func (s *Scorer) runConcurrently(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		task := func(i int) func() {
			return func() {
				defer wg.Done()
				fn(i)
			}
		}(i)
		if s.pool != nil {
			if err := s.pool.Submit(task); err == nil {
				continue
			}
		}
		go task()
	}
	wg.Wait()
}

// joinChunks concatenates chunk contents into a single context block for
// judge prompts, tagging each chunk with its rank.
func joinChunks(chunks []pipeline.RetrievedChunk) string {
	if len(chunks) == 0 {
		return "(no context retrieved)"
	}
	var b strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[chunk %d] %s", i+1, chunk.Content)
	}
	return b.String()
}

// clamp01 clamps score into [0,1].
func clamp01(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
