//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"context"
	"fmt"

	"trpc.group/trpc-go/rageval/judge"
	"trpc.group/trpc-go/rageval/log"
)

const recallSystemPrompt = `You are grading retrieval coverage. ` +
	`Decompose the reference answer into the distinct information items required to produce it, ` +
	`then report which of those items are present in the retrieved context. ` +
	`Respond with a JSON object: {"required": ["item", ...], "found": ["item", ...], "missing": ["item", ...]}.`

// recallVerdict is the expected shape of the heuristic recall verdict.
type recallVerdict struct {
	Required []string `json:"required"`
	Found    []string `json:"found"`
	Missing  []string `json:"missing"`
}

// ScoreContextRecall scores how much of the information needed for the
// ground-truth answer is present in the retrieved context. When the item
// carries ground-truth chunk IDs the score is the deterministic ID overlap
// (exact mode, no judge call); otherwise the judge decomposes the ground
// truth into required information items (heuristic mode). Heuristic failures
// fall back to the configured neutral default (0.5 historically).
func (s *Scorer) ScoreContextRecall(ctx context.Context, in *Input) (float64, *RecallAnalysis, error) {
	if len(in.GroundTruthChunks) > 0 {
		score, analysis := exactRecall(in)
		return score, analysis, nil
	}
	return s.heuristicRecall(ctx, in)
}

// exactRecall computes |retrieved ∩ groundTruthChunks| / |groundTruthChunks|.
func exactRecall(in *Input) (float64, *RecallAnalysis) {
	retrieved := make(map[string]bool, len(in.Chunks))
	for _, chunk := range in.Chunks {
		retrieved[chunk.ChunkID] = true
	}
	analysis := &RecallAnalysis{
		Mode:     RecallModeExact,
		Required: in.GroundTruthChunks,
	}
	for _, id := range in.GroundTruthChunks {
		if retrieved[id] {
			analysis.Found = append(analysis.Found, id)
		} else {
			analysis.Missing = append(analysis.Missing, id)
		}
	}
	return float64(len(analysis.Found)) / float64(len(in.GroundTruthChunks)), analysis
}

// heuristicRecall asks the judge to decompose the ground truth into required
// information items and report which are covered by the retrieved context.
func (s *Scorer) heuristicRecall(ctx context.Context, in *Input) (float64, *RecallAnalysis, error) {
	fallback := s.defaults.ContextRecall
	userPrompt := fmt.Sprintf("Reference answer:\n%s\n\nRetrieved context:\n%s",
		in.GroundTruth, joinChunks(in.Chunks))
	raw, err := s.judge.Call(ctx, recallSystemPrompt, userPrompt, s.judgeOpts)
	if err != nil {
		log.Warnf("context recall: judge call failed, defaulting to %.2f: %v", fallback, err)
		return fallback, &RecallAnalysis{Mode: RecallModeHeuristic}, nil
	}
	var verdict recallVerdict
	if err := judge.Extract(raw, &verdict); err != nil {
		log.Warnf("context recall: judge output unparsable, defaulting to %.2f: %v", fallback, err)
		return fallback, &RecallAnalysis{Mode: RecallModeHeuristic}, nil
	}
	required := len(verdict.Required)
	if required < 1 {
		required = 1
	}
	score := clamp01(float64(len(verdict.Found)) / float64(required))
	return score, &RecallAnalysis{
		Mode:     RecallModeHeuristic,
		Required: verdict.Required,
		Found:    verdict.Found,
		Missing:  verdict.Missing,
	}, nil
}
