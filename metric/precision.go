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

// precisionKs are the ranks at which precision is computed.
var precisionKs = []int{1, 3, 5}

// precisionWeights biases the final score toward top-ranked correctness.
var precisionWeights = map[int]float64{1: 0.5, 3: 0.3, 5: 0.2}

const chunkRelevanceSystemPrompt = `You are grading retrieval quality. ` +
	`Classify whether a retrieved passage is relevant to the question. ` +
	`Respond with a JSON object: {"relevance": "relevant" | "partial" | "irrelevant"}.`

// chunkRelevanceVerdict is the expected shape of the per-chunk verdict.
type chunkRelevanceVerdict struct {
	Relevance string `json:"relevance"`
}

// ScoreContextPrecision classifies each retrieved chunk independently and
// computes rank-weighted precision: 0.5*P@1 + 0.3*P@3 + 0.2*P@5. Only fully
// relevant chunks count; partial is deliberately treated as non-relevant.
// Zero retrieved chunks yield a score of 0 with all P@K at 0.
func (s *Scorer) ScoreContextPrecision(ctx context.Context, in *Input) (float64, *PrecisionAnalysis, error) {
	analysis := &PrecisionAnalysis{PrecisionAtK: make(map[int]float64, len(precisionKs))}
	if len(in.Chunks) == 0 {
		for _, k := range precisionKs {
			analysis.PrecisionAtK[k] = 0
		}
		return 0, analysis, nil
	}
	classifications := make([]ChunkRelevance, len(in.Chunks))
	s.runConcurrently(len(in.Chunks), func(i int) {
		classifications[i] = ChunkRelevance{
			ChunkID:   in.Chunks[i].ChunkID,
			Rank:      i,
			Relevance: s.classifyChunk(ctx, in.Question, in.Chunks[i].Content),
		}
	})
	analysis.Chunks = classifications
	score := 0.0
	for _, k := range precisionKs {
		p := precisionAt(classifications, k)
		analysis.PrecisionAtK[k] = p
		score += precisionWeights[k] * p
	}
	return score, analysis, nil
}

// classifyChunk asks the judge whether the chunk is relevant to the question.
// Failures degrade the chunk to irrelevant.
func (s *Scorer) classifyChunk(ctx context.Context, question, content string) string {
	userPrompt := fmt.Sprintf("Question:\n%s\n\nPassage:\n%s", question, content)
	raw, err := s.judge.Call(ctx, chunkRelevanceSystemPrompt, userPrompt, s.judgeOpts)
	if err != nil {
		log.Warnf("context precision: chunk classification call failed: %v", err)
		return RelevanceIrrelevant
	}
	var verdict chunkRelevanceVerdict
	if err := judge.Extract(raw, &verdict); err != nil {
		log.Warnf("context precision: chunk classification output unparsable: %v", err)
		return RelevanceIrrelevant
	}
	switch verdict.Relevance {
	case RelevanceRelevant, RelevancePartial, RelevanceIrrelevant:
		return verdict.Relevance
	default:
		log.Warnf("context precision: unknown relevance %q, treating as irrelevant", verdict.Relevance)
		return RelevanceIrrelevant
	}
}

// precisionAt computes the fraction of the top-k chunks that are relevant,
// over the available chunks when fewer than k exist.
func precisionAt(classifications []ChunkRelevance, k int) float64 {
	if len(classifications) == 0 {
		return 0
	}
	if k > len(classifications) {
		k = len(classifications)
	}
	relevant := 0
	for _, c := range classifications[:k] {
		if c.Relevance == RelevanceRelevant {
			relevant++
		}
	}
	return float64(relevant) / float64(k)
}
