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

const relevancySystemPrompt = `You are grading how well an answer addresses a question. ` +
	`Score 0 to 1 considering four factors: directness (does it answer what was asked), ` +
	`completeness (are all sub-parts covered), correctness of form (is the response shaped ` +
	`appropriately for the question), and concision (no padding or digression). ` +
	`Respond with a JSON object: {"score": 0.0, "questionAddressed": true, ` +
	`"partiallyAddressed": ["sub-part", ...], "reasoning": "..."}.`

// relevancyVerdict is the expected shape of the judge's relevancy grade.
type relevancyVerdict struct {
	Score              float64  `json:"score"`
	QuestionAddressed  bool     `json:"questionAddressed"`
	PartiallyAddressed []string `json:"partiallyAddressed"`
	Reasoning          string   `json:"reasoning"`
}

// ScoreAnswerRelevancy grades the question/answer pair with a single judge
// call against a four-factor rubric. The judge's numeric score is clamped
// into [0,1]. When the call fails or its output cannot be parsed, the
// configured neutral default (0.5 historically) is returned instead.
func (s *Scorer) ScoreAnswerRelevancy(ctx context.Context, in *Input) (float64, *RelevancyAnalysis, error) {
	userPrompt := fmt.Sprintf("Question:\n%s\n\nAnswer:\n%s", in.Question, in.Answer)
	fallback := s.defaults.AnswerRelevancy
	raw, err := s.judge.Call(ctx, relevancySystemPrompt, userPrompt, s.judgeOpts)
	if err != nil {
		log.Warnf("answer relevancy: judge call failed, defaulting to %.2f: %v", fallback, err)
		return fallback, &RelevancyAnalysis{Reasoning: "judge call failed"}, nil
	}
	var verdict relevancyVerdict
	if err := judge.Extract(raw, &verdict); err != nil {
		log.Warnf("answer relevancy: judge output unparsable, defaulting to %.2f: %v", fallback, err)
		return fallback, &RelevancyAnalysis{Reasoning: "judge output unparsable"}, nil
	}
	return clamp01(verdict.Score), &RelevancyAnalysis{
		Reasoning:          verdict.Reasoning,
		QuestionAddressed:  verdict.QuestionAddressed,
		PartiallyAddressed: verdict.PartiallyAddressed,
	}, nil
}
