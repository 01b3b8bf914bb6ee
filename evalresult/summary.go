//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package evalresult

import "trpc.group/trpc-go/rageval/evalset"

// AverageScores holds arithmetic means of the metric scores over a group.
type AverageScores struct {
	// Faithfulness is the mean faithfulness score.
	Faithfulness float64 `json:"faithfulness"`
	// AnswerRelevancy is the mean answer-relevancy score.
	AnswerRelevancy float64 `json:"answerRelevancy"`
	// ContextPrecision is the mean context-precision score.
	ContextPrecision float64 `json:"contextPrecision"`
	// ContextRecall is nil when no item in the group had recall computed.
	// Its mean excludes items for which recall was never computed.
	ContextRecall *float64 `json:"contextRecall,omitempty"`
	// ContextRecallCount is the number of items contributing to ContextRecall.
	ContextRecallCount int `json:"contextRecallCount,omitempty"`
}

// TypeStats holds per-question-type statistics.
type TypeStats struct {
	// Count is the number of items of this question type.
	Count int `json:"count"`
	// AverageScores holds the metric means for this question type.
	AverageScores AverageScores `json:"averageScores"`
}

// RewriteImpact is a best-effort diagnostic of query rewriting.
type RewriteImpact struct {
	// RelevancyDelta is avg relevancy of followup items minus all other types.
	// Zero when either group is empty.
	RelevancyDelta float64 `json:"relevancyDelta"`
	// RewrittenCount is the number of items whose query was actually rewritten.
	RewrittenCount int `json:"rewrittenCount"`
}

// Summary holds dataset-level statistics folded from all item results.
type Summary struct {
	// TotalItems is the number of evaluated items, including failed ones.
	TotalItems int `json:"totalItems"`
	// FailedItems is the number of zero-scored placeholder results.
	FailedItems int `json:"failedItems"`
	// AverageScores holds the dataset-wide metric means.
	AverageScores AverageScores `json:"averageScores"`
	// ByQuestionType holds per-question-type statistics.
	ByQuestionType map[evalset.QuestionType]*TypeStats `json:"byQuestionType"`
	// RewriteImpact is the query-rewriting diagnostic.
	RewriteImpact *RewriteImpact `json:"rewriteImpact,omitempty"`
}

// Summarize folds all item results into dataset-level summary statistics.
// A zero-item run produces zero-valued aggregates rather than an error.
func Summarize(results []*ItemResult) *Summary {
	summary := &Summary{
		TotalItems:     len(results),
		AverageScores:  averageScores(results),
		ByQuestionType: make(map[evalset.QuestionType]*TypeStats),
	}
	byType := make(map[evalset.QuestionType][]*ItemResult)
	for _, result := range results {
		if result.Failed() {
			summary.FailedItems++
		}
		byType[result.QuestionType] = append(byType[result.QuestionType], result)
	}
	for questionType, group := range byType {
		summary.ByQuestionType[questionType] = &TypeStats{
			Count:         len(group),
			AverageScores: averageScores(group),
		}
	}
	summary.RewriteImpact = rewriteImpact(results)
	return summary
}

// averageScores computes metric means over the group. Context recall is
// averaged only over items for which it was actually computed.
func averageScores(results []*ItemResult) AverageScores {
	var avg AverageScores
	if len(results) == 0 {
		return avg
	}
	var recallSum float64
	for _, result := range results {
		avg.Faithfulness += result.Scores.Faithfulness
		avg.AnswerRelevancy += result.Scores.AnswerRelevancy
		avg.ContextPrecision += result.Scores.ContextPrecision
		if result.Scores.ContextRecall != nil {
			recallSum += *result.Scores.ContextRecall
			avg.ContextRecallCount++
		}
	}
	n := float64(len(results))
	avg.Faithfulness /= n
	avg.AnswerRelevancy /= n
	avg.ContextPrecision /= n
	if avg.ContextRecallCount > 0 {
		recall := recallSum / float64(avg.ContextRecallCount)
		avg.ContextRecall = &recall
	}
	return avg
}

// rewriteImpact compares followup relevancy against all other question types
// and counts queries that were actually rewritten. Empty groups yield a zero
// delta rather than omitting the figure.
func rewriteImpact(results []*ItemResult) *RewriteImpact {
	impact := &RewriteImpact{}
	var followupSum, otherSum float64
	var followupCount, otherCount int
	for _, result := range results {
		if result.RewrittenQuery != "" && result.RewrittenQuery != result.Question {
			impact.RewrittenCount++
		}
		if result.QuestionType == evalset.QuestionTypeFollowup {
			followupSum += result.Scores.AnswerRelevancy
			followupCount++
		} else {
			otherSum += result.Scores.AnswerRelevancy
			otherCount++
		}
	}
	if followupCount > 0 && otherCount > 0 {
		impact.RelevancyDelta = followupSum/float64(followupCount) - otherSum/float64(otherCount)
	}
	return impact
}
