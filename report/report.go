//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

// Package report renders evaluation reports for humans and machines.
package report

import (
	"fmt"
	"sort"
	"strings"

	"trpc.group/trpc-go/rageval/evalresult"
	"trpc.group/trpc-go/rageval/evalset"
)

// Three-tier status thresholds for metric averages.
const (
	thresholdGood       = 0.9
	thresholdAcceptable = 0.7
)

// barWidth is the width of the proportional score indicator.
const barWidth = 20

// DefaultNeedsImprovementLimit bounds the narrative's weak-item listing.
const DefaultNeedsImprovementLimit = 10

// needsImprovementThreshold flags items whose faithfulness or relevancy is low.
const needsImprovementThreshold = 0.7

// statusFor classifies a metric average into good/acceptable/poor.
func statusFor(score float64) string {
	switch {
	case score >= thresholdGood:
		return "good"
	case score >= thresholdAcceptable:
		return "acceptable"
	default:
		return "poor"
	}
}

// bar renders a proportional indicator for a score in [0,1].
func bar(score float64) string {
	filled := int(score*barWidth + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// FormatSummary renders the dataset-level summary as console text.
func FormatSummary(r *evalresult.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluation report for %s (version %s, tenant %s)\n",
		r.DatasetName, r.DatasetVersion, r.TenantID)
	fmt.Fprintf(&b, "Evaluated at %s, %d items, %d failed, total duration %s, judge model %s\n\n",
		r.EvaluatedAt.Format("2006-01-02 15:04:05"), r.Summary.TotalItems, r.Summary.FailedItems,
		r.ExecutionMetadata.TotalDuration.Round(0), r.ExecutionMetadata.JudgeModel)
	writeScoreLine(&b, "Faithfulness", r.Summary.AverageScores.Faithfulness)
	writeScoreLine(&b, "Answer relevancy", r.Summary.AverageScores.AnswerRelevancy)
	writeScoreLine(&b, "Context precision", r.Summary.AverageScores.ContextPrecision)
	if r.Summary.AverageScores.ContextRecall != nil {
		writeScoreLine(&b, fmt.Sprintf("Context recall (%d items)", r.Summary.AverageScores.ContextRecallCount),
			*r.Summary.AverageScores.ContextRecall)
	}
	b.WriteString("\nBy question type:\n")
	for _, questionType := range sortedTypes(r.Summary.ByQuestionType) {
		stats := r.Summary.ByQuestionType[questionType]
		fmt.Fprintf(&b, "  %-12s count=%d faithfulness=%.2f relevancy=%.2f precision=%.2f",
			questionType, stats.Count, stats.AverageScores.Faithfulness,
			stats.AverageScores.AnswerRelevancy, stats.AverageScores.ContextPrecision)
		if stats.AverageScores.ContextRecall != nil {
			fmt.Fprintf(&b, " recall=%.2f", *stats.AverageScores.ContextRecall)
		}
		b.WriteString("\n")
	}
	if r.Summary.RewriteImpact != nil {
		fmt.Fprintf(&b, "\nQuery rewriting: %d rewritten, followup relevancy delta %+.3f\n",
			r.Summary.RewriteImpact.RewrittenCount, r.Summary.RewriteImpact.RelevancyDelta)
	}
	return b.String()
}

// writeScoreLine renders one metric average with its bar and status tier.
func writeScoreLine(b *strings.Builder, name string, score float64) {
	fmt.Fprintf(b, "  %-28s %s %5.1f%% (%s)\n", name, bar(score), score*100, statusFor(score))
}

// FormatNarrative renders a markdown report with a needs-improvement section
// listing up to limit items whose faithfulness or answer relevancy fall below
// the threshold, including their unsupported claims when available.
func FormatNarrative(r *evalresult.Report, limit int) string {
	if limit <= 0 {
		limit = DefaultNeedsImprovementLimit
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Evaluation Report: %s\n\n", r.DatasetName)
	fmt.Fprintf(&b, "- Dataset version: %s\n", r.DatasetVersion)
	fmt.Fprintf(&b, "- Tenant: %s\n", r.TenantID)
	fmt.Fprintf(&b, "- Evaluated at: %s\n", r.EvaluatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Items: %d (%d failed)\n", r.Summary.TotalItems, r.Summary.FailedItems)
	fmt.Fprintf(&b, "- Judge model: %s\n", r.ExecutionMetadata.JudgeModel)
	fmt.Fprintf(&b, "- Total duration: %s\n\n", r.ExecutionMetadata.TotalDuration.Round(0))

	b.WriteString("## Average scores\n\n")
	b.WriteString("| Metric | Score | Status |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Faithfulness | %.3f | %s |\n",
		r.Summary.AverageScores.Faithfulness, statusFor(r.Summary.AverageScores.Faithfulness))
	fmt.Fprintf(&b, "| Answer relevancy | %.3f | %s |\n",
		r.Summary.AverageScores.AnswerRelevancy, statusFor(r.Summary.AverageScores.AnswerRelevancy))
	fmt.Fprintf(&b, "| Context precision | %.3f | %s |\n",
		r.Summary.AverageScores.ContextPrecision, statusFor(r.Summary.AverageScores.ContextPrecision))
	if r.Summary.AverageScores.ContextRecall != nil {
		fmt.Fprintf(&b, "| Context recall | %.3f | %s |\n",
			*r.Summary.AverageScores.ContextRecall, statusFor(*r.Summary.AverageScores.ContextRecall))
	}

	b.WriteString("\n## By question type\n\n")
	b.WriteString("| Type | Count | Faithfulness | Relevancy | Precision |\n|---|---|---|---|---|\n")
	for _, questionType := range sortedTypes(r.Summary.ByQuestionType) {
		stats := r.Summary.ByQuestionType[questionType]
		fmt.Fprintf(&b, "| %s | %d | %.3f | %.3f | %.3f |\n",
			questionType, stats.Count, stats.AverageScores.Faithfulness,
			stats.AverageScores.AnswerRelevancy, stats.AverageScores.ContextPrecision)
	}

	if r.Summary.RewriteImpact != nil {
		fmt.Fprintf(&b, "\n## Query rewriting\n\n%d queries rewritten; followup relevancy delta %+.3f.\n",
			r.Summary.RewriteImpact.RewrittenCount, r.Summary.RewriteImpact.RelevancyDelta)
	}

	weak := needsImprovement(r.Results, limit)
	if len(weak) > 0 {
		b.WriteString("\n## Needs improvement\n\n")
		for _, result := range weak {
			fmt.Fprintf(&b, "### %s (%s)\n\n", result.ItemID, result.QuestionType)
			fmt.Fprintf(&b, "- Question: %s\n", result.Question)
			fmt.Fprintf(&b, "- Faithfulness: %.3f, answer relevancy: %.3f\n",
				result.Scores.Faithfulness, result.Scores.AnswerRelevancy)
			if result.Failed() {
				fmt.Fprintf(&b, "- Pipeline error: %s\n", result.Error)
			}
			if result.Analysis != nil && result.Analysis.Faithfulness != nil &&
				len(result.Analysis.Faithfulness.UnsupportedClaims) > 0 {
				b.WriteString("- Unsupported claims:\n")
				for _, claim := range result.Analysis.Faithfulness.UnsupportedClaims {
					fmt.Fprintf(&b, "  - %s\n", claim)
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// needsImprovement selects up to limit items with low faithfulness or relevancy.
func needsImprovement(results []*evalresult.ItemResult, limit int) []*evalresult.ItemResult {
	weak := make([]*evalresult.ItemResult, 0, limit)
	for _, result := range results {
		if result.Scores.Faithfulness < needsImprovementThreshold ||
			result.Scores.AnswerRelevancy < needsImprovementThreshold {
			weak = append(weak, result)
			if len(weak) == limit {
				break
			}
		}
	}
	return weak
}

// sortedTypes returns the question types in stable alphabetical order.
func sortedTypes(byType map[evalset.QuestionType]*evalresult.TypeStats) []evalset.QuestionType {
	types := make([]evalset.QuestionType, 0, len(byType))
	for questionType := range byType {
		types = append(types, questionType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
