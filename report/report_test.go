//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trpc.group/trpc-go/rageval/evalresult"
	"trpc.group/trpc-go/rageval/evalset"
	"trpc.group/trpc-go/rageval/metric"
)

func sampleReport() *evalresult.Report {
	recall := 0.8
	results := []*evalresult.ItemResult{
		{
			ItemID:       "q-1",
			Question:     "What is the refund window?",
			QuestionType: evalset.QuestionTypeFactual,
			Scores: metric.Scores{
				Faithfulness: 0.95, AnswerRelevancy: 0.9, ContextPrecision: 0.8,
				ContextRecall: &recall,
			},
		},
		{
			ItemID:       "q-2",
			Question:     "Why does the moon cause tides?",
			QuestionType: evalset.QuestionTypeReasoning,
			Scores: metric.Scores{
				Faithfulness: 0.4, AnswerRelevancy: 0.6, ContextPrecision: 0.5,
			},
			Analysis: &metric.Analysis{
				Faithfulness: &metric.FaithfulnessAnalysis{
					UnsupportedClaims: []string{"the moon is made of basalt only"},
				},
			},
		},
	}
	return &evalresult.Report{
		ReportID:       "report-1",
		DatasetName:    "support-faq",
		DatasetVersion: "1",
		TenantID:       "tenant-a",
		EvaluatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Summary:        evalresult.Summarize(results),
		Results:        results,
		ExecutionMetadata: evalresult.ExecutionMetadata{
			TotalDuration: 42 * time.Second,
			JudgeModel:    "gpt-4o-mini",
		},
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, "good", statusFor(0.95))
	assert.Equal(t, "good", statusFor(0.9))
	assert.Equal(t, "acceptable", statusFor(0.75))
	assert.Equal(t, "acceptable", statusFor(0.7))
	assert.Equal(t, "poor", statusFor(0.69))
	assert.Equal(t, "poor", statusFor(0))
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", barWidth), bar(0))
	assert.Equal(t, strings.Repeat("█", barWidth), bar(1))
	half := bar(0.5)
	assert.Len(t, []rune(half), barWidth)
	assert.Equal(t, barWidth/2, strings.Count(half, "█"))
	// Out-of-range scores stay within the bar.
	assert.Equal(t, strings.Repeat("█", barWidth), bar(1.3))
	assert.Equal(t, strings.Repeat("░", barWidth), bar(-0.1))
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(sampleReport())
	assert.Contains(t, out, "support-faq")
	assert.Contains(t, out, "tenant-a")
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "Faithfulness")
	assert.Contains(t, out, "Context recall (1 items)")
	assert.Contains(t, out, "By question type:")
	assert.Contains(t, out, "factual")
	assert.Contains(t, out, "reasoning")
	assert.Contains(t, out, "Query rewriting:")
}

func TestFormatNarrative(t *testing.T) {
	out := FormatNarrative(sampleReport(), 0)
	assert.True(t, strings.HasPrefix(out, "# Evaluation Report: support-faq"))
	assert.Contains(t, out, "## Average scores")
	assert.Contains(t, out, "| Metric | Score | Status |")
	assert.Contains(t, out, "## By question type")
	assert.Contains(t, out, "## Needs improvement")
	assert.Contains(t, out, "### q-2 (reasoning)")
	assert.Contains(t, out, "the moon is made of basalt only")
	// The healthy item is not flagged.
	assert.NotContains(t, out, "### q-1")
}

func TestFormatNarrativeFailedItem(t *testing.T) {
	r := sampleReport()
	r.Results = append(r.Results, &evalresult.ItemResult{
		ItemID:          "q-3",
		Question:        "broken",
		QuestionType:    evalset.QuestionTypeFactual,
		GeneratedAnswer: "[Evaluation Failed: generation timed out]",
		Error:           "generation timed out",
	})
	r.Summary = evalresult.Summarize(r.Results)
	out := FormatNarrative(r, 0)
	assert.Contains(t, out, "### q-3 (factual)")
	assert.Contains(t, out, "Pipeline error: generation timed out")
}

func TestNeedsImprovementLimit(t *testing.T) {
	results := make([]*evalresult.ItemResult, 0, 5)
	for i := 0; i < 5; i++ {
		results = append(results, &evalresult.ItemResult{
			ItemID: "q", Scores: metric.Scores{Faithfulness: 0.1},
		})
	}
	assert.Len(t, needsImprovement(results, 3), 3)
	assert.Len(t, needsImprovement(results, 10), 5)
}
