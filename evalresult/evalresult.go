//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

// Package evalresult provides evaluation result types and aggregation.
package evalresult

import (
	"fmt"
	"time"

	"trpc.group/trpc-go/rageval/evalset"
	"trpc.group/trpc-go/rageval/metric"
	"trpc.group/trpc-go/rageval/pipeline"
)

// ItemResult is the evaluation outcome for a single dataset item.
// It is created once by the orchestrator and immutable thereafter.
type ItemResult struct {
	// ItemID identifies the dataset item.
	ItemID string `json:"itemId"`
	// Question is the original question.
	Question string `json:"question"`
	// QuestionType classifies the question.
	QuestionType evalset.QuestionType `json:"questionType"`
	// RewrittenQuery is set when the query was rewritten before retrieval.
	RewrittenQuery string `json:"rewrittenQuery,omitempty"`
	// RetrievedChunks is the retrieved context in rank order.
	RetrievedChunks []pipeline.RetrievedChunk `json:"retrievedChunks"`
	// GeneratedAnswer is the pipeline's answer, or a failure sentinel.
	GeneratedAnswer string `json:"generatedAnswer"`
	// Error is set when the item's pipeline failed; scores are then all zero.
	Error string `json:"error,omitempty"`
	// Scores holds the metric scores.
	Scores metric.Scores `json:"scores"`
	// Analysis holds per-metric explanations for auditability.
	Analysis *metric.Analysis `json:"analysis,omitempty"`
	// ExecutionTime is the wall time spent on this item.
	ExecutionTime time.Duration `json:"executionTime"`
}

// Failed reports whether the item's pipeline failed.
func (r *ItemResult) Failed() bool {
	return r.Error != ""
}

// NewFailedItemResult builds the zero-scored placeholder recorded when an
// item's pipeline fails. The run proceeds to the next item.
func NewFailedItemResult(item *evalset.Item, err error) *ItemResult {
	return &ItemResult{
		ItemID:          item.ID,
		Question:        item.Question,
		QuestionType:    item.QuestionType,
		RetrievedChunks: []pipeline.RetrievedChunk{},
		GeneratedAnswer: fmt.Sprintf("[Evaluation Failed: %v]", err),
		Error:           err.Error(),
		Scores:          metric.Scores{},
	}
}

// ExecutionMetadata records run-level execution facts.
type ExecutionMetadata struct {
	// TotalDuration is the wall time for the whole run.
	TotalDuration time.Duration `json:"totalDuration"`
	// JudgeModel identifies the judge model used for scoring.
	JudgeModel string `json:"judgeModel"`
}

// Report is the final evaluation report for one run.
// It is built once by the aggregator and read-only afterward.
type Report struct {
	// ReportID uniquely identifies this report.
	ReportID string `json:"reportId"`
	// DatasetName identifies the dataset.
	DatasetName string `json:"datasetName"`
	// DatasetVersion is the dataset schema version.
	DatasetVersion string `json:"datasetVersion"`
	// TenantID scopes the dataset.
	TenantID string `json:"tenantId"`
	// EvaluatedAt is when the run completed.
	EvaluatedAt time.Time `json:"evaluatedAt"`
	// Summary holds dataset-level statistics.
	Summary *Summary `json:"summary"`
	// Results holds one record per dataset item.
	Results []*ItemResult `json:"results"`
	// ExecutionMetadata records run-level execution facts.
	ExecutionMetadata ExecutionMetadata `json:"executionMetadata"`
}
