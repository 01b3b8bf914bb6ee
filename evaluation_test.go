//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package rageval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/rageval/evalset"
	"trpc.group/trpc-go/rageval/judge"
	"trpc.group/trpc-go/rageval/metric"
	"trpc.group/trpc-go/rageval/pipeline"
)

type fakeRetriever struct {
	fn func(req *pipeline.RetrieveRequest) ([]pipeline.RetrievedChunk, error)
}

func (f *fakeRetriever) Retrieve(_ context.Context, req *pipeline.RetrieveRequest) ([]pipeline.RetrievedChunk, error) {
	return f.fn(req)
}

type fakeGenerator struct {
	fn func(req *pipeline.GenerateRequest) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, req *pipeline.GenerateRequest) (string, error) {
	return f.fn(req)
}

type fakeRewriter struct {
	fn func(question string, history []evalset.ConversationTurn) (string, error)
}

func (f *fakeRewriter) Rewrite(_ context.Context, question string, history []evalset.ConversationTurn) (string, error) {
	return f.fn(question, history)
}

// stubJudge returns a fixed happy-path verdict for every scorer prompt so the
// orchestrator tests exercise control flow rather than prompt content.
type stubJudge struct{}

func (stubJudge) Call(_ context.Context, systemPrompt, _ string, _ *judge.Options) (string, error) {
	switch {
	case strings.Contains(systemPrompt, "Extract the list"):
		return `{"claims": ["a claim"]}`, nil
	case strings.Contains(systemPrompt, "Classify whether a claim"):
		return `{"verdict": "supported"}`, nil
	case strings.Contains(systemPrompt, "retrieval quality"):
		return `{"relevance": "relevant"}`, nil
	case strings.Contains(systemPrompt, "retrieval coverage"):
		return `{"required": ["x"], "found": ["x"], "missing": []}`, nil
	default:
		return `{"score": 0.8, "questionAddressed": true, "reasoning": "ok"}`, nil
	}
}

func (stubJudge) ModelName() string { return "stub-judge" }

func happyRetriever() *fakeRetriever {
	return &fakeRetriever{fn: func(_ *pipeline.RetrieveRequest) ([]pipeline.RetrievedChunk, error) {
		return []pipeline.RetrievedChunk{
			{ChunkID: "chunk-1", Content: "refunds are accepted within 30 days", Score: 0.9},
		}, nil
	}}
}

func happyGenerator() *fakeGenerator {
	return &fakeGenerator{fn: func(_ *pipeline.GenerateRequest) (string, error) {
		return "Refunds are accepted within 30 days.", nil
	}}
}

func makeDataset(n int) *evalset.Dataset {
	items := make([]evalset.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, evalset.Item{
			ID:           fmt.Sprintf("q-%d", i+1),
			Question:     fmt.Sprintf("question %d?", i+1),
			QuestionType: evalset.QuestionTypeFactual,
			GroundTruth:  fmt.Sprintf("answer %d", i+1),
		})
	}
	return &evalset.Dataset{
		Version:  "1",
		Name:     "ds",
		TenantID: "tenant-a",
		Items:    items,
	}
}

func TestEvaluateHappyPath(t *testing.T) {
	e, err := New(happyRetriever(), happyGenerator(), stubJudge{})
	require.NoError(t, err)
	defer e.Close()

	report, err := e.Evaluate(context.Background(), makeDataset(3))
	require.NoError(t, err)
	assert.NotEmpty(t, report.ReportID)
	assert.Equal(t, "ds", report.DatasetName)
	assert.Equal(t, "tenant-a", report.TenantID)
	assert.Equal(t, "stub-judge", report.ExecutionMetadata.JudgeModel)
	require.Len(t, report.Results, 3)
	for _, r := range report.Results {
		assert.False(t, r.Failed())
		assert.Equal(t, 1.0, r.Scores.Faithfulness)
		assert.InDelta(t, 0.8, r.Scores.AnswerRelevancy, 1e-9)
		require.NotNil(t, r.Scores.ContextRecall)
		assert.Equal(t, 1.0, *r.Scores.ContextRecall)
	}
	assert.Equal(t, 0, report.Summary.FailedItems)
}

func TestEvaluateRejectsInvalidDataset(t *testing.T) {
	e, err := New(happyRetriever(), happyGenerator(), stubJudge{})
	require.NoError(t, err)
	defer e.Close()

	dataset := makeDataset(1)
	dataset.Items[0].QuestionType = "opinion"
	_, err = e.Evaluate(context.Background(), dataset)
	require.Error(t, err)
	var validationErr *evalset.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestEvaluateOneFailureDoesNotAbortRun(t *testing.T) {
	gen := &fakeGenerator{fn: func(req *pipeline.GenerateRequest) (string, error) {
		if req.Question == "question 4?" {
			return "", errors.New("model overloaded")
		}
		return "fine answer", nil
	}}
	e, err := New(happyRetriever(), gen, stubJudge{})
	require.NoError(t, err)
	defer e.Close()

	report, err := e.Evaluate(context.Background(), makeDataset(10))
	require.NoError(t, err)
	require.Len(t, report.Results, 10)
	assert.Equal(t, 1, report.Summary.FailedItems)

	failed := report.Results[3]
	assert.True(t, failed.Failed())
	assert.Contains(t, failed.GeneratedAnswer, "[Evaluation Failed:")
	assert.Contains(t, failed.Error, "model overloaded")
	assert.Equal(t, 0.0, failed.Scores.Faithfulness)
	assert.Nil(t, failed.Scores.ContextRecall)
	for i, r := range report.Results {
		if i == 3 {
			continue
		}
		assert.False(t, r.Failed(), "item %d", i)
	}
}

func TestEvaluateEmptyRetrievalStillProducesResult(t *testing.T) {
	retriever := &fakeRetriever{fn: func(_ *pipeline.RetrieveRequest) ([]pipeline.RetrievedChunk, error) {
		return nil, nil
	}}
	e, err := New(retriever, happyGenerator(), stubJudge{})
	require.NoError(t, err)
	defer e.Close()

	report, err := e.Evaluate(context.Background(), makeDataset(1))
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	r := report.Results[0]
	assert.False(t, r.Failed())
	assert.Empty(t, r.RetrievedChunks)
	// No chunks means no relevant chunks at any rank.
	assert.Equal(t, 0.0, r.Scores.ContextPrecision)
}

func TestEvaluateProgressFiresPerItem(t *testing.T) {
	var calls [][2]int
	e, err := New(happyRetriever(), happyGenerator(), stubJudge{},
		WithProgressCallback(func(current, total int, _ *evalset.Item) {
			calls = append(calls, [2]int{current, total})
		}))
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Evaluate(context.Background(), makeDataset(3))
	require.NoError(t, err)
	require.Len(t, calls, 3)
	assert.Equal(t, [2]int{1, 3}, calls[0])
	assert.Equal(t, [2]int{3, 3}, calls[2])
}

func TestEvaluateMetricSubset(t *testing.T) {
	e, err := New(happyRetriever(), happyGenerator(), stubJudge{},
		WithMetrics([]string{metric.MetricFaithfulness}))
	require.NoError(t, err)
	defer e.Close()

	report, err := e.Evaluate(context.Background(), makeDataset(1))
	require.NoError(t, err)
	r := report.Results[0]
	assert.Equal(t, 1.0, r.Scores.Faithfulness)
	assert.Equal(t, 0.0, r.Scores.AnswerRelevancy)
	assert.Nil(t, r.Scores.ContextRecall)
}

func TestNewRejectsUnknownMetric(t *testing.T) {
	_, err := New(happyRetriever(), happyGenerator(), stubJudge{},
		WithMetrics([]string{"bleu"}))
	assert.Error(t, err)
}

func TestNewRejectsNilCollaborators(t *testing.T) {
	_, err := New(nil, happyGenerator(), stubJudge{})
	assert.Error(t, err)
	_, err = New(happyRetriever(), nil, stubJudge{})
	assert.Error(t, err)
	_, err = New(happyRetriever(), happyGenerator(), nil)
	assert.Error(t, err)
}

func TestQueryRewritingUsedForFollowups(t *testing.T) {
	var retrievedQuery string
	retriever := &fakeRetriever{fn: func(req *pipeline.RetrieveRequest) ([]pipeline.RetrievedChunk, error) {
		retrievedQuery = req.Query
		return []pipeline.RetrievedChunk{{ChunkID: "chunk-1", Content: "ctx"}}, nil
	}}
	rewriter := &fakeRewriter{fn: func(question string, history []evalset.ConversationTurn) (string, error) {
		return "standalone: " + question, nil
	}}
	e, err := New(retriever, happyGenerator(), stubJudge{}, WithQueryRewriter(rewriter))
	require.NoError(t, err)
	defer e.Close()

	dataset := makeDataset(1)
	dataset.Items[0].QuestionType = evalset.QuestionTypeFollowup
	dataset.Items[0].ConversationHistory = []evalset.ConversationTurn{
		{Role: evalset.RoleUser, Content: "earlier question"},
		{Role: evalset.RoleAssistant, Content: "earlier answer"},
	}
	report, err := e.Evaluate(context.Background(), dataset)
	require.NoError(t, err)
	assert.Equal(t, "standalone: question 1?", retrievedQuery)
	assert.Equal(t, "standalone: question 1?", report.Results[0].RewrittenQuery)
}

func TestQueryRewritingFailureFallsBackSilently(t *testing.T) {
	var retrievedQuery string
	retriever := &fakeRetriever{fn: func(req *pipeline.RetrieveRequest) ([]pipeline.RetrievedChunk, error) {
		retrievedQuery = req.Query
		return []pipeline.RetrievedChunk{{ChunkID: "chunk-1", Content: "ctx"}}, nil
	}}
	rewriter := &fakeRewriter{fn: func(string, []evalset.ConversationTurn) (string, error) {
		return "", errors.New("rewriter unavailable")
	}}
	e, err := New(retriever, happyGenerator(), stubJudge{}, WithQueryRewriter(rewriter))
	require.NoError(t, err)
	defer e.Close()

	dataset := makeDataset(1)
	dataset.Items[0].ConversationHistory = []evalset.ConversationTurn{
		{Role: evalset.RoleUser, Content: "earlier question"},
	}
	report, err := e.Evaluate(context.Background(), dataset)
	require.NoError(t, err)
	assert.Equal(t, "question 1?", retrievedQuery)
	assert.False(t, report.Results[0].Failed())
	assert.Empty(t, report.Results[0].RewrittenQuery)
}

func TestQueryRewritingSkippedWithoutHistory(t *testing.T) {
	rewriter := &fakeRewriter{fn: func(string, []evalset.ConversationTurn) (string, error) {
		t.Fatal("rewriter must not be called for items with no history")
		return "", nil
	}}
	e, err := New(happyRetriever(), happyGenerator(), stubJudge{}, WithQueryRewriter(rewriter))
	require.NoError(t, err)
	defer e.Close()

	report, err := e.Evaluate(context.Background(), makeDataset(1))
	require.NoError(t, err)
	assert.Empty(t, report.Results[0].RewrittenQuery)
}

func TestQueryRewritingHistoryWindow(t *testing.T) {
	var seenTurns int
	rewriter := &fakeRewriter{fn: func(question string, history []evalset.ConversationTurn) (string, error) {
		seenTurns = len(history)
		return question, nil
	}}
	e, err := New(happyRetriever(), happyGenerator(), stubJudge{},
		WithQueryRewriter(rewriter), WithHistoryTurns(2))
	require.NoError(t, err)
	defer e.Close()

	dataset := makeDataset(1)
	for i := 0; i < 6; i++ {
		role := evalset.RoleUser
		if i%2 == 1 {
			role = evalset.RoleAssistant
		}
		dataset.Items[0].ConversationHistory = append(dataset.Items[0].ConversationHistory,
			evalset.ConversationTurn{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	_, err = e.Evaluate(context.Background(), dataset)
	require.NoError(t, err)
	assert.Equal(t, 2, seenTurns)
}

func TestScoringFailureDefaultsApplied(t *testing.T) {
	// Claim extraction fails outright, so faithfulness records its failure
	// default while the other metrics still score normally.
	j := &failingExtractionJudge{}
	e, err := New(happyRetriever(), happyGenerator(), j,
		WithFailureDefaults(metric.FailureDefaults{
			Faithfulness:     0.25,
			AnswerRelevancy:  0.5,
			ContextPrecision: 0,
			ContextRecall:    0.5,
		}))
	require.NoError(t, err)
	defer e.Close()

	report, err := e.Evaluate(context.Background(), makeDataset(1))
	require.NoError(t, err)
	r := report.Results[0]
	assert.False(t, r.Failed())
	assert.Equal(t, 0.25, r.Scores.Faithfulness)
	assert.InDelta(t, 0.8, r.Scores.AnswerRelevancy, 1e-9)
}

// failingExtractionJudge fails only the claim-extraction prompt.
type failingExtractionJudge struct{}

func (failingExtractionJudge) Call(ctx context.Context, systemPrompt, userPrompt string, opts *judge.Options) (string, error) {
	if strings.Contains(systemPrompt, "Extract the list") {
		return "", errors.New("judge unreachable")
	}
	return stubJudge{}.Call(ctx, systemPrompt, userPrompt, opts)
}

func (failingExtractionJudge) ModelName() string { return "failing-judge" }
