//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

// Package rageval orchestrates offline quality evaluation of a RAG pipeline.
package rageval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/rageval/evalresult"
	"trpc.group/trpc-go/rageval/evalset"
	"trpc.group/trpc-go/rageval/judge"
	"trpc.group/trpc-go/rageval/log"
	"trpc.group/trpc-go/rageval/metric"
	"trpc.group/trpc-go/rageval/pipeline"
)

// Evaluator drives the RAG pipeline over a dataset and scores each answer.
// Items are processed strictly sequentially to respect upstream rate limits;
// concurrency is exploited only within a single item across its metrics.
type Evaluator struct {
	retriever pipeline.Retriever
	generator pipeline.Generator
	judge     judge.Judge
	scorer    *metric.Scorer
	pool      *ants.Pool
	opts      *options
}

// New creates an Evaluator with the supplied collaborators and options.
func New(retriever pipeline.Retriever, generator pipeline.Generator, j judge.Judge, opt ...Option) (*Evaluator, error) {
	if retriever == nil {
		return nil, errors.New("retriever is nil")
	}
	if generator == nil {
		return nil, errors.New("generator is nil")
	}
	if j == nil {
		return nil, errors.New("judge is nil")
	}
	opts := newOptions(opt...)
	for _, name := range opts.metrics {
		if !metric.IsValidMetric(name) {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
	}
	pool, err := newScoringPool(opts.poolSize)
	if err != nil {
		return nil, err
	}
	scorer := metric.NewScorer(j,
		metric.WithPool(pool),
		metric.WithJudgeOptions(opts.judgeOpts),
		metric.WithFailureDefaults(opts.defaults),
	)
	return &Evaluator{
		retriever: retriever,
		generator: generator,
		judge:     j,
		scorer:    scorer,
		pool:      pool,
		opts:      opts,
	}, nil
}

// Close releases the evaluator's goroutine pool.
func (e *Evaluator) Close() error {
	if e.pool != nil {
		e.pool.Release()
	}
	return nil
}

// Evaluate validates the dataset and runs the full evaluation, returning the
// final report. Only dataset validation failures are fatal; item-level and
// metric-level failures degrade into the report itself.
func (e *Evaluator) Evaluate(ctx context.Context, dataset *evalset.Dataset) (*evalresult.Report, error) {
	if err := evalset.Validate(dataset); err != nil {
		return nil, err
	}
	start := time.Now()
	total := len(dataset.Items)
	results := make([]*evalresult.ItemResult, 0, total)
	for i := range dataset.Items {
		item := &dataset.Items[i]
		if e.opts.progress != nil {
			e.opts.progress(i+1, total, item)
		}
		result, err := e.evaluateItem(ctx, dataset, item)
		if err != nil {
			// Item failures never abort the run; record a zero-scored placeholder.
			log.Warnf("item %s failed: %v", item.ID, err)
			result = evalresult.NewFailedItemResult(item, err)
		}
		results = append(results, result)
	}
	return &evalresult.Report{
		ReportID:       uuid.NewString(),
		DatasetName:    dataset.Name,
		DatasetVersion: dataset.Version,
		TenantID:       dataset.TenantID,
		EvaluatedAt:    time.Now(),
		Summary:        evalresult.Summarize(results),
		Results:        results,
		ExecutionMetadata: evalresult.ExecutionMetadata{
			TotalDuration: time.Since(start),
			JudgeModel:    e.judge.ModelName(),
		},
	}, nil
}

// evaluateItem drives one item through rewrite, retrieval, generation, and
// scoring. The returned error represents an unrecoverable pipeline failure
// for this item only.
func (e *Evaluator) evaluateItem(ctx context.Context, dataset *evalset.Dataset, item *evalset.Item) (*evalresult.ItemResult, error) {
	start := time.Now()
	query, rewritten := e.rewriteQuery(ctx, item)
	chunks, err := e.retriever.Retrieve(ctx, &pipeline.RetrieveRequest{
		TenantID:   dataset.TenantID,
		Query:      query,
		MaxChunks:  e.opts.maxChunks,
		DatasetIDs: dataset.DatasetIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(chunks) == 0 {
		// Expected for unanswerable questions; continue with empty context.
		log.Warnf("item %s: retrieval returned no chunks", item.ID)
		chunks = []pipeline.RetrievedChunk{}
	}
	answer, err := e.generator.Generate(ctx, &pipeline.GenerateRequest{
		Question:    query,
		Chunks:      chunks,
		Temperature: e.opts.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	scores, analysis := e.scoreItem(ctx, item, answer, chunks)
	return &evalresult.ItemResult{
		ItemID:          item.ID,
		Question:        item.Question,
		QuestionType:    item.QuestionType,
		RewrittenQuery:  rewritten,
		RetrievedChunks: chunks,
		GeneratedAnswer: answer,
		Scores:          scores,
		Analysis:        analysis,
		ExecutionTime:   time.Since(start),
	}, nil
}

// rewriteQuery returns the query to retrieve with and, when rewriting
// happened, the rewritten text. Rewriting is attempted only for items with
// conversation history; any failure silently falls back to the original
// question.
func (e *Evaluator) rewriteQuery(ctx context.Context, item *evalset.Item) (query, rewritten string) {
	query = item.Question
	if e.opts.rewriter == nil || len(item.ConversationHistory) == 0 {
		return query, ""
	}
	history := item.ConversationHistory
	if len(history) > e.opts.historyTurns {
		history = history[len(history)-e.opts.historyTurns:]
	}
	result, err := e.opts.rewriter.Rewrite(ctx, item.Question, history)
	if err != nil {
		log.Warnf("item %s: query rewriting failed, using original question: %v", item.ID, err)
		return query, ""
	}
	if result == "" || result == item.Question {
		return query, ""
	}
	return result, result
}

// scoreItem runs the requested metric scorers concurrently, each individually
// fault-isolated: a failed scorer records its configured failure default
// instead of aborting the item.
func (e *Evaluator) scoreItem(ctx context.Context, item *evalset.Item, answer string,
	chunks []pipeline.RetrievedChunk) (metric.Scores, *metric.Analysis) {
	input := &metric.Input{
		Question:          item.Question,
		Answer:            answer,
		GroundTruth:       item.GroundTruth,
		GroundTruthChunks: item.GroundTruthChunks,
		Chunks:            chunks,
	}
	defaults := e.scorer.Defaults()
	var scores metric.Scores
	analysis := &metric.Analysis{}
	errs := make([]error, len(e.opts.metrics))
	var wg sync.WaitGroup
	for i, name := range e.opts.metrics {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			switch name {
			case metric.MetricFaithfulness:
				score, a, err := e.scorer.ScoreFaithfulness(ctx, input)
				if err != nil {
					errs[i] = fmt.Errorf("%s: %w", name, err)
					score = defaults.Faithfulness
				}
				scores.Faithfulness = score
				analysis.Faithfulness = a
			case metric.MetricAnswerRelevancy:
				score, a, err := e.scorer.ScoreAnswerRelevancy(ctx, input)
				if err != nil {
					errs[i] = fmt.Errorf("%s: %w", name, err)
					score = defaults.AnswerRelevancy
				}
				scores.AnswerRelevancy = score
				analysis.AnswerRelevancy = a
			case metric.MetricContextPrecision:
				score, a, err := e.scorer.ScoreContextPrecision(ctx, input)
				if err != nil {
					errs[i] = fmt.Errorf("%s: %w", name, err)
					score = defaults.ContextPrecision
				}
				scores.ContextPrecision = score
				analysis.ContextPrecision = a
			case metric.MetricContextRecall:
				score, a, err := e.scorer.ScoreContextRecall(ctx, input)
				if err != nil {
					errs[i] = fmt.Errorf("%s: %w", name, err)
					score = defaults.ContextRecall
				}
				scores.ContextRecall = &score
				analysis.ContextRecall = a
			}
		}(i, name)
	}
	wg.Wait()
	var merged *multierror.Error
	for _, err := range errs {
		if err != nil {
			merged = multierror.Append(merged, err)
		}
	}
	if merged != nil {
		log.Warnf("item %s: %d metric(s) degraded to failure defaults: %v",
			item.ID, merged.Len(), merged)
	}
	return scores, analysis
}
