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
	"trpc.group/trpc-go/rageval/evalset"
	"trpc.group/trpc-go/rageval/judge"
	"trpc.group/trpc-go/rageval/metric"
	"trpc.group/trpc-go/rageval/pipeline"
)

// Defaults for evaluation options.
const (
	// DefaultMaxChunks bounds retrieval when the caller does not override it.
	DefaultMaxChunks = 5
	// DefaultTemperature is the answer-generation sampling temperature.
	DefaultTemperature = 0.3
	// DefaultHistoryTurns is how many prior turns feed query rewriting.
	DefaultHistoryTurns = 4
	// DefaultPoolSize bounds the per-item scoring fan-out.
	DefaultPoolSize = 16
)

// ProgressFunc is invoked once per item as the run advances.
type ProgressFunc func(current, total int, item *evalset.Item)

type options struct {
	rewriter     pipeline.QueryRewriter
	metrics      []string
	maxChunks    int
	temperature  float64
	historyTurns int
	poolSize     int
	progress     ProgressFunc
	judgeOpts    *judge.Options
	defaults     metric.FailureDefaults
}

func newOptions(opt ...Option) *options {
	opts := &options{
		metrics:      metric.AllMetrics(),
		maxChunks:    DefaultMaxChunks,
		temperature:  DefaultTemperature,
		historyTurns: DefaultHistoryTurns,
		poolSize:     DefaultPoolSize,
		defaults:     metric.DefaultFailureDefaults(),
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures an Evaluator.
type Option func(*options)

// WithQueryRewriter sets the optional query-rewriting collaborator.
func WithQueryRewriter(rewriter pipeline.QueryRewriter) Option {
	return func(o *options) {
		o.rewriter = rewriter
	}
}

// WithMetrics restricts the run to the named metrics. Defaults to all four.
func WithMetrics(metrics []string) Option {
	return func(o *options) {
		if len(metrics) > 0 {
			o.metrics = metrics
		}
	}
}

// WithMaxChunks bounds the number of retrieved chunks per item.
func WithMaxChunks(maxChunks int) Option {
	return func(o *options) {
		if maxChunks > 0 {
			o.maxChunks = maxChunks
		}
	}
}

// WithTemperature sets the answer-generation sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(o *options) {
		o.temperature = temperature
	}
}

// WithHistoryTurns sets how many prior turns feed query rewriting.
func WithHistoryTurns(turns int) Option {
	return func(o *options) {
		if turns > 0 {
			o.historyTurns = turns
		}
	}
}

// WithPoolSize bounds the scoring fan-out goroutine pool.
func WithPoolSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.poolSize = size
		}
	}
}

// WithProgressCallback sets the per-item progress callback.
func WithProgressCallback(progress ProgressFunc) Option {
	return func(o *options) {
		o.progress = progress
	}
}

// WithJudgeOptions sets the per-call judge options (temperature, max tokens).
func WithJudgeOptions(judgeOpts *judge.Options) Option {
	return func(o *options) {
		o.judgeOpts = judgeOpts
	}
}

// WithFailureDefaults overrides the per-metric failure-default policy.
func WithFailureDefaults(defaults metric.FailureDefaults) Option {
	return func(o *options) {
		o.defaults = defaults
	}
}
