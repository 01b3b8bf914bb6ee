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
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/rageval/judge"
)

type options struct {
	pool      *ants.Pool
	judgeOpts *judge.Options
	defaults  FailureDefaults
}

func newOptions(opt ...Option) *options {
	opts := &options{
		defaults: DefaultFailureDefaults(),
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures a Scorer.
type Option func(*options)

// WithPool sets the shared goroutine pool used for claim and chunk fan-out.
func WithPool(pool *ants.Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

// WithJudgeOptions sets the per-call judge options (temperature, max tokens).
func WithJudgeOptions(judgeOpts *judge.Options) Option {
	return func(o *options) {
		o.judgeOpts = judgeOpts
	}
}

// WithFailureDefaults overrides the per-metric failure-default policy.
func WithFailureDefaults(defaults FailureDefaults) Option {
	return func(o *options) {
		o.defaults = defaults
	}
}
