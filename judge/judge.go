//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

// Package judge provides the judge-model call abstraction used by metric scorers.
package judge

import "context"

// Options control a single judge call.
type Options struct {
	// Temperature is the sampling temperature; nil uses the provider default.
	Temperature *float64
	// MaxTokens bounds the response length; nil uses the provider default.
	MaxTokens *int
}

// Judge grades answers on behalf of metric scorers. It returns unstructured
// free text; callers must extract the embedded verdict defensively via Extract.
type Judge interface {
	// Call sends the prompts to the judge model and returns its raw response text.
	Call(ctx context.Context, systemPrompt, userPrompt string, opts *Options) (string, error)
	// ModelName returns the judge-model identifier for report metadata.
	ModelName() string
}
