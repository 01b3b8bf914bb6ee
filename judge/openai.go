//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package judge

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIJudge implements Judge on top of an OpenAI-compatible chat endpoint.
type OpenAIJudge struct {
	client openai.Client
	model  string
}

// OpenAIOption configures the OpenAI judge client.
type OpenAIOption func(*openaiOptions)

type openaiOptions struct {
	apiKey  string
	baseURL string
}

// WithAPIKey sets the API key for the judge client.
func WithAPIKey(apiKey string) OpenAIOption {
	return func(o *openaiOptions) {
		o.apiKey = apiKey
	}
}

// WithBaseURL sets the base URL for OpenAI-compatible endpoints.
func WithBaseURL(baseURL string) OpenAIOption {
	return func(o *openaiOptions) {
		o.baseURL = baseURL
	}
}

// NewOpenAI creates a Judge backed by the given model name.
// The API key falls back to the OPENAI_API_KEY environment variable.
func NewOpenAI(model string, opt ...OpenAIOption) (*OpenAIJudge, error) {
	if model == "" {
		return nil, errors.New("judge model name is empty")
	}
	var o openaiOptions
	for _, op := range opt {
		op(&o)
	}
	var clientOpts []openaiopt.RequestOption
	if o.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.apiKey))
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.baseURL))
	}
	return &OpenAIJudge{
		client: openai.NewClient(clientOpts...),
		model:  model,
	}, nil
}

// Call sends the prompts to the judge model and returns its raw response text.
func (j *OpenAIJudge) Call(ctx context.Context, systemPrompt, userPrompt string, opts *Options) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(j.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	}
	if opts != nil {
		if opts.Temperature != nil {
			req.Temperature = openai.Float(*opts.Temperature)
		}
		if opts.MaxTokens != nil {
			req.MaxCompletionTokens = openai.Int(int64(*opts.MaxTokens))
		}
	}
	completion, err := j.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("judge chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("judge response has no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// ModelName returns the judge-model identifier.
func (j *OpenAIJudge) ModelName() string {
	return j.model
}
