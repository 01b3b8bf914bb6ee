//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"trpc.group/trpc-go/rageval/evalset"
)

const rewriteSystemPrompt = `Rewrite the user's latest question into a single self-contained ` +
	`question, resolving pronouns and references using the conversation. ` +
	`Respond with the rewritten question only.`

const generateSystemPrompt = `Answer the user's question using only the provided context passages. ` +
	`If the context does not contain the answer, say so instead of guessing.`

// OpenAIOption configures the OpenAI-backed pipeline collaborators.
type OpenAIOption func(*openaiOptions)

type openaiOptions struct {
	apiKey  string
	baseURL string
}

// WithAPIKey sets the API key for the pipeline clients.
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

func newClient(opt ...OpenAIOption) openai.Client {
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
	return openai.NewClient(clientOpts...)
}

// OpenAIRewriter implements QueryRewriter on an OpenAI-compatible endpoint.
type OpenAIRewriter struct {
	client openai.Client
	model  string
}

// NewOpenAIRewriter creates a query rewriter backed by the given model.
func NewOpenAIRewriter(model string, opt ...OpenAIOption) (*OpenAIRewriter, error) {
	if model == "" {
		return nil, errors.New("rewriter model name is empty")
	}
	return &OpenAIRewriter{client: newClient(opt...), model: model}, nil
}

// Rewrite returns a self-contained version of question given prior turns.
func (r *OpenAIRewriter) Rewrite(ctx context.Context, question string, history []evalset.ConversationTurn) (string, error) {
	var b strings.Builder
	b.WriteString("Conversation:\n")
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
	}
	fmt.Fprintf(&b, "\nLatest question: %s", question)
	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(rewriteSystemPrompt),
			openai.UserMessage(b.String()),
		},
	})
	if err != nil {
		return "", fmt.Errorf("rewrite chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("rewrite response has no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// OpenAIGenerator implements Generator on an OpenAI-compatible endpoint.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator creates an answer generator backed by the given model.
func NewOpenAIGenerator(model string, opt ...OpenAIOption) (*OpenAIGenerator, error) {
	if model == "" {
		return nil, errors.New("generator model name is empty")
	}
	return &OpenAIGenerator{client: newClient(opt...), model: model}, nil
}

// Generate returns the generated answer text.
func (g *OpenAIGenerator) Generate(ctx context.Context, req *GenerateRequest) (string, error) {
	var b strings.Builder
	if len(req.Chunks) == 0 {
		b.WriteString("Context: (no passages retrieved)\n")
	} else {
		b.WriteString("Context passages:\n")
		for i, chunk := range req.Chunks {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, chunk.Content)
		}
	}
	fmt.Fprintf(&b, "\nQuestion: %s", req.Question)
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(g.model),
		Temperature: openai.Float(req.Temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(generateSystemPrompt),
			openai.UserMessage(b.String()),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("generate response has no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
