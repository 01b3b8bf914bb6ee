//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

// Package pipeline defines the RAG pipeline collaborators driven by the harness.
package pipeline

import (
	"context"

	"trpc.group/trpc-go/rageval/evalset"
)

// RetrievedChunk is a single chunk returned by the retriever.
type RetrievedChunk struct {
	// ChunkID uniquely identifies the chunk in its source dataset.
	ChunkID string `json:"chunkId"`
	// Content is the chunk text.
	Content string `json:"content"`
	// Score is the retrieval relevance score, opaque to the harness.
	Score float64 `json:"score"`
}

// QueryRewriter rewrites a history-dependent question into a self-contained one.
// Callers treat any failure as "use the original question".
type QueryRewriter interface {
	// Rewrite returns a self-contained version of question given prior turns.
	Rewrite(ctx context.Context, question string, history []evalset.ConversationTurn) (string, error)
}

// RetrieveRequest describes a retrieval call.
type RetrieveRequest struct {
	// TenantID scopes the search.
	TenantID string
	// Query is the search query.
	Query string
	// MaxChunks bounds the number of returned chunks.
	MaxChunks int
	// DatasetIDs restricts the search to the given datasets when non-empty.
	DatasetIDs []string
}

// Retriever searches tenant knowledge for chunks relevant to a query.
// An empty result is legitimate, not an error.
type Retriever interface {
	// Retrieve returns up to MaxChunks chunks in relevance rank order.
	Retrieve(ctx context.Context, req *RetrieveRequest) ([]RetrievedChunk, error)
}

// GenerateRequest describes an answer-generation call.
type GenerateRequest struct {
	// Question is the (possibly rewritten) user question.
	Question string
	// Chunks is the retrieved context, possibly empty.
	Chunks []RetrievedChunk
	// Temperature is the sampling temperature for generation.
	Temperature float64
}

// Generator produces an answer from the question and retrieved context.
type Generator interface {
	// Generate returns the generated answer text.
	Generate(ctx context.Context, req *GenerateRequest) (string, error)
}
