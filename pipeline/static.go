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
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// CorpusChunk is one entry of a static retrieval corpus.
type CorpusChunk struct {
	// ChunkID uniquely identifies the chunk.
	ChunkID string `json:"chunkId"`
	// Content is the chunk text.
	Content string `json:"content"`
	// DatasetID identifies the source dataset the chunk belongs to.
	DatasetID string `json:"datasetId,omitempty"`
}

// StaticRetriever serves retrieval from an in-memory corpus using lexical
// term overlap. It exists for offline runs and tests; production deployments
// plug in the real search engine behind the Retriever interface.
type StaticRetriever struct {
	chunks []CorpusChunk
}

// NewStaticRetriever creates a retriever over the given corpus.
func NewStaticRetriever(chunks []CorpusChunk) *StaticRetriever {
	return &StaticRetriever{chunks: chunks}
}

// LoadStaticRetriever creates a retriever from a JSON corpus file holding an
// array of corpus chunks.
func LoadStaticRetriever(path string) (*StaticRetriever, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file %s: %w", path, err)
	}
	var chunks []CorpusChunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("unmarshal corpus file %s: %w", path, err)
	}
	return NewStaticRetriever(chunks), nil
}

// Retrieve returns up to MaxChunks chunks ranked by term overlap with the query.
func (r *StaticRetriever) Retrieve(_ context.Context, req *RetrieveRequest) ([]RetrievedChunk, error) {
	queryTerms := terms(req.Query)
	allowed := make(map[string]bool, len(req.DatasetIDs))
	for _, id := range req.DatasetIDs {
		allowed[id] = true
	}
	scored := make([]RetrievedChunk, 0, len(r.chunks))
	for _, chunk := range r.chunks {
		if len(allowed) > 0 && !allowed[chunk.DatasetID] {
			continue
		}
		score := overlap(queryTerms, terms(chunk.Content))
		if score > 0 {
			scored = append(scored, RetrievedChunk{
				ChunkID: chunk.ChunkID,
				Content: chunk.Content,
				Score:   score,
			})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if req.MaxChunks > 0 && len(scored) > req.MaxChunks {
		scored = scored[:req.MaxChunks]
	}
	return scored, nil
}

// terms lowercases and splits text into a term set.
func terms(text string) map[string]bool {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(fields))
	for _, field := range fields {
		set[strings.Trim(field, ".,;:!?\"'()[]")] = true
	}
	return set
}

// overlap is the fraction of query terms present in the chunk terms.
func overlap(query, chunk map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	matched := 0
	for term := range query {
		if chunk[term] {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}
