//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package metric

// Claim verdict constants returned by the judge when verifying a claim.
const (
	VerdictSupported    = "supported"
	VerdictNotSupported = "not_supported"
	VerdictContradicted = "contradicted"
)

// Chunk relevance constants returned by the judge when classifying a chunk.
const (
	RelevanceRelevant   = "relevant"
	RelevancePartial    = "partial"
	RelevanceIrrelevant = "irrelevant"
)

// RecallMode tags which context-recall computation produced a score.
type RecallMode string

// Recall mode constants.
const (
	// RecallModeExact is the deterministic ground-truth-chunk ID overlap.
	RecallModeExact RecallMode = "exact"
	// RecallModeHeuristic is the judge-based required-information decomposition.
	RecallModeHeuristic RecallMode = "heuristic"
)

// ClaimVerdict records the judge's verdict for one extracted claim.
type ClaimVerdict struct {
	// Claim is the factual claim text.
	Claim string `json:"claim"`
	// Verdict is supported, not_supported, or contradicted.
	Verdict string `json:"verdict"`
	// Evidence is the judge's supporting evidence text.
	Evidence string `json:"evidence,omitempty"`
}

// FaithfulnessAnalysis explains a faithfulness score.
type FaithfulnessAnalysis struct {
	// Claims lists the per-claim verdicts in extraction order.
	Claims []ClaimVerdict `json:"claims,omitempty"`
	// UnsupportedClaims lists claims that were not supported by the context.
	UnsupportedClaims []string `json:"unsupportedClaims,omitempty"`
}

// RelevancyAnalysis explains an answer-relevancy score.
type RelevancyAnalysis struct {
	// Reasoning is the judge's free-text rationale.
	Reasoning string `json:"reasoning,omitempty"`
	// QuestionAddressed reports whether the question was addressed at all.
	QuestionAddressed bool `json:"questionAddressed"`
	// PartiallyAddressed lists question sub-parts that were only partially addressed.
	PartiallyAddressed []string `json:"partiallyAddressed,omitempty"`
}

// ChunkRelevance records the judge's classification of one retrieved chunk.
type ChunkRelevance struct {
	// ChunkID identifies the chunk.
	ChunkID string `json:"chunkId"`
	// Rank is the 0-based retrieval rank.
	Rank int `json:"rank"`
	// Relevance is relevant, partial, or irrelevant.
	Relevance string `json:"relevance"`
}

// PrecisionAnalysis explains a context-precision score.
type PrecisionAnalysis struct {
	// Chunks lists the per-chunk classifications in rank order.
	Chunks []ChunkRelevance `json:"chunks,omitempty"`
	// PrecisionAtK maps K to the fraction of relevant chunks in the top K.
	PrecisionAtK map[int]float64 `json:"precisionAtK,omitempty"`
}

// RecallAnalysis explains a context-recall score.
type RecallAnalysis struct {
	// Mode tags which computation produced the score.
	Mode RecallMode `json:"mode"`
	// Required lists the information items needed for the ground-truth answer.
	Required []string `json:"required,omitempty"`
	// Found lists required items present in the retrieved context.
	Found []string `json:"found,omitempty"`
	// Missing lists required items absent from the retrieved context.
	Missing []string `json:"missing,omitempty"`
}

// Analysis bundles per-metric explanations for auditability.
// It is never consumed as control data.
type Analysis struct {
	// Faithfulness explains the faithfulness score.
	Faithfulness *FaithfulnessAnalysis `json:"faithfulness,omitempty"`
	// AnswerRelevancy explains the answer-relevancy score.
	AnswerRelevancy *RelevancyAnalysis `json:"answerRelevancy,omitempty"`
	// ContextPrecision explains the context-precision score.
	ContextPrecision *PrecisionAnalysis `json:"contextPrecision,omitempty"`
	// ContextRecall explains the context-recall score.
	ContextRecall *RecallAnalysis `json:"contextRecall,omitempty"`
}
