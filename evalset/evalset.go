//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

// Package evalset provides the evaluation dataset model and loader.
package evalset

import "time"

// QuestionType classifies an evaluation question.
type QuestionType string

// QuestionType constants form a closed enum; validation rejects anything else.
const (
	QuestionTypeFactual      QuestionType = "factual"
	QuestionTypeFollowup     QuestionType = "followup"
	QuestionTypeComparison   QuestionType = "comparison"
	QuestionTypeProcedural   QuestionType = "procedural"
	QuestionTypeReasoning    QuestionType = "reasoning"
	QuestionTypeUnanswerable QuestionType = "unanswerable"
)

// String returns the string representation of the question type.
func (t QuestionType) String() string {
	return string(t)
}

// IsValid checks if the question type is one of the defined constants.
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeFactual, QuestionTypeFollowup, QuestionTypeComparison,
		QuestionTypeProcedural, QuestionTypeReasoning, QuestionTypeUnanswerable:
		return true
	default:
		return false
	}
}

// Role identifies the author of a conversation turn.
type Role string

// Role constants for conversation history turns.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ConversationTurn is a single prior turn of the conversation an item belongs to.
type ConversationTurn struct {
	// Role is the author of the turn, user or assistant.
	Role Role `json:"role"`
	// Content is the turn text.
	Content string `json:"content"`
}

// Item represents a single question/expected-answer pair to evaluate.
type Item struct {
	// ID uniquely identifies this item within the dataset.
	ID string `json:"id"`
	// Question is the user question driven through the pipeline.
	Question string `json:"question"`
	// QuestionType classifies the question.
	QuestionType QuestionType `json:"questionType"`
	// GroundTruth is the reference answer text.
	GroundTruth string `json:"groundTruth"`
	// GroundTruthChunks lists chunk IDs that should be retrieved.
	// When present, context recall is computed exactly from ID overlap.
	GroundTruthChunks []string `json:"groundTruthChunks,omitempty"`
	// ConversationHistory holds prior turns for followup questions.
	ConversationHistory []ConversationTurn `json:"conversationHistory,omitempty"`
	// Metadata carries free-form item annotations.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Dataset is a collection of evaluation items for one tenant.
type Dataset struct {
	// Version is the dataset schema version.
	Version string `json:"version"`
	// Name identifies the dataset.
	Name string `json:"name"`
	// Description describes the dataset.
	Description string `json:"description,omitempty"`
	// TenantID scopes retrieval to a tenant.
	TenantID string `json:"tenantId"`
	// DatasetIDs restricts retrieval to the given source datasets.
	DatasetIDs []string `json:"datasetIds,omitempty"`
	// Items contains the evaluation items.
	Items []Item `json:"items"`
	// CreatedAt is when the dataset was created.
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	// UpdatedAt is when the dataset was last updated.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
