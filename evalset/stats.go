//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package evalset

// Stats summarizes the composition of a dataset.
type Stats struct {
	// TotalItems is the number of items in the dataset.
	TotalItems int `json:"totalItems"`
	// ByQuestionType counts items per question type.
	ByQuestionType map[QuestionType]int `json:"byQuestionType"`
	// WithConversationHistory counts items carrying conversation history.
	WithConversationHistory int `json:"withConversationHistory"`
	// WithGroundTruthChunks counts items carrying ground-truth chunk IDs.
	WithGroundTruthChunks int `json:"withGroundTruthChunks"`
}

// GetStats computes composition statistics for the dataset.
func GetStats(dataset *Dataset) *Stats {
	stats := &Stats{
		ByQuestionType: make(map[QuestionType]int),
	}
	if dataset == nil {
		return stats
	}
	stats.TotalItems = len(dataset.Items)
	for _, item := range dataset.Items {
		stats.ByQuestionType[item.QuestionType]++
		if len(item.ConversationHistory) > 0 {
			stats.WithConversationHistory++
		}
		if len(item.GroundTruthChunks) > 0 {
			stats.WithGroundTruthChunks++
		}
	}
	return stats
}
