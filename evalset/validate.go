//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package evalset

import "fmt"

// topLevelIndex marks validation errors that are not tied to a specific item.
const topLevelIndex = -1

// ValidationError reports a structural violation in a dataset.
// Index is the 0-based item index, or -1 for top-level fields.
type ValidationError struct {
	// Field is the offending field, e.g. "items[2].questionType".
	Field string
	// Index is the 0-based item index, -1 for top-level errors.
	Index int
	// Reason describes the violation.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset validation failed: %s: %s", e.Field, e.Reason)
}

// Validate checks the dataset structure and fails fast on the first violation.
func Validate(dataset *Dataset) error {
	if dataset == nil {
		return &ValidationError{Field: "dataset", Index: topLevelIndex, Reason: "dataset is nil"}
	}
	if dataset.Version == "" {
		return &ValidationError{Field: "version", Index: topLevelIndex, Reason: "required field is missing"}
	}
	if dataset.Name == "" {
		return &ValidationError{Field: "name", Index: topLevelIndex, Reason: "required field is missing"}
	}
	if dataset.TenantID == "" {
		return &ValidationError{Field: "tenantId", Index: topLevelIndex, Reason: "required field is missing"}
	}
	if dataset.Items == nil {
		return &ValidationError{Field: "items", Index: topLevelIndex, Reason: "required field is missing"}
	}
	seen := make(map[string]int, len(dataset.Items))
	for i, item := range dataset.Items {
		if err := validateItem(i, &item, seen); err != nil {
			return err
		}
	}
	return nil
}

// validateItem checks a single item, rejecting the whole dataset on any violation.
func validateItem(index int, item *Item, seen map[string]int) error {
	if item.ID == "" {
		return itemError(index, "id", "required field is missing")
	}
	if prev, ok := seen[item.ID]; ok {
		return itemError(index, "id", fmt.Sprintf("duplicate id %q, first used by item %d", item.ID, prev))
	}
	seen[item.ID] = index
	if item.Question == "" {
		return itemError(index, "question", "required field is missing")
	}
	if !item.QuestionType.IsValid() {
		return itemError(index, "questionType", fmt.Sprintf("invalid question type %q", item.QuestionType))
	}
	if item.GroundTruth == "" {
		return itemError(index, "groundTruth", "required field is missing")
	}
	for j, turn := range item.ConversationHistory {
		if !turn.Role.IsValid() {
			return itemError(index, fmt.Sprintf("conversationHistory[%d].role", j),
				fmt.Sprintf("invalid role %q", turn.Role))
		}
		if turn.Content == "" {
			return itemError(index, fmt.Sprintf("conversationHistory[%d].content", j),
				"required field is missing")
		}
	}
	return nil
}

func itemError(index int, field, reason string) error {
	return &ValidationError{
		Field:  fmt.Sprintf("items[%d].%s", index, field),
		Index:  index,
		Reason: reason,
	}
}
