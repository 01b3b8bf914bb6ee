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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verdict struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

func TestExtractPlainJSON(t *testing.T) {
	var v verdict
	err := Extract(`{"score": 0.8, "reasoning": "mostly grounded"}`, &v)
	require.NoError(t, err)
	assert.Equal(t, 0.8, v.Score)
	assert.Equal(t, "mostly grounded", v.Reasoning)
}

func TestExtractJSONWithProsePrefix(t *testing.T) {
	raw := `Sure! Here is my assessment:

{"score": 0.5, "reasoning": "partial"}

Let me know if you need anything else.`
	var v verdict
	err := Extract(raw, &v)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v.Score)
}

func TestExtractFencedJSON(t *testing.T) {
	raw := "```json\n{\"score\": 1, \"reasoning\": \"fully supported\"}\n```"
	var v verdict
	err := Extract(raw, &v)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Score)
}

func TestExtractFencedWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"score\": 0.25}\n```"
	var v verdict
	err := Extract(raw, &v)
	require.NoError(t, err)
	assert.Equal(t, 0.25, v.Score)
}

func TestExtractArray(t *testing.T) {
	var claims []string
	err := Extract(`The claims are: ["a", "b"]`, &claims)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, claims)
}

func TestExtractNestedObject(t *testing.T) {
	var v map[string]any
	err := Extract(`{"outer": {"inner": [1, 2]}, "tail": "x"}`, &v)
	require.NoError(t, err)
	assert.Contains(t, v, "outer")
	assert.Contains(t, v, "tail")
}

func TestExtractBracesInsideStrings(t *testing.T) {
	var v verdict
	err := Extract(`{"score": 0.9, "reasoning": "the answer says \"{30 days}\""}`, &v)
	require.NoError(t, err)
	assert.Equal(t, 0.9, v.Score)
}

func TestExtractNoJSON(t *testing.T) {
	var v verdict
	err := Extract("I cannot evaluate this.", &v)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractTruncatedJSON(t *testing.T) {
	var v verdict
	err := Extract(`{"score": 0.8, "reasoning": "cut off`, &v)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractMalformedJSON(t *testing.T) {
	var v verdict
	err := Extract(`{"score": not-a-number}`, &v)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoJSON)
}
