//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config holds model and provider settings for a run.
type config struct {
	// JudgeModel is the judge-model identifier used for scoring.
	JudgeModel string `yaml:"judgeModel"`
	// GeneratorModel is the answer-generation model identifier.
	GeneratorModel string `yaml:"generatorModel"`
	// RewriterModel is the query-rewriting model identifier; empty disables rewriting.
	RewriterModel string `yaml:"rewriterModel"`
	// APIKey authenticates against the model endpoint.
	// Falls back to the OPENAI_API_KEY environment variable.
	APIKey string `yaml:"apiKey"`
	// BaseURL points at an OpenAI-compatible endpoint.
	BaseURL string `yaml:"baseURL"`
	// CorpusPath is the JSON corpus file served by the static retriever.
	CorpusPath string `yaml:"corpusPath"`
}

// defaultConfig returns the baseline configuration.
func defaultConfig() *config {
	return &config{
		JudgeModel:     "gpt-4o-mini",
		GeneratorModel: "gpt-4o-mini",
	}
}

// loadConfig reads a YAML config file over the defaults.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config file %s: %w", path, err)
	}
	if cfg.JudgeModel == "" {
		return nil, fmt.Errorf("config %s: judgeModel is required", path)
	}
	if cfg.GeneratorModel == "" {
		return nil, fmt.Errorf("config %s: generatorModel is required", path)
	}
	return cfg, nil
}
