//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package evalset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a dataset file.
// JSON is the canonical format; .yaml/.yml files are accepted as well.
// It fails fast on the first structural violation; no partial dataset is ever returned.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes and validates dataset bytes. ext selects the decoder,
// defaulting to JSON for anything other than .yaml/.yml.
func Parse(data []byte, ext string) (*Dataset, error) {
	var dataset Dataset
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		// Route YAML through JSON so both formats share the same field mapping.
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal dataset yaml: %w", err)
		}
		jsonData, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("convert dataset yaml: %w", err)
		}
		if err := json.Unmarshal(jsonData, &dataset); err != nil {
			return nil, fmt.Errorf("unmarshal dataset yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &dataset); err != nil {
			return nil, fmt.Errorf("unmarshal dataset json: %w", err)
		}
	}
	if err := Validate(&dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}
