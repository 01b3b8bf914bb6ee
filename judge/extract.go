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
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON indicates that no JSON value could be located in the judge output.
var ErrNoJSON = errors.New("no JSON value found in judge output")

// Extract locates the first JSON object or array embedded in raw judge output
// and unmarshals it into v. Judge models routinely wrap their verdict in
// prose or markdown code fences; both are tolerated. Truncated or otherwise
// malformed JSON is an error the caller turns into its documented default.
func Extract(raw string, v any) error {
	candidate, err := firstJSONValue(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("unmarshal judge output: %w", err)
	}
	return nil
}

// firstJSONValue scans raw for the first balanced top-level object or array.
func firstJSONValue(raw string) (string, error) {
	s := stripFences(raw)
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", ErrNoJSON
	}
	open := s[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: unbalanced %q", ErrNoJSON, string(open))
}

// stripFences removes markdown code fences around the payload when present.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "```") {
		return s
	}
	// Keep only the fenced body when the response is a single fenced block.
	first := strings.Index(s, "```")
	rest := s[first+3:]
	if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
		// Drop the language tag line, e.g. ```json.
		rest = rest[newline+1:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		return strings.TrimSpace(rest[:end])
	}
	return strings.TrimSpace(rest)
}
