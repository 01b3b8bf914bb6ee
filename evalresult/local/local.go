//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

// Package local provides a local file store for evaluation reports.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"trpc.group/trpc-go/rageval/evalresult"
)

const (
	defaultTempFileSuffix = ".tmp"
	defaultDirPermission  = 0o755
	defaultFilePermission = 0o644
)

// Manager stores evaluation reports on the local filesystem.
type Manager struct {
	mu      sync.Mutex
	baseDir string
}

// Option configures the Manager.
type Option func(*Manager)

// WithBaseDir sets the directory reports are saved under.
func WithBaseDir(baseDir string) Option {
	return func(m *Manager) {
		m.baseDir = baseDir
	}
}

// New creates a local file report manager.
func New(opt ...Option) *Manager {
	m := &Manager{baseDir: "."}
	for _, o := range opt {
		o(m)
	}
	return m
}

// Save stores the report under the base directory and returns its path.
// The file name is derived from the dataset name and report ID.
func (m *Manager) Save(ctx context.Context, report *evalresult.Report) (string, error) {
	if report == nil {
		return "", errors.New("report is nil")
	}
	path := filepath.Join(m.baseDir, fmt.Sprintf("%s_%s.json", report.DatasetName, report.ReportID))
	if err := m.SaveTo(ctx, report, path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveTo stores the report at the given path. The write is atomic: the
// report is staged to a temp file and renamed into place.
func (m *Manager) SaveTo(_ context.Context, report *evalresult.Report, path string) error {
	if report == nil {
		return errors.New("report is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaultDirPermission); err != nil {
		return fmt.Errorf("mkdir all %s: %w", dir, err)
	}
	tmp := path + defaultTempFileSuffix
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFilePermission)
	if err != nil {
		return fmt.Errorf("open file %s: %w", tmp, err)
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode file %s: %w", tmp, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename file %s to %s: %w", tmp, path, err)
	}
	return nil
}

// Load reads a previously saved report.
func (m *Manager) Load(_ context.Context, path string) (*evalresult.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	var report evalresult.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal file %s: %w", path, err)
	}
	return &report, nil
}
