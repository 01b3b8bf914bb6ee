//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package rageval

import (
	"errors"
	"fmt"

	"github.com/panjf2000/ants/v2"
)

// newScoringPool creates the goroutine pool used by the scorers' claim and
// chunk fan-out. Items themselves run strictly sequentially, so one pool
// bounds all concurrent judge traffic for the run.
func newScoringPool(size int) (*ants.Pool, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}
	return pool, nil
}
