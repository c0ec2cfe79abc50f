// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Defaults for the fan-out.
const (
	DefaultWorkers = 3
	DefaultTimeout = 10 * time.Second
)

// Response is the outcome of one query across all backends.
type Response struct {
	Query    string
	Results  []Result
	Best     Result
	Warnings []string
}

// Searcher queries every backend concurrently and ranks the combined hits.
type Searcher struct {
	backends []Backend
	workers  int
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSearcher creates a searcher over backends, in scoring order.
func NewSearcher(backends ...Backend) *Searcher {
	return &Searcher{
		backends: backends,
		workers:  DefaultWorkers,
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
	}
}

// WithTimeout sets the per-backend timeout.
func (s *Searcher) WithTimeout(d time.Duration) *Searcher {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithLogger sets the logger used for backend failures.
func (s *Searcher) WithLogger(logger *zap.Logger) *Searcher {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Search runs the query on every backend, at most DefaultWorkers at a time,
// and waits for all of them. A failing backend only adds a warning.
// Results are scored against query and returned in backend order.
// ErrNoResults is returned when nothing came back.
func (s *Searcher) Search(ctx context.Context, query string) (*Response, error) {
	perBackend := make([][]Result, len(s.backends))
	errs := make([]error, len(s.backends))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, b := range s.backends {
		g.Go(func() error {
			bctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			results, err := b.Search(bctx, query)
			if err != nil {
				errs[i] = err
				return nil
			}
			perBackend[i] = results
			return nil
		})
	}
	_ = g.Wait()

	resp := &Response{Query: query}
	for i, b := range s.backends {
		if errs[i] != nil {
			s.logger.Warn("search backend failed",
				zap.String("backend", b.Name()),
				zap.Error(errs[i]))
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("%s search failed: %v", b.Name(), errs[i]))
			continue
		}
		for _, r := range perBackend[i] {
			if r.Source == "" {
				r.Source = b.Name()
			}
			r.Score = Score(r, query)
			resp.Results = append(resp.Results, r)
		}
	}

	best, err := Best(resp.Results)
	if err != nil {
		return resp, err
	}
	resp.Best = best

	s.logger.Debug("search complete",
		zap.String("query", query),
		zap.Int("results", len(resp.Results)),
		zap.String("best", best.URL),
		zap.Float64("score", best.Score))
	return resp, nil
}
