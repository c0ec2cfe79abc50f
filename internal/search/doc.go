// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search fans a query out to several web search engines, scores the
// combined results by term overlap and picks the best one.
//
// # Key Types
//
//   - Backend: one search engine (Google, Bing, DuckDuckGo HTML)
//   - Searcher: concurrent fan-out with a bounded worker pool
//   - Result: a scored hit tagged with the engine that returned it
//
// # Usage
//
//	s := search.NewSearcher(search.DefaultBackends(nil)...)
//	resp, err := s.Search(ctx, "golang context cancellation")
//	if errors.Is(err, search.ErrNoResults) {
//	    // nothing from any engine
//	}
//	search.OpenBrowser(resp.Best.URL)
//
// # Ordering
//
// Results keep backend order (Google, Bing, DuckDuckGo) and page order
// within a backend regardless of which request finished first. Best is the
// first result with the strictly highest score.
package search
