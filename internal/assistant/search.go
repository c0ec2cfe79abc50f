// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/fiber/internal/search"
)

// Search queries every configured engine and picks the best result.
func (a *App) Search(ctx context.Context, query string) (*search.Response, error) {
	if a.deps.Search == nil {
		return nil, fmt.Errorf("search: %w", ErrUnavailable)
	}
	query = strings.Trim(strings.TrimSpace(query), `"'`)
	if query == "" {
		return nil, search.ErrNoResults
	}
	return a.deps.Search.Search(ctx, query)
}
