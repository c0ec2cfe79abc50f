// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/jeranaias/fiber/internal/util"
)

// UserAgent is sent with every search request.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// MaxResultsPerEngine caps how many hits each engine contributes.
const MaxResultsPerEngine = 5

// Backend is one search engine.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string) ([]Result, error)
}

// =============================================================================
// HTML ENGINE
// =============================================================================

// Engine scrapes an HTML results page.
type Engine struct {
	name     string
	buildURL func(query string) string
	extract  func(doc *html.Node) []Result
	client   *http.Client
}

// Name implements Backend.
func (e *Engine) Name() string { return e.name }

// Search fetches and parses the engine's result page. Only absolute http(s)
// links are kept, at most MaxResultsPerEngine of them.
func (e *Engine) Search(ctx context.Context, query string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.buildURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", e.name, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", e.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: HTTP %d", e.name, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse HTML: %w", e.name, err)
	}

	var out []Result
	for _, r := range e.extract(doc) {
		if !strings.HasPrefix(r.URL, "http") {
			continue
		}
		r.Source = e.name
		out = append(out, r)
		if len(out) == MaxResultsPerEngine {
			break
		}
	}
	return out, nil
}

// =============================================================================
// ENGINES
// =============================================================================

// Default endpoints.
const (
	GoogleURL     = "https://www.google.com/search"
	BingURL       = "https://www.bing.com/search"
	DuckDuckGoURL = "https://html.duckduckgo.com/html/"
)

// DefaultBackends returns Google, Bing and DuckDuckGo in scoring order.
// A nil client uses http.DefaultClient.
func DefaultBackends(client *http.Client) []Backend {
	return []Backend{
		NewGoogle(GoogleURL, client),
		NewBing(BingURL, client),
		NewDuckDuckGo(DuckDuckGoURL, client),
	}
}

// NewGoogle scrapes div.g blocks: h3 title, first link, div.VwiC3b snippet.
func NewGoogle(endpoint string, client *http.Client) *Engine {
	return &Engine{
		name:   "Google",
		client: orDefault(client),
		buildURL: func(q string) string {
			return fmt.Sprintf("%s?q=%s&num=%d", endpoint, url.QueryEscape(q), MaxResultsPerEngine)
		},
		extract: func(doc *html.Node) []Result {
			var out []Result
			for _, div := range util.FindAll(doc, classed("div", "g")) {
				title := util.FindFirst(div, tag("h3"))
				link := util.FindFirst(div, tag("a"))
				desc := util.FindFirst(div, classed("div", "VwiC3b"))
				if title == nil || link == nil || desc == nil {
					continue
				}
				out = append(out, Result{
					URL:         util.Attr(link, "href"),
					Title:       util.TextContent(title),
					Description: util.TextContent(desc),
				})
			}
			return out
		},
	}
}

// NewBing scrapes li.b_algo blocks: h2 title with its link, div.b_caption snippet.
func NewBing(endpoint string, client *http.Client) *Engine {
	return &Engine{
		name:   "Bing",
		client: orDefault(client),
		buildURL: func(q string) string {
			return fmt.Sprintf("%s?q=%s&count=%d", endpoint, url.QueryEscape(q), MaxResultsPerEngine)
		},
		extract: func(doc *html.Node) []Result {
			var out []Result
			for _, li := range util.FindAll(doc, classed("li", "b_algo")) {
				title := util.FindFirst(li, tag("h2"))
				if title == nil {
					continue
				}
				link := util.FindFirst(title, tag("a"))
				desc := util.FindFirst(li, classed("div", "b_caption"))
				if link == nil || desc == nil {
					continue
				}
				out = append(out, Result{
					URL:         util.Attr(link, "href"),
					Title:       util.TextContent(title),
					Description: util.TextContent(desc),
				})
			}
			return out
		},
	}
}

// NewDuckDuckGo scrapes the HTML endpoint: div.result blocks with
// a.result__a and a.result__snippet. Redirect links are unwrapped.
func NewDuckDuckGo(endpoint string, client *http.Client) *Engine {
	return &Engine{
		name:   "DuckDuckGo",
		client: orDefault(client),
		buildURL: func(q string) string {
			return fmt.Sprintf("%s?q=%s", endpoint, url.QueryEscape(q))
		},
		extract: func(doc *html.Node) []Result {
			var out []Result
			for _, div := range util.FindAll(doc, classed("div", "result")) {
				title := util.FindFirst(div, classed("a", "result__a"))
				desc := util.FindFirst(div, classed("a", "result__snippet"))
				if title == nil || desc == nil {
					continue
				}
				out = append(out, Result{
					URL:         unwrapDuckDuckGo(util.Attr(title, "href")),
					Title:       util.TextContent(title),
					Description: util.TextContent(desc),
				})
			}
			return out
		},
	}
}

// unwrapDuckDuckGo turns "//duckduckgo.com/l/?uddg=<escaped>&rut=..." into
// the target URL. Other links are returned unchanged.
func unwrapDuckDuckGo(link string) string {
	if !strings.Contains(link, "duckduckgo.com/l/") {
		return link
	}
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return link
}

func tag(name string) func(*html.Node) bool {
	return func(n *html.Node) bool { return util.IsElement(n, name) }
}

func classed(name, class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return util.IsElement(n, name) && util.HasClass(n, class) }
}

func orDefault(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
