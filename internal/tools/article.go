// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/jeranaias/fiber/internal/util"
)

// BrowserUserAgent is sent when fetching articles; some sites refuse
// requests without a browser-like agent.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// MaxArticleBytes caps the downloaded page size.
const MaxArticleBytes = 5 * 1024 * 1024

var (
	// noiseTags never contain article text.
	noiseTags = []string{"script", "style", "nav", "header", "footer", "aside", "iframe", "noscript"}

	contentPattern = regexp.MustCompile(`(?i)(content|article|post)`)
	sharePattern   = regexp.MustCompile(`(?s)Share this article Share this article on.*$`)
)

// Article is the readable part of a web page.
type Article struct {
	URL     string
	Title   string
	Content string
}

// ArticleFetcher downloads pages and extracts their main text.
type ArticleFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewArticleFetcher returns a fetcher with a 30s client timeout.
func NewArticleFetcher(client *http.Client) *ArticleFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ArticleFetcher{Client: client, UserAgent: BrowserUserAgent}
}

// Fetch downloads rawURL and extracts its title and main content.
func (f *ArticleFetcher) Fetch(ctx context.Context, rawURL string) (Article, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return Article{}, ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Article{}, fmt.Errorf("article: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,text/plain;q=0.8,*/*;q=0.7")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.Client.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("error accessing the webpage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Article{}, &StatusError{Service: "article", StatusCode: resp.StatusCode}
	}

	title, content, err := ExtractArticle(io.LimitReader(resp.Body, MaxArticleBytes))
	if err != nil {
		return Article{}, err
	}
	return Article{URL: rawURL, Title: title, Content: content}, nil
}

// ExtractArticle parses an HTML document and returns its <title> and the
// whitespace-collapsed text of the most likely content container: the
// first <article>, else <main>, else a <div> whose id or class mentions
// content/article/post, else the whole body.
func ExtractArticle(r io.Reader) (title, content string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", fmt.Errorf("article: failed to parse HTML: %w", err)
	}

	if t := util.FindFirst(doc, func(n *html.Node) bool { return util.IsElement(n, "title") }); t != nil {
		title = util.TextContent(t)
	}

	util.RemoveElements(doc, noiseTags...)

	root := mainContent(doc)
	content = util.CollapseSpace(util.TextContent(root))
	content = strings.TrimSpace(sharePattern.ReplaceAllString(content, ""))
	if content == "" {
		return title, "", ErrNoContent
	}
	return title, content, nil
}

func mainContent(doc *html.Node) *html.Node {
	finders := []func(*html.Node) bool{
		func(n *html.Node) bool { return util.IsElement(n, "article") },
		func(n *html.Node) bool { return util.IsElement(n, "main") },
		func(n *html.Node) bool {
			return util.IsElement(n, "div") && contentPattern.MatchString(util.Attr(n, "id"))
		},
		func(n *html.Node) bool {
			return util.IsElement(n, "div") && contentPattern.MatchString(util.Attr(n, "class"))
		},
		func(n *html.Node) bool { return util.IsElement(n, "body") },
	}
	for _, find := range finders {
		if n := util.FindFirst(doc, find); n != nil {
			return n
		}
	}
	return doc
}

// SummaryPrompt builds the summarization prompt for a.
func SummaryPrompt(a Article) string {
	body := "Content: " + a.Content
	if a.Title != "" {
		body = fmt.Sprintf("Title: %s\n\n%s", a.Title, body)
	}
	return "Please summarize this article:\n" + body
}
