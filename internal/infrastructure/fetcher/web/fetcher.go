// Package web provides a ContentFetcher that scrapes chapter text from
// novel aggregator pages.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/ports"
	"github.com/ersonp/novelstate/internal/infrastructure/config"
)

// maxBodySize caps how much of a chapter page is read (some aggregators
// serve multi-megabyte pages padded with scripts).
const maxBodySize = 4 << 20

// Fetcher implements ports.ContentFetcher over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a web fetcher from configuration.
func NewFetcher(cfg config.FetcherConfig) *Fetcher {
	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "novelstate/0.1"
	}

	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads the referenced chapter page and returns its readable text.
func (f *Fetcher) Fetch(ctx context.Context, ref entities.ChapterRef) (string, error) {
	if ref.URL == "" {
		return "", &ports.FetchError{
			Reason: ports.FetchReasonNotFound,
			Ref:    ref,
			Err:    errors.New("chapter has no source URL"),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return "", &ports.FetchError{Reason: ports.FetchReasonNetwork, Ref: ref, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &ports.FetchError{Reason: ports.FetchReasonNetwork, Ref: ref, Err: err}
	}
	defer resp.Body.Close()

	if reason, failed := classifyStatus(resp.StatusCode); failed {
		return "", &ports.FetchError{
			Reason: reason,
			Ref:    ref,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &ports.FetchError{Reason: ports.FetchReasonNetwork, Ref: ref, Err: err}
	}

	text, err := extractText(strings.NewReader(string(body)))
	if err != nil {
		return "", &ports.FetchError{
			Reason: ports.FetchReasonNetwork,
			Ref:    ref,
			Err:    fmt.Errorf("parsing page: %w", err),
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &ports.FetchError{
			Reason: ports.FetchReasonNotFound,
			Ref:    ref,
			Err:    errors.New("page contained no readable text"),
		}
	}
	return text, nil
}

// classifyStatus maps an HTTP status to a fetch failure reason. The second
// return is false for successful statuses.
func classifyStatus(status int) (ports.FetchReason, bool) {
	switch {
	case status >= 200 && status < 300:
		return "", false
	case status == http.StatusNotFound || status == http.StatusGone:
		return ports.FetchReasonNotFound, true
	case status == http.StatusForbidden || status == http.StatusTooManyRequests || status == http.StatusUnavailableForLegalReasons:
		return ports.FetchReasonBlocked, true
	default:
		return ports.FetchReasonNetwork, true
	}
}

// extractText walks the HTML tree collecting visible text, skipping
// script/style/nav subtrees. Block elements become paragraph breaks.
func extractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "header", "footer", "iframe":
				return
			case "p", "div", "br", "h1", "h2", "h3", "li":
				sb.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return collapseBlankLines(sb.String()), nil
}

// collapseBlankLines trims each line and squeezes runs of blank lines down
// to a single separator.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
