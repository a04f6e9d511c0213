package inspire

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/rishuramani/RC/pkg/logging"
)

const previewLimit = 500

// Fetcher turns a pasted URL into a short text preview for the
// inspiration library.
type Fetcher struct {
	client *http.Client
	logger logging.Logger
}

func NewFetcher(logger logging.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Preview fetches the page and extracts its title and leading text.
// Pages that cannot be fetched or parsed fall back to the URL itself,
// so saving inspiration never fails on a bad link.
func (f *Fetcher) Preview(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return pageURL
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; RCBot/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.WithError(err).WithField("url", pageURL).Warn("Failed to fetch inspiration URL")
		return pageURL
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return pageURL
	}

	node, err := html.Parse(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pageURL
	}

	body := extractReadableText(node)
	if len(body) > previewLimit {
		cut := previewLimit
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	if body == "" {
		return pageURL
	}
	if title := extractTitle(node); title != "" {
		return title + "\n\n" + body
	}
	return body
}

func extractTitle(node *html.Node) string {
	var titleNode *html.Node
	var findTitle func(*html.Node)
	findTitle = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			titleNode = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if titleNode != nil {
				return
			}
			findTitle(child)
		}
	}
	findTitle(node)
	if titleNode == nil {
		return ""
	}

	var buf strings.Builder
	var collectText func(*html.Node)
	collectText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collectText(child)
		}
	}
	collectText(titleNode)
	return strings.TrimSpace(buf.String())
}

// extractReadableText walks the DOM collecting visible text, skipping
// chrome elements like navigation and footers.
func extractReadableText(node *html.Node) string {
	var builder strings.Builder

	var walker func(*html.Node)
	walker = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "script", "style", "noscript", "nav", "footer", "header", "aside", "form", "template", "title":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				builder.WriteString(text)
				builder.WriteString(" ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walker(child)
		}
	}
	walker(node)

	return strings.TrimSpace(builder.String())
}
