package inspire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rishuramani/RC/pkg/logging"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(logging.NewLoggerWithService("inspire-test"))
}

func TestPreviewExtractsTitleAndText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Houston Market Outlook</title>
<script>tracking();</script></head>
<body><nav>Home | About</nav>
<p>Occupancy in Houston held at 90.4% through the fourth quarter.</p>
<footer>Copyright</footer></body></html>`))
	}))
	defer server.Close()

	preview := newTestFetcher().Preview(context.Background(), server.URL)
	if !strings.HasPrefix(preview, "Houston Market Outlook\n\n") {
		t.Fatalf("title missing from preview: %q", preview)
	}
	if !strings.Contains(preview, "Occupancy in Houston held at 90.4%") {
		t.Fatalf("body text missing: %q", preview)
	}
	if strings.Contains(preview, "tracking") || strings.Contains(preview, "Home | About") || strings.Contains(preview, "Copyright") {
		t.Fatalf("chrome elements leaked into preview: %q", preview)
	}
}

func TestPreviewTruncatesLongPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>" + strings.Repeat("word ", 500) + "</p></body></html>"))
	}))
	defer server.Close()

	preview := newTestFetcher().Preview(context.Background(), server.URL)
	if len(preview) > previewLimit {
		t.Fatalf("preview not truncated: %d chars", len(preview))
	}
}

func TestPreviewFallsBackToURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if got := newTestFetcher().Preview(context.Background(), server.URL); got != server.URL {
		t.Fatalf("expected URL fallback, got %q", got)
	}

	if got := newTestFetcher().Preview(context.Background(), "http://127.0.0.1:1/unreachable"); got != "http://127.0.0.1:1/unreachable" {
		t.Fatalf("expected URL fallback for unreachable host, got %q", got)
	}
}
