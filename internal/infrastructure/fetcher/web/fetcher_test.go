package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/ports"
	"github.com/ersonp/novelstate/internal/infrastructure/config"
)

const chapterPage = `<html>
<head><title>Chương 1</title><style>body { color: red }</style></head>
<body>
<nav><a href="/">Trang chủ</a></nav>
<script>var ads = true;</script>
<div id="chapter-content">
<p>Hàn Lập là một thiếu niên bình thường.</p>
<p>Hắn sống tại thôn Thanh Ngưu.</p>
</div>
<footer>Copyright</footer>
</body>
</html>`

func ref(url string) entities.ChapterRef {
	return entities.ChapterRef{StoryID: "pham_nhan", Index: 1, URL: url}
}

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "novelstate-test/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(chapterPage))
	}))
	defer server.Close()

	f := NewFetcher(config.FetcherConfig{UserAgent: "novelstate-test/1.0"})
	text, err := f.Fetch(context.Background(), ref(server.URL))
	require.NoError(t, err)

	assert.Contains(t, text, "Hàn Lập là một thiếu niên bình thường.")
	assert.Contains(t, text, "thôn Thanh Ngưu")
	// Page chrome stripped out.
	assert.NotContains(t, text, "var ads")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Trang chủ")
	assert.NotContains(t, text, "Copyright")
}

func TestFetcher_Fetch_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reason ports.FetchReason
	}{
		{"not found", http.StatusNotFound, ports.FetchReasonNotFound},
		{"gone", http.StatusGone, ports.FetchReasonNotFound},
		{"forbidden", http.StatusForbidden, ports.FetchReasonBlocked},
		{"rate limited", http.StatusTooManyRequests, ports.FetchReasonBlocked},
		{"server error", http.StatusInternalServerError, ports.FetchReasonNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			f := NewFetcher(config.FetcherConfig{})
			_, err := f.Fetch(context.Background(), ref(server.URL))

			var fetchErr *ports.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.reason, fetchErr.Reason)
			assert.Equal(t, 1, fetchErr.Ref.Index)
		})
	}
}

func TestFetcher_Fetch_NoURL(t *testing.T) {
	f := NewFetcher(config.FetcherConfig{})
	_, err := f.Fetch(context.Background(), entities.ChapterRef{StoryID: "pham_nhan", Index: 1})

	var fetchErr *ports.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ports.FetchReasonNotFound, fetchErr.Reason)
}

func TestFetcher_Fetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := NewFetcher(config.FetcherConfig{})
	_, err := f.Fetch(context.Background(), ref(url))

	var fetchErr *ports.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ports.FetchReasonNetwork, fetchErr.Reason)
	assert.True(t, errors.Unwrap(fetchErr) != nil)
}

func TestFetcher_Fetch_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><script>only scripts</script></body></html>"))
	}))
	defer server.Close()

	f := NewFetcher(config.FetcherConfig{})
	_, err := f.Fetch(context.Background(), ref(server.URL))

	var fetchErr *ports.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ports.FetchReasonNotFound, fetchErr.Reason)
}

func TestCollapseBlankLines(t *testing.T) {
	in := "\n\n  first  \n\n\n\nsecond\n   \nthird\n\n"
	assert.Equal(t, "first\n\nsecond\n\nthird", collapseBlankLines(in))
}

func TestExtractText_BlockBreaks(t *testing.T) {
	text, err := extractText(strings.NewReader("<p>one</p><p>two</p>"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", text)
}
