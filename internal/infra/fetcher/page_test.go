package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quickmind/internal/infra/fetcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Field notes</title><script>var tracking = 1;</script></head>
<body>
	<nav>Home | About | Contact</nav>
	<article>
		<h1>Field notes from the coast</h1>
		<p class="lead">The tide came in earlier than the tables promised, and the   birds moved with it.</p>
		<p>By noon the sandbar had vanished and the boats that relied on it waited offshore for hours.</p>
		<p>Local fishermen say the pattern has shifted over the last decade, though records are sparse.</p>
	</article>
	<footer>Copyright</footer>
</body>
</html>`

func testConfig() fetcher.Config {
	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false // httptest listens on loopback
	return cfg
}

func htmlServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "QuickMind/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchText_Selector(t *testing.T) {
	srv := htmlServer(t, articleHTML)
	f := fetcher.NewPageFetcher(testConfig())

	text, err := f.FetchText(context.Background(), srv.URL, "p.lead")
	require.NoError(t, err)
	assert.Equal(t, "The tide came in earlier than the tables promised, and the birds moved with it.", text)
}

func TestFetchText_SelectorJoinsMatches(t *testing.T) {
	srv := htmlServer(t, articleHTML)
	f := fetcher.NewPageFetcher(testConfig())

	text, err := f.FetchText(context.Background(), srv.URL, "article p")
	require.NoError(t, err)
	parts := strings.Split(text, "\n\n")
	require.Len(t, parts, 3)
	assert.True(t, strings.HasPrefix(parts[1], "By noon"))
}

func TestFetchText_EmptySelection(t *testing.T) {
	srv := htmlServer(t, articleHTML)
	f := fetcher.NewPageFetcher(testConfig())

	_, err := f.FetchText(context.Background(), srv.URL, "aside.missing")
	require.ErrorIs(t, err, fetcher.ErrEmptySelection)
	assert.Equal(t, "Please highlight some text before running QuickMind.", err.Error())
}

func TestFetchText_Readability(t *testing.T) {
	srv := htmlServer(t, articleHTML)
	f := fetcher.NewPageFetcher(testConfig())

	text, err := f.FetchText(context.Background(), srv.URL, "")
	require.NoError(t, err)
	assert.Contains(t, text, "sandbar had vanished")
	assert.NotContains(t, text, "tracking")
}

func TestFetch_InvalidURL(t *testing.T) {
	f := fetcher.NewPageFetcher(fetcher.DefaultConfig())

	for _, raw := range []string{"", "not-a-valid-url", "file:///etc/passwd", "ftp://example.com/x", "http://example .com/"} {
		t.Run(raw, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), raw)
			assert.ErrorIs(t, err, fetcher.ErrInvalidURL)
		})
	}
}

func TestFetch_PrivateIP(t *testing.T) {
	f := fetcher.NewPageFetcher(fetcher.DefaultConfig())

	for _, raw := range []string{
		"http://127.0.0.1/",
		"http://10.0.0.1/",
		"http://172.16.0.1/",
		"http://192.168.1.1/",
		"http://169.254.169.254/latest/meta-data",
		"http://[::1]/",
		"http://0.0.0.0/",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), raw)
			assert.ErrorIs(t, err, fetcher.ErrPrivateIP)
		})
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := fetcher.NewPageFetcher(testConfig()).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetch_BodyTooLarge(t *testing.T) {
	srv := htmlServer(t, "<html><body><p>"+strings.Repeat("x", 4096)+"</p></body></html>")
	cfg := testConfig()
	cfg.MaxBodySize = 1024

	_, err := fetcher.NewPageFetcher(cfg).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, fetcher.ErrBodyTooLarge)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond

	_, err := fetcher.NewPageFetcher(cfg).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, fetcher.ErrTimeout)
}

func TestFetch_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/again", http.StatusFound)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 2

	_, err := fetcher.NewPageFetcher(cfg).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, fetcher.ErrTooManyRedirects)
}

func TestFetch_FollowsRedirect(t *testing.T) {
	target := htmlServer(t, articleHTML)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/story", http.StatusMovedPermanently)
	}))
	defer srv.Close()

	page, err := fetcher.NewPageFetcher(testConfig()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "/story", page.URL.Path)
}

func TestExtractSelection_IgnoresScripts(t *testing.T) {
	html := []byte(`<div id="x">Visible <script>hidden()</script> text</div>`)
	text, err := fetcher.ExtractSelection(html, "#x")
	require.NoError(t, err)
	assert.Equal(t, "Visible text", text)
}

func TestExtractSelection_WhitespaceOnly(t *testing.T) {
	_, err := fetcher.ExtractSelection([]byte(`<p>   </p>`), "p")
	assert.ErrorIs(t, err, fetcher.ErrEmptySelection)
}
