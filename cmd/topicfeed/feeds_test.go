package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>World</title>
<item><title>One</title><link>https://example.com/1</link><pubDate>Mon, 01 Jul 2024 10:00:00 +0000</pubDate></item>
<item><title>Two</title><link>https://example.com/2</link><pubDate>Tue, 02 Jul 2024 10:00:00 +0000</pubDate></item>
</channel></rss>`

const emptyRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Quiet</title></channel></rss>`

func TestFeedsCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		if r.URL.Path == "/empty.xml" {
			_, _ = w.Write([]byte(emptyRSS))
			return
		}
		_, _ = w.Write([]byte(rssBody))
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
feeds:
  - name: world
    type: rss
    url: `+srv.URL+`/world.xml
  - name: quiet
    type: rss
    url: `+srv.URL+`/empty.xml
  - name: newsapi
    type: newsapi
    url: https://newsapi.org/v2/everything
`), 0o600))
	t.Setenv("FEEDS_CONFIG", path)
	t.Setenv("NEWS_API_KEY", "")

	var out bytes.Buffer
	a := rootApp()
	a.Writer = &out
	require.NoError(t, a.Run([]string{"topicfeed", "feeds", "check", "--timeout", "5s"}))

	var got []feedDiagnostic
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 3)

	assert.Equal(t, "world", got[0].Name)
	assert.Equal(t, feedOK, got[0].Status)
	assert.Equal(t, 2, got[0].Items)
	require.NotNil(t, got[0].LatestArticle)
	assert.True(t, got[0].LatestArticle.Equal(time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)))

	assert.Equal(t, feedEmpty, got[1].Status)
	assert.Zero(t, got[1].Items)

	assert.Equal(t, feedError, got[2].Status)
	assert.Contains(t, got[2].Error, "NEWS_API_KEY")
}
