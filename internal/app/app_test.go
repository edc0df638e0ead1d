package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicfeed/internal/infra/feed"
	"topicfeed/internal/pkg/config"
	"topicfeed/internal/repository/memory"
)

func memoryRepos() Repositories {
	st := memory.NewStore()
	return Repositories{News: st.News, Groups: st.Groups, Links: st.Links, Subscriptions: st.Subscriptions}
}

func TestLoadFeedSpecs(t *testing.T) {
	t.Run("none configured", func(t *testing.T) {
		t.Setenv("FEEDS_CONFIG", "")
		t.Setenv("NEWS_API_KEY", "")
		specs, err := LoadFeedSpecs(config.NewLoader(nil, nil))
		require.NoError(t, err)
		assert.Nil(t, specs)
	})

	t.Run("newsapi from env", func(t *testing.T) {
		t.Setenv("FEEDS_CONFIG", "")
		t.Setenv("NEWS_API_KEY", "k")
		t.Setenv("NEWS_API_URL", "")
		t.Setenv("NEWS_API_QUERY", "india")
		specs, err := LoadFeedSpecs(config.NewLoader(nil, nil))
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Equal(t, feed.SourceSpec{Name: "newsapi", Type: feed.TypeNewsAPI, URL: DefaultNewsAPIURL, Query: "india"}, specs[0])
	})

	t.Run("feeds file wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feeds.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
feeds:
  - name: world
    type: rss
    url: https://example.com/rss.xml
`), 0o600))
		t.Setenv("FEEDS_CONFIG", path)
		t.Setenv("NEWS_API_KEY", "k")
		specs, err := LoadFeedSpecs(config.NewLoader(nil, nil))
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Equal(t, "world", specs[0].Name)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("FEEDS_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := LoadFeedSpecs(config.NewLoader(nil, nil))
		require.Error(t, err)
	})
}

func TestNewClassifier(t *testing.T) {
	t.Run("noop has no answerer", func(t *testing.T) {
		t.Setenv("CLASSIFIER_TYPE", "noop")
		cls, answerer, _, err := NewClassifier(config.NewLoader(nil, nil))
		require.NoError(t, err)
		assert.NotNil(t, cls)
		assert.Nil(t, answerer)
	})

	t.Run("claude without key", func(t *testing.T) {
		t.Setenv("CLASSIFIER_TYPE", "claude")
		t.Setenv("ANTHROPIC_API_KEY", "")
		_, _, _, err := NewClassifier(config.NewLoader(nil, nil))
		require.Error(t, err)
	})

	t.Run("openai answers too", func(t *testing.T) {
		t.Setenv("CLASSIFIER_TYPE", "openai")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		cls, answerer, cfg, err := NewClassifier(config.NewLoader(nil, nil))
		require.NoError(t, err)
		assert.NotNil(t, cls)
		assert.NotNil(t, answerer)
		assert.Equal(t, "openai", cfg.Provider)
	})
}

func TestNewIngestion(t *testing.T) {
	t.Run("without feed or redis", func(t *testing.T) {
		t.Setenv("CLASSIFIER_TYPE", "noop")
		t.Setenv("FEEDS_CONFIG", "")
		t.Setenv("NEWS_API_KEY", "")
		t.Setenv("REDIS_URL", "")

		in, err := NewIngestion(t.Context(), config.NewLoader(nil, nil), memoryRepos(), nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = in.Close() })

		assert.Nil(t, in.Service.Feed)
		assert.Nil(t, in.Service.Lock)
		assert.Nil(t, in.Answerer)
		assert.Empty(t, in.Checks)
	})

	t.Run("with redis lock", func(t *testing.T) {
		mr := miniredis.RunT(t)
		t.Setenv("CLASSIFIER_TYPE", "noop")
		t.Setenv("FEEDS_CONFIG", "")
		t.Setenv("NEWS_API_KEY", "k")
		t.Setenv("REDIS_URL", "redis://"+mr.Addr())

		in, err := NewIngestion(t.Context(), config.NewLoader(nil, nil), memoryRepos(), nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = in.Close() })

		assert.NotNil(t, in.Service.Feed)
		require.NotNil(t, in.Service.Lock)
		require.Contains(t, in.Checks, "redis")
		assert.NoError(t, in.Checks["redis"](t.Context()))
	})

	t.Run("unreachable redis runs without lock", func(t *testing.T) {
		t.Setenv("CLASSIFIER_TYPE", "noop")
		t.Setenv("FEEDS_CONFIG", "")
		t.Setenv("NEWS_API_KEY", "")
		t.Setenv("REDIS_URL", "not a url")

		in, err := NewIngestion(t.Context(), config.NewLoader(nil, nil), memoryRepos(), nil)
		require.NoError(t, err)
		assert.Nil(t, in.Service.Lock)
	})
}
