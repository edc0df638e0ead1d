package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicfeed/internal/usecase/ingest"
)

type staticSource struct {
	name     string
	articles []ingest.RawArticle
	err      error
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Fetch(context.Context) ([]ingest.RawArticle, error) {
	return s.articles, s.err
}

func TestMulti_Fetch(t *testing.T) {
	t.Parallel()

	a := staticSource{name: "a", articles: []ingest.RawArticle{{URL: "https://a/1"}, {URL: "https://a/2"}}}
	b := staticSource{name: "b", articles: []ingest.RawArticle{{URL: "https://b/1"}}}

	src := NewMulti(a, b)
	assert.Equal(t, "a,b", src.Name())

	got, err := src.Fetch(t.Context())
	require.NoError(t, err)
	urls := make([]string, len(got))
	for i, g := range got {
		urls[i] = g.URL
	}
	assert.Equal(t, []string{"https://a/1", "https://a/2", "https://b/1"}, urls)
}

func TestMulti_Fetch_AnyFailureFails(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := NewMulti(
		staticSource{name: "ok", articles: []ingest.RawArticle{{URL: "https://ok/1"}}},
		staticSource{name: "bad", err: boom},
	)
	_, err := src.Fetch(t.Context())
	require.ErrorIs(t, err, boom)
}

func TestNewMulti_Single(t *testing.T) {
	t.Parallel()

	s := staticSource{name: "only"}
	assert.Equal(t, s, NewMulti(s))
}
