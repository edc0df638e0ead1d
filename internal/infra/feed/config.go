package feed

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"topicfeed/internal/usecase/ingest"
)

// Source types accepted in the feeds file.
const (
	TypeNewsAPI = "newsapi"
	TypeRSS     = "rss"
)

// SourceSpec describes one entry of the feeds file.
type SourceSpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	URL      string `yaml:"url"`
	Query    string `yaml:"query,omitempty"`
	PageSize int    `yaml:"page_size,omitempty"`
}

// FileConfig is the FEEDS_CONFIG document:
//
//	feeds:
//	  - name: bbc-world
//	    type: rss
//	    url: https://feeds.bbci.co.uk/news/world/rss.xml
//	  - name: newsapi
//	    type: newsapi
//	    url: https://newsapi.org/v2/everything
//	    query: india
type FileConfig struct {
	Feeds []SourceSpec `yaml:"feeds"`
}

// LoadFile reads and validates a feeds file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read feeds config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a feeds document.
func Parse(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse feeds config: %w", err)
	}
	if len(cfg.Feeds) == 0 {
		return nil, errors.New("feeds config: no feeds defined")
	}
	seen := map[string]bool{}
	for i, f := range cfg.Feeds {
		if f.Name == "" {
			return nil, fmt.Errorf("feeds config: feed %d has no name", i)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("feeds config: duplicate feed name %q", f.Name)
		}
		seen[f.Name] = true
		if f.URL == "" {
			return nil, fmt.Errorf("feeds config: feed %q has no url", f.Name)
		}
		if f.Type != TypeNewsAPI && f.Type != TypeRSS {
			return nil, fmt.Errorf("feeds config: feed %q has unknown type %q", f.Name, f.Type)
		}
	}
	return &cfg, nil
}

// Build turns the specs into one FeedSource. newsAPIKey is used by every
// newsapi entry.
func Build(client *http.Client, specs []SourceSpec, newsAPIKey string) (ingest.FeedSource, error) {
	if len(specs) == 0 {
		return nil, errors.New("no feed sources")
	}
	sources := make([]ingest.FeedSource, 0, len(specs))
	for _, s := range specs {
		switch s.Type {
		case TypeNewsAPI:
			if newsAPIKey == "" {
				return nil, fmt.Errorf("feed %q: NEWS_API_KEY is required", s.Name)
			}
			sources = append(sources, NewNewsAPI(client, NewsAPIConfig{
				Name: s.Name, URL: s.URL, APIKey: newsAPIKey, Query: s.Query, PageSize: s.PageSize,
			}))
		case TypeRSS:
			sources = append(sources, NewRSS(client, s.Name, s.URL))
		default:
			return nil, fmt.Errorf("feed %q: unknown type %q", s.Name, s.Type)
		}
	}
	return NewMulti(sources...), nil
}
