package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topicfeed_llm_requests_total",
			Help: "LLM upstream calls by provider, purpose and result",
		},
		[]string{"provider", "purpose", "result"},
	)

	upstreamTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topicfeed_llm_tokens_total",
			Help: "Tokens reported by the LLM upstream",
		},
		[]string{"provider", "direction"},
	)

	malformedReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topicfeed_classifier_malformed_replies_total",
			Help: "Classifier replies that did not contain a JSON array",
		},
		[]string{"provider"},
	)
)

func recordUpstream(provider, purpose string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	upstreamRequests.WithLabelValues(provider, purpose, result).Inc()
}

func recordTokens(provider string, u usage) {
	if u.input > 0 {
		upstreamTokens.WithLabelValues(provider, "input").Add(float64(u.input))
	}
	if u.output > 0 {
		upstreamTokens.WithLabelValues(provider, "output").Add(float64(u.output))
	}
}
