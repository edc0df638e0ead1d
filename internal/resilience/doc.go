// Package resilience holds the fault tolerance helpers wrapped around every
// upstream call: classifier APIs, news feeds and article pages.
//
//	cb := circuitbreaker.New(circuitbreaker.ClassifierConfig("claude-api"))
//	err := retry.WithBackoff(ctx, retry.AIAPIConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) { return call(ctx) })
//	    return err
//	})
package resilience
