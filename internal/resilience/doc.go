// Package resilience provides fault tolerance patterns for calls leaving the process.
//
// The subpackages cover:
//   - circuitbreaker: breakers for language model APIs, page fetches and the result cache
//   - retry: exponential backoff with jitter for transient failures
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ModelConfig("claude"))
//	err := retry.WithBackoff(ctx, retry.ModelAPIConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) {
//	        return client.Messages.New(ctx, params)
//	    })
//	    return err
//	})
package resilience
