package rrpc

import "time"

type serverOptions struct {
	logResponse     bool
	name            string
	workerNum       int
	limiterDuration time.Duration
	limiterCount    int
	limiterReject   bool
}

// ServerOption configures a Server.
type ServerOption func(o *serverOptions)

// WithServerName names the server. The name ends up in the "name" metric label
// and defaults to a random UUID.
func WithServerName(name string) ServerOption {
	return func(o *serverOptions) {
		o.name = name
	}
}

// WithLogResponse logs status and duration of every reply at info level.
func WithLogResponse(logResponse bool) ServerOption {
	return func(o *serverOptions) {
		o.logResponse = logResponse
	}
}

// WithLimiter admits up to count calls in any window of length d, refilling
// one slot every d/count. A count below 1 is treated as 1.
// Without this option the server admits 5 calls per second.
func WithLimiter(d time.Duration, count int) ServerOption {
	return func(o *serverOptions) {
		o.limiterDuration = d
		o.limiterCount = count
	}
}

// WithLimiterReject answers calls over the limit with 429 right away.
func WithLimiterReject() ServerOption {
	return func(o *serverOptions) {
		o.limiterReject = true
	}
}

// WithLimiterWait queues calls over the limit until a slot frees up.
// A call whose context ends first gets 408.
func WithLimiterWait() ServerOption {
	return func(o *serverOptions) {
		o.limiterReject = false
	}
}

// WithWorkerNum sizes the pool running handlers. It defaults to runtime.NumCPU().
func WithWorkerNum(count int) ServerOption {
	return func(o *serverOptions) {
		o.workerNum = count
	}
}
