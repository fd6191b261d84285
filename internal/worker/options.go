package worker

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring a worker.
type Option func(*options)

type options struct {
	pollInterval   time.Duration
	batchSize      int
	maxConcurrent  int
	publishTimeout time.Duration
	log            *slog.Logger
}

// WithPollInterval sets how often the worker checks for due entries.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithBatchSize sets how many due entries are drained per poll.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithMaxConcurrent sets the maximum number of tweets published in parallel.
func WithMaxConcurrent(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConcurrent = n
		}
	}
}

// WithPublishTimeout bounds a single publishing API call.
func WithPublishTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.publishTimeout = d
		}
	}
}

// WithLogger sets the logger for the worker.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}
