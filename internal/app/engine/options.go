package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	ExpiryInterval time.Duration
	StopTimeout    time.Duration
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		ExpiryInterval: time.Second,
		StopTimeout:    5 * time.Second,
	}
}
