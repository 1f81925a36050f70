// Copyright (c) Microsoft. All rights reserved.

// Package weather provides the GetWeather function offered to the model.
// Lookups are simulated: every city reports the same sunny forecast after a
// short delay.
package weather

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

const (
	// Name is the function name exposed to the model.
	Name = "GetWeather"

	description = "Get the weather for a city"

	// DefaultLatency is the simulated lookup delay.
	DefaultLatency = 500 * time.Millisecond
)

// Args are the arguments of GetWeather.
type Args struct {
	City string `json:"city" jsonschema:"required,description=Name of the city"`
}

// Validate rejects a missing city.
func (a *Args) Validate() error {
	if strings.TrimSpace(a.City) == "" {
		return errors.New("city is required")
	}
	return nil
}

// Report is the result of GetWeather.
type Report struct {
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	City        string `json:"city"`
}

type options struct {
	latency time.Duration
	logger  *slog.Logger
}

// Option configures the GetWeather function.
type Option func(*options)

// WithLatency overrides the simulated lookup delay.
func WithLatency(d time.Duration) Option {
	return func(o *options) { o.latency = d }
}

// WithLogger sets the logger used for lookups.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Function returns the GetWeather function, ready for a [pipe.Catalog].
func Function(opts ...Option) *pipe.LocalFunction {
	o := &options{latency: DefaultLatency}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return pipe.NewTypedFunction(Name, description, func(ctx context.Context, args Args) (any, error) {
		return lookup(ctx, o, args.City)
	})
}

func lookup(ctx context.Context, o *options, city string) (*Report, error) {
	o.logger.InfoContext(ctx, "simulating weather lookup", "city", city)

	if o.latency > 0 {
		timer := time.NewTimer(o.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &Report{
		Temperature: "34°C",
		Condition:   "Sunny",
		City:        city,
	}, nil
}
