// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"log/slog"
	"time"
)

// FailurePolicy decides what a caller sees when a completion round fails.
type FailurePolicy int

const (
	// FailSoft returns an empty answer and a nil error on transport failure.
	// Cancellation of the caller's context is still reported as an error.
	FailSoft FailurePolicy = iota

	// FailStrict returns the *TransportError to the caller.
	FailStrict
)

func (p FailurePolicy) String() string {
	switch p {
	case FailSoft:
		return "soft"
	case FailStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// DefaultRoundTimeout is the per-round budget used when none is configured.
const DefaultRoundTimeout = 30 * time.Second

// OrchestratorOption configures an [Orchestrator] via [NewOrchestrator].
type OrchestratorOption func(*Orchestrator)

// WithLogger sets the logger used for state transitions and failures.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithRoundTimeout sets the time budget of each completion round.
// A zero or negative value disables the per-round timeout.
func WithRoundTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.roundTimeout = d }
}

// WithFailurePolicy selects how transport failures are reported.
func WithFailurePolicy(p FailurePolicy) OrchestratorOption {
	return func(o *Orchestrator) { o.policy = p }
}

// WithDispatcher replaces the default [Dispatcher] built from the catalog.
func WithDispatcher(d *Dispatcher) OrchestratorOption {
	return func(o *Orchestrator) { o.dispatcher = d }
}

// WithCompleteMiddleware adds [CompleteMiddleware] around every round.
// Middleware is applied in the order provided (first = outermost).
func WithCompleteMiddleware(mws ...CompleteMiddleware) OrchestratorOption {
	return func(o *Orchestrator) { o.middleware = append(o.middleware, mws...) }
}
