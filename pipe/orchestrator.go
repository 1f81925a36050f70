// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// State is a step of the two-round function-calling protocol.
type State int

const (
	StateStart State = iota
	StateAwaitingFirstResponse
	StateAwaitingFunctionResult
	StateAwaitingSecondResponse
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateAwaitingFirstResponse:
		return "awaiting_first_response"
	case StateAwaitingFunctionResult:
		return "awaiting_function_result"
	case StateAwaitingSecondResponse:
		return "awaiting_second_response"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Orchestrator answers a single user message, letting the model call at most
// one local function from the catalog before producing its final answer.
//
// Create one with [NewOrchestrator]:
//
//	orch := pipe.NewOrchestrator(client, catalog,
//	    pipe.WithRoundTimeout(20*time.Second),
//	)
//	answer, err := orch.Orchestrate(ctx, "What's the weather in Paris?")
//
// An Orchestrator holds no per-call state and is safe for concurrent use.
type Orchestrator struct {
	catalog      *Catalog
	dispatcher   *Dispatcher
	complete     CompleteHandler
	middleware   []CompleteMiddleware
	logger       *slog.Logger
	roundTimeout time.Duration
	policy       FailurePolicy
}

// NewOrchestrator creates an Orchestrator sending rounds to completer and
// offering the functions of catalog. A nil catalog offers no functions.
func NewOrchestrator(completer Completer, catalog *Catalog, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		catalog:      catalog,
		roundTimeout: DefaultRoundTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.dispatcher == nil {
		o.dispatcher = NewDispatcher(catalog, WithDispatcherLogger(o.logger))
	}
	o.complete = ChainCompleteMiddleware(completer.Complete, o.middleware...)
	return o
}

// Outcome describes a finished orchestration.
type Outcome struct {
	RunID string

	// Answer is the trimmed final text; empty when the model said nothing.
	Answer string

	// Rounds is the number of completion rounds issued (1 or 2).
	Rounds int

	// FunctionCall is the intent of round 1, if any.
	FunctionCall *FunctionCallIntent

	// FunctionResult is the payload sent back to the model in round 2.
	FunctionResult string

	// Usage is summed over all rounds.
	Usage UsageDetails
}

// Orchestrate answers userMessage. On transport failure the result depends on
// the [FailurePolicy]; cancellation of ctx always yields an error wrapping
// [ErrCancelled].
func (o *Orchestrator) Orchestrate(ctx context.Context, userMessage string) (string, error) {
	out, err := o.Run(ctx, userMessage)
	if err != nil {
		return "", err
	}
	return out.Answer, nil
}

// Run is like Orchestrate but returns the full [Outcome]. The returned
// Outcome is never nil when err is nil.
func (o *Orchestrator) Run(ctx context.Context, userMessage string) (*Outcome, error) {
	r := &run{
		o:   o,
		out: &Outcome{RunID: uuid.NewString()},
	}
	r.logger = o.logger.With("run_id", r.out.RunID)
	return r.execute(ctx, userMessage)
}

// run holds the state of one orchestration; it is never shared.
type run struct {
	o      *Orchestrator
	logger *slog.Logger
	state  State
	out    *Outcome
}

func (r *run) execute(ctx context.Context, userMessage string) (*Outcome, error) {
	r.enter(ctx, StateStart)
	if err := ctx.Err(); err != nil {
		return nil, r.cancelled(ctx, err)
	}

	user := NewUserMessage(userMessage)

	var functions []FunctionSpec
	if r.o.catalog != nil {
		functions = r.o.catalog.List()
	}
	r.enter(ctx, StateAwaitingFirstResponse, "function_count", len(functions))
	first, err := r.round(ctx, 1, []Message{user}, functions)
	if err != nil {
		return r.fail(ctx, err)
	}

	if !first.HasFunctionCall() {
		r.out.Answer = first.Answer()
		r.enter(ctx, StateDone, "rounds", r.out.Rounds)
		return r.out, nil
	}

	call := first.FunctionCall
	r.out.FunctionCall = call
	r.enter(ctx, StateAwaitingFunctionResult, "function", call.Name)
	result := r.o.dispatcher.Invoke(ctx, call.Name, call.Arguments)
	r.out.FunctionResult = result

	// Round 2 must not start once the caller has given up.
	if err := ctx.Err(); err != nil {
		return nil, r.cancelled(ctx, err)
	}

	followup := []Message{user, NewFunctionMessage(call.Name, result)}
	r.enter(ctx, StateAwaitingSecondResponse, "function", call.Name)
	second, err := r.round(ctx, 2, followup, nil)
	if err != nil {
		return r.fail(ctx, err)
	}

	r.out.Answer = second.Answer()
	r.enter(ctx, StateDone, "rounds", r.out.Rounds)
	return r.out, nil
}

// round issues one completion under its own time budget.
func (r *run) round(ctx context.Context, n int, conversation []Message, functions []FunctionSpec) (*CompletionResult, error) {
	rctx := ctx
	if r.o.roundTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, r.o.roundTimeout)
		defer cancel()
	}

	r.out.Rounds++
	res, err := r.o.complete(rctx, conversation, functions)
	if err != nil {
		if ctx.Err() != nil {
			return nil, r.cancelled(ctx, ctx.Err())
		}
		if errors.Is(rctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrRoundTimeout, err)
		}
		return nil, &TransportError{Round: n, Err: err}
	}
	if res == nil {
		return nil, &TransportError{Round: n, Err: fmt.Errorf("%w: no completion result", ErrInvalidResponse)}
	}
	r.out.Usage = r.out.Usage.Add(res.Usage)
	return res, nil
}

// fail applies the failure policy to a round error.
func (r *run) fail(ctx context.Context, err error) (*Outcome, error) {
	if errors.Is(err, ErrCancelled) {
		return nil, err
	}

	var te *TransportError
	round := 0
	if errors.As(err, &te) {
		round = te.Round
	}
	if te != nil && te.Timeout() {
		r.logger.ErrorContext(ctx, "completion round timed out",
			"round", round,
			"state", r.state.String(),
			"timeout", r.o.roundTimeout,
			"error", err,
		)
	} else {
		r.logger.ErrorContext(ctx, "completion round failed",
			"round", round,
			"state", r.state.String(),
			"error", err,
		)
	}

	r.enter(ctx, StateDone, "rounds", r.out.Rounds, "policy", r.o.policy.String())
	if r.o.policy == FailStrict {
		return nil, err
	}
	r.out.Answer = ""
	return r.out, nil
}

func (r *run) cancelled(ctx context.Context, cause error) error {
	r.logger.WarnContext(ctx, "orchestration cancelled",
		"state", r.state.String(),
		"rounds", r.out.Rounds,
	)
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// enter records a state transition; every transition emits one log event.
func (r *run) enter(ctx context.Context, s State, attrs ...any) {
	args := []any{"state", s.String()}
	if s != StateStart {
		args = append(args, "from", r.state.String())
	}
	r.state = s
	r.logger.InfoContext(ctx, "orchestration transition", append(args, attrs...)...)
}
