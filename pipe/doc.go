// Copyright (c) Microsoft. All rights reserved.

// Package pipe forwards a user message to a chat completion service and lets
// the model call one local function before it answers.
//
// # Quick Start
//
// Build a [Catalog] once at startup, then create an [Orchestrator] around a
// [Completer] (e.g., from the openai package):
//
//	catalog, err := pipe.NewCatalog(weather.Function())
//	if err != nil {
//	    return err
//	}
//	catalog.Freeze()
//
//	orch := pipe.NewOrchestrator(client, catalog)
//	answer, err := orch.Orchestrate(ctx, "What's the weather in Paris?")
//
// # Protocol
//
// An orchestration runs at most two completion rounds:
//
//   - Round 1 sends the user message with the catalog attached.
//   - If the reply carries a [FunctionCallIntent], the [Dispatcher] runs the
//     named function. Unknown names, malformed arguments and function
//     failures all produce [EmptyResult] so the conversation can continue.
//   - Round 2 sends the user message plus a function-role message holding
//     the result, without the catalog, and its text is the answer.
//
// Transport failures are reported according to the [FailurePolicy].
// Cancellation of the caller's context is always returned as an error
// wrapping [ErrCancelled].
//
// # Functions
//
// Use [NewTypedFunction] for functions with typed arguments and a generated
// JSON Schema:
//
//	type Args struct {
//	    City string `json:"city" jsonschema:"required,description=Name of the city"`
//	}
//
//	fn := pipe.NewTypedFunction("GetWeather", "Get the weather for a city",
//	    func(ctx context.Context, args Args) (any, error) {
//	        return lookup(ctx, args.City)
//	    },
//	)
package pipe
