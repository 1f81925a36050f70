// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"context"
	"encoding/json"
	"strings"
)

// Completer is the transport boundary to the chat completion service.
// Provider packages (e.g., openai) implement this interface.
//
// Complete issues exactly one outbound request. When functions is non-empty
// the model may answer with a [FunctionCallIntent] instead of text; the
// intent is surfaced, never invoked.
type Completer interface {
	Complete(ctx context.Context, conversation []Message, functions []FunctionSpec) (*CompletionResult, error)
}

// CompleterFunc adapts a plain function to the [Completer] interface.
type CompleterFunc func(ctx context.Context, conversation []Message, functions []FunctionSpec) (*CompletionResult, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, conversation []Message, functions []FunctionSpec) (*CompletionResult, error) {
	return f(ctx, conversation, functions)
}

// FunctionCallIntent is the model's request to run a named local function.
// Arguments are passed through untyped; each function parses its own.
type FunctionCallIntent struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// CompletionResult is the normalized outcome of one completion round.
type CompletionResult struct {
	Text         string
	FunctionCall *FunctionCallIntent
	ModelID      string
	FinishReason FinishReason
	Usage        UsageDetails

	// Raw holds the original provider-specific representation, if any.
	Raw any
}

// HasFunctionCall reports whether the model asked for a function to be run.
func (r *CompletionResult) HasFunctionCall() bool {
	return r != nil && r.FunctionCall != nil
}

// Answer returns the trimmed text of r, or "" when r is nil.
func (r *CompletionResult) Answer() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Text)
}

// UsageDetails holds token consumption statistics for a model response.
type UsageDetails struct {
	InputTokens  int `json:"inputTokenCount,omitempty"`
	OutputTokens int `json:"outputTokenCount,omitempty"`
	TotalTokens  int `json:"totalTokenCount,omitempty"`
}

// Add returns the element-wise sum of u and other.
func (u UsageDetails) Add(other UsageDetails) UsageDetails {
	return UsageDetails{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
		TotalTokens:  u.TotalTokens + other.TotalTokens,
	}
}
