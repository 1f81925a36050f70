// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"encoding/json"
	"fmt"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

// chatCompletionResponse is the Chat Completions API response.
type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Index        int          `json:"index"`
	Message      *respMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

type respMessage struct {
	Role         string        `json:"role"`
	Content      *string       `json:"content"`
	FunctionCall *functionCall `json:"function_call,omitempty"`
	ToolCalls    []toolCall    `json:"tool_calls,omitempty"`
}

type functionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function functionCall `json:"function"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// unmarshalChatResponse parses the JSON response body.
func unmarshalChatResponse(data []byte) (*chatCompletionResponse, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", pipe.ErrInvalidResponse, err)
	}
	return &resp, nil
}

// parseChatResponse converts the first choice of raw into a
// [pipe.CompletionResult]. A function call is surfaced, never invoked.
func parseChatResponse(raw *chatCompletionResponse) (*pipe.CompletionResult, error) {
	if len(raw.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", pipe.ErrInvalidResponse)
	}
	c := raw.Choices[0]
	if c.Message == nil {
		return nil, fmt.Errorf("%w: choice has no message", pipe.ErrInvalidResponse)
	}

	res := &pipe.CompletionResult{
		ModelID:      raw.Model,
		FinishReason: mapFinishReason(c.FinishReason),
		Raw:          raw,
	}
	if raw.Usage != nil {
		res.Usage = pipe.UsageDetails{
			InputTokens:  raw.Usage.PromptTokens,
			OutputTokens: raw.Usage.CompletionTokens,
			TotalTokens:  raw.Usage.TotalTokens,
		}
	}
	if c.Message.Content != nil {
		res.Text = *c.Message.Content
	}

	fc := c.Message.FunctionCall
	if fc == nil && len(c.Message.ToolCalls) > 0 {
		// Newer deployments answer with tool_calls even for functions requests.
		fc = &c.Message.ToolCalls[0].Function
	}
	if fc != nil {
		intent, err := parseFunctionCall(fc)
		if err != nil {
			return nil, err
		}
		res.FunctionCall = intent
	}
	return res, nil
}

// parseFunctionCall normalizes the arguments field, which the API sends as a
// JSON-encoded string, into raw JSON.
func parseFunctionCall(fc *functionCall) (*pipe.FunctionCallIntent, error) {
	if fc.Name == "" {
		return nil, fmt.Errorf("%w: function_call has no name", pipe.ErrInvalidResponse)
	}
	if len(fc.Arguments) == 0 || string(fc.Arguments) == "null" {
		return nil, fmt.Errorf("%w: function_call %q has no arguments", pipe.ErrInvalidResponse, fc.Name)
	}

	args := fc.Arguments
	if args[0] == '"' {
		var s string
		if err := json.Unmarshal(args, &s); err != nil {
			return nil, fmt.Errorf("%w: function_call arguments: %w", pipe.ErrInvalidResponse, err)
		}
		args = json.RawMessage(s)
	}
	return &pipe.FunctionCallIntent{Name: fc.Name, Arguments: args}, nil
}

func mapFinishReason(s string) pipe.FinishReason {
	switch s {
	case "stop":
		return pipe.FinishReasonStop
	case "length":
		return pipe.FinishReasonLength
	case "function_call", "tool_calls":
		return pipe.FinishReasonFunctionCall
	case "content_filter":
		return pipe.FinishReasonContentFilter
	default:
		return pipe.FinishReason(s)
	}
}
