// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"github.com/jochenvw/cloudservicepipe/pipe"
)

// functionCallAuto lets the model decide whether to call a function.
const functionCallAuto = "auto"

// chatRequest is the Chat Completions request body using the
// functions/function_call fields.
type chatRequest struct {
	Model        string              `json:"model,omitempty"`
	Messages     []chatMessage       `json:"messages"`
	Temperature  *float64            `json:"temperature,omitempty"`
	Functions    []pipe.FunctionSpec `json:"functions,omitempty"`
	FunctionCall string              `json:"function_call,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// buildRequest converts a conversation and an optional function catalog
// into a request body. function_call is only set when functions are offered.
func buildRequest(conversation []pipe.Message, functions []pipe.FunctionSpec, model string, temperature *float64) *chatRequest {
	req := &chatRequest{
		Model:       model,
		Messages:    convertMessages(conversation),
		Temperature: temperature,
	}
	if len(functions) > 0 {
		req.Functions = functions
		req.FunctionCall = functionCallAuto
	}
	return req
}

// convertMessages translates pipe messages into wire messages.
func convertMessages(conversation []pipe.Message) []chatMessage {
	result := make([]chatMessage, 0, len(conversation))
	for _, m := range conversation {
		cm := chatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
		if m.Role == pipe.RoleFunction {
			cm.Name = m.Name
		}
		result = append(result, cm)
	}
	return result
}
