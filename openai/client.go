// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client implements [pipe.Completer] against a Chat Completions endpoint.
// Use [New] to create one.
type Client struct {
	tp          transport
	model       string
	temperature *float64
	handler     pipe.CompleteHandler
}

// Verify interface compliance at compile time.
var _ pipe.Completer = (*Client)(nil)

// New creates a [Client] posting to url, the full chat completions URL
// (for Azure: .../openai/deployments/<name>/chat/completions?api-version=...).
//
//	client := openai.New(os.Getenv("AZURE_OPENAI_CHAT_URL"), key,
//	    openai.WithAPIKeyHeader(),
//	)
func New(url, apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	c := &Client{
		tp:          newHTTPTransport(url, apiKey, cfg),
		model:       cfg.model,
		temperature: cfg.temperature,
	}
	c.handler = pipe.ChainCompleteMiddleware(c.coreComplete, cfg.middleware...)
	return c
}

// newWithTransport creates a Client with a custom transport (for testing).
func newWithTransport(tp transport, model string) *Client {
	c := &Client{tp: tp, model: model}
	c.handler = c.coreComplete
	return c
}

// Complete sends one chat completion request. When functions is non-empty
// they are offered to the model with function_call set to "auto".
func (c *Client) Complete(ctx context.Context, conversation []pipe.Message, functions []pipe.FunctionSpec) (*pipe.CompletionResult, error) {
	return c.handler(ctx, conversation, functions)
}

// coreComplete is the base implementation called by the middleware chain.
func (c *Client) coreComplete(ctx context.Context, conversation []pipe.Message, functions []pipe.FunctionSpec) (*pipe.CompletionResult, error) {
	if err := pipe.ValidateConversation(conversation); err != nil {
		return nil, err
	}
	return c.send(ctx, buildRequest(conversation, functions, c.model, c.temperature))
}

func (c *Client) send(ctx context.Context, req *chatRequest) (*pipe.CompletionResult, error) {
	resp, err := c.tp.post(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %w", pipe.ErrTransport, err)
	}

	raw, err := unmarshalChatResponse(body)
	if err != nil {
		return nil, err
	}
	return parseChatResponse(raw)
}
