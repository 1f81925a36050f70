// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"context"
	"log/slog"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

// ChatSingle sends one user message without functions and returns the
// trimmed reply.
func (c *Client) ChatSingle(ctx context.Context, message string, temperature float64) (string, error) {
	slog.InfoContext(ctx, "sending single chat completion request")
	text, err := c.chat(ctx, []pipe.Message{pipe.NewUserMessage(message)}, temperature)
	if err != nil {
		slog.ErrorContext(ctx, "single chat completion failed", "error", err)
		return "", err
	}
	slog.InfoContext(ctx, "received single chat completion response")
	return text, nil
}

// ChatMulti sends a multi-turn conversation without functions and returns
// the trimmed reply.
func (c *Client) ChatMulti(ctx context.Context, conversation []pipe.Message, temperature float64) (string, error) {
	slog.InfoContext(ctx, "sending multi-turn chat completion request", "message_count", len(conversation))
	text, err := c.chat(ctx, conversation, temperature)
	if err != nil {
		slog.ErrorContext(ctx, "multi-turn chat completion failed", "error", err)
		return "", err
	}
	slog.InfoContext(ctx, "received multi-turn chat completion response")
	return text, nil
}

func (c *Client) chat(ctx context.Context, conversation []pipe.Message, temperature float64) (string, error) {
	if err := pipe.ValidateConversation(conversation); err != nil {
		return "", err
	}
	res, err := c.send(ctx, buildRequest(conversation, nil, c.model, &temperature))
	if err != nil {
		return "", err
	}
	return res.Answer(), nil
}
