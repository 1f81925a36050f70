// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// LoggingMiddleware returns a [CompleteMiddleware] that logs each completion
// round using slog.
func LoggingMiddleware(logger *slog.Logger) CompleteMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next CompleteHandler) CompleteHandler {
		return func(ctx context.Context, conversation []Message, functions []FunctionSpec) (*CompletionResult, error) {
			start := time.Now()
			logger.DebugContext(ctx, "completion started",
				"message_count", len(conversation),
				"function_count", len(functions),
			)

			res, err := next(ctx, conversation, functions)

			duration := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "completion failed",
					"duration", duration,
					"error", err,
				)
				return nil, err
			}
			if res == nil {
				logger.WarnContext(ctx, "completion returned no result",
					"duration", duration,
				)
				return nil, nil
			}

			logger.InfoContext(ctx, "completion finished",
				"duration", duration,
				"function_call", res.HasFunctionCall(),
				"input_tokens", res.Usage.InputTokens,
				"output_tokens", res.Usage.OutputTokens,
			)
			return res, nil
		}
	}
}

// FunctionLoggingMiddleware returns a [FunctionMiddleware] that logs every
// local function invocation and its latency.
func FunctionLoggingMiddleware(logger *slog.Logger) FunctionMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next FunctionHandler) FunctionHandler {
		return func(ctx context.Context, fn Function, args json.RawMessage) (any, error) {
			start := time.Now()
			name := fn.Spec().Name
			result, err := next(ctx, fn, args)
			if err != nil {
				logger.WarnContext(ctx, "function failed",
					"function", name,
					"duration", time.Since(start),
					"error", err,
				)
				return nil, err
			}
			logger.DebugContext(ctx, "function finished",
				"function", name,
				"duration", time.Since(start),
			)
			return result, nil
		}
	}
}
