// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

const defaultImageSize = "1024x1024"

// ImageClient generates images through an image generations endpoint.
type ImageClient struct {
	tp transport
}

type imageRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// NewImageClient creates an [ImageClient] posting to url, the full image
// generations URL. It accepts the same options as [New].
func NewImageClient(url, apiKey string, opts ...Option) *ImageClient {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return &ImageClient{tp: newHTTPTransport(url, apiKey, cfg)}
}

// Generate requests a single image for prompt and returns its URL.
func (c *ImageClient) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: empty prompt", pipe.ErrInvalidRequest)
	}
	slog.InfoContext(ctx, "submitting image generation request", "prompt", prompt)

	resp, err := c.tp.post(ctx, &imageRequest{Prompt: prompt, N: 1, Size: defaultImageSize})
	if err != nil {
		slog.ErrorContext(ctx, "image generation failed", "error", err)
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response body: %w", pipe.ErrTransport, err)
	}

	var out imageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: parse response: %w", pipe.ErrInvalidResponse, err)
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", fmt.Errorf("%w: no image url", pipe.ErrInvalidResponse)
	}

	slog.InfoContext(ctx, "image generated", "url", out.Data[0].URL)
	return out.Data[0].URL, nil
}
