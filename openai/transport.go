// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

const cognitiveServicesScope = "https://cognitiveservices.azure.com/.default"

// transport is an unexported interface for HTTP communication.
// The default implementation uses net/http; tests inject a mock.
type transport interface {
	post(ctx context.Context, body any) (*http.Response, error)
}

// httpTransport posts JSON to a single endpoint URL.
type httpTransport struct {
	client          *http.Client
	url             string
	apiKey          string
	apiKeyHeader    bool
	headers         map[string]string
	azureCredential azcore.TokenCredential
}

func newHTTPTransport(url, apiKey string, opts *clientConfig) *httpTransport {
	t := &httpTransport{
		client:          opts.httpClient,
		url:             url,
		apiKey:          apiKey,
		apiKeyHeader:    opts.apiKeyHeader,
		headers:         opts.headers,
		azureCredential: opts.azureCredential,
	}
	if t.client == nil {
		t.client = http.DefaultClient
	}
	return t
}

func (t *httpTransport) post(ctx context.Context, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", pipe.ErrInvalidRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", pipe.ErrInvalidRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	switch {
	case t.azureCredential != nil:
		slog.DebugContext(ctx, "acquiring Azure AD token for Cognitive Services")
		token, err := t.azureCredential.GetToken(ctx, policy.TokenRequestOptions{
			Scopes: []string{cognitiveServicesScope},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: get azure token: %w", pipe.ErrAuth, err)
		}
		slog.DebugContext(ctx, "using Azure AD token authentication", "token_expires_on", token.ExpiresOn)
		req.Header.Set("Authorization", "Bearer "+token.Token)
	case t.apiKeyHeader:
		req.Header.Set("api-key", t.apiKey)
	case t.apiKey != "":
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %w", pipe.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, parseErrorResponse(resp)
	}

	return resp, nil
}

// parseErrorResponse reads an error response body and returns a typed error.
func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)

	msg := apiErr.Error.Message
	if msg == "" {
		msg = string(body)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	svcErr := &pipe.ServiceError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Code:       apiErr.Error.Code,
	}

	switch {
	case apiErr.Error.Code == "content_filter":
		svcErr.Err = pipe.ErrContentFilter
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		svcErr.Err = pipe.ErrAuth
	case resp.StatusCode == http.StatusBadRequest:
		svcErr.Err = pipe.ErrInvalidRequest
	default:
		svcErr.Err = pipe.ErrTransport
	}

	return svcErr
}
