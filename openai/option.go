// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

// clientConfig holds resolved configuration for the OpenAI clients.
type clientConfig struct {
	httpClient      *http.Client
	headers         map[string]string
	model           string
	temperature     *float64
	apiKeyHeader    bool
	azureCredential azcore.TokenCredential
	middleware      []pipe.CompleteMiddleware
}

// Option configures a [Client] or an [ImageClient].
type Option func(*clientConfig)

// WithHTTPClient provides a custom http.Client for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithHeaders adds custom headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) { c.headers = headers }
}

// WithModel sets the model sent with every request. Azure deployment URLs
// already pin the model and do not need it.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithTemperature sets the sampling temperature of function-calling rounds.
func WithTemperature(t float64) Option {
	return func(c *clientConfig) { c.temperature = &t }
}

// WithAPIKeyHeader sends the key in the Azure "api-key" header instead of
// as a bearer token.
func WithAPIKeyHeader() Option {
	return func(c *clientConfig) { c.apiKeyHeader = true }
}

// WithAzureCredential enables Azure AD token authentication using the provided credential.
// When set, the client will obtain and refresh tokens automatically instead of using API keys.
func WithAzureCredential(cred azcore.TokenCredential) Option {
	return func(c *clientConfig) { c.azureCredential = cred }
}

// WithCompleteMiddleware adds middleware around [Client.Complete].
// Middleware is applied in the order provided (first = outermost).
func WithCompleteMiddleware(mw ...pipe.CompleteMiddleware) Option {
	return func(c *clientConfig) { c.middleware = append(c.middleware, mw...) }
}
