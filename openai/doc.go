// Copyright (c) Microsoft. All rights reserved.

// Package openai provides a [pipe.Completer] implementation for the OpenAI
// and Azure OpenAI Chat Completions API, plus an image generation client.
//
// Create a client and pass it to [pipe.NewOrchestrator]:
//
//	client := openai.New(os.Getenv("AZURE_OPENAI_CHAT_URL"), key,
//	    openai.WithAPIKeyHeader(),
//	)
//
//	orch := pipe.NewOrchestrator(client, catalog)
//
// Functions are declared with the functions/function_call request fields.
// A function_call in the reply is surfaced on the [pipe.CompletionResult]
// and never invoked by this package.
//
// # Configuration
//
// Use functional options to configure the client:
//
//   - [WithModel]: set the model (not needed for Azure deployment URLs)
//   - [WithAPIKeyHeader]: send the key as the Azure "api-key" header
//   - [WithAzureCredential]: authenticate with an Azure AD token
//   - [WithHTTPClient]: provide a custom http.Client
//   - [WithHeaders]: add custom headers to every request
//
// # Testing
//
// The client uses an unexported transport interface internally.
// For testing, provide a mock http.Client via [WithHTTPClient]
// with a custom RoundTripper.
package openai
