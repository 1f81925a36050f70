// Copyright (c) Microsoft. All rights reserved.

// Command chat answers questions through the two-round function-calling
// pipeline, offering the model a single GetWeather function.
//
// It works with both Azure OpenAI deployments and direct OpenAI.
//
// Usage with OpenAI:
//
//	export OPENAI_API_KEY=sk-...
//	go run .
//
// Usage with Azure OpenAI:
//
//	export AZURE_OPENAI_CHAT_URL=https://<resource>.openai.azure.com/openai/deployments/<deployment>/chat/completions?api-version=2023-07-01-preview
//	export AZURE_OPENAI_KEY=<your-key>          # optional, Azure AD is used when empty
//	export AZURE_OPENAI_IMAGE_URL=<dall-e url>  # optional, enables "image <prompt>"
//	go run .
//
// Run with -serve :8080 to answer over HTTP instead of stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/joho/godotenv"

	"github.com/jochenvw/cloudservicepipe/openai"
	"github.com/jochenvw/cloudservicepipe/pipe"
	"github.com/jochenvw/cloudservicepipe/weather"
)

func main() {
	serve := flag.String("serve", "", "listen address for HTTP mode (e.g. :8080); interactive when empty")
	flag.Parse()

	// Load .env file if present (ignored if missing).
	_ = godotenv.Load()

	cfg, err := osConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	logger := slog.Default()

	credential := sync.OnceValues(defaultCredential)
	auth, err := authOptions(cfg.azure(), cfg.azureKey, credential)
	if err != nil {
		log.Fatalf("Failed to set up authentication: %v", err)
	}

	catalog, err := pipe.NewCatalog(weather.Function(weather.WithLogger(logger)))
	if err != nil {
		log.Fatalf("Failed to build function catalog: %v", err)
	}
	catalog.Freeze()

	clientOpts := append([]openai.Option{
		openai.WithCompleteMiddleware(pipe.LoggingMiddleware(logger)),
	}, auth...)
	if cfg.model != "" {
		clientOpts = append(clientOpts, openai.WithModel(cfg.model))
	}
	client := openai.New(cfg.chatURL, cfg.key(cfg.azure()), clientOpts...)

	orch := pipe.NewOrchestrator(client, catalog,
		pipe.WithLogger(logger),
		pipe.WithRoundTimeout(cfg.roundTimeout),
		pipe.WithFailurePolicy(cfg.policy),
		pipe.WithDispatcher(pipe.NewDispatcher(catalog,
			pipe.WithDispatcherLogger(logger),
			pipe.WithFunctionMiddleware(pipe.FunctionLoggingMiddleware(logger)),
		)),
	)

	var images *openai.ImageClient
	if cfg.imageURL != "" {
		imageAuth, err := authOptions(cfg.imageAzure(), cfg.azureKey, credential)
		if err != nil {
			log.Fatalf("Failed to set up image authentication: %v", err)
		}
		images = openai.NewImageClient(cfg.imageURL, cfg.key(cfg.imageAzure()), imageAuth...)
	}

	if *serve != "" {
		if cfg.serverKey == "" {
			logger.Warn("PIPE_API_KEY not set, /ask is unauthenticated")
		}
		srv := newServer(orch, cfg.serverKey, logger)
		logger.Info("listening", "addr", *serve)
		if err := http.ListenAndServe(*serve, srv); err != nil {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	fmt.Println("Ask the assistant (type 'quit' to exit, 'image <prompt>' to generate an image)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			break
		}

		// Ctrl-C cancels the question in flight, not the program.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		if prompt, ok := strings.CutPrefix(input, "image "); ok {
			generateImage(ctx, images, prompt)
		} else {
			ask(ctx, orch, input)
		}
		stop()
		fmt.Println()
	}
}

func ask(ctx context.Context, orch *pipe.Orchestrator, question string) {
	out, err := orch.Run(ctx, question)
	if err != nil {
		if errors.Is(err, pipe.ErrCancelled) {
			fmt.Println("(cancelled)")
			return
		}
		log.Printf("Error: %v", err)
		return
	}
	if out.Answer == "" {
		fmt.Println("Assistant: (no answer)")
		return
	}
	fmt.Printf("Assistant: %s\n", out.Answer)
	if out.Usage.TotalTokens > 0 {
		fmt.Printf("  [rounds: %d, tokens: %d in, %d out]\n",
			out.Rounds, out.Usage.InputTokens, out.Usage.OutputTokens)
	}
}

func generateImage(ctx context.Context, images *openai.ImageClient, prompt string) {
	if images == nil {
		fmt.Println("Image generation is not configured (set AZURE_OPENAI_IMAGE_URL)")
		return
	}
	url, err := images.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}
	fmt.Printf("Image: %s\n", url)
}

// authOptions picks the authentication scheme for one endpoint. credential
// is only consulted for Azure endpoints without an API key.
func authOptions(azure bool, azureKey string, credential func() (azcore.TokenCredential, error)) ([]openai.Option, error) {
	if !azure {
		return nil, nil
	}
	if azureKey != "" {
		// Azure uses the api-key header instead of a bearer token.
		return []openai.Option{openai.WithAPIKeyHeader()}, nil
	}
	cred, err := credential()
	if err != nil {
		return nil, err
	}
	return []openai.Option{openai.WithAzureCredential(cred)}, nil
}

func defaultCredential() (azcore.TokenCredential, error) {
	fmt.Println("Using Azure AD authentication (DefaultAzureCredential)")
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return cred, nil
}
