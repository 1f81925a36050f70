// Copyright (c) Microsoft. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

// config is the environment-driven setup of the sample.
type config struct {
	chatURL      string
	azureKey     string
	openAIKey    string
	imageURL     string
	model        string
	roundTimeout time.Duration
	policy       pipe.FailurePolicy
	debug        bool
	serverKey    string
}

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

// loadConfig reads the sample configuration through getenv.
func loadConfig(getenv func(string) string) (*config, error) {
	cfg := &config{
		chatURL:      getenv("AZURE_OPENAI_CHAT_URL"),
		azureKey:     getenv("AZURE_OPENAI_KEY"),
		openAIKey:    getenv("OPENAI_API_KEY"),
		imageURL:     getenv("AZURE_OPENAI_IMAGE_URL"),
		model:        getenv("OPENAI_MODEL"),
		roundTimeout: pipe.DefaultRoundTimeout,
		debug:        getenv("DEBUG") != "",
		serverKey:    getenv("PIPE_API_KEY"),
	}

	if cfg.chatURL == "" {
		if cfg.openAIKey == "" {
			return nil, errors.New("set AZURE_OPENAI_CHAT_URL or OPENAI_API_KEY")
		}
		cfg.chatURL = openAIChatURL
		if cfg.model == "" {
			cfg.model = "gpt-4o"
		}
	}

	if cfg.imageURL != "" && isOpenAIURL(cfg.imageURL) && cfg.openAIKey == "" {
		return nil, errors.New("AZURE_OPENAI_IMAGE_URL points at OpenAI but OPENAI_API_KEY is not set")
	}

	if v := getenv("PIPE_ROUND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PIPE_ROUND_TIMEOUT: %w", err)
		}
		cfg.roundTimeout = d
	}

	if v := getenv("PIPE_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("PIPE_STRICT: %w", err)
		}
		if strict {
			cfg.policy = pipe.FailStrict
		}
	}
	return cfg, nil
}

// azure reports whether the chat endpoint is an Azure OpenAI deployment.
func (c *config) azure() bool {
	return !isOpenAIURL(c.chatURL)
}

// imageAzure reports whether the image endpoint is an Azure OpenAI
// deployment. It is decided independently of the chat endpoint.
func (c *config) imageAzure() bool {
	return c.imageURL != "" && !isOpenAIURL(c.imageURL)
}

// key returns the API key matching an endpoint kind.
func (c *config) key(azure bool) string {
	if azure {
		return c.azureKey
	}
	return c.openAIKey
}

func isOpenAIURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Hostname() == "api.openai.com"
}

func osConfig() (*config, error) {
	return loadConfig(os.Getenv)
}
