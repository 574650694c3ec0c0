// Package ai wraps the Gemini client used for team recommendations and
// analysis. The model reply is free text; callers are expected to extract
// the JSON payload with ExtractJSON and degrade gracefully when that fails.
package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// GenerateFunc produces the raw model reply for a prompt.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// Generate is the active text generator. Tests swap it for a stub.
var Generate GenerateFunc = generateGemini

var (
	client *genai.Client
	model  string
)

// ErrNotConfigured is returned when the API key was never provided.
var ErrNotConfigured = errors.New("gemini client not configured")

// Init creates the Gemini client. Call once at boot; an empty API key
// leaves the client unconfigured and every Generate call failing.
func Init(ctx context.Context, apiKey, modelName string) error {
	if apiKey == "" {
		return ErrNotConfigured
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return err
	}

	client = c
	model = modelName
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return nil
}

func generateGemini(ctx context.Context, prompt string) (string, error) {
	if client == nil {
		return "", ErrNotConfigured
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}
