// Package llm wraps the generative text service behind a narrow Completer
// interface so pipeline stages can be exercised with deterministic fakes.
package llm

import "context"

// Completer sends one prompt and returns the model's raw text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single-turn completion request.
type Request struct {
	Instructions string
	Input        string
	// JSON asks the service for a JSON object response.
	JSON bool
	// Temperature is used when non-nil.
	Temperature *float64
}

// Settings configures a concrete client.
type Settings struct {
	Model   string
	APIKey  string
	BaseURL string
}

// Temperature is a helper for Request.Temperature.
func Temperature(t float64) *float64 { return &t }
