package gen

import (
	"encoding/json"
	"fmt"
)

// DefaultMaxTokens is applied when a request leaves MaxTokens unset.
const DefaultMaxTokens = 256

// GenerateRequest configures one generate call.
// Constructed per call; not retained by the client.
type GenerateRequest struct {
	// Model is the model name. Required.
	Model string `json:"model"`

	// Prompt is the text to complete. Required.
	Prompt string `json:"prompt"`

	// MaxTokens limits the response length.
	// Values <= 0 use DefaultMaxTokens.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Validate checks the request before any network activity.
func (r GenerateRequest) Validate() error {
	if r.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidArgument)
	}
	if r.Prompt == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidArgument)
	}
	return nil
}

// wireRequest is the JSON body sent to the generate endpoint.
type wireRequest struct {
	Model      string          `json:"model"`
	Prompt     string          `json:"prompt"`
	Stream     bool            `json:"stream"`
	NumPredict int             `json:"num_predict"`
	Format     json.RawMessage `json:"format,omitempty"`
}

// wire converts the request to its on-the-wire shape. The optional format
// carries a JSON Schema for structured output calls.
func (r GenerateRequest) wire(stream bool, format json.RawMessage) wireRequest {
	maxTokens := r.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return wireRequest{
		Model:      r.Model,
		Prompt:     r.Prompt,
		Stream:     stream,
		NumPredict: maxTokens,
		Format:     format,
	}
}
