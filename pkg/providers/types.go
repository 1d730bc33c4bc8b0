// Package providers reaches the outbound LLM endpoint. One operation:
// assembled request in, generated text out. Transport failures come back as
// typed errors the pipeline can recover from.
package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Message roles on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ImageSource is a base64-embedded image payload.
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// ContentBlock is one element of a message's content array: text or image.
type ContentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

func ImageBlock(mediaType, base64Data string) ContentBlock {
	return ContentBlock{
		Type:   "image",
		Source: &ImageSource{Type: "base64", MediaType: mediaType, Data: base64Data},
	}
}

// Message is one conversation turn as sent to the model.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

func TextMessage(role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{TextBlock(text)}}
}

// Options tunes a single generate call.
type Options struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Provider is the model gateway: system prompt + messages in, raw text out.
type Provider interface {
	Generate(ctx context.Context, systemPrompt string, messages []Message, opts Options) (string, error)
	DefaultModel() string
}

// GatewayError reports a non-success HTTP status from the model endpoint.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Body)
}

// IsTimeout reports whether err came from the per-call deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
