package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultCallTimeout bounds a single generate call when the caller supplies
// none. Cancellation aborts the underlying request, not just the wait.
const defaultCallTimeout = 30 * time.Second

type anthropicProvider struct {
	apiBase      string
	defaultModel string
	auth         AuthStrategy
	httpClient   *http.Client
}

// NewAnthropicProvider builds a Messages API gateway. apiBase is the
// versioned base URL (".../v1"); proxy is optional.
func NewAnthropicProvider(apiBase, defaultModel, proxy string, auth AuthStrategy) (Provider, error) {
	apiBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if apiBase == "" {
		return nil, fmt.Errorf("anthropic API base not configured")
	}
	if auth == nil {
		return nil, fmt.Errorf("anthropic auth is not configured")
	}

	client := &http.Client{}
	proxy = strings.TrimSpace(proxy)
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse anthropic proxy: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return &anthropicProvider{
		apiBase:      apiBase,
		defaultModel: strings.TrimSpace(defaultModel),
		auth:         auth,
		httpClient:   client,
	}, nil
}

func (p *anthropicProvider) DefaultModel() string {
	if p == nil {
		return ""
	}
	return p.defaultModel
}

func (p *anthropicProvider) Generate(ctx context.Context, systemPrompt string, messages []Message, opts Options) (string, error) {
	if p == nil {
		return "", fmt.Errorf("provider not initialized")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	requestBody := map[string]interface{}{
		"model":      model,
		"max_tokens": maxTokens,
		"messages":   messages,
	}
	if strings.TrimSpace(systemPrompt) != "" {
		requestBody["system"] = systemPrompt
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshal anthropic request: %w", err)
	}

	endpoint := p.apiBase + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create anthropic request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if err := p.auth.Apply(ctx, req); err != nil {
		return "", fmt.Errorf("apply anthropic auth: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Deadline or cancellation aborted the network call.
			return "", fmt.Errorf("anthropic request aborted: %w", ctx.Err())
		}
		return "", fmt.Errorf("send anthropic request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read anthropic response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &GatewayError{StatusCode: resp.StatusCode, Body: extractAPIError(body)}
	}

	return parseMessagesResponse(body)
}

func parseMessagesResponse(body []byte) (string, error) {
	var apiResponse struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", fmt.Errorf("parse anthropic response: %w", err)
	}

	for _, block := range apiResponse.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	// No text block. Gate 1 treats the empty output as a critical finding.
	return "", nil
}

func extractAPIError(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "empty response body"
	}

	var payload struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}

	if len(trimmed) > 2000 {
		return trimmed[:2000] + "..."
	}
	return trimmed
}
