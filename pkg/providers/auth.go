package providers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// TokenSource returns credential material for request auth. The material is
// injected from config outside this package and must never be logged.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Source() string
}

type staticTokenSource struct {
	token  string
	source string
}

func NewStaticTokenSource(token, source string) TokenSource {
	return &staticTokenSource{
		token:  strings.TrimSpace(token),
		source: strings.TrimSpace(source),
	}
}

func (s *staticTokenSource) Token(context.Context) (string, error) {
	if s.token == "" {
		return "", fmt.Errorf("token is empty for %s", s.Source())
	}
	return s.token, nil
}

func (s *staticTokenSource) Source() string {
	if s.source != "" {
		return s.source
	}
	return "static"
}

type fileTokenSource struct {
	path string
}

func NewFileTokenSource(path string) TokenSource {
	return &fileTokenSource{path: strings.TrimSpace(path)}
}

func (s *fileTokenSource) Token(context.Context) (string, error) {
	resolved := expandHome(s.path)
	if resolved == "" {
		return "", fmt.Errorf("token file path is empty")
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", fmt.Errorf("read token file %s: %w", resolved, err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", fmt.Errorf("token file %s is empty", resolved)
	}
	return tok, nil
}

func (s *fileTokenSource) Source() string {
	if resolved := expandHome(s.path); resolved != "" {
		return resolved
	}
	return "token_file"
}

// AuthStrategy applies request auth for provider HTTP calls.
type AuthStrategy interface {
	Apply(ctx context.Context, req *http.Request) error
}

// anthropicKeyAuth sets the x-api-key and anthropic-version headers the
// Messages API expects.
type anthropicKeyAuth struct {
	source     TokenSource
	apiVersion string
}

func NewAnthropicKeyAuth(source TokenSource, apiVersion string) AuthStrategy {
	if strings.TrimSpace(apiVersion) == "" {
		apiVersion = "2023-06-01"
	}
	return &anthropicKeyAuth{source: source, apiVersion: apiVersion}
}

func (a *anthropicKeyAuth) Apply(ctx context.Context, req *http.Request) error {
	if a.source == nil {
		return fmt.Errorf("auth token source is nil")
	}
	tok, err := a.source.Token(ctx)
	if err != nil {
		return fmt.Errorf("resolve auth token: %w", err)
	}
	req.Header.Set("x-api-key", tok)
	req.Header.Set("anthropic-version", a.apiVersion)
	return nil
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
