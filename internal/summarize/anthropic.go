package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	anthropicEndpoint          = "https://api.anthropic.com/v1/messages"
	anthropicDefaultModel      = "claude-3-5-haiku-latest"
	anthropicKeyEnvironmentVar = "ANTHROPIC_API_KEY"
	anthropicVersion           = "2023-06-01"
	anthropicMaxTokens         = 512
)

type anthropicProvider struct {
	client    httpClient
	endpoint  string
	apiKey    string
	modelName string
}

func newAnthropicProvider(modelName string) (*anthropicProvider, error) {
	apiKey := os.Getenv(anthropicKeyEnvironmentVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", anthropicKeyEnvironmentVar)
	}
	if modelName == "" {
		modelName = anthropicDefaultModel
	}
	return &anthropicProvider{
		client:    &http.Client{Timeout: 60 * time.Second},
		endpoint:  anthropicEndpoint,
		apiKey:    apiKey,
		modelName: modelName,
	}, nil
}

func (provider *anthropicProvider) Name() string {
	return ProviderAnthropic
}

func (provider *anthropicProvider) SummarizeFile(executionContext context.Context, relativePath string, content string, sentenceCount int) (string, error) {
	requestPayload := anthropicRequest{
		Model:     provider.modelName,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(relativePath, content, sentenceCount)},
		},
	}
	requestBytes, marshalError := json.Marshal(requestPayload)
	if marshalError != nil {
		return "", marshalError
	}

	request, requestError := http.NewRequestWithContext(executionContext, http.MethodPost, provider.endpoint, bytes.NewReader(requestBytes))
	if requestError != nil {
		return "", requestError
	}
	request.Header.Set("x-api-key", provider.apiKey)
	request.Header.Set("anthropic-version", anthropicVersion)
	request.Header.Set("Content-Type", "application/json")

	response, responseError := provider.client.Do(request)
	if responseError != nil {
		return "", responseError
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic returned %d", response.StatusCode)
	}

	var payload anthropicResponse
	if decodeError := json.NewDecoder(response.Body).Decode(&payload); decodeError != nil {
		return "", fmt.Errorf("decode anthropic response: %w", decodeError)
	}
	var textParts []string
	for _, contentBlock := range payload.Content {
		if contentBlock.Type == "text" {
			textParts = append(textParts, contentBlock.Text)
		}
	}
	if len(textParts) == 0 {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return strings.Join(textParts, "\n"), nil
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}
