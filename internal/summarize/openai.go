package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	openAIEndpoint          = "https://api.openai.com/v1/chat/completions"
	openAIDefaultModel      = "gpt-4o-mini"
	openAIKeyEnvironmentVar = "OPENAI_API_KEY"
)

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

type openAIProvider struct {
	client    httpClient
	endpoint  string
	apiKey    string
	modelName string
}

func newOpenAIProvider(modelName string) (*openAIProvider, error) {
	apiKey := os.Getenv(openAIKeyEnvironmentVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", openAIKeyEnvironmentVar)
	}
	if modelName == "" {
		modelName = openAIDefaultModel
	}
	return &openAIProvider{
		client:    &http.Client{Timeout: 60 * time.Second},
		endpoint:  openAIEndpoint,
		apiKey:    apiKey,
		modelName: modelName,
	}, nil
}

func (provider *openAIProvider) Name() string {
	return ProviderOpenAI
}

func (provider *openAIProvider) SummarizeFile(executionContext context.Context, relativePath string, content string, sentenceCount int) (string, error) {
	requestPayload := openAIRequest{
		Model: provider.modelName,
		Messages: []openAIMessage{
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
	request.Header.Set("Authorization", "Bearer "+provider.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, responseError := provider.client.Do(request)
	if responseError != nil {
		return "", responseError
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned %d", response.StatusCode)
	}

	var payload openAIResponse
	if decodeError := json.NewDecoder(response.Body).Decode(&payload); decodeError != nil {
		return "", fmt.Errorf("decode openai response: %w", decodeError)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return payload.Choices[0].Message.Content, nil
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}
