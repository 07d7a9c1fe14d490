// Package summarize annotates snapshot files with short natural-language
// summaries produced by an LLM provider. Providers are thin HTTP clients;
// the service fans file requests out with a bounded worker group while
// keeping results aligned with the input order.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/codesnap/internal/types"
)

const (
	// ProviderOpenAI selects the OpenAI chat completions API.
	ProviderOpenAI = "openai"
	// ProviderAnthropic selects the Anthropic messages API.
	ProviderAnthropic = "anthropic"

	defaultSentenceCount    = 2
	defaultConcurrencyLimit = 4
	maxPromptContentBytes   = 16384

	promptFormat = "Summarize the following source file %s in at most %d sentences. " +
		"Describe what the code does, not how it is formatted.\n\n%s"
)

// Provider generates a summary for a single file.
type Provider interface {
	Name() string
	SummarizeFile(executionContext context.Context, relativePath string, content string, sentenceCount int) (string, error)
}

// NewProvider constructs a Provider by name. The API key comes from the
// provider's conventional environment variable.
func NewProvider(providerName string, modelName string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(providerName)) {
	case ProviderOpenAI:
		return newOpenAIProvider(modelName)
	case ProviderAnthropic:
		return newAnthropicProvider(modelName)
	default:
		return nil, fmt.Errorf("unknown summary provider: %s", providerName)
	}
}

// Service runs the summary pass over a snapshot's file records.
type Service struct {
	provider         Provider
	sentenceCount    int
	concurrencyLimit int
}

// NewService wraps a provider with fan-out and ordering behavior. A
// non-positive sentence count falls back to the default.
func NewService(provider Provider, sentenceCount int) *Service {
	if sentenceCount <= 0 {
		sentenceCount = defaultSentenceCount
	}
	return &Service{
		provider:         provider,
		sentenceCount:    sentenceCount,
		concurrencyLimit: defaultConcurrencyLimit,
	}
}

// SummarizeFiles produces one summary per record, index-aligned with the
// input. Each worker writes into its pre-assigned slot so completion order
// never affects the result. The first provider error cancels the rest.
func (service *Service) SummarizeFiles(executionContext context.Context, records []types.FileRecord) ([]string, error) {
	summaries := make([]string, len(records))

	workerGroup, groupContext := errgroup.WithContext(executionContext)
	workerGroup.SetLimit(service.concurrencyLimit)
	for recordIndex := range records {
		fileRecord := records[recordIndex]
		slotIndex := recordIndex
		workerGroup.Go(func() error {
			summary, summarizeError := service.provider.SummarizeFile(groupContext, fileRecord.Path, fileRecord.Content, service.sentenceCount)
			if summarizeError != nil {
				return fmt.Errorf("summarizing %s: %w", fileRecord.Path, summarizeError)
			}
			summaries[slotIndex] = strings.TrimSpace(summary)
			return nil
		})
	}
	if waitError := workerGroup.Wait(); waitError != nil {
		return nil, waitError
	}
	return summaries, nil
}

// buildPrompt assembles the summary request text, truncating oversized file
// content so a single huge file cannot blow the provider's context window.
func buildPrompt(relativePath string, content string, sentenceCount int) string {
	if len(content) > maxPromptContentBytes {
		content = content[:maxPromptContentBytes]
	}
	return fmt.Sprintf(promptFormat, relativePath, sentenceCount, content)
}
