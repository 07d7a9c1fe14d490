// Package tokenizer estimates token counts for snapshot content so the
// engine can enforce token budgets matching an LLM context window.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultEncodingName matches GPT-4 class models.
	DefaultEncodingName = "o200k_base"
	// LegacyEncodingName matches GPT-3.5 class models.
	LegacyEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested tiktoken encoding name.
// An empty name selects DefaultEncodingName.
func NewCounter(encodingName string) (Counter, error) {
	normalizedName := strings.TrimSpace(encodingName)
	if normalizedName == "" {
		normalizedName = DefaultEncodingName
	}
	encoding, encodingError := tiktoken.GetEncoding(normalizedName)
	if encodingError != nil {
		return nil, fmt.Errorf("initialize tokenizer encoding %s: %w", normalizedName, encodingError)
	}
	return tiktokenCounter{encoding: encoding, name: normalizedName}, nil
}

// NewApproximateCounter returns a Counter that estimates one token per four
// characters. It is used when exact counting is disabled.
func NewApproximateCounter() Counter {
	return approximateCounter{}
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string {
	return counter.name
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	tokenIdentifiers := counter.encoding.Encode(input, nil, nil)
	return len(tokenIdentifiers), nil
}

type approximateCounter struct{}

func (approximateCounter) Name() string {
	return "approximate"
}

func (approximateCounter) CountString(input string) (int, error) {
	return len(input) / 4, nil
}
