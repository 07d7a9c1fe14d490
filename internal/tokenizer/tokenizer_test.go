package tokenizer

import (
	"strings"
	"testing"
)

func TestApproximateCounter(t *testing.T) {
	counter := NewApproximateCounter()

	tokenCount, countError := counter.CountString(strings.Repeat("a", 40))
	if countError != nil {
		t.Fatalf("CountString error: %v", countError)
	}
	if tokenCount != 10 {
		t.Fatalf("expected 10 tokens for 40 characters, got %d", tokenCount)
	}

	emptyCount, emptyError := counter.CountString("")
	if emptyError != nil {
		t.Fatalf("CountString error: %v", emptyError)
	}
	if emptyCount != 0 {
		t.Fatalf("expected 0 tokens for empty input, got %d", emptyCount)
	}
}

func TestNewCounterRejectsUnknownEncoding(t *testing.T) {
	if _, counterError := NewCounter("not-an-encoding"); counterError == nil {
		t.Fatalf("expected error for unknown encoding name")
	}
}
