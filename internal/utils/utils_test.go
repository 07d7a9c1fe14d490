package utils

import (
	"testing"
)

func TestDeduplicatePatterns(t *testing.T) {
	deduplicated := DeduplicatePatterns([]string{"a", "b", "a", "c", "b"})
	expected := []string{"a", "b", "c"}
	if len(deduplicated) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, deduplicated)
	}
	for patternIndex, expectedPattern := range expected {
		if deduplicated[patternIndex] != expectedPattern {
			t.Fatalf("expected %v, got %v", expected, deduplicated)
		}
	}
}

func TestContainsString(t *testing.T) {
	values := []string{"alpha", "beta"}
	if !ContainsString(values, "beta") {
		t.Fatalf("expected beta to be found")
	}
	if ContainsString(values, "gamma") {
		t.Fatalf("did not expect gamma to be found")
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		bytes  int64
		expect string
	}{
		{0, "0b"},
		{512, "512b"},
		{1024, "1kb"},
		{1536, "1.5kb"},
		{10 * 1024, "10kb"},
		{3 * 1024 * 1024, "3mb"},
	}
	for _, testCase := range testCases {
		if formatted := FormatFileSize(testCase.bytes); formatted != testCase.expect {
			t.Fatalf("FormatFileSize(%d) = %q, want %q", testCase.bytes, formatted, testCase.expect)
		}
	}
}

func TestIsBinary(t *testing.T) {
	if IsBinary([]byte("plain text\n")) {
		t.Fatalf("plain text must not be binary")
	}
	if IsBinary(nil) {
		t.Fatalf("empty content must not be binary")
	}
	if !IsBinary([]byte{0x00, 0x01}) {
		t.Fatalf("NUL bytes must be binary")
	}
	if !IsBinary([]byte{0xff, 0xfe, 0xfd}) {
		t.Fatalf("invalid UTF-8 must be binary")
	}
}
