package filter

import (
	"testing"
)

type resolveTestCase struct {
	name         string
	rules        Rules
	relativePath string
	isDirectory  bool
	expect       Decision
}

func TestResolverResolve(t *testing.T) {
	testCases := []resolveTestCase{
		{
			name:         "ignored_directory",
			rules:        Rules{IgnorePatterns: []string{"node_modules"}},
			relativePath: "node_modules",
			isDirectory:  true,
			expect:       DecisionExcludedByIgnore,
		},
		{
			name:         "ignored_ancestor_excludes_descendant",
			rules:        Rules{IgnorePatterns: []string{"node_modules"}},
			relativePath: "node_modules/lodash/index.js",
			expect:       DecisionExcludedByIgnore,
		},
		{
			name:         "directory_only_pattern_skips_files",
			rules:        Rules{IgnorePatterns: []string{"build/"}},
			relativePath: "build",
			expect:       DecisionIncluded,
		},
		{
			name:         "directory_only_pattern_matches_directory",
			rules:        Rules{IgnorePatterns: []string{"build/"}},
			relativePath: "build",
			isDirectory:  true,
			expect:       DecisionExcludedByIgnore,
		},
		{
			name:         "glob_pattern_matches_segment",
			rules:        Rules{IgnorePatterns: []string{"*.log"}},
			relativePath: "logs/app.log",
			expect:       DecisionExcludedByIgnore,
		},
		{
			name:         "multi_segment_pattern",
			rules:        Rules{IgnorePatterns: []string{"docs/**/internal"}},
			relativePath: "docs/api/internal/notes.md",
			expect:       DecisionExcludedByIgnore,
		},
		{
			name:         "exclude_same_precedence_as_ignore",
			rules:        Rules{ExcludePatterns: []string{"generated"}},
			relativePath: "generated/schema.py",
			expect:       DecisionExcludedByIgnore,
		},
		{
			name:         "extension_allow_list_rejects",
			rules:        Rules{IncludeExtensions: []string{".py"}},
			relativePath: "notes.txt",
			expect:       DecisionExcludedByExtension,
		},
		{
			name:         "extension_allow_list_accepts",
			rules:        Rules{IncludeExtensions: []string{".py"}},
			relativePath: "pkg/main.py",
			expect:       DecisionIncluded,
		},
		{
			name:         "empty_extension_list_accepts_everything",
			rules:        Rules{},
			relativePath: "anything.bin",
			expect:       DecisionIncluded,
		},
		{
			name:         "whitelist_bypasses_extension_filter",
			rules:        Rules{IncludeExtensions: []string{".py"}, WhitelistPatterns: []string{"Makefile"}},
			relativePath: "Makefile",
			expect:       DecisionIncluded,
		},
		{
			name:         "whitelist_active_rejects_nonmatching",
			rules:        Rules{IncludeExtensions: []string{".py"}, WhitelistPatterns: []string{"Makefile"}},
			relativePath: "main.py",
			expect:       DecisionExcludedByExtension,
		},
		{
			name:         "whitelist_never_overrides_ignore",
			rules:        Rules{IgnorePatterns: []string{"vendor"}, WhitelistPatterns: []string{"*.go"}},
			relativePath: "vendor/lib.go",
			expect:       DecisionExcludedByIgnore,
		},
		{
			name:         "search_term_matches_case_insensitively",
			rules:        Rules{SearchTerms: []string{"Handler"}},
			relativePath: "http/request_handler.py",
			expect:       DecisionIncluded,
		},
		{
			name:         "search_term_rejects_nonmatching",
			rules:        Rules{SearchTerms: []string{"handler"}},
			relativePath: "http/router.py",
			expect:       DecisionExcludedByExtension,
		},
		{
			name:         "directories_pass_allow_list_rules",
			rules:        Rules{IncludeExtensions: []string{".py"}, SearchTerms: []string{"handler"}},
			relativePath: "src",
			isDirectory:  true,
			expect:       DecisionIncluded,
		},
		{
			name:         "root_is_always_included",
			rules:        Rules{IgnorePatterns: []string{"*"}},
			relativePath: ".",
			isDirectory:  true,
			expect:       DecisionIncluded,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resolver := NewResolver(testCase.rules)
			decision := resolver.Resolve(testCase.relativePath, testCase.isDirectory)
			if decision != testCase.expect {
				t.Fatalf("Resolve(%q, %v) = %s, want %s", testCase.relativePath, testCase.isDirectory, decision, testCase.expect)
			}
		})
	}
}

func TestResolverExceedsSizeLimit(t *testing.T) {
	limitedResolver := NewResolver(Rules{MaxFileSizeBytes: 100})
	if limitedResolver.ExceedsSizeLimit(100) {
		t.Fatalf("size equal to the limit must be admitted")
	}
	if !limitedResolver.ExceedsSizeLimit(101) {
		t.Fatalf("size above the limit must be rejected")
	}

	unlimitedResolver := NewResolver(Rules{})
	if unlimitedResolver.ExceedsSizeLimit(1 << 40) {
		t.Fatalf("zero limit disables the size cap")
	}
}
