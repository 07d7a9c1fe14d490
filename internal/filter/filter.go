// Package filter implements the inclusion policy for snapshot traversal.
// A Resolver is a pure predicate over relative paths: it never touches the
// filesystem and holds no mutable state, so identical rule sets always
// produce identical decisions.
package filter

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Decision is the outcome of resolving one path against the active rule set.
type Decision int

const (
	// DecisionIncluded admits the path into the snapshot.
	DecisionIncluded Decision = iota
	// DecisionExcludedByIgnore rejects the path via an ignore or exclude
	// pattern. For directories this rejects the entire subtree.
	DecisionExcludedByIgnore
	// DecisionExcludedByExtension rejects a file via an allow-list rule:
	// the extension filter, the whitelist, or the search-term filter.
	DecisionExcludedByExtension
)

// String returns the decision name for diagnostics.
func (decision Decision) String() string {
	switch decision {
	case DecisionIncluded:
		return "included"
	case DecisionExcludedByIgnore:
		return "excluded_by_ignore"
	case DecisionExcludedByExtension:
		return "excluded_by_extension"
	default:
		return "unknown"
	}
}

// Rules bundles every filtering input for a Resolver.
type Rules struct {
	// IgnorePatterns are shell-glob patterns (doublestar semantics: *, ?, **)
	// matched against every path segment as well as the whole relative path.
	// A trailing slash restricts the pattern to directories.
	IgnorePatterns []string
	// ExcludePatterns are user-supplied patterns with the same semantics and
	// the same precedence as IgnorePatterns.
	ExcludePatterns []string
	// WhitelistPatterns force-include matching files, bypassing the
	// extension filter. They never override ignore or exclude patterns.
	WhitelistPatterns []string
	// SearchTerms restrict files to those whose name contains one of the
	// terms, case-insensitively.
	SearchTerms []string
	// IncludeExtensions is the extension allow-list. Empty disables
	// extension filtering.
	IncludeExtensions []string
	// MaxFileSizeBytes excludes larger files from content inclusion only;
	// zero or negative disables the cap.
	MaxFileSizeBytes int64
}

// Resolver decides whether paths under a project root participate in a
// snapshot. Construct one with NewResolver.
type Resolver struct {
	ignorePatterns    []string
	excludePatterns   []string
	whitelistPatterns []string
	searchTerms       []string
	includeExtensions map[string]struct{}
	maxFileSizeBytes  int64
}

// NewResolver builds a Resolver from the provided rules.
func NewResolver(rules Rules) *Resolver {
	extensionSet := make(map[string]struct{}, len(rules.IncludeExtensions))
	for _, extension := range rules.IncludeExtensions {
		extensionSet[extension] = struct{}{}
	}
	loweredTerms := make([]string, 0, len(rules.SearchTerms))
	for _, term := range rules.SearchTerms {
		trimmedTerm := strings.TrimSpace(term)
		if trimmedTerm != "" {
			loweredTerms = append(loweredTerms, strings.ToLower(trimmedTerm))
		}
	}
	return &Resolver{
		ignorePatterns:    append([]string(nil), rules.IgnorePatterns...),
		excludePatterns:   append([]string(nil), rules.ExcludePatterns...),
		whitelistPatterns: append([]string(nil), rules.WhitelistPatterns...),
		searchTerms:       loweredTerms,
		includeExtensions: extensionSet,
		maxFileSizeBytes:  rules.MaxFileSizeBytes,
	}
}

// Resolve classifies the path relative to the project root. The precedence
// order is ignore > exclude > search terms > whitelist > extension; an
// ignored path is never included regardless of any allow-list match.
// Directories are never excluded by extension so deeper included files stay
// reachable.
func (resolver *Resolver) Resolve(relativePath string, isDirectory bool) Decision {
	normalizedPath := normalizeRelativePath(relativePath)
	if normalizedPath == "" || normalizedPath == "." {
		return DecisionIncluded
	}

	if matchesAnyPattern(resolver.ignorePatterns, normalizedPath, isDirectory) {
		return DecisionExcludedByIgnore
	}
	if matchesAnyPattern(resolver.excludePatterns, normalizedPath, isDirectory) {
		return DecisionExcludedByIgnore
	}
	if isDirectory {
		return DecisionIncluded
	}

	entryName := path.Base(normalizedPath)
	if len(resolver.searchTerms) > 0 && !resolver.matchesSearchTerms(entryName) {
		return DecisionExcludedByExtension
	}
	if len(resolver.whitelistPatterns) > 0 {
		if resolver.matchesWhitelist(normalizedPath, entryName) {
			return DecisionIncluded
		}
		return DecisionExcludedByExtension
	}
	if len(resolver.includeExtensions) > 0 {
		if _, allowed := resolver.includeExtensions[path.Ext(entryName)]; !allowed {
			return DecisionExcludedByExtension
		}
	}
	return DecisionIncluded
}

// ExceedsSizeLimit reports whether a file of the given size is too large for
// content inclusion. Oversized files stay visible in the rendered tree.
func (resolver *Resolver) ExceedsSizeLimit(sizeBytes int64) bool {
	return resolver.maxFileSizeBytes > 0 && sizeBytes > resolver.maxFileSizeBytes
}

func (resolver *Resolver) matchesSearchTerms(entryName string) bool {
	loweredName := strings.ToLower(entryName)
	for _, term := range resolver.searchTerms {
		if strings.Contains(loweredName, term) {
			return true
		}
	}
	return false
}

func (resolver *Resolver) matchesWhitelist(normalizedPath string, entryName string) bool {
	for _, pattern := range resolver.whitelistPatterns {
		if matched, matchError := doublestar.Match(pattern, normalizedPath); matchError == nil && matched {
			return true
		}
		if matched, matchError := doublestar.Match(pattern, entryName); matchError == nil && matched {
			return true
		}
	}
	return false
}

// matchesAnyPattern reports whether any pattern matches the path. Single
// segment patterns are tested against every path segment, so a pattern that
// names a directory excludes everything beneath it without recursion.
// Multi-segment patterns are tested against the whole path and each of its
// ancestor prefixes.
func matchesAnyPattern(patterns []string, normalizedPath string, isDirectory bool) bool {
	for _, pattern := range patterns {
		if matchesPattern(pattern, normalizedPath, isDirectory) {
			return true
		}
	}
	return false
}

func matchesPattern(pattern string, normalizedPath string, isDirectory bool) bool {
	normalizedPattern := strings.ReplaceAll(strings.TrimSpace(pattern), "\\", "/")
	if normalizedPattern == "" {
		return false
	}
	directoryOnly := strings.HasSuffix(normalizedPattern, "/")
	trimmedPattern := strings.TrimSuffix(normalizedPattern, "/")
	pathSegments := strings.Split(normalizedPath, "/")

	if strings.Contains(trimmedPattern, "/") {
		for segmentCount := 1; segmentCount <= len(pathSegments); segmentCount++ {
			prefixPath := strings.Join(pathSegments[:segmentCount], "/")
			matched, matchError := doublestar.Match(trimmedPattern, prefixPath)
			if matchError != nil || !matched {
				continue
			}
			if directoryOnly && segmentCount == len(pathSegments) && !isDirectory {
				continue
			}
			return true
		}
		return false
	}

	for segmentIndex, segment := range pathSegments {
		matched, matchError := doublestar.Match(trimmedPattern, segment)
		if matchError != nil || !matched {
			continue
		}
		// A match on a non-final segment means an ancestor directory
		// matched, which excludes this path outright.
		if directoryOnly && segmentIndex == len(pathSegments)-1 && !isDirectory {
			continue
		}
		return true
	}
	return false
}

func normalizeRelativePath(relativePath string) string {
	normalized := strings.ReplaceAll(relativePath, "\\", "/")
	return strings.Trim(normalized, "/")
}
