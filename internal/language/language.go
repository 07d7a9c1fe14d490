// Package language defines the closed set of project languages the snapshot
// engine understands, together with their default extension allow-lists and
// ignore patterns.
package language

import (
	"errors"
	"fmt"
	"strings"
)

// Language identifies one supported project language.
type Language string

const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Python     Language = "python"
	Go         Language = "go"

	// All disables extension filtering; every readable text file qualifies.
	All Language = "all"
)

// ErrUnknownLanguage is returned when a language name is not in the known set.
var ErrUnknownLanguage = errors.New("unknown language")

// Parse resolves a language name to its Language value. Matching is
// case-insensitive. An empty name resolves to All.
func Parse(name string) (Language, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(name))
	switch normalizedName {
	case "":
		return All, nil
	case string(JavaScript):
		return JavaScript, nil
	case string(TypeScript):
		return TypeScript, nil
	case string(Python):
		return Python, nil
	case string(Go):
		return Go, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, name)
	}
}

// Known returns every selectable language name, excluding All.
func Known() []string {
	return []string{string(JavaScript), string(TypeScript), string(Python), string(Go)}
}

var includeExtensionsByLanguage = map[Language][]string{
	JavaScript: {".js", ".jsx", ".json", ".md", ".yml", ".yaml"},
	TypeScript: {".ts", ".tsx", ".js", ".jsx", ".json", ".md", ".yml", ".yaml"},
	Python:     {".py", ".pyi", ".toml", ".cfg", ".ini", ".md", ".yml", ".yaml"},
	Go:         {".go", ".mod", ".sum", ".toml", ".md", ".yml", ".yaml"},
}

var ignorePatternsByLanguage = map[Language][]string{
	JavaScript: {
		"node_modules/", "dist/", "build/", "coverage/", ".next/",
		"*.log", "*.lock", ".env*", ".cache/", "tmp/", "temp/",
		"*.min.js", "*.map", ".DS_Store", ".vscode/", ".idea/",
	},
	TypeScript: {
		"node_modules/", "dist/", "build/", "coverage/", ".next/",
		"*.log", "*.lock", ".env*", ".cache/", "tmp/", "temp/",
		"*.min.js", "*.map", ".DS_Store", ".vscode/", ".idea/",
		"*.tsbuildinfo", "out/",
	},
	Python: {
		"__pycache__/", "*.pyc", "*.pyo", "*.pyd", ".Python",
		"venv/", "env/", "ENV/", ".venv/", "dist/", "build/",
		"*.egg-info/", ".pytest_cache/", ".coverage", "htmlcov/",
		".tox/", ".mypy_cache/", ".ruff_cache/", "*.log", ".DS_Store",
		".vscode/", ".idea/", "*.db", "*.sqlite", ".uv/", ".pdm-python",
		".pdm-build/",
	},
	Go: {
		"vendor/", "bin/", "dist/", "*.exe", "*.test", "*.out",
		"*.log", ".DS_Store", ".vscode/", ".idea/",
	},
}

// IncludeExtensions returns the default extension allow-list for the language.
// All returns nil, which disables extension filtering.
func (language Language) IncludeExtensions() []string {
	extensions, known := includeExtensionsByLanguage[language]
	if !known {
		return nil
	}
	return append([]string(nil), extensions...)
}

// IgnorePatterns returns the default ignore patterns for the language.
func (language Language) IgnorePatterns() []string {
	patterns, known := ignorePatternsByLanguage[language]
	if !known {
		return nil
	}
	return append([]string(nil), patterns...)
}
