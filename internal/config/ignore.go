package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/codesnap/internal/utils"
)

// LoadIgnoreFilePatterns reads one ignore file and returns its patterns.
// Blank lines, comment lines beginning with '#', and negation lines
// beginning with '!' are skipped. A missing file yields nil without error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openError := os.Open(ignoreFilePath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return nil, nil
		}
		return nil, openError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var patterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		lineValue := strings.TrimSpace(scanner.Text())
		if lineValue == "" || strings.HasPrefix(lineValue, "#") || strings.HasPrefix(lineValue, "!") {
			continue
		}
		patterns = append(patterns, lineValue)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patterns, nil
}

// LoadCombinedIgnorePatterns loads patterns from the project's .gitignore
// and .codesnapignore files and returns the combined, deduplicated list.
func LoadCombinedIgnorePatterns(absoluteRootPath string, useGitignore bool, useIgnoreFile bool) ([]string, error) {
	var combinedPatterns []string

	if useGitignore {
		gitIgnorePath := filepath.Join(absoluteRootPath, utils.GitIgnoreFileName)
		gitIgnorePatterns, loadError := LoadIgnoreFilePatterns(gitIgnorePath)
		if loadError != nil {
			return nil, fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, absoluteRootPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, gitIgnorePatterns...)
	}

	if useIgnoreFile {
		snapIgnorePath := filepath.Join(absoluteRootPath, utils.SnapIgnoreFileName)
		snapIgnorePatterns, loadError := LoadIgnoreFilePatterns(snapIgnorePath)
		if loadError != nil {
			return nil, fmt.Errorf("loading %s from %s: %w", utils.SnapIgnoreFileName, absoluteRootPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, snapIgnorePatterns...)
	}

	return utils.DeduplicatePatterns(combinedPatterns), nil
}
