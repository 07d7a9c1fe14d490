// Package snapshot turns a project directory into a single text artifact:
// a filtered directory tree plus the concatenated contents of the selected
// files. The engine is a pure function of root, options, and filesystem
// state; printing, clipboard routing, and exit-code mapping belong to the
// callers.
package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/codesnap/internal/filter"
	"github.com/temirov/codesnap/internal/language"
	"github.com/temirov/codesnap/internal/output"
	"github.com/temirov/codesnap/internal/tokenizer"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	warningSummarizeFormat   = "summaries unavailable: %v"
	warningTokenCountFormat  = "token counting unavailable: %v"
	blankLine                = "\n"
	summaryWarningPathMarker = "."
)

// Summarizer produces one summary string per file record, index-aligned with
// the input slice. Implementations live in the summarize package.
type Summarizer interface {
	SummarizeFiles(executionContext context.Context, records []types.FileRecord) ([]string, error)
}

// Options configures a single snapshot creation.
type Options struct {
	// FileSystem defaults to the operating system filesystem when nil.
	FileSystem afero.Fs
	// RootPath is the project root; empty means the current directory.
	RootPath string
	// LanguageName selects the extension filter. Empty triggers detection
	// from project manifests, falling back to "all".
	LanguageName string
	// Format is one of output.FormatText, FormatMarkdown, FormatJSON. Empty
	// means text.
	Format string
	// IgnorePatterns extend the language defaults, typically loaded from
	// .gitignore, .codesnapignore, and configuration.
	IgnorePatterns    []string
	ExcludePatterns   []string
	WhitelistPatterns []string
	SearchTerms       []string
	// MaxFileSizeBytes excludes larger files from contents; zero disables.
	MaxFileSizeBytes int64
	// MaxOutputBytes caps the rendered artifact; truncation happens at file
	// boundaries only. Zero disables.
	MaxOutputBytes int64
	// MaxOutputTokens caps the artifact by token count. Zero disables.
	MaxOutputTokens int
	// TreeDepth truncates the rendered tree below the given depth; zero
	// renders the full tree.
	TreeDepth int
	// OmitTree drops the directory structure block from the artifact.
	OmitTree bool
	// ShowFooter appends aggregate counts after the tree block.
	ShowFooter bool
	// CountTokens enables token counting of the final artifact.
	CountTokens bool
	// TokenCounter overrides the counter used for counting and token
	// budgeting. Nil selects an approximate counter when needed.
	TokenCounter tokenizer.Counter
	// Summarizer, when set, annotates each included file with a summary.
	Summarizer Summarizer
}

// Create builds the snapshot for the given options. Fatal failures return a
// nil snapshot with ErrInvalidRoot, language.ErrUnknownLanguage, or a
// TraversalError; recoverable problems surface as snapshot warnings.
func Create(executionContext context.Context, options Options) (*types.Snapshot, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	rootPath := options.RootPath
	if rootPath == "" {
		rootPath = "."
	}
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf("getting absolute path for %s: %w", rootPath, absolutePathError)
	}

	selectedLanguage, languageError := selectLanguage(fileSystem, absoluteRootPath, options.LanguageName)
	if languageError != nil {
		return nil, languageError
	}

	resolver := filter.NewResolver(filter.Rules{
		IgnorePatterns:    utils.DeduplicatePatterns(append(selectedLanguage.IgnorePatterns(), options.IgnorePatterns...)),
		ExcludePatterns:   options.ExcludePatterns,
		WhitelistPatterns: options.WhitelistPatterns,
		SearchTerms:       options.SearchTerms,
		IncludeExtensions: selectedLanguage.IncludeExtensions(),
		MaxFileSizeBytes:  options.MaxFileSizeBytes,
	})

	treeBuilder := &Builder{FileSystem: fileSystem, Resolver: resolver}
	rootNode, fileRecords, traversalWarnings, buildError := treeBuilder.Build(absoluteRootPath)
	if buildError != nil {
		return nil, buildError
	}

	snapshotResult := &types.Snapshot{
		ProjectName:  filepath.Base(absoluteRootPath),
		LanguageName: string(selectedLanguage),
		RootPath:     absoluteRootPath,
		Tree:         rootNode,
		Warnings:     traversalWarnings,
	}

	if options.Summarizer != nil && len(fileRecords) > 0 {
		summaries, summarizeError := options.Summarizer.SummarizeFiles(executionContext, fileRecords)
		if summarizeError != nil {
			snapshotResult.Warnings = append(snapshotResult.Warnings, types.Warning{
				Path:    summaryWarningPathMarker,
				Message: fmt.Sprintf(warningSummarizeFormat, summarizeError),
			})
		} else {
			for recordIndex := range fileRecords {
				if recordIndex < len(summaries) {
					fileRecords[recordIndex].Summary = summaries[recordIndex]
				}
			}
		}
	}

	artifactFormat := options.Format
	if artifactFormat == "" {
		artifactFormat = output.FormatText
	}
	artifactFormatter := &output.Formatter{
		Format:       artifactFormat,
		ProjectName:  snapshotResult.ProjectName,
		LanguageName: snapshotResult.LanguageName,
		RootPath:     snapshotResult.RootPath,
	}

	renderedArtifact := renderArtifact(artifactFormatter, rootNode, fileRecords, renderSettings{
		maxOutputBytes:  options.MaxOutputBytes,
		maxOutputTokens: options.MaxOutputTokens,
		treeDepth:       options.TreeDepth,
		omitTree:        options.OmitTree,
		showFooter:      options.ShowFooter,
		tokenCounter:    budgetCounter(options),
	})

	snapshotResult.Content = renderedArtifact.content
	snapshotResult.FileCount = renderedArtifact.includedFileCount
	snapshotResult.OmittedFileCount = renderedArtifact.omittedFileCount
	snapshotResult.Truncated = renderedArtifact.truncated
	snapshotResult.TotalSize = int64(len(renderedArtifact.content))

	if options.CountTokens {
		tokenCount, countError := countArtifactTokens(options, renderedArtifact.content)
		if countError != nil {
			snapshotResult.Warnings = append(snapshotResult.Warnings, types.Warning{
				Path:    summaryWarningPathMarker,
				Message: fmt.Sprintf(warningTokenCountFormat, countError),
			})
		} else {
			snapshotResult.TokenCount = tokenCount
		}
	}

	if artifactFormat == output.FormatJSON {
		jsonDocument, renderError := output.RenderJSON(snapshotResult)
		if renderError != nil {
			return nil, renderError
		}
		snapshotResult.Content = jsonDocument
	}

	return snapshotResult, nil
}

// selectLanguage resolves an explicit language name, or detects the project
// language from manifests when none is given. Detection failure falls back
// to the unfiltered "all" language rather than erroring.
func selectLanguage(fileSystem afero.Fs, rootPath string, languageName string) (language.Language, error) {
	if strings.TrimSpace(languageName) != "" {
		return language.Parse(languageName)
	}
	if detectedLanguage, detected := language.Detect(fileSystem, rootPath); detected {
		return detectedLanguage, nil
	}
	return language.All, nil
}

func budgetCounter(options Options) tokenizer.Counter {
	if options.TokenCounter != nil {
		return options.TokenCounter
	}
	if options.MaxOutputTokens > 0 {
		return tokenizer.NewApproximateCounter()
	}
	return nil
}

func countArtifactTokens(options Options, content string) (int, error) {
	counter := options.TokenCounter
	if counter == nil {
		counter = tokenizer.NewApproximateCounter()
	}
	return counter.CountString(content)
}

type renderSettings struct {
	maxOutputBytes  int64
	maxOutputTokens int
	treeDepth       int
	omitTree        bool
	showFooter      bool
	tokenCounter    tokenizer.Counter
}

type renderResult struct {
	content           string
	includedFileCount int
	omittedFileCount  int
	truncated         bool
}

// renderArtifact assembles the artifact sections in order: header, file
// contents, directory structure, optional footer. When a byte or token
// budget is set, file sections are admitted whole in tree order until the
// next section would overflow, and a truncation notice replaces the rest.
func renderArtifact(formatter *output.Formatter, rootNode *types.TreeNode, fileRecords []types.FileRecord, settings renderSettings) renderResult {
	fileSections := make([]string, len(fileRecords))
	for recordIndex, fileRecord := range fileRecords {
		fileSections[recordIndex] = formatter.FormatFile(fileRecord) + blankLine
	}

	prologue := formatter.FormatHeader() + blankLine + formatter.FormatContentsHeading() + blankLine
	epilogue := ""
	if !settings.omitTree {
		epilogue += formatter.FormatTreeHeading() + blankLine + formatter.FormatTree(rootNode, settings.treeDepth)
	}

	includedCount := admittedSectionCount(prologue, epilogue, fileSections, settings, formatter)
	omittedCount := len(fileSections) - includedCount

	var artifactBuilder strings.Builder
	artifactBuilder.WriteString(prologue)
	for sectionIndex := 0; sectionIndex < includedCount; sectionIndex++ {
		artifactBuilder.WriteString(fileSections[sectionIndex])
	}
	if omittedCount > 0 {
		artifactBuilder.WriteString(formatter.FormatTruncationNotice(omittedCount))
		artifactBuilder.WriteString(blankLine)
	}
	artifactBuilder.WriteString(epilogue)
	if settings.showFooter {
		artifactBuilder.WriteString(blankLine)
		artifactBuilder.WriteString(formatter.FormatFooter(includedCount, 0))
	}

	return renderResult{
		content:           artifactBuilder.String(),
		includedFileCount: includedCount,
		omittedFileCount:  omittedCount,
		truncated:         omittedCount > 0,
	}
}

// admittedSectionCount returns how many file sections fit within the active
// budgets. The truncation notice itself is charged against the budget so the
// final artifact never overshoots.
func admittedSectionCount(prologue string, epilogue string, fileSections []string, settings renderSettings, formatter *output.Formatter) int {
	if settings.maxOutputBytes <= 0 && settings.maxOutputTokens <= 0 {
		return len(fileSections)
	}

	fitsWithin := func(candidateCount int) bool {
		var candidateBuilder strings.Builder
		candidateBuilder.WriteString(prologue)
		for sectionIndex := 0; sectionIndex < candidateCount; sectionIndex++ {
			candidateBuilder.WriteString(fileSections[sectionIndex])
		}
		if candidateCount < len(fileSections) {
			candidateBuilder.WriteString(formatter.FormatTruncationNotice(len(fileSections) - candidateCount))
			candidateBuilder.WriteString(blankLine)
		}
		candidateBuilder.WriteString(epilogue)
		candidateContent := candidateBuilder.String()

		if settings.maxOutputBytes > 0 && int64(len(candidateContent)) > settings.maxOutputBytes {
			return false
		}
		if settings.maxOutputTokens > 0 && settings.tokenCounter != nil {
			tokenCount, countError := settings.tokenCounter.CountString(candidateContent)
			if countError == nil && tokenCount > settings.maxOutputTokens {
				return false
			}
		}
		return true
	}

	if fitsWithin(len(fileSections)) {
		return len(fileSections)
	}
	admittedCount := 0
	for candidateCount := 1; candidateCount <= len(fileSections); candidateCount++ {
		if !fitsWithin(candidateCount) {
			break
		}
		admittedCount = candidateCount
	}
	return admittedCount
}
