// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codesnap/internal/config"
	"github.com/temirov/codesnap/internal/language"
	"github.com/temirov/codesnap/internal/output"
	"github.com/temirov/codesnap/internal/services/clipboard"
	"github.com/temirov/codesnap/internal/snapshot"
	"github.com/temirov/codesnap/internal/summarize"
	"github.com/temirov/codesnap/internal/tokenizer"
	"github.com/temirov/codesnap/internal/utils"
)

// Process exit codes reported to the shell.
const (
	ExitSuccess         = 0
	ExitFailure         = 1
	ExitInvalidRoot     = 2
	ExitUnknownLanguage = 3
	ExitTraversalError  = 4
)

const (
	languageFlagName         = "language"
	languageFlagShorthand    = "l"
	outputFlagName           = "output"
	outputFlagShorthand      = "o"
	copyFlagName             = "copy"
	copyFlagShorthand        = "c"
	formatFlagName           = "format"
	maxBytesFlagName         = "max-bytes"
	maxTokensFlagName        = "max-tokens"
	modelEncodingFlagName    = "model-encoding"
	noCountTokensFlagName    = "no-count-tokens"
	noTreeFlagName           = "no-tree"
	treeDepthFlagName        = "tree-depth"
	includeFlagName          = "include"
	excludeFlagName          = "exclude"
	searchTermFlagName       = "search-term"
	searchTermFlagShorthand  = "s"
	maxFileSizeFlagName      = "max-file-size"
	noGitignoreFlagName      = "no-gitignore"
	noIgnoreFlagName         = "no-ignore"
	footerFlagName           = "footer"
	summarizeFlagName        = "summarize"
	llmProviderFlagName      = "llm-provider"
	summarySentencesFlagName = "summary-sentences"
	profileFlagName          = "profile"
	configFlagName           = "config"
	versionFlagName          = "version"

	rootUse              = "codesnap [path]"
	rootShortDescription = "create a shareable text snapshot of a project"
	rootLongDescription  = `codesnap walks a project directory and renders a single text artifact:
the directory structure plus the contents of the files that match the
active language filter and ignore rules. The artifact is written to
standard output, a file, or the clipboard.`
	rootUsageExample = `  # Snapshot the current directory, auto-detecting the language
  codesnap

  # Snapshot a Python project to the clipboard
  codesnap -l python -c ~/src/service

  # Markdown snapshot capped at 100000 tokens
  codesnap --format markdown --max-tokens 100000 .`

	versionTemplate = "codesnap version: %s\n"
	defaultPath     = "."

	languageFlagDescription         = "language filter (javascript, typescript, python, go); detected when omitted"
	outputFlagDescription           = "write the snapshot to a file instead of standard output"
	copyFlagDescription             = "copy the snapshot to the system clipboard"
	formatFlagDescription           = "output format (text, markdown, json)"
	maxBytesFlagDescription         = "total artifact size budget in bytes"
	maxTokensFlagDescription        = "total artifact size budget in tokens"
	modelEncodingFlagDescription    = "tokenizer encoding used for counting and budgets"
	noCountTokensFlagDescription    = "skip token counting"
	noTreeFlagDescription           = "omit the directory structure block"
	treeDepthFlagDescription        = "limit rendered tree depth; 0 renders everything"
	includeFlagDescription          = "whitelist pattern; matching files bypass the extension filter"
	excludeFlagDescription          = "exclude path pattern"
	searchTermFlagDescription       = "only include files whose name contains the term"
	maxFileSizeFlagDescription      = "per-file size limit in bytes; larger files stay in the tree without content"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use " + utils.SnapIgnoreFileName
	footerFlagDescription           = "append aggregate counts after the tree"
	summarizeFlagDescription        = "annotate each file with an LLM-generated summary"
	llmProviderFlagDescription      = "summary provider (openai, anthropic)"
	summarySentencesFlagDescription = "maximum sentences per file summary"
	profileFlagDescription          = "apply a saved profile by name"
	configFlagDescription           = "path to a configuration file"
	versionFlagDescription          = "display application version"

	invalidFormatMessage        = "invalid format value '%s'"
	warningLineFormat           = "Warning: %s: %s"
	warningCounterFormat        = "Warning: tokenizer %s unavailable, using approximate counts: %v"
	tokenCountMessageFormat     = "Token count (%s): %d"
	copiedMessageFormat         = "Snapshot copied to clipboard (%d files, %s)"
	writtenMessageFormat        = "Snapshot written to %s (%d files, %s)"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
)

// Execute runs the codesnap application and returns the process exit code.
func Execute(applicationLogger *zap.Logger) int {
	rootCommand := createRootCommand(applicationLogger)
	executionError := rootCommand.Execute()
	if executionError == nil {
		return ExitSuccess
	}
	applicationLogger.Error(errorStyle.Render("Error: " + executionError.Error()))
	return exitCodeForError(executionError)
}

func exitCodeForError(executionError error) int {
	if errors.Is(executionError, snapshot.ErrInvalidRoot) {
		return ExitInvalidRoot
	}
	if errors.Is(executionError, language.ErrUnknownLanguage) {
		return ExitUnknownLanguage
	}
	var traversalError *snapshot.TraversalError
	if errors.As(executionError, &traversalError) {
		return ExitTraversalError
	}
	return ExitFailure
}

// snapshotFlagValues holds every flag bound on the root command.
type snapshotFlagValues struct {
	languageName     string
	outputPath       string
	copyToClipboard  bool
	outputFormat     string
	maxBytes         int64
	maxTokens        int
	modelEncoding    string
	noCountTokens    bool
	noTree           bool
	treeDepth        int
	includePatterns  []string
	excludePatterns  []string
	searchTerms      []string
	maxFileSize      int64
	disableGitignore bool
	disableIgnore    bool
	showFooter       bool
	summarizeFiles   bool
	llmProvider      string
	summarySentences int
	profileName      string
	configPath       string
}

// createRootCommand builds the root Cobra command.
func createRootCommand(applicationLogger *zap.Logger) *cobra.Command {
	var showVersion bool
	flagValues := &snapshotFlagValues{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(ExitSuccess)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}
			return runSnapshot(command, rootPath, flagValues, applicationLogger)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	addSnapshotFlags(rootCommand, flagValues)
	rootCommand.AddCommand(createProfileCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// addSnapshotFlags registers snapshot flags on the command.
func addSnapshotFlags(command *cobra.Command, flagValues *snapshotFlagValues) {
	command.Flags().StringVarP(&flagValues.languageName, languageFlagName, languageFlagShorthand, "", languageFlagDescription)
	command.Flags().StringVarP(&flagValues.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	command.Flags().BoolVarP(&flagValues.copyToClipboard, copyFlagName, copyFlagShorthand, false, copyFlagDescription)
	command.Flags().StringVar(&flagValues.outputFormat, formatFlagName, output.FormatText, formatFlagDescription)
	command.Flags().Int64Var(&flagValues.maxBytes, maxBytesFlagName, 0, maxBytesFlagDescription)
	command.Flags().IntVar(&flagValues.maxTokens, maxTokensFlagName, 0, maxTokensFlagDescription)
	command.Flags().StringVar(&flagValues.modelEncoding, modelEncodingFlagName, tokenizer.DefaultEncodingName, modelEncodingFlagDescription)
	command.Flags().BoolVar(&flagValues.noCountTokens, noCountTokensFlagName, false, noCountTokensFlagDescription)
	command.Flags().BoolVar(&flagValues.noTree, noTreeFlagName, false, noTreeFlagDescription)
	command.Flags().IntVar(&flagValues.treeDepth, treeDepthFlagName, 0, treeDepthFlagDescription)
	command.Flags().StringArrayVar(&flagValues.includePatterns, includeFlagName, nil, includeFlagDescription)
	command.Flags().StringArrayVar(&flagValues.excludePatterns, excludeFlagName, nil, excludeFlagDescription)
	command.Flags().StringArrayVarP(&flagValues.searchTerms, searchTermFlagName, searchTermFlagShorthand, nil, searchTermFlagDescription)
	command.Flags().Int64Var(&flagValues.maxFileSize, maxFileSizeFlagName, 0, maxFileSizeFlagDescription)
	command.Flags().BoolVar(&flagValues.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	command.Flags().BoolVar(&flagValues.disableIgnore, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	command.Flags().BoolVar(&flagValues.showFooter, footerFlagName, false, footerFlagDescription)
	command.Flags().BoolVar(&flagValues.summarizeFiles, summarizeFlagName, false, summarizeFlagDescription)
	command.Flags().StringVar(&flagValues.llmProvider, llmProviderFlagName, summarize.ProviderOpenAI, llmProviderFlagDescription)
	command.Flags().IntVar(&flagValues.summarySentences, summarySentencesFlagName, 0, summarySentencesFlagDescription)
	command.Flags().StringVar(&flagValues.profileName, profileFlagName, "", profileFlagDescription)
	command.Flags().StringVar(&flagValues.configPath, configFlagName, "", configFlagDescription)
}

// runSnapshot resolves the effective settings from configuration, profile,
// and flags, creates the snapshot, and routes the artifact to its sink.
func runSnapshot(command *cobra.Command, rootPath string, flagValues *snapshotFlagValues, applicationLogger *zap.Logger) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flagValues.configPath,
	})
	if configurationError != nil {
		return configurationError
	}

	settings, settingsError := resolveSettings(command, flagValues, applicationConfiguration)
	if settingsError != nil {
		return settingsError
	}
	if !output.IsSupportedFormat(settings.outputFormat) {
		return fmt.Errorf(invalidFormatMessage, settings.outputFormat)
	}

	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return fmt.Errorf("abs failed for '%s': %w", rootPath, absolutePathError)
	}
	ignorePatterns, ignoreLoadError := config.LoadCombinedIgnorePatterns(absoluteRootPath, settings.useGitignore, settings.useIgnoreFile)
	if ignoreLoadError != nil {
		return ignoreLoadError
	}
	ignorePatterns = append(ignorePatterns, utils.GitDirectoryName)

	tokenCounter := resolveTokenCounter(settings, applicationLogger)

	var summaryService snapshot.Summarizer
	if settings.summarizeFiles {
		summaryProvider, providerError := summarize.NewProvider(settings.llmProvider, settings.llmModel)
		if providerError != nil {
			return providerError
		}
		summaryService = summarize.NewService(summaryProvider, settings.summarySentences)
	}

	snapshotResult, createError := snapshot.Create(command.Context(), snapshot.Options{
		RootPath:          rootPath,
		LanguageName:      settings.languageName,
		Format:            settings.outputFormat,
		IgnorePatterns:    append(ignorePatterns, settings.excludeFromConfig...),
		ExcludePatterns:   settings.excludePatterns,
		WhitelistPatterns: settings.includePatterns,
		SearchTerms:       settings.searchTerms,
		MaxFileSizeBytes:  settings.maxFileSize,
		MaxOutputBytes:    settings.maxBytes,
		MaxOutputTokens:   settings.maxTokens,
		TreeDepth:         settings.treeDepth,
		OmitTree:          settings.omitTree,
		ShowFooter:        settings.showFooter,
		CountTokens:       settings.countTokens,
		TokenCounter:      tokenCounter,
		Summarizer:        summaryService,
	})
	if createError != nil {
		return createError
	}

	for _, snapshotWarning := range snapshotResult.Warnings {
		applicationLogger.Warn(warningStyle.Render(fmt.Sprintf(warningLineFormat, snapshotWarning.Path, snapshotWarning.Message)))
	}

	return deliverArtifact(snapshotResult.Content, snapshotResult.FileCount, snapshotResult.TokenCount, settings, tokenCounter)
}

// resolveTokenCounter builds the configured tiktoken counter, falling back
// to approximate counting when the encoding cannot be initialized.
func resolveTokenCounter(settings effectiveSettings, applicationLogger *zap.Logger) tokenizer.Counter {
	if !settings.countTokens && settings.maxTokens <= 0 {
		return nil
	}
	tokenCounter, counterError := tokenizer.NewCounter(settings.modelEncoding)
	if counterError != nil {
		applicationLogger.Warn(warningStyle.Render(fmt.Sprintf(warningCounterFormat, settings.modelEncoding, counterError)))
		return tokenizer.NewApproximateCounter()
	}
	return tokenCounter
}

// deliverArtifact routes the rendered snapshot to the clipboard, a file, or
// standard output, and reports token counts on standard error.
func deliverArtifact(artifactContent string, fileCount int, tokenCount int, settings effectiveSettings, tokenCounter tokenizer.Counter) error {
	sizeDescription := utils.FormatFileSize(int64(len(artifactContent)))

	switch {
	case settings.copyToClipboard:
		if copyError := clipboard.NewService().Copy(artifactContent); copyError != nil {
			return fmt.Errorf("copying snapshot to clipboard: %w", copyError)
		}
		fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf(copiedMessageFormat, fileCount, sizeDescription)))
	case settings.outputPath != "":
		if writeError := os.WriteFile(settings.outputPath, []byte(artifactContent), 0o644); writeError != nil {
			return fmt.Errorf("writing snapshot to %s: %w", settings.outputPath, writeError)
		}
		fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf(writtenMessageFormat, settings.outputPath, fileCount, sizeDescription)))
	default:
		fmt.Print(artifactContent)
		if !strings.HasSuffix(artifactContent, "\n") {
			fmt.Println()
		}
	}

	if settings.countTokens && tokenCounter != nil {
		fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf(tokenCountMessageFormat, tokenCounter.Name(), tokenCount)))
	}
	return nil
}
