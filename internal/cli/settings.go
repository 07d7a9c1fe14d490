package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/codesnap/internal/config"
)

// effectiveSettings is the fully resolved input to one snapshot run.
// Precedence from lowest to highest: built-in defaults, global and local
// configuration, a named profile, then flags the user actually set.
type effectiveSettings struct {
	languageName      string
	outputFormat      string
	outputPath        string
	copyToClipboard   bool
	maxBytes          int64
	maxTokens         int
	modelEncoding     string
	countTokens       bool
	omitTree          bool
	treeDepth         int
	includePatterns   []string
	excludePatterns   []string
	excludeFromConfig []string
	searchTerms       []string
	maxFileSize       int64
	useGitignore      bool
	useIgnoreFile     bool
	showFooter        bool
	summarizeFiles    bool
	llmProvider       string
	llmModel          string
	summarySentences  int
}

func resolveSettings(command *cobra.Command, flagValues *snapshotFlagValues, applicationConfiguration config.ApplicationConfiguration) (effectiveSettings, error) {
	settings := effectiveSettings{
		outputFormat:  flagValues.outputFormat,
		modelEncoding: flagValues.modelEncoding,
		countTokens:   true,
		useGitignore:  true,
		useIgnoreFile: true,
		llmProvider:   flagValues.llmProvider,
	}

	applyConfiguration(&settings, applicationConfiguration)

	if flagValues.profileName != "" {
		profileStore, storeError := config.NewProfileStore()
		if storeError != nil {
			return effectiveSettings{}, storeError
		}
		storedProfile, profileError := profileStore.Get(flagValues.profileName)
		if profileError != nil {
			return effectiveSettings{}, profileError
		}
		applyProfile(&settings, storedProfile)
	}

	applyChangedFlags(&settings, command, flagValues)
	return settings, nil
}

func applyConfiguration(settings *effectiveSettings, applicationConfiguration config.ApplicationConfiguration) {
	snapshotConfiguration := applicationConfiguration.Snapshot
	if snapshotConfiguration.Language != "" {
		settings.languageName = snapshotConfiguration.Language
	}
	if snapshotConfiguration.Format != "" {
		settings.outputFormat = snapshotConfiguration.Format
	}
	if snapshotConfiguration.OutputPath != "" {
		settings.outputPath = snapshotConfiguration.OutputPath
	}
	if snapshotConfiguration.Clipboard != nil {
		settings.copyToClipboard = *snapshotConfiguration.Clipboard
	}
	if snapshotConfiguration.ShowTree != nil {
		settings.omitTree = !*snapshotConfiguration.ShowTree
	}
	if snapshotConfiguration.TreeDepth != nil {
		settings.treeDepth = *snapshotConfiguration.TreeDepth
	}
	if snapshotConfiguration.MaxFileSize > 0 {
		settings.maxFileSize = snapshotConfiguration.MaxFileSize
	}
	if snapshotConfiguration.MaxBytes > 0 {
		settings.maxBytes = snapshotConfiguration.MaxBytes
	}
	if snapshotConfiguration.MaxTokens != nil {
		settings.maxTokens = *snapshotConfiguration.MaxTokens
	}
	if snapshotConfiguration.ShowFooter != nil {
		settings.showFooter = *snapshotConfiguration.ShowFooter
	}
	if snapshotConfiguration.Tokens.Enabled != nil {
		settings.countTokens = *snapshotConfiguration.Tokens.Enabled
	}
	if snapshotConfiguration.Tokens.Encoding != "" {
		settings.modelEncoding = snapshotConfiguration.Tokens.Encoding
	}
	if len(snapshotConfiguration.Paths.Exclude) > 0 {
		settings.excludeFromConfig = append([]string(nil), snapshotConfiguration.Paths.Exclude...)
	}
	if len(snapshotConfiguration.Paths.Include) > 0 {
		settings.includePatterns = append([]string(nil), snapshotConfiguration.Paths.Include...)
	}
	if snapshotConfiguration.Paths.UseGitignore != nil {
		settings.useGitignore = *snapshotConfiguration.Paths.UseGitignore
	}
	if snapshotConfiguration.Paths.UseIgnoreFile != nil {
		settings.useIgnoreFile = *snapshotConfiguration.Paths.UseIgnoreFile
	}

	summarizeConfiguration := applicationConfiguration.Summarize
	if summarizeConfiguration.Provider != "" {
		settings.llmProvider = summarizeConfiguration.Provider
	}
	if summarizeConfiguration.Model != "" {
		settings.llmModel = summarizeConfiguration.Model
	}
	if summarizeConfiguration.Sentences != nil {
		settings.summarySentences = *summarizeConfiguration.Sentences
	}
}

func applyProfile(settings *effectiveSettings, storedProfile config.Profile) {
	if storedProfile.Language != "" {
		settings.languageName = storedProfile.Language
	}
	if storedProfile.Format != "" {
		settings.outputFormat = storedProfile.Format
	}
	if len(storedProfile.Exclude) > 0 {
		settings.excludePatterns = append([]string(nil), storedProfile.Exclude...)
	}
	if len(storedProfile.Include) > 0 {
		settings.includePatterns = append([]string(nil), storedProfile.Include...)
	}
	if len(storedProfile.SearchTerms) > 0 {
		settings.searchTerms = append([]string(nil), storedProfile.SearchTerms...)
	}
	if storedProfile.MaxFileSize > 0 {
		settings.maxFileSize = storedProfile.MaxFileSize
	}
	if storedProfile.MaxBytes > 0 {
		settings.maxBytes = storedProfile.MaxBytes
	}
	if storedProfile.MaxTokens > 0 {
		settings.maxTokens = storedProfile.MaxTokens
	}
	if storedProfile.TreeDepth > 0 {
		settings.treeDepth = storedProfile.TreeDepth
	}
	if storedProfile.NoTree {
		settings.omitTree = true
	}
	if storedProfile.Clipboard {
		settings.copyToClipboard = true
	}
}

// applyChangedFlags overlays only the flags the user actually passed, so
// configuration and profile values survive unless explicitly overridden.
func applyChangedFlags(settings *effectiveSettings, command *cobra.Command, flagValues *snapshotFlagValues) {
	commandFlags := command.Flags()
	if commandFlags.Changed(languageFlagName) {
		settings.languageName = flagValues.languageName
	}
	if commandFlags.Changed(outputFlagName) {
		settings.outputPath = flagValues.outputPath
	}
	if commandFlags.Changed(copyFlagName) {
		settings.copyToClipboard = flagValues.copyToClipboard
	}
	if commandFlags.Changed(formatFlagName) {
		settings.outputFormat = flagValues.outputFormat
	}
	if commandFlags.Changed(maxBytesFlagName) {
		settings.maxBytes = flagValues.maxBytes
	}
	if commandFlags.Changed(maxTokensFlagName) {
		settings.maxTokens = flagValues.maxTokens
	}
	if commandFlags.Changed(modelEncodingFlagName) {
		settings.modelEncoding = flagValues.modelEncoding
	}
	if commandFlags.Changed(noCountTokensFlagName) {
		settings.countTokens = !flagValues.noCountTokens
	}
	if commandFlags.Changed(noTreeFlagName) {
		settings.omitTree = flagValues.noTree
	}
	if commandFlags.Changed(treeDepthFlagName) {
		settings.treeDepth = flagValues.treeDepth
	}
	if commandFlags.Changed(includeFlagName) {
		settings.includePatterns = flagValues.includePatterns
	}
	if commandFlags.Changed(excludeFlagName) {
		settings.excludePatterns = flagValues.excludePatterns
	}
	if commandFlags.Changed(searchTermFlagName) {
		settings.searchTerms = flagValues.searchTerms
	}
	if commandFlags.Changed(maxFileSizeFlagName) {
		settings.maxFileSize = flagValues.maxFileSize
	}
	if commandFlags.Changed(noGitignoreFlagName) {
		settings.useGitignore = !flagValues.disableGitignore
	}
	if commandFlags.Changed(noIgnoreFlagName) {
		settings.useIgnoreFile = !flagValues.disableIgnore
	}
	if commandFlags.Changed(footerFlagName) {
		settings.showFooter = flagValues.showFooter
	}
	if commandFlags.Changed(summarizeFlagName) {
		settings.summarizeFiles = flagValues.summarizeFiles
	}
	if commandFlags.Changed(llmProviderFlagName) {
		settings.llmProvider = flagValues.llmProvider
	}
	if commandFlags.Changed(summarySentencesFlagName) {
		settings.summarySentences = flagValues.summarySentences
	}
}
