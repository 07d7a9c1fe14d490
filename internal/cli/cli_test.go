package cli

import (
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"github.com/temirov/codesnap/internal/config"
	"github.com/temirov/codesnap/internal/language"
	"github.com/temirov/codesnap/internal/snapshot"
)

func TestExitCodeForError(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect int
	}{
		{name: "invalid_root", err: fmt.Errorf("wrapped: %w", snapshot.ErrInvalidRoot), expect: ExitInvalidRoot},
		{name: "unknown_language", err: fmt.Errorf("wrapped: %w", language.ErrUnknownLanguage), expect: ExitUnknownLanguage},
		{name: "traversal", err: &snapshot.TraversalError{Path: "/project", Err: fmt.Errorf("gone")}, expect: ExitTraversalError},
		{name: "generic", err: fmt.Errorf("boom"), expect: ExitFailure},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if exitCode := exitCodeForError(testCase.err); exitCode != testCase.expect {
				t.Fatalf("exitCodeForError = %d, want %d", exitCode, testCase.expect)
			}
		})
	}
}

func newTestCommand(flagValues *snapshotFlagValues) *cobra.Command {
	command := &cobra.Command{Use: "codesnap"}
	addSnapshotFlags(command, flagValues)
	return command
}

func TestResolveSettingsFlagPrecedence(t *testing.T) {
	flagValues := &snapshotFlagValues{}
	command := newTestCommand(flagValues)
	if parseError := command.ParseFlags([]string{"--format", "markdown", "--no-count-tokens", "--max-bytes", "4096"}); parseError != nil {
		t.Fatalf("ParseFlags error: %v", parseError)
	}

	clipboardEnabled := true
	applicationConfiguration := config.ApplicationConfiguration{
		Snapshot: config.SnapshotConfiguration{
			Language:  "python",
			Format:    "text",
			Clipboard: &clipboardEnabled,
			MaxBytes:  1024,
		},
	}

	settings, settingsError := resolveSettings(command, flagValues, applicationConfiguration)
	if settingsError != nil {
		t.Fatalf("resolveSettings error: %v", settingsError)
	}

	if settings.outputFormat != "markdown" {
		t.Fatalf("flag must override configured format, got %q", settings.outputFormat)
	}
	if settings.languageName != "python" {
		t.Fatalf("configured language must survive, got %q", settings.languageName)
	}
	if !settings.copyToClipboard {
		t.Fatalf("configured clipboard setting must survive")
	}
	if settings.countTokens {
		t.Fatalf("--no-count-tokens must disable counting")
	}
	if settings.maxBytes != 4096 {
		t.Fatalf("flag must override configured byte budget, got %d", settings.maxBytes)
	}
}

func TestResolveSettingsDefaults(t *testing.T) {
	flagValues := &snapshotFlagValues{}
	command := newTestCommand(flagValues)
	if parseError := command.ParseFlags(nil); parseError != nil {
		t.Fatalf("ParseFlags error: %v", parseError)
	}

	settings, settingsError := resolveSettings(command, flagValues, config.ApplicationConfiguration{})
	if settingsError != nil {
		t.Fatalf("resolveSettings error: %v", settingsError)
	}

	if !settings.countTokens {
		t.Fatalf("token counting defaults to enabled")
	}
	if !settings.useGitignore || !settings.useIgnoreFile {
		t.Fatalf("ignore files default to enabled")
	}
	if settings.copyToClipboard || settings.omitTree || settings.summarizeFiles {
		t.Fatalf("boolean features default to disabled")
	}
}

func TestApplyProfile(t *testing.T) {
	settings := effectiveSettings{outputFormat: "text"}
	applyProfile(&settings, config.Profile{
		Language:  "typescript",
		Format:    "markdown",
		Exclude:   []string{"fixtures"},
		MaxTokens: 9000,
		NoTree:    true,
	})

	if settings.languageName != "typescript" || settings.outputFormat != "markdown" {
		t.Fatalf("profile values not applied: %+v", settings)
	}
	if len(settings.excludePatterns) != 1 || settings.excludePatterns[0] != "fixtures" {
		t.Fatalf("profile exclude not applied: %v", settings.excludePatterns)
	}
	if settings.maxTokens != 9000 || !settings.omitTree {
		t.Fatalf("profile numbers not applied: %+v", settings)
	}
}
