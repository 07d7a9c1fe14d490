package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/codesnap/internal/utils"
)

func TestLoadIgnoreFilePatterns(t *testing.T) {
	projectDirectory := t.TempDir()
	ignorePath := filepath.Join(projectDirectory, utils.GitIgnoreFileName)
	ignoreContent := "# build output\nnode_modules\ndist/\n\n!keep.log\n*.log\n"
	if writeError := os.WriteFile(ignorePath, []byte(ignoreContent), 0o600); writeError != nil {
		t.Fatalf("write ignore file: %v", writeError)
	}

	patterns, loadError := LoadIgnoreFilePatterns(ignorePath)
	if loadError != nil {
		t.Fatalf("LoadIgnoreFilePatterns error: %v", loadError)
	}

	expectedPatterns := []string{"node_modules", "dist/", "*.log"}
	if len(patterns) != len(expectedPatterns) {
		t.Fatalf("expected %v, got %v", expectedPatterns, patterns)
	}
	for patternIndex, expectedPattern := range expectedPatterns {
		if patterns[patternIndex] != expectedPattern {
			t.Fatalf("expected %v, got %v", expectedPatterns, patterns)
		}
	}
}

func TestLoadIgnoreFilePatternsMissingFile(t *testing.T) {
	patterns, loadError := LoadIgnoreFilePatterns(filepath.Join(t.TempDir(), "absent"))
	if loadError != nil {
		t.Fatalf("missing file must not error, got %v", loadError)
	}
	if patterns != nil {
		t.Fatalf("missing file must yield nil patterns, got %v", patterns)
	}
}

func TestLoadCombinedIgnorePatterns(t *testing.T) {
	projectDirectory := t.TempDir()
	gitIgnorePath := filepath.Join(projectDirectory, utils.GitIgnoreFileName)
	if writeError := os.WriteFile(gitIgnorePath, []byte("node_modules\ndist/\n"), 0o600); writeError != nil {
		t.Fatalf("write gitignore: %v", writeError)
	}
	snapIgnorePath := filepath.Join(projectDirectory, utils.SnapIgnoreFileName)
	if writeError := os.WriteFile(snapIgnorePath, []byte("dist/\nfixtures/\n"), 0o600); writeError != nil {
		t.Fatalf("write snap ignore: %v", writeError)
	}

	combinedPatterns, loadError := LoadCombinedIgnorePatterns(projectDirectory, true, true)
	if loadError != nil {
		t.Fatalf("LoadCombinedIgnorePatterns error: %v", loadError)
	}
	expectedPatterns := []string{"node_modules", "dist/", "fixtures/"}
	if len(combinedPatterns) != len(expectedPatterns) {
		t.Fatalf("expected %v, got %v", expectedPatterns, combinedPatterns)
	}

	gitignoreOnly, gitOnlyError := LoadCombinedIgnorePatterns(projectDirectory, true, false)
	if gitOnlyError != nil {
		t.Fatalf("LoadCombinedIgnorePatterns error: %v", gitOnlyError)
	}
	if utils.ContainsString(gitignoreOnly, "fixtures/") {
		t.Fatalf("snap ignore patterns must be skipped when disabled")
	}
}

func TestProfileStoreRoundTrip(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "profiles.yaml")
	profileStore := NewProfileStoreAt(storePath)

	savedProfile := Profile{
		Language:    "python",
		Format:      "markdown",
		Exclude:     []string{"fixtures"},
		MaxFileSize: 250000,
		NoTree:      true,
	}
	if saveError := profileStore.Save("backend", savedProfile); saveError != nil {
		t.Fatalf("Save error: %v", saveError)
	}
	if saveError := profileStore.Save("frontend", Profile{Language: "typescript"}); saveError != nil {
		t.Fatalf("Save error: %v", saveError)
	}

	loadedProfile, getError := profileStore.Get("backend")
	if getError != nil {
		t.Fatalf("Get error: %v", getError)
	}
	if loadedProfile.Language != "python" || loadedProfile.Format != "markdown" {
		t.Fatalf("unexpected profile: %+v", loadedProfile)
	}
	if loadedProfile.MaxFileSize != 250000 || !loadedProfile.NoTree {
		t.Fatalf("unexpected profile numbers: %+v", loadedProfile)
	}
	if len(loadedProfile.Exclude) != 1 || loadedProfile.Exclude[0] != "fixtures" {
		t.Fatalf("unexpected profile exclude: %v", loadedProfile.Exclude)
	}

	profileNames, namesError := profileStore.Names()
	if namesError != nil {
		t.Fatalf("Names error: %v", namesError)
	}
	if len(profileNames) != 2 || profileNames[0] != "backend" || profileNames[1] != "frontend" {
		t.Fatalf("unexpected profile names: %v", profileNames)
	}

	if deleteError := profileStore.Delete("backend"); deleteError != nil {
		t.Fatalf("Delete error: %v", deleteError)
	}
	if _, getError := profileStore.Get("backend"); getError == nil {
		t.Fatalf("deleted profile must not resolve")
	}
	if deleteError := profileStore.Delete("backend"); deleteError == nil {
		t.Fatalf("deleting an unknown profile must error")
	}
}
