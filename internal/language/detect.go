package language

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"
)

var pythonManifestNames = []string{"requirements.txt", "pyproject.toml", "setup.py", "Pipfile"}

// errCensusComplete stops the census walk once enough entries were visited.
var errCensusComplete = errors.New("census complete")

// detectionScanLimit caps how many entries the extension census visits so
// detection stays cheap on very large trees.
const detectionScanLimit = 4096

// Detect inspects the project root and guesses its language from manifest
// files, falling back to a census of file extensions. The boolean result is
// false when no supported language could be identified.
func Detect(fileSystem afero.Fs, rootPath string) (Language, bool) {
	if hasFile(fileSystem, filepath.Join(rootPath, "package.json")) {
		if hasAnyExtension(fileSystem, rootPath, ".ts", ".tsx") {
			return TypeScript, true
		}
		return JavaScript, true
	}

	goModPath := filepath.Join(rootPath, "go.mod")
	if goModBytes, readError := afero.ReadFile(fileSystem, goModPath); readError == nil {
		if _, parseError := modfile.Parse("go.mod", goModBytes, nil); parseError == nil {
			return Go, true
		}
	}

	for _, manifestName := range pythonManifestNames {
		if hasFile(fileSystem, filepath.Join(rootPath, manifestName)) {
			return Python, true
		}
	}

	extensionCensus := collectExtensions(fileSystem, rootPath)
	switch {
	case extensionCensus[".go"]:
		return Go, true
	case extensionCensus[".py"]:
		return Python, true
	case extensionCensus[".ts"] || extensionCensus[".tsx"]:
		return TypeScript, true
	case extensionCensus[".js"] || extensionCensus[".jsx"]:
		return JavaScript, true
	}
	return "", false
}

func hasFile(fileSystem afero.Fs, path string) bool {
	fileInformation, statError := fileSystem.Stat(path)
	return statError == nil && !fileInformation.IsDir()
}

func hasAnyExtension(fileSystem afero.Fs, rootPath string, extensions ...string) bool {
	census := collectExtensions(fileSystem, rootPath)
	for _, extension := range extensions {
		if census[extension] {
			return true
		}
	}
	return false
}

// collectExtensions walks the tree and records encountered file extensions.
// Dependency directories are skipped so a vendored tree does not dominate
// the census.
func collectExtensions(fileSystem afero.Fs, rootPath string) map[string]bool {
	census := make(map[string]bool)
	visited := 0
	_ = afero.Walk(fileSystem, rootPath, func(walkedPath string, fileInformation os.FileInfo, walkError error) error {
		if walkError != nil {
			return nil
		}
		visited++
		if visited > detectionScanLimit {
			return errCensusComplete
		}
		entryName := fileInformation.Name()
		if fileInformation.IsDir() {
			if walkedPath != rootPath && (entryName == "node_modules" || entryName == "vendor" || strings.HasPrefix(entryName, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if extension := filepath.Ext(entryName); extension != "" {
			census[extension] = true
		}
		return nil
	})
	return census
}
