package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"

	"github.com/temirov/codesnap/internal/filter"
)

func TestBuildInvalidRoot(t *testing.T) {
	builder := &Builder{
		FileSystem: afero.NewMemMapFs(),
		Resolver:   filter.NewResolver(filter.Rules{}),
	}

	if _, _, _, buildError := builder.Build("/nowhere"); !errors.Is(buildError, ErrInvalidRoot) {
		t.Fatalf("expected ErrInvalidRoot, got %v", buildError)
	}
}

func TestBuildFileRootIsInvalid(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTestFile(t, fileSystem, "/just-a-file", "content\n")

	builder := &Builder{FileSystem: fileSystem, Resolver: filter.NewResolver(filter.Rules{})}
	if _, _, _, buildError := builder.Build("/just-a-file"); !errors.Is(buildError, ErrInvalidRoot) {
		t.Fatalf("expected ErrInvalidRoot for file root, got %v", buildError)
	}
}

func TestBuildRecordsFollowTreeOrder(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTestFile(t, fileSystem, "/project/z.py", "z\n")
	writeTestFile(t, fileSystem, "/project/a/inner.py", "i\n")
	writeTestFile(t, fileSystem, "/project/b.py", "b\n")

	builder := &Builder{FileSystem: fileSystem, Resolver: filter.NewResolver(filter.Rules{})}
	_, fileRecords, warnings, buildError := builder.Build("/project")
	if buildError != nil {
		t.Fatalf("Build error: %v", buildError)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	expectedOrder := []string{"a/inner.py", "b.py", "z.py"}
	if len(fileRecords) != len(expectedOrder) {
		t.Fatalf("expected %d records, got %d", len(expectedOrder), len(fileRecords))
	}
	for recordIndex, expectedPath := range expectedOrder {
		if fileRecords[recordIndex].Path != expectedPath {
			t.Fatalf("record %d = %s, want %s", recordIndex, fileRecords[recordIndex].Path, expectedPath)
		}
	}
}

func TestBuildSkipsSymlinkOutsideRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test requires a unix filesystem")
	}

	outsideDirectory := t.TempDir()
	outsideFile := filepath.Join(outsideDirectory, "secret.py")
	if writeError := os.WriteFile(outsideFile, []byte("secret\n"), 0o644); writeError != nil {
		t.Fatalf("write outside file: %v", writeError)
	}

	projectDirectory := t.TempDir()
	if writeError := os.WriteFile(filepath.Join(projectDirectory, "a.py"), []byte("a\n"), 0o644); writeError != nil {
		t.Fatalf("write project file: %v", writeError)
	}
	if symlinkError := os.Symlink(outsideFile, filepath.Join(projectDirectory, "escape.py")); symlinkError != nil {
		t.Skipf("cannot create symlink: %v", symlinkError)
	}

	builder := &Builder{FileSystem: afero.NewOsFs(), Resolver: filter.NewResolver(filter.Rules{})}
	rootNode, fileRecords, warnings, buildError := builder.Build(projectDirectory)
	if buildError != nil {
		t.Fatalf("Build error: %v", buildError)
	}

	if treeContains(rootNode, "escape.py") {
		t.Fatalf("symlink escaping the root must not appear in the tree")
	}
	for _, fileRecord := range fileRecords {
		if fileRecord.Path == "escape.py" {
			t.Fatalf("symlink escaping the root must not produce a record")
		}
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning for the escaping symlink, got %d", len(warnings))
	}
}

func TestBuildFollowsSymlinkInsideRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test requires a unix filesystem")
	}

	projectDirectory := t.TempDir()
	targetFile := filepath.Join(projectDirectory, "real.py")
	if writeError := os.WriteFile(targetFile, []byte("real\n"), 0o644); writeError != nil {
		t.Fatalf("write target file: %v", writeError)
	}
	if symlinkError := os.Symlink(targetFile, filepath.Join(projectDirectory, "alias.py")); symlinkError != nil {
		t.Skipf("cannot create symlink: %v", symlinkError)
	}

	builder := &Builder{FileSystem: afero.NewOsFs(), Resolver: filter.NewResolver(filter.Rules{})}
	rootNode, fileRecords, _, buildError := builder.Build(projectDirectory)
	if buildError != nil {
		t.Fatalf("Build error: %v", buildError)
	}

	if !treeContains(rootNode, "alias.py") {
		t.Fatalf("in-root symlink should stay visible")
	}
	foundAlias := false
	for _, fileRecord := range fileRecords {
		if fileRecord.Path == "alias.py" && fileRecord.Content == "real\n" {
			foundAlias = true
		}
	}
	if !foundAlias {
		t.Fatalf("in-root symlink should contribute a record with the target content")
	}
}
