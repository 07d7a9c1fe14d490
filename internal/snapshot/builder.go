package snapshot

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/codesnap/internal/filter"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	warningReadFileFormat      = "failed to read file: %v"
	warningReadDirectoryFormat = "failed to read directory: %v"
	warningBinaryContent       = "content is not valid UTF-8; file kept in tree without content"
	warningSymlinkOutsideRoot  = "symbolic link resolves outside the project root"
)

// Builder walks a project tree and produces the in-memory tree together with
// the ordered list of included file records. It consults the filter Resolver
// for every entry and accumulates non-fatal warnings instead of aborting.
type Builder struct {
	FileSystem afero.Fs
	Resolver   *filter.Resolver
}

// Build validates rootPath and performs the depth-first traversal. The
// returned records follow tree order: directories before files at each
// level, both alphabetical. A missing or non-directory root yields
// ErrInvalidRoot; a root that becomes unreadable yields a TraversalError.
func (builder *Builder) Build(rootPath string) (*types.TreeNode, []types.FileRecord, []types.Warning, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, nil, nil, fmt.Errorf("getting absolute path for %s: %w", rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	rootInformation, rootStatError := builder.FileSystem.Stat(cleanedRootPath)
	if rootStatError != nil || !rootInformation.IsDir() {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrInvalidRoot, rootPath)
	}

	rootNode := &types.TreeNode{
		Path: ".",
		Name: filepath.Base(cleanedRootPath),
		Type: types.NodeTypeDirectory,
	}

	walkState := &traversalState{builder: builder, rootPath: cleanedRootPath}
	children, _, walkError := walkState.walkDirectory(cleanedRootPath, "")
	if walkError != nil {
		return nil, nil, nil, walkError
	}
	rootNode.Children = children

	return rootNode, walkState.records, walkState.warnings, nil
}

// traversalState carries the accumulators of one Build invocation. Each
// invocation owns its state exclusively; nothing is shared across calls.
type traversalState struct {
	builder  *Builder
	rootPath string
	records  []types.FileRecord
	warnings []types.Warning
}

// walkDirectory processes one directory level. It returns the visible child
// nodes and the number of visible files anywhere beneath the directory; a
// directory whose count is zero is pruned by its caller. The error return is
// non-nil only for the root level, where an unreadable directory is fatal.
func (state *traversalState) walkDirectory(directoryPath string, relativeDirectory string) ([]*types.TreeNode, int, error) {
	directoryEntries, readDirectoryError := afero.ReadDir(state.builder.FileSystem, directoryPath)
	if readDirectoryError != nil {
		if relativeDirectory == "" {
			return nil, 0, &TraversalError{Path: directoryPath, Err: readDirectoryError}
		}
		state.addWarning(relativeDirectory, fmt.Sprintf(warningReadDirectoryFormat, readDirectoryError))
		return nil, 0, nil
	}
	sortDirectoryEntries(directoryEntries)

	var childNodes []*types.TreeNode
	visibleDescendants := 0

	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		relativeEntryPath := joinRelativePath(relativeDirectory, entryName)
		absoluteEntryPath := filepath.Join(directoryPath, entryName)

		entryInformation := directoryEntry
		if directoryEntry.Mode()&os.ModeSymlink != 0 {
			resolvedInformation, resolveOk := state.resolveSymlink(absoluteEntryPath, relativeEntryPath)
			if !resolveOk {
				continue
			}
			if resolvedInformation.IsDir() {
				// Symlinked directories are never descended; following them
				// could revisit paths or escape the root.
				continue
			}
			entryInformation = resolvedInformation
		}

		if entryInformation.IsDir() {
			decision := state.builder.Resolver.Resolve(relativeEntryPath, true)
			if decision == filter.DecisionExcludedByIgnore {
				continue
			}
			grandChildren, descendantCount, _ := state.walkDirectory(absoluteEntryPath, relativeEntryPath)
			if descendantCount == 0 {
				continue
			}
			childNodes = append(childNodes, &types.TreeNode{
				Path:     relativeEntryPath,
				Name:     entryName,
				Type:     types.NodeTypeDirectory,
				Children: grandChildren,
			})
			visibleDescendants += descendantCount
			continue
		}

		fileNode, fileVisible := state.visitFile(absoluteEntryPath, relativeEntryPath, entryName, entryInformation.Size())
		if !fileVisible {
			continue
		}
		childNodes = append(childNodes, fileNode)
		visibleDescendants++
	}

	return childNodes, visibleDescendants, nil
}

// visitFile classifies a single file. Files excluded by ignore or extension
// rules are invisible; oversized or undecodable files keep a tree node
// without content; everything else yields a FileRecord.
func (state *traversalState) visitFile(absolutePath string, relativePath string, entryName string, sizeBytes int64) (*types.TreeNode, bool) {
	decision := state.builder.Resolver.Resolve(relativePath, false)
	if decision != filter.DecisionIncluded {
		return nil, false
	}

	fileNode := &types.TreeNode{
		Path: relativePath,
		Name: entryName,
		Type: types.NodeTypeFile,
	}

	if state.builder.Resolver.ExceedsSizeLimit(sizeBytes) {
		return fileNode, true
	}

	fileBytes, readError := afero.ReadFile(state.builder.FileSystem, absolutePath)
	if readError != nil {
		state.addWarning(relativePath, fmt.Sprintf(warningReadFileFormat, readError))
		return nil, false
	}
	if utils.IsBinary(fileBytes) {
		state.addWarning(relativePath, warningBinaryContent)
		return fileNode, true
	}

	fileNode.Included = true
	state.records = append(state.records, types.FileRecord{
		Path:      relativePath,
		Content:   string(fileBytes),
		SizeBytes: sizeBytes,
	})
	return fileNode, true
}

// resolveSymlink follows one symbolic link and admits it only when the
// target stays inside the project root. Filesystems without link support
// cause the entry to be skipped silently.
func (state *traversalState) resolveSymlink(absolutePath string, relativePath string) (os.FileInfo, bool) {
	linkReader, supportsLinks := state.builder.FileSystem.(afero.LinkReader)
	if !supportsLinks {
		return nil, false
	}
	linkTarget, readLinkError := linkReader.ReadlinkIfPossible(absolutePath)
	if readLinkError != nil {
		state.addWarning(relativePath, fmt.Sprintf(warningReadFileFormat, readLinkError))
		return nil, false
	}
	if !filepath.IsAbs(linkTarget) {
		linkTarget = filepath.Join(filepath.Dir(absolutePath), linkTarget)
	}
	linkTarget = filepath.Clean(linkTarget)
	if linkTarget != state.rootPath && !strings.HasPrefix(linkTarget, state.rootPath+string(filepath.Separator)) {
		state.addWarning(relativePath, warningSymlinkOutsideRoot)
		return nil, false
	}
	targetInformation, statError := state.builder.FileSystem.Stat(absolutePath)
	if statError != nil {
		state.addWarning(relativePath, fmt.Sprintf(warningReadFileFormat, statError))
		return nil, false
	}
	return targetInformation, true
}

func (state *traversalState) addWarning(relativePath string, message string) {
	state.warnings = append(state.warnings, types.Warning{Path: relativePath, Message: message})
}

// sortDirectoryEntries orders directories before files, each group
// alphabetically by name, so traversal and rendering are deterministic.
func sortDirectoryEntries(entries []os.FileInfo) {
	sort.SliceStable(entries, func(firstIndex, secondIndex int) bool {
		firstEntry, secondEntry := entries[firstIndex], entries[secondIndex]
		if firstEntry.IsDir() != secondEntry.IsDir() {
			return firstEntry.IsDir()
		}
		return firstEntry.Name() < secondEntry.Name()
	})
}

func joinRelativePath(relativeDirectory string, entryName string) string {
	if relativeDirectory == "" {
		return entryName
	}
	return path.Join(relativeDirectory, entryName)
}
