// Package output renders snapshot artifacts as text, markdown, or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/temirov/codesnap/internal/types"
)

// Supported output format names.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// IsSupportedFormat reports whether the provided format name is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case FormatText, FormatMarkdown, FormatJSON:
		return true
	default:
		return false
	}
}

const (
	treeIndentUnit      = "    "
	treeBranchConnector = "|-- "
	treeDepthEllipsis   = "..."
)

// Formatter renders the individual blocks of a snapshot artifact. The text
// layout is stable across runs: given identical inputs it produces identical
// bytes.
type Formatter struct {
	Format       string
	ProjectName  string
	LanguageName string
	RootPath     string
}

// FormatHeader renders the artifact header block.
func (formatter *Formatter) FormatHeader() string {
	if formatter.Format == FormatMarkdown {
		return fmt.Sprintf("# Project: %s\nLanguage: %s\nRoot: %s\n",
			formatter.ProjectName, formatter.LanguageName, formatter.RootPath)
	}
	return fmt.Sprintf("Project: %s\nLanguage: %s\nRoot: %s\n",
		formatter.ProjectName, formatter.LanguageName, formatter.RootPath)
}

// FormatContentsHeading renders the heading that opens the file contents block.
func (formatter *Formatter) FormatContentsHeading() string {
	if formatter.Format == FormatMarkdown {
		return "## File Contents\n"
	}
	return "File Contents:\n"
}

// FormatFile renders one file section: a delimiter line carrying the
// relative path followed by the raw content. Markdown output fences the
// content with a language hint derived from the file name.
func (formatter *Formatter) FormatFile(record types.FileRecord) string {
	content := record.Content
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if formatter.Format == FormatMarkdown {
		var builder strings.Builder
		fmt.Fprintf(&builder, "### %s\n", record.Path)
		if record.Summary != "" {
			fmt.Fprintf(&builder, "<!-- SUMMARY: %s -->\n\n", record.Summary)
		}
		fmt.Fprintf(&builder, "```%s\n%s```\n", FenceInfo(record.Path), content)
		return builder.String()
	}

	var builder strings.Builder
	builder.WriteString(record.Path)
	builder.WriteString("\n")
	if record.Summary != "" {
		fmt.Fprintf(&builder, "Summary: %s\n\n", record.Summary)
	}
	builder.WriteString(content)
	return builder.String()
}

// FormatTreeHeading renders the heading that opens the directory tree block.
func (formatter *Formatter) FormatTreeHeading() string {
	if formatter.Format == FormatMarkdown {
		return "## Directory Structure\n"
	}
	return "Directory Structure:\n"
}

// FormatTree renders the directory tree block. Directories carry a trailing
// slash; each depth level indents by four spaces under a "|--" connector.
// A positive maxDepth truncates deeper levels with an ellipsis line.
func (formatter *Formatter) FormatTree(root *types.TreeNode, maxDepth int) string {
	if root == nil {
		return ""
	}
	var builder strings.Builder
	if formatter.Format == FormatMarkdown {
		builder.WriteString("```\n")
	}
	writeTreeNode(&builder, root, 0, maxDepth)
	if formatter.Format == FormatMarkdown {
		builder.WriteString("```\n")
	}
	return builder.String()
}

func writeTreeNode(builder *strings.Builder, node *types.TreeNode, depth int, maxDepth int) {
	if depth == 0 {
		builder.WriteString(node.Name)
		builder.WriteString("/\n")
	} else {
		builder.WriteString(strings.Repeat(treeIndentUnit, depth))
		builder.WriteString(treeBranchConnector)
		builder.WriteString(node.Name)
		if node.Type == types.NodeTypeDirectory {
			builder.WriteString("/")
		}
		builder.WriteString("\n")
	}
	if len(node.Children) == 0 {
		return
	}
	if maxDepth > 0 && depth >= maxDepth {
		builder.WriteString(strings.Repeat(treeIndentUnit, depth+1))
		builder.WriteString(treeDepthEllipsis)
		builder.WriteString("\n")
		return
	}
	for _, child := range node.Children {
		writeTreeNode(builder, child, depth+1, maxDepth)
	}
}

// FormatTruncationNotice renders the marker appended when the size budget
// forced files out of the contents block.
func (formatter *Formatter) FormatTruncationNotice(omittedFileCount int) string {
	return fmt.Sprintf("(truncated: %d files omitted to fit the size budget)\n", omittedFileCount)
}

// FormatFooter renders the optional closing block with aggregate counts.
func (formatter *Formatter) FormatFooter(fileCount int, tokenCount int) string {
	if formatter.Format == FormatMarkdown {
		return fmt.Sprintf("---\nTotal files: %d\nApproximate tokens: %d\n", fileCount, tokenCount)
	}
	return fmt.Sprintf("Total files: %d\nApproximate tokens: %d\n", fileCount, tokenCount)
}

// RenderJSON marshals the snapshot metadata document.
func RenderJSON(snapshot *types.Snapshot) (string, error) {
	jsonBytes, marshalError := json.MarshalIndent(snapshot, "", "  ")
	if marshalError != nil {
		return "", fmt.Errorf("failed to marshal snapshot to JSON: %w", marshalError)
	}
	return string(jsonBytes), nil
}
