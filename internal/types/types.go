// Package types defines every cross-package data structure used by the codesnap CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

// Outcome classifies the result of a snapshot invocation for exit-code mapping.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomePartialSuccess  Outcome = "partial_success_with_warnings"
	OutcomeInvalidRoot     Outcome = "invalid_root"
	OutcomeUnknownLanguage Outcome = "unknown_language"
	OutcomeTraversalError  Outcome = "traversal_error"
)

// TreeNode represents one filesystem entry within the rendered directory tree.
// Paths are relative to the project root and use forward slashes.
type TreeNode struct {
	Path     string      `json:"path"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Included bool        `json:"included"`
	Children []*TreeNode `json:"children,omitempty"`
}

// FileRecord is one file whose content is included in the snapshot. Records
// exist only for files that passed every filter, the per-file size cap, and
// UTF-8 validation.
type FileRecord struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	SizeBytes int64  `json:"-"`
	Summary   string `json:"summary,omitempty"`
}

// Warning captures a non-fatal condition encountered during traversal.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Snapshot is the final artifact of one invocation.
type Snapshot struct {
	Content          string    `json:"-"`
	ProjectName      string    `json:"project"`
	LanguageName     string    `json:"language"`
	RootPath         string    `json:"root"`
	Tree             *TreeNode `json:"directory_tree,omitempty"`
	FileCount        int       `json:"file_count"`
	OmittedFileCount int       `json:"omitted_file_count,omitempty"`
	TokenCount       int       `json:"token_count"`
	TotalSize        int64     `json:"total_size_bytes"`
	Truncated        bool      `json:"truncated"`
	Warnings         []Warning `json:"warnings,omitempty"`
}

// Outcome reports the abstract result of the invocation: success when no
// warnings accumulated, partial success otherwise.
func (snapshot *Snapshot) Outcome() Outcome {
	if len(snapshot.Warnings) > 0 {
		return OutcomePartialSuccess
	}
	return OutcomeSuccess
}
