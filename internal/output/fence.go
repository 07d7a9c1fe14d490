package output

import (
	"path"
	"strings"
)

// specialFileNameFences maps well-known extensionless file names to markdown
// fence info strings.
var specialFileNameFences = map[string]string{
	"Dockerfile":    "dockerfile",
	"dockerfile":    "dockerfile",
	"Makefile":      "makefile",
	"makefile":      "makefile",
	".gitignore":    "gitignore",
	".dockerignore": "dockerignore",
	".env":          "env",
	".bashrc":       "bash",
	".zshrc":        "zsh",
}

var extensionFences = map[string]string{
	".py":        "python",
	".go":        "go",
	".mod":       "go.mod",
	".js":        "javascript",
	".jsx":       "jsx",
	".ts":        "typescript",
	".tsx":       "tsx",
	".json":      "json",
	".yml":       "yaml",
	".yaml":      "yaml",
	".toml":      "toml",
	".md":        "markdown",
	".sh":        "bash",
	".bash":      "bash",
	".zsh":       "zsh",
	".fish":      "fish",
	".ps1":       "powershell",
	".html":      "html",
	".css":       "css",
	".scss":      "scss",
	".sass":      "sass",
	".xml":       "xml",
	".sql":       "sql",
	".gitignore": "gitignore",
	".env":       "env",
}

// FenceInfo returns the markdown code-fence info string for a file path.
// Unknown extensions fall back to the bare extension name.
func FenceInfo(filePath string) string {
	fileName := path.Base(filePath)
	extension := path.Ext(fileName)

	if extension == "" || strings.HasPrefix(fileName, ".") {
		if fence, known := specialFileNameFences[fileName]; known {
			return fence
		}
	}
	if strings.HasPrefix(strings.ToLower(fileName), "dockerfile") {
		return "dockerfile"
	}
	if fence, known := extensionFences[extension]; known {
		return fence
	}
	if extension != "" {
		return strings.TrimPrefix(extension, ".")
	}
	return ""
}
