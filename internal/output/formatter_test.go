package output

import (
	"strings"
	"testing"

	"github.com/temirov/codesnap/internal/types"
)

func sampleTree() *types.TreeNode {
	return &types.TreeNode{
		Name: "project",
		Type: types.NodeTypeDirectory,
		Children: []*types.TreeNode{
			{
				Name: "src",
				Type: types.NodeTypeDirectory,
				Children: []*types.TreeNode{
					{Name: "main.py", Type: types.NodeTypeFile, Included: true},
				},
			},
			{Name: "setup.py", Type: types.NodeTypeFile, Included: true},
		},
	}
}

func TestFormatTreeText(t *testing.T) {
	formatter := &Formatter{Format: FormatText}

	rendered := formatter.FormatTree(sampleTree(), 0)
	expected := "project/\n" +
		"    |-- src/\n" +
		"        |-- main.py\n" +
		"    |-- setup.py\n"
	if rendered != expected {
		t.Fatalf("unexpected tree:\n%q\nwant:\n%q", rendered, expected)
	}
}

func TestFormatTreeDepthLimit(t *testing.T) {
	formatter := &Formatter{Format: FormatText}

	rendered := formatter.FormatTree(sampleTree(), 1)
	expected := "project/\n" +
		"    |-- src/\n" +
		"        |-- ...\n" +
		"    |-- setup.py\n"
	if rendered != expected {
		t.Fatalf("unexpected depth-limited tree:\n%q\nwant:\n%q", rendered, expected)
	}
}

func TestFormatFileText(t *testing.T) {
	formatter := &Formatter{Format: FormatText}

	rendered := formatter.FormatFile(types.FileRecord{Path: "src/main.py", Content: "print('x')"})
	expected := "src/main.py\nprint('x')\n"
	if rendered != expected {
		t.Fatalf("unexpected file section: %q", rendered)
	}
}

func TestFormatFileMarkdownUsesFence(t *testing.T) {
	formatter := &Formatter{Format: FormatMarkdown}

	rendered := formatter.FormatFile(types.FileRecord{Path: "src/main.py", Content: "print('x')\n"})
	if !strings.HasPrefix(rendered, "### src/main.py\n```python\n") {
		t.Fatalf("markdown section missing fenced heading: %q", rendered)
	}
	if !strings.HasSuffix(rendered, "```\n") {
		t.Fatalf("markdown section missing closing fence: %q", rendered)
	}
}

func TestFormatHeaderVariants(t *testing.T) {
	textFormatter := &Formatter{Format: FormatText, ProjectName: "project", LanguageName: "python", RootPath: "/project"}
	expectedText := "Project: project\nLanguage: python\nRoot: /project\n"
	if header := textFormatter.FormatHeader(); header != expectedText {
		t.Fatalf("unexpected text header: %q", header)
	}

	markdownFormatter := &Formatter{Format: FormatMarkdown, ProjectName: "project", LanguageName: "python", RootPath: "/project"}
	if header := markdownFormatter.FormatHeader(); !strings.HasPrefix(header, "# Project: project\n") {
		t.Fatalf("unexpected markdown header: %q", header)
	}
}

func TestIsSupportedFormat(t *testing.T) {
	for _, supportedFormat := range []string{FormatText, FormatMarkdown, FormatJSON} {
		if !IsSupportedFormat(supportedFormat) {
			t.Fatalf("%s should be supported", supportedFormat)
		}
	}
	if IsSupportedFormat("xml") {
		t.Fatalf("xml should not be supported")
	}
}

func TestFenceInfo(t *testing.T) {
	testCases := []struct {
		filePath string
		expect   string
	}{
		{"src/main.py", "python"},
		{"cmd/app/main.go", "go"},
		{"web/app.tsx", "tsx"},
		{"Dockerfile", "dockerfile"},
		{"Makefile", "makefile"},
		{"README", ""},
	}
	for _, testCase := range testCases {
		if fence := FenceInfo(testCase.filePath); fence != testCase.expect {
			t.Fatalf("FenceInfo(%q) = %q, want %q", testCase.filePath, fence, testCase.expect)
		}
	}
}
