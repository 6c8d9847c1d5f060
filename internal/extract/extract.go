// Package extract pulls an executable command out of a model response.
//
// Only fenced code blocks tagged sh, bash, or shell qualify; the first
// qualifying block wins. Untagged and other-tagged blocks are treated as
// non-executable content, so ambiguous responses resolve to no command
// rather than executing unintended text.
package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

var shellTags = map[string]bool{
	"sh":    true,
	"bash":  true,
	"shell": true,
}

// Command extracts the first shell-tagged fenced code block from response.
// Returns the trimmed block text and true, or "" and false when no
// qualifying block exists or the selected block is empty after trimming.
// Pure function of its input.
func Command(response string) (string, bool) {
	source := []byte(response)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var cmd string
	var selected bool
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !shellTagged(fence, source) {
			return ast.WalkContinue, nil
		}
		cmd = strings.TrimSpace(blockText(fence, source))
		selected = true
		return ast.WalkStop, nil
	})

	if !selected || cmd == "" {
		return "", false
	}
	return cmd, true
}

// shellTagged reports whether the fence's info string names a shell syntax.
func shellTagged(fence *ast.FencedCodeBlock, source []byte) bool {
	lang := fence.Language(source)
	if lang == nil {
		return false
	}
	return shellTags[strings.ToLower(string(lang))]
}

// blockText joins the raw lines of a fenced code block.
func blockText(fence *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}
