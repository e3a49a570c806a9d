package lang

import (
	"context"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/grindlemire/astrofmt/internal/doc"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// formatMarkdown removes the indentation shared by the document and
// separates its top-level blocks with exactly one blank line. The lines of
// each block are kept as written.
func formatMarkdown(_ context.Context, src string, _ Options) (doc.Doc, error) {
	lines := dedent(strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n"))
	source := []byte(strings.Join(lines, "\n"))

	lineStarts := []int{0}
	for i, c := range source {
		if c == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	lineOf := func(offset int) int {
		return sort.SearchInts(lineStarts, offset+1) - 1
	}

	root := markdown.Parser().Parse(text.NewReader(source))
	var starts []int
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		line, ok := blockLine(n, lineOf)
		if !ok {
			continue
		}
		if len(starts) == 0 || line > starts[len(starts)-1] {
			starts = append(starts, line)
		}
	}
	if len(starts) == 0 || starts[0] > 0 {
		starts = append([]int{0}, starts...)
	}

	var out doc.Concat
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		chunk := trimBlank(lines[start:end])
		if len(chunk) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, doc.Hardline, doc.Hardline)
		}
		for j, line := range chunk {
			if j > 0 {
				out = append(out, doc.Hardline)
			}
			out = append(out, doc.Text(line))
		}
	}
	return out, nil
}

// blockLine returns the first source line of a block. Containers report
// their first child's line; fenced code reports its opening fence.
func blockLine(n ast.Node, lineOf func(int) int) (int, bool) {
	if n.Type() != ast.TypeBlock {
		return 0, false
	}
	fenced, isFenced := n.(*ast.FencedCodeBlock)
	if isFenced && fenced.Info != nil {
		return lineOf(fenced.Info.Segment.Start), true
	}
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		line := lineOf(lines.At(0).Start)
		if isFenced && line > 0 {
			line--
		}
		return line, true
	}
	if c := n.FirstChild(); c != nil {
		return blockLine(c, lineOf)
	}
	return 0, false
}

// dedent removes the indentation shared by every non-blank line.
func dedent(lines []string) []string {
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimPrefix(line, prefix)
	}
	return out
}

// trimBlank drops blank lines at both ends of lines.
func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
