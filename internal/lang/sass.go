package lang

import (
	"context"
	"strings"

	"github.com/grindlemire/astrofmt/internal/doc"
)

// formatSass re-indents an indented-syntax stylesheet. Every line deeper
// than the one before opens one nesting level; a shallower line must return
// to the width of an enclosing level.
func formatSass(_ context.Context, src string, opts Options) (doc.Doc, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	unit := opts.indentUnit()

	var widths []int
	var out doc.Concat
	blank := false
	for i, line := range lines {
		content := strings.TrimSpace(line)
		if content == "" {
			blank = len(out) > 0
			continue
		}
		width := len(line) - len(strings.TrimLeft(line, " \t"))
		switch {
		case len(widths) == 0 || width > widths[len(widths)-1]:
			widths = append(widths, width)
		default:
			for len(widths) > 1 && width < widths[len(widths)-1] {
				widths = widths[:len(widths)-1]
			}
			if width != widths[len(widths)-1] {
				return nil, parseErrorf(Sass, i+1, width+1, "inconsistent indentation")
			}
		}

		if len(out) > 0 {
			out = append(out, doc.Hardline)
			if blank {
				out = append(out, doc.Hardline)
			}
		}
		blank = false
		out = append(out, doc.Text(strings.Repeat(unit, len(widths)-1)+content))
	}
	return out, nil
}
