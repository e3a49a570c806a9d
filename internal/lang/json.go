package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/grindlemire/astrofmt/internal/doc"
)

// formatJSON pretty-prints a JSON document with the configured indentation.
func formatJSON(_ context.Context, src string, opts Options) (doc.Doc, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return doc.Empty, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(src), "", opts.indentUnit()); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			line, col := offsetPosition(src, int(syntax.Offset))
			return nil, parseErrorf(JSON, line, col, "%s", syntax.Error())
		}
		return nil, parseErrorf(JSON, 0, 0, "%v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	parts := make([]doc.Doc, len(lines))
	for i, line := range lines {
		parts[i] = doc.Text(line)
	}
	return doc.Join(doc.Hardline, parts), nil
}

// offsetPosition converts a byte offset into a 1-based line and column.
func offsetPosition(s string, offset int) (line, col int) {
	offset = min(offset, len(s))
	before := s[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}
