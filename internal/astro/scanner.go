package astro

import (
	"sort"
	"strings"
)

// scanner holds the read position over a source string and converts byte
// offsets to line and column positions.
type scanner struct {
	file       string
	src        string
	pos        int
	lineStarts []int
}

func newScanner(file, src string) *scanner {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &scanner{file: file, src: src, lineStarts: starts}
}

// position returns the 1-based line and column of a byte offset.
func (s *scanner) position(off int) Position {
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > off
	}) - 1
	if line < 0 {
		line = 0
	}
	return Position{
		File:   s.file,
		Line:   line + 1,
		Column: off - s.lineStarts[line] + 1,
	}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

// ch returns the byte at the read position or 0 at end of input.
func (s *scanner) ch() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// peek returns the byte n positions ahead of the read position.
func (s *scanner) peek(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *scanner) hasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

func (s *scanner) hasPrefixFold(prefix string) bool {
	rest := s.src[s.pos:]
	return len(rest) >= len(prefix) && strings.EqualFold(rest[:len(prefix)], prefix)
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

// skipPast advances beyond the next occurrence of c, or to end of input.
func (s *scanner) skipPast(c byte) {
	if i := strings.IndexByte(s.src[s.pos:], c); i >= 0 {
		s.pos += i + 1
		return
	}
	s.pos = len(s.src)
}

// skipString skips a quoted string starting at the read position.
func (s *scanner) skipString() {
	quote := s.src[s.pos]
	s.pos++
	for s.pos < len(s.src) && s.src[s.pos] != quote {
		if s.src[s.pos] == '\\' {
			s.pos++
		} else if s.src[s.pos] == '\n' {
			// unterminated; stop at the line end like a JS lexer would
			return
		}
		s.pos++
	}
	if s.pos < len(s.src) {
		s.pos++
	}
}

// skipTemplate skips a template literal, including nested ${} substitutions.
func (s *scanner) skipTemplate() {
	s.pos++ // consume `
	for s.pos < len(s.src) {
		switch {
		case s.src[s.pos] == '\\':
			s.pos += 2
		case s.src[s.pos] == '`':
			s.pos++
			return
		case s.hasPrefix("${"):
			s.pos++
			s.skipBalanced()
		default:
			s.pos++
		}
	}
}

// skipComment skips a // or /* */ comment and reports whether one was found.
func (s *scanner) skipComment() bool {
	switch {
	case s.hasPrefix("//"):
		if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
			s.pos += i
		} else {
			s.pos = len(s.src)
		}
		return true
	case s.hasPrefix("/*"):
		if i := strings.Index(s.src[s.pos+2:], "*/"); i >= 0 {
			s.pos += i + 4
		} else {
			s.pos = len(s.src)
		}
		return true
	}
	return false
}

// skipBalanced expects '{' at the read position and advances past the
// matching '}'. It reports false when the input ends first.
func (s *scanner) skipBalanced() bool {
	depth := 0
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; c {
		case '{':
			depth++
			s.pos++
		case '}':
			depth--
			s.pos++
			if depth == 0 {
				return true
			}
		case '"', '\'':
			s.skipString()
		case '`':
			s.skipTemplate()
		case '/':
			if !s.skipComment() {
				s.pos++
			}
		default:
			s.pos++
		}
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentByte(c byte) bool {
	return isLetter(c) || c >= '0' && c <= '9' || c == '_' || c == '$'
}
