package doc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Options controls rendering.
type Options struct {
	Width    int
	TabWidth int
	UseTabs  bool
	// EOL is the newline sequence, "\n" when empty.
	EOL string
}

type mode uint8

const (
	modeBreak mode = iota
	modeFlat
)

// command is an entry of the render stack.
type command struct {
	indent int
	mode   mode
	doc    Doc
}

// renderer holds the state of a single Print call.
type renderer struct {
	opts       Options
	unit       string
	unitWidth  int
	out        []byte
	pos        int
	remeasure  bool
	lineSuffix []command
}

// Print renders d. Groups in d are marked broken as a side effect.
func Print(d Doc, opts Options) string {
	if opts.EOL == "" {
		opts.EOL = "\n"
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = 2
	}
	r := &renderer{opts: opts}
	if opts.UseTabs {
		r.unit, r.unitWidth = "\t", opts.TabWidth
	} else {
		r.unit, r.unitWidth = strings.Repeat(" ", opts.TabWidth), opts.TabWidth
	}

	PropagateBreaks(d)
	r.run(d)
	return string(r.out)
}

func (r *renderer) run(d Doc) {
	cmds := []command{{mode: modeBreak, doc: d}}
	for len(cmds) > 0 {
		cmd := cmds[len(cmds)-1]
		cmds = cmds[:len(cmds)-1]

		switch d := cmd.doc.(type) {
		case nil:
		case Text:
			r.out = append(r.out, d...)
			r.pos += StringWidth(string(d))
		case Concat:
			for i := len(d) - 1; i >= 0; i-- {
				cmds = append(cmds, command{cmd.indent, cmd.mode, d[i]})
			}
		case *IndentNode:
			cmds = append(cmds, command{cmd.indent + 1, cmd.mode, d.Contents})
		case *DedentNode:
			cmds = append(cmds, command{max(cmd.indent-1, 0), cmd.mode, d.Contents})
		case *GroupNode:
			if cmd.mode == modeFlat && !r.remeasure {
				m := modeFlat
				if d.Break {
					m = modeBreak
				}
				cmds = append(cmds, command{cmd.indent, m, d.Contents})
				break
			}
			r.remeasure = false
			next := command{cmd.indent, modeFlat, d.Contents}
			if !d.Break && r.fits(next, cmds, r.opts.Width-r.pos, false) {
				cmds = append(cmds, next)
			} else {
				cmds = append(cmds, command{cmd.indent, modeBreak, d.Contents})
			}
		case *FillNode:
			cmds = r.fill(cmd, d, cmds)
		case *LineSuffixNode:
			r.lineSuffix = append(r.lineSuffix, command{cmd.indent, cmd.mode, d.Contents})
		case LineSuffixBoundaryNode:
			if len(r.lineSuffix) > 0 {
				cmds = append(cmds, command{cmd.indent, cmd.mode, LineNode{Hard: true}})
			}
		case LineNode:
			if cmd.mode == modeFlat && !d.Hard {
				if !d.Soft {
					r.out = append(r.out, ' ')
					r.pos++
				}
				break
			}
			if cmd.mode == modeFlat {
				r.remeasure = true
			}
			if len(r.lineSuffix) > 0 {
				cmds = append(cmds, cmd)
				for i := len(r.lineSuffix) - 1; i >= 0; i-- {
					cmds = append(cmds, r.lineSuffix[i])
				}
				r.lineSuffix = r.lineSuffix[:0]
				break
			}
			if d.Literal {
				r.out = append(r.out, r.opts.EOL...)
				r.pos = 0
				break
			}
			r.trim()
			r.out = append(r.out, r.opts.EOL...)
			for range cmd.indent {
				r.out = append(r.out, r.unit...)
			}
			r.pos = cmd.indent * r.unitWidth
		case BreakParentNode:
		}

		if len(cmds) == 0 && len(r.lineSuffix) > 0 {
			for i := len(r.lineSuffix) - 1; i >= 0; i-- {
				cmds = append(cmds, r.lineSuffix[i])
			}
			r.lineSuffix = r.lineSuffix[:0]
		}
	}
}

// fill pushes the commands for the first content and separator of a fill
// followed by a fill of the remaining parts.
func (r *renderer) fill(cmd command, d *FillNode, cmds []command) []command {
	if len(d.Parts) == 0 {
		return cmds
	}
	rem := r.opts.Width - r.pos
	content := d.Parts[0]
	contentFlat := command{cmd.indent, modeFlat, content}
	contentBreak := command{cmd.indent, modeBreak, content}
	contentFits := r.fits(contentFlat, nil, rem, true)

	if len(d.Parts) == 1 {
		if contentFits {
			return append(cmds, contentFlat)
		}
		return append(cmds, contentBreak)
	}

	sep := d.Parts[1]
	sepFlat := command{cmd.indent, modeFlat, sep}
	sepBreak := command{cmd.indent, modeBreak, sep}

	if len(d.Parts) == 2 {
		if contentFits {
			return append(cmds, sepFlat, contentFlat)
		}
		return append(cmds, sepBreak, contentBreak)
	}

	rest := command{cmd.indent, cmd.mode, &FillNode{Parts: d.Parts[2:]}}
	pair := command{cmd.indent, modeFlat, Concat{content, sep, d.Parts[2]}}

	switch {
	case r.fits(pair, nil, rem, true):
		return append(cmds, rest, sepFlat, contentFlat)
	case contentFits:
		return append(cmds, rest, sepBreak, contentFlat)
	default:
		return append(cmds, rest, sepBreak, contentBreak)
	}
}

// fits reports whether next can be printed flat within width columns. When
// next runs out, the pending commands in rest are consulted in their own mode
// until a line break in break mode is found.
func (r *renderer) fits(next command, rest []command, width int, mustBeFlat bool) bool {
	hasLineSuffix := len(r.lineSuffix) > 0
	restIdx := len(rest)
	stack := []command{next}
	for width >= 0 {
		if len(stack) == 0 {
			if restIdx == 0 {
				return true
			}
			restIdx--
			stack = append(stack, rest[restIdx])
			continue
		}
		cmd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := cmd.doc.(type) {
		case Text:
			width -= StringWidth(string(d))
		case Concat:
			for i := len(d) - 1; i >= 0; i-- {
				stack = append(stack, command{cmd.indent, cmd.mode, d[i]})
			}
		case *FillNode:
			for i := len(d.Parts) - 1; i >= 0; i-- {
				stack = append(stack, command{cmd.indent, cmd.mode, d.Parts[i]})
			}
		case *IndentNode:
			stack = append(stack, command{cmd.indent, cmd.mode, d.Contents})
		case *DedentNode:
			stack = append(stack, command{cmd.indent, cmd.mode, d.Contents})
		case *GroupNode:
			if mustBeFlat && d.Break {
				return false
			}
			m := cmd.mode
			if d.Break {
				m = modeBreak
			}
			stack = append(stack, command{cmd.indent, m, d.Contents})
		case LineNode:
			if cmd.mode == modeBreak || d.Hard {
				return true
			}
			if !d.Soft {
				width--
			}
		case *LineSuffixNode:
			hasLineSuffix = true
		case LineSuffixBoundaryNode:
			if hasLineSuffix {
				return true
			}
		}
	}
	return false
}

// trim removes trailing blanks from the output.
func (r *renderer) trim() {
	n := len(r.out)
	for n > 0 && (r.out[n-1] == ' ' || r.out[n-1] == '\t') {
		n--
	}
	r.out = r.out[:n]
}

// StringWidth returns the number of columns s occupies. East Asian wide and
// fullwidth characters count as two columns.
func StringWidth(s string) int {
	w := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			w++
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}
