package doc

import (
	"fmt"
	"strings"
)

// PropagateBreaks marks every group that contains a forced break as broken.
// It reports whether d itself contains one.
func PropagateBreaks(d Doc) bool {
	switch d := d.(type) {
	case Concat:
		found := false
		for _, p := range d {
			if PropagateBreaks(p) {
				found = true
			}
		}
		return found
	case *GroupNode:
		if PropagateBreaks(d.Contents) {
			d.Break = true
		}
		return d.Break
	case *IndentNode:
		return PropagateBreaks(d.Contents)
	case *DedentNode:
		return PropagateBreaks(d.Contents)
	case *LineSuffixNode:
		return PropagateBreaks(d.Contents)
	case *FillNode:
		found := false
		for _, p := range d.Parts {
			if PropagateBreaks(p) {
				found = true
			}
		}
		return found
	case BreakParentNode:
		return true
	}
	return false
}

// IsHardline reports whether d is exactly a hard line with its break parent.
func IsHardline(d Doc) bool {
	c, ok := d.(Concat)
	if !ok || len(c) != 2 {
		return false
	}
	l, ok := c[0].(LineNode)
	if !ok || !l.Hard {
		return false
	}
	_, ok = c[1].(BreakParentNode)
	return ok
}

// IsEmpty reports whether d prints nothing.
func IsEmpty(d Doc) bool {
	switch d := d.(type) {
	case nil:
		return true
	case Text:
		return d == ""
	case Concat:
		for _, p := range d {
			if !IsEmpty(p) {
				return false
			}
		}
		return true
	}
	return false
}

// StripTrailingHardline removes hard lines and trailing newlines of text at
// the end of d, descending into the last part of containers.
func StripTrailingHardline(d Doc) Doc {
	switch d := d.(type) {
	case Concat:
		return stripParts(d, true)
	case *GroupNode:
		return &GroupNode{Contents: StripTrailingHardline(d.Contents), Break: d.Break}
	case *IndentNode:
		return &IndentNode{Contents: StripTrailingHardline(d.Contents)}
	case *DedentNode:
		return &DedentNode{Contents: StripTrailingHardline(d.Contents)}
	case *LineSuffixNode:
		return &LineSuffixNode{Contents: StripTrailingHardline(d.Contents)}
	case *FillNode:
		return &FillNode{Parts: []Doc(stripParts(d.Parts, false))}
	case Text:
		return Text(strings.TrimRight(string(d), "\r\n"))
	}
	return d
}

// stripParts strips the end of a part list. Fill parts alternate content and
// separators, so emptied parts are only dropped when dropEmpty is set.
func stripParts(parts []Doc, dropEmpty bool) Concat {
	out := append(Concat(nil), parts...)
	for len(out) > 0 {
		last := out[len(out)-1]
		if IsHardline(last) {
			out = out[:len(out)-1]
			continue
		}
		if len(out) >= 2 {
			if l, ok := out[len(out)-2].(LineNode); ok && l.Hard {
				if _, ok := last.(BreakParentNode); ok {
					out = out[:len(out)-2]
					continue
				}
			}
		}
		stripped := StripTrailingHardline(last)
		if dropEmpty && IsEmpty(stripped) {
			out = out[:len(out)-1]
			continue
		}
		out[len(out)-1] = stripped
		break
	}
	return out
}

// MapDoc rebuilds d bottom-up, replacing every node with fn's result.
// Containers are copied, so d is left untouched.
func MapDoc(d Doc, fn func(Doc) Doc) Doc {
	switch d := d.(type) {
	case Concat:
		out := make(Concat, len(d))
		for i, p := range d {
			out[i] = MapDoc(p, fn)
		}
		return fn(out)
	case *GroupNode:
		return fn(&GroupNode{Contents: MapDoc(d.Contents, fn), Break: d.Break})
	case *IndentNode:
		return fn(&IndentNode{Contents: MapDoc(d.Contents, fn)})
	case *DedentNode:
		return fn(&DedentNode{Contents: MapDoc(d.Contents, fn)})
	case *LineSuffixNode:
		return fn(&LineSuffixNode{Contents: MapDoc(d.Contents, fn)})
	case *FillNode:
		parts := make([]Doc, len(d.Parts))
		for i, p := range d.Parts {
			parts[i] = MapDoc(p, fn)
		}
		return fn(&FillNode{Parts: parts})
	}
	return fn(d)
}

// MapText applies fn to every Text leaf of d.
func MapText(d Doc, fn func(string) string) Doc {
	return MapDoc(d, func(d Doc) Doc {
		if t, ok := d.(Text); ok {
			return Text(fn(string(t)))
		}
		return d
	})
}

// Debug renders the structure of d in builder notation.
func Debug(d Doc) string {
	var sb strings.Builder
	writeDebug(&sb, d)
	return sb.String()
}

func writeDebug(sb *strings.Builder, d Doc) {
	list := func(name string, parts []Doc) {
		sb.WriteString(name)
		sb.WriteByte('(')
		for i, p := range parts {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeDebug(sb, p)
		}
		sb.WriteByte(')')
	}
	wrap := func(name string, c Doc) {
		sb.WriteString(name)
		sb.WriteByte('(')
		writeDebug(sb, c)
		sb.WriteByte(')')
	}

	switch d := d.(type) {
	case nil:
		sb.WriteString("nil")
	case Text:
		fmt.Fprintf(sb, "%q", string(d))
	case Concat:
		if IsHardline(d) {
			if d[0].(LineNode).Literal {
				sb.WriteString("literalline")
			} else {
				sb.WriteString("hardline")
			}
			return
		}
		sb.WriteByte('[')
		for i, p := range d {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeDebug(sb, p)
		}
		sb.WriteByte(']')
	case *GroupNode:
		if d.Break {
			wrap("breakingGroup", d.Contents)
		} else {
			wrap("group", d.Contents)
		}
	case *IndentNode:
		wrap("indent", d.Contents)
	case *DedentNode:
		wrap("dedent", d.Contents)
	case *LineSuffixNode:
		wrap("lineSuffix", d.Contents)
	case *FillNode:
		list("fill", d.Parts)
	case LineNode:
		switch {
		case d.Literal:
			sb.WriteString("literallineWithoutBreakParent")
		case d.Hard:
			sb.WriteString("hardlineWithoutBreakParent")
		case d.Soft:
			sb.WriteString("softline")
		default:
			sb.WriteString("line")
		}
	case BreakParentNode:
		sb.WriteString("breakParent")
	case LineSuffixBoundaryNode:
		sb.WriteString("lineSuffixBoundary")
	default:
		fmt.Fprintf(sb, "%T", d)
	}
}
