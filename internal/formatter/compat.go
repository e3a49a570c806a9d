package formatter

import (
	"strings"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/doc"
)

// Private-use characters standing in for markup the expression grammar
// rejects. They are replaced back in the formatted output.
const (
	openBraceMark  = "\uE000"
	closeBraceMark = "\uE001"
	atMark         = "\uE002"
	dotMark        = "\uE003"
	questionMark   = "\uE004"
	fragmentName   = "\uE005"
)

var (
	attrNameMarker = strings.NewReplacer("@", atMark, ".", dotMark, "?", questionMark)

	compatRestorer = strings.NewReplacer(
		"<"+fragmentName+">", "",
		"</"+fragmentName+">", "",
		openBraceMark, "{",
		closeBraceMark, "}",
		atMark, "@",
		dotMark, ".",
		questionMark, "?",
	)
)

// makeCompatible returns a copy of the subtree at id that the expression
// grammar accepts: shorthand attributes become marked names, attribute
// names lose characters invalid in JSX, void elements self-close and runs
// of adjacent tags are wrapped in a fragment. The copy is added to the tree; id is untouched.
func (p *printer) makeCompatible(id astro.NodeID) astro.NodeID {
	n := p.tree.Node(id)
	if !n.IsTag() && len(n.Children) == 0 {
		return id
	}
	if n.IsTag() {
		n.Attrs = compatibleAttributes(n.Attrs)
		// <img> is only valid JSX when written as <img />.
		if n.Kind == astro.KindElement && astro.IsVoidElement(n.Name) {
			n.SelfClosing = true
		}
	}
	if len(n.Children) > 0 {
		n.Children = p.bundleTags(n.Children)
	}
	return p.tree.Add(n)
}

func compatibleAttributes(attrs []astro.Attribute) []astro.Attribute {
	out := make([]astro.Attribute, len(attrs))
	for i, a := range attrs {
		if a.Kind == astro.AttrShorthand {
			a.Kind = astro.AttrEmpty
			a.Name = openBraceMark + a.Name + closeBraceMark
		}
		if a.Kind != astro.AttrSpread {
			a.Name = attrNameMarker.Replace(a.Name)
		}
		out[i] = a
	}
	return out
}

// bundleTags converts children and wraps every run of two or more adjacent
// tag-like children in a fragment.
func (p *printer) bundleTags(children []astro.NodeID) []astro.NodeID {
	out := make([]astro.NodeID, 0, len(children))
	var run []astro.NodeID
	flush := func() {
		if len(run) == 1 {
			out = append(out, run[0])
		} else if len(run) > 1 {
			out = append(out, p.fragment(run))
		}
		run = nil
	}
	for _, c := range children {
		converted := p.makeCompatible(c)
		if p.tree.Kind(c).IsTag() {
			run = append(run, converted)
			continue
		}
		flush()
		out = append(out, converted)
	}
	flush()
	return out
}

func (p *printer) fragment(children []astro.NodeID) astro.NodeID {
	first := p.tree.Node(children[0])
	last := p.tree.Node(children[len(children)-1])
	return p.tree.Add(astro.Node{
		Kind:     astro.KindFragment,
		Name:     fragmentName,
		Children: children,
		Pos:      first.Pos,
		Span:     astro.Span{Start: first.Span.Start, End: last.Span.End},
	})
}

// restoreCompat undoes the marks of makeCompatible in formatted output.
func restoreCompat(d doc.Doc) doc.Doc {
	return doc.MapText(d, compatRestorer.Replace)
}
