package formatter

import (
	"strings"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/doc"
)

// printAttributes prints the attributes of n, each starting with a line.
// With perLine every attribute goes on its own line.
func (p *printer) printAttributes(n astro.Node, perLine bool) doc.Doc {
	var sep doc.Doc = doc.Empty
	if perLine {
		sep = doc.BreakParent
	}
	return doc.Join(sep, p.printAttributeList(n))
}

func (p *printer) printAttributeList(n astro.Node) []doc.Doc {
	docs := make([]doc.Doc, len(n.Attrs))
	for i := range n.Attrs {
		docs[i] = p.printAttribute(n.Attrs[i])
	}
	return docs
}

func (p *printer) printAttribute(a astro.Attribute) doc.Doc {
	p.path.push(frame{node: p.path.current().node, attr: &a})
	defer p.path.pop()

	if d, ok := p.embedAttribute(a); ok {
		return d
	}
	name := doc.Text(strings.TrimSpace(a.Name))
	switch a.Kind {
	case astro.AttrEmpty:
		return doc.Concat{doc.Line, name}
	case astro.AttrQuoted:
		return p.printQuotedAttribute(a)
	case astro.AttrShorthand:
		if p.opts.AllowShorthand {
			return doc.Concat{doc.Line, doc.Text("{"), name, doc.Text("}")}
		}
		return doc.Concat{doc.Line, name, doc.Text("={"), name, doc.Text("}")}
	case astro.AttrSpread:
		return doc.Concat{doc.Line, doc.Text("{..."), verbatim(a.Name), doc.Text("}")}
	case astro.AttrTemplateLiteral:
		return doc.Concat{doc.Line, name, doc.Text("=`"), verbatim(a.Value), doc.Text("`")}
	}
	// expression attributes are printed by embedAttribute
	return doc.Empty
}

func (p *printer) printQuotedAttribute(a astro.Attribute) doc.Doc {
	value := a.Value
	if a.Name == "class" {
		value = strings.Join(strings.Fields(value), " ")
	}
	value = strings.NewReplacer("&apos;", "'", "&quot;", `"`).Replace(value)

	quote, escaped := p.preferredQuote(value)
	value = strings.ReplaceAll(value, quote, escaped)
	return doc.Concat{
		doc.Line,
		doc.Text(strings.TrimSpace(a.Name)),
		doc.Text("=" + quote),
		verbatim(value),
		doc.Text(quote),
	}
}

// preferredQuote picks the quote needing fewer escapes in value, falling
// back to the configured quote on ties.
func (p *printer) preferredQuote(value string) (quote, escaped string) {
	double := [2]string{`"`, "&quot;"}
	single := [2]string{`'`, "&apos;"}
	preferred, alternate := double, single
	if p.opts.SingleQuote {
		preferred, alternate = single, double
	}
	if strings.Count(value, preferred[0]) > strings.Count(value, alternate[0]) {
		return alternate[0], alternate[1]
	}
	return preferred[0], preferred[1]
}
