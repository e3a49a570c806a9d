package lang

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/grindlemire/astrofmt/internal/doc"
)

var htmlVoid = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Track: true,
	atom.Wbr: true,
}

// htmlRaw elements keep their content as written.
var htmlRaw = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Textarea: true, atom.Pre: true,
}

// formatHTML prints an HTML fragment one node per line. Elements holding
// only other elements are broken and indented; elements holding text are
// kept on one line when they fit.
func formatHTML(_ context.Context, src string, _ Options) (doc.Doc, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, parseErrorf(HTML, 0, 0, "%v", err)
	}
	return doc.Join(doc.Hardline, htmlNodes(nodes)), nil
}

func htmlNodes(nodes []*html.Node) []doc.Doc {
	var docs []doc.Doc
	for _, n := range nodes {
		if d := htmlNode(n); d != nil {
			docs = append(docs, d)
		}
	}
	return docs
}

func htmlNode(n *html.Node) doc.Doc {
	switch n.Type {
	case html.TextNode:
		words := strings.Fields(n.Data)
		if len(words) == 0 {
			return nil
		}
		parts := make([]doc.Doc, len(words))
		for i, w := range words {
			parts[i] = doc.Text(html.EscapeString(w))
		}
		return doc.Fill(joinParts(parts, doc.Line)...)
	case html.CommentNode:
		return doc.Text("<!--" + n.Data + "-->")
	case html.DoctypeNode:
		return doc.Text(renderHTML(n))
	case html.ElementNode:
		return htmlElement(n)
	}
	return nil
}

func htmlElement(n *html.Node) doc.Doc {
	if htmlRaw[n.DataAtom] {
		return rawLines(renderHTML(n))
	}
	open := doc.Text(openTag(n))
	if htmlVoid[n.DataAtom] {
		return open
	}
	closing := doc.Text("</" + n.Data + ">")
	if n.FirstChild == nil {
		return doc.Concat{open, closing}
	}

	var children []*html.Node
	inline := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			inline = true
		}
	}
	if inline {
		var sb strings.Builder
		for _, c := range children {
			if c.Type == html.TextNode {
				sb.WriteString(html.EscapeString(c.Data))
				continue
			}
			sb.WriteString(renderHTML(c))
		}
		inner := strings.Join(strings.Fields(sb.String()), " ")
		return doc.Group(open, doc.Indent(doc.Softline, doc.Text(inner)), doc.Softline, closing)
	}
	kids := htmlNodes(children)
	if len(kids) == 0 {
		return doc.Concat{open, closing}
	}
	return doc.Concat{open, doc.Indent(doc.Hardline, doc.Join(doc.Hardline, kids)), doc.Hardline, closing}
}

func openTag(n *html.Node) string {
	var sb strings.Builder
	sb.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		sb.WriteByte(' ')
		if a.Namespace != "" {
			sb.WriteString(a.Namespace + ":")
		}
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.Val))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	return sb.String()
}

func renderHTML(n *html.Node) string {
	var sb strings.Builder
	// rendering into a strings.Builder cannot fail
	_ = html.Render(&sb, n)
	return sb.String()
}

// rawLines prints s line by line without reindenting it.
func rawLines(s string) doc.Doc {
	lines := strings.Split(s, "\n")
	parts := make(doc.Concat, 0, 2*len(lines))
	for i, line := range lines {
		if i > 0 {
			parts = append(parts, doc.Literalline)
		}
		parts = append(parts, doc.Text(line))
	}
	return parts
}

func joinParts(parts []doc.Doc, sep doc.Doc) []doc.Doc {
	out := make([]doc.Doc, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
