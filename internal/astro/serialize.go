package astro

import "strings"

// Serialize returns the source text of a node and its descendants. It is
// built from node data, so nodes added by transforms serialize too.
func Serialize(t *Tree, id NodeID) string {
	var sb strings.Builder
	writeNode(&sb, t, id)
	return sb.String()
}

// SerializeChildren returns the concatenated source text of a node's children.
func SerializeChildren(t *Tree, id NodeID) string {
	var sb strings.Builder
	for _, c := range t.Children(id) {
		writeNode(&sb, t, c)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, t *Tree, id NodeID) {
	n := t.Node(id)
	switch n.Kind {
	case KindRoot:
		writeChildren(sb, t, n)
	case KindText:
		sb.WriteString(n.Value)
	case KindComment:
		sb.WriteString("<!--")
		sb.WriteString(n.Value)
		sb.WriteString("-->")
	case KindDoctype:
		sb.WriteString("<!")
		sb.WriteString(n.Value)
		sb.WriteString(">")
	case KindFrontmatter:
		sb.WriteString("---")
		sb.WriteString(n.Value)
		sb.WriteString("---")
	case KindExpression:
		sb.WriteByte('{')
		writeChildren(sb, t, n)
		sb.WriteByte('}')
	default:
		sb.WriteByte('<')
		sb.WriteString(n.Name)
		for _, a := range n.Attrs {
			sb.WriteByte(' ')
			writeAttr(sb, a)
		}
		switch {
		case n.SelfClosing:
			sb.WriteString(" />")
			return
		case len(n.Children) == 0 && n.Kind == KindElement && IsVoidElement(n.Name):
			sb.WriteByte('>')
			return
		}
		sb.WriteByte('>')
		writeChildren(sb, t, n)
		sb.WriteString("</")
		sb.WriteString(n.Name)
		sb.WriteByte('>')
	}
}

func writeChildren(sb *strings.Builder, t *Tree, n Node) {
	for _, c := range n.Children {
		writeNode(sb, t, c)
	}
}

func writeAttr(sb *strings.Builder, a Attribute) {
	switch a.Kind {
	case AttrEmpty:
		sb.WriteString(a.Name)
	case AttrQuoted:
		q := a.Quote
		if q == 0 {
			q = '"'
			if strings.IndexByte(a.Value, '"') >= 0 {
				q = '\''
			}
		}
		sb.WriteString(a.Name)
		sb.WriteByte('=')
		sb.WriteByte(q)
		sb.WriteString(a.Value)
		sb.WriteByte(q)
	case AttrShorthand:
		sb.WriteByte('{')
		sb.WriteString(a.Name)
		sb.WriteByte('}')
	case AttrSpread:
		sb.WriteString("{...")
		sb.WriteString(a.Name)
		sb.WriteByte('}')
	case AttrExpression:
		sb.WriteString(a.Name)
		sb.WriteString("={")
		sb.WriteString(a.Value)
		sb.WriteByte('}')
	case AttrTemplateLiteral:
		sb.WriteString(a.Name)
		sb.WriteString("=`")
		sb.WriteString(a.Value)
		sb.WriteByte('`')
	}
}
