package astro

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Dump renders the subtree reachable from the root as an indented tree.
func Dump(t *Tree) string {
	if !t.Valid(t.Root) {
		return ""
	}
	tp := treeprint.New()
	tp.SetValue(label(t.Node(t.Root)))
	dumpChildren(tp, t, t.Root)
	return tp.String()
}

func dumpChildren(branch treeprint.Tree, t *Tree, id NodeID) {
	for _, c := range t.Children(id) {
		n := t.Node(c)
		if len(n.Children) == 0 {
			branch.AddNode(label(n))
			continue
		}
		dumpChildren(branch.AddBranch(label(n)), t, c)
	}
}

func label(n Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	switch {
	case n.IsTag():
		fmt.Fprintf(&sb, " <%s>", n.Name)
		for _, a := range n.Attrs {
			fmt.Fprintf(&sb, " %s:%s", a.Kind, a.Name)
			if a.Value != "" {
				fmt.Fprintf(&sb, "=%q", a.Value)
			}
		}
		if n.SelfClosing {
			sb.WriteString(" (self-closing)")
		}
	case n.Kind != KindRoot && n.Kind != KindExpression:
		fmt.Fprintf(&sb, " %q", n.Value)
	}
	fmt.Fprintf(&sb, " @%d:%d", n.Pos.Line, n.Pos.Column)
	return sb.String()
}
