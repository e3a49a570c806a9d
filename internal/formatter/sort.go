package formatter

import (
	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/doc"
)

// printSections prints the root children with the top-level <style>
// elements moved before or after the markup, as the sort order asks.
// Frontmatter always stays first and keeps its trailing blank line.
func (p *printer) printSections(children []astro.NodeID) doc.Doc {
	var frontmatter, styles, markup []astro.NodeID
	for i := 0; i < len(children); i++ {
		c := children[i]
		n := p.tree.Node(c)
		switch {
		case n.Kind == astro.KindFrontmatter:
			frontmatter = append(frontmatter, c)
		case n.Kind == astro.KindElement && n.Name == "style":
			styles = append(styles, c)
			if i+1 < len(children) && isEmptyText(p.tree.Node(children[i+1])) {
				i++
			}
		default:
			markup = append(markup, c)
		}
	}
	markup = p.trimEmptyText(markup)

	var sections []doc.Doc
	order := [][]astro.NodeID{markup, styles}
	if p.opts.SortOrder == config.SortStylesMarkup {
		order = [][]astro.NodeID{styles, markup}
	}
	for _, section := range order {
		if len(section) == 0 {
			continue
		}
		sections = append(sections, doc.StripTrailingHardline(p.printSection(section)))
	}
	return doc.Concat{p.printChildren(frontmatter), doc.Join(doc.Hardline, sections)}
}

// printSection prints a run of root children that do not share a sibling
// list in the source, one per line.
func (p *printer) printSection(section []astro.NodeID) doc.Doc {
	if p.tree.Kind(section[0]) != astro.KindElement || p.tree.Node(section[0]).Name != "style" {
		return p.printChildren(section)
	}
	parts := make([]doc.Doc, len(section))
	for i := range section {
		parts[i] = doc.StripTrailingHardline(p.printChild(section, i))
	}
	return doc.Join(doc.Hardline, parts)
}
