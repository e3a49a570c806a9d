package formatter

import "github.com/grindlemire/astrofmt/internal/astro"

// frame is one step of the traversal from the root to the node being
// printed. Siblings is the child list the node was printed from, which may
// differ from its parent's children after whitespace trimming.
type frame struct {
	node     astro.NodeID
	siblings []astro.NodeID
	index    int
	// attr is set while an attribute of node is printed.
	attr *astro.Attribute
}

// path is the stack of frames of the current traversal.
type path struct {
	frames []frame
}

func (p *path) push(f frame) { p.frames = append(p.frames, f) }

func (p *path) pop() { p.frames = p.frames[:len(p.frames)-1] }

// current returns the innermost frame.
func (p *path) current() frame {
	return p.frames[len(p.frames)-1]
}

// parent returns the closest enclosing node frame, skipping attribute frames.
func (p *path) parent() (frame, bool) {
	cur := p.current().node
	for i := len(p.frames) - 2; i >= 0; i-- {
		f := p.frames[i]
		if f.attr != nil || f.node == cur {
			continue
		}
		return f, true
	}
	return frame{}, false
}

// next returns the sibling printed after the current node.
func (p *path) next() (astro.NodeID, bool) {
	f := p.current()
	if f.index+1 >= len(f.siblings) {
		return astro.NoNode, false
	}
	return f.siblings[f.index+1], true
}
