package nn

import (
	"strings"

	"github.com/born-ml/shardtree/internal/tensor"
)

// Dotted attribute paths address nested fields generically across
// heterogeneous architectures, e.g. "attention.self.query.weight".
// All-but-last segments name children; the final segment may name a child,
// a parameter, or a scalar attribute depending on the accessor. Every
// accessor returns an explicit found/not-found result; callers decide
// whether not-found is tolerated.

// walk resolves all path segments through children. An empty path resolves
// to the node itself.
func (n *Node) walk(path string) (*Node, bool) {
	if path == "" {
		return n, true
	}
	cur := n
	for _, seg := range strings.Split(path, ".") {
		child, ok := cur.children[seg]
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// splitLast splits a path into its parent path and final segment.
func splitLast(path string) (parent, last string) {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}

// NodeAt resolves a dotted path entirely through children.
// The empty path resolves to n itself.
func (n *Node) NodeAt(path string) (*Node, bool) {
	return n.walk(path)
}

// ParamAt resolves a dotted path whose final segment names a parameter.
func (n *Node) ParamAt(path string) (*tensor.Tensor, bool) {
	parent, last := splitLast(path)
	owner, ok := n.walk(parent)
	if !ok {
		return nil, false
	}
	return owner.Param(last)
}

// AttrAt resolves a dotted path whose final segment names a scalar attribute.
func (n *Node) AttrAt(path string) (any, bool) {
	parent, last := splitLast(path)
	owner, ok := n.walk(parent)
	if !ok {
		return nil, false
	}
	return owner.Attr(last)
}

// Has reports whether the dotted path resolves to a child, parameter, or
// scalar attribute.
func (n *Node) Has(path string) bool {
	parent, last := splitLast(path)
	owner, ok := n.walk(parent)
	if !ok {
		return false
	}
	if _, ok := owner.Child(last); ok {
		return true
	}
	if _, ok := owner.Param(last); ok {
		return true
	}
	_, ok = owner.Attr(last)
	return ok
}

// SetNodeAt replaces (or adds) the child at the dotted path. Returns false
// if the parent chain does not resolve or the path is empty.
func (n *Node) SetNodeAt(path string, child *Node) bool {
	if path == "" {
		return false
	}
	parent, last := splitLast(path)
	owner, ok := n.walk(parent)
	if !ok {
		return false
	}
	owner.SetChild(last, child)
	return true
}

// SetParamAt installs a parameter tensor at the dotted path. Returns false
// if the parent chain does not resolve.
func (n *Node) SetParamAt(path string, t *tensor.Tensor) bool {
	parent, last := splitLast(path)
	owner, ok := n.walk(parent)
	if !ok {
		return false
	}
	owner.SetParam(last, t)
	return true
}

// SetAttrAt installs a scalar attribute at the dotted path. Returns false
// if the parent chain does not resolve.
func (n *Node) SetAttrAt(path string, value any) bool {
	parent, last := splitLast(path)
	owner, ok := n.walk(parent)
	if !ok {
		return false
	}
	owner.SetAttr(last, value)
	return true
}
