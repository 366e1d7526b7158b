// Package nn implements the module-tree data model the sharding pass
// operates on.
//
// A model is a tree of Nodes. Each Node carries a layer class identity,
// ordered named children, named parameter tensors, and named scalar
// configuration attributes. The sharding pass rewrites this tree in place:
// it overwrites attributes, swaps child subtrees for parallel layer
// instances, and installs sliced parameter tensors.
package nn

import (
	"sort"

	"github.com/born-ml/shardtree/internal/tensor"
)

// Layer class identities for the concrete layers this package constructs.
const (
	ClassLinear            = "Linear"
	ClassEmbedding         = "Embedding"
	ClassRowParallelLinear = "RowParallelLinear"
	ClassColParallelLinear = "ColParallelLinear"
	ClassParallelEmbedding = "ParallelEmbedding"
)

// Well-known parameter and attribute names.
const (
	ParamWeight = "weight"
	ParamBias   = "bias"

	AttrInFeatures    = "in_features"
	AttrOutFeatures   = "out_features"
	AttrNumEmbeddings = "num_embeddings"
	AttrEmbeddingDim  = "embedding_dim"
	AttrPaddingIdx    = "padding_idx"
	AttrGatherOutput  = "gather_output"
)

// Node is one node of a module tree.
//
// Children keep insertion order, which defines the traversal order of the
// sharding pass. Params hold tensors (weight, bias, ...); Attrs hold scalar
// configuration values such as in_features.
type Node struct {
	class    string
	order    []string
	children map[string]*Node
	params   map[string]*tensor.Tensor
	attrs    map[string]any
}

// NewNode creates an empty node with the given class identity.
func NewNode(class string) *Node {
	return &Node{
		class:    class,
		children: make(map[string]*Node),
		params:   make(map[string]*tensor.Tensor),
		attrs:    make(map[string]any),
	}
}

// Class returns the node's layer class identity.
func (n *Node) Class() string {
	return n.class
}

// SetChild adds or replaces a named child. A new name is appended to the
// iteration order; replacing keeps the original position.
func (n *Node) SetChild(name string, child *Node) {
	if _, ok := n.children[name]; !ok {
		n.order = append(n.order, name)
	}
	n.children[name] = child
}

// Child returns the named child.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// ChildNames returns child names in insertion order.
func (n *Node) ChildNames() []string {
	return n.order
}

// SetParam adds or replaces a named parameter tensor.
func (n *Node) SetParam(name string, t *tensor.Tensor) {
	n.params[name] = t
}

// Param returns the named parameter tensor.
func (n *Node) Param(name string) (*tensor.Tensor, bool) {
	t, ok := n.params[name]
	return t, ok
}

// ParamNames returns parameter names in sorted order.
func (n *Node) ParamNames() []string {
	names := make([]string, 0, len(n.params))
	for name := range n.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetAttr adds or replaces a named scalar attribute.
func (n *Node) SetAttr(name string, value any) {
	n.attrs[name] = value
}

// Attr returns the named scalar attribute.
func (n *Node) Attr(name string) (any, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// IntAttr returns the named attribute as an int.
func (n *Node) IntAttr(name string) (int, bool) {
	v, ok := n.attrs[name]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}
