package nn

import (
	"errors"

	"github.com/born-ml/shardtree/internal/tensor"
)

// ErrNoForward is returned by Model.Forward when no forward behavior has
// been attached to the model.
var ErrNoForward = errors.New("model has no forward behavior attached")

// Config carries architecture-level scalar configuration
// (hidden size, attention heads, vocabulary size, ...). Policies consult it
// when computing per-rank attribute overrides.
type Config map[string]int

// Forward computes a model's output from an input tensor.
//
// The sharding pass swaps a model's Forward for a shard-aware variant via an
// instance-level hook rather than rebinding methods on a shared class
// object, so sharding one model never changes the behavior of another.
type Forward func(m *Model, input *tensor.Tensor) (*tensor.Tensor, error)

// Model is a module tree plus its architecture identity and forward
// behavior. The external call contract (Forward signature and the attribute
// namespace of the root node) is preserved across sharding.
type Model struct {
	class   string
	root    *Node
	config  Config
	forward Forward
}

// NewModel creates a model over the given root node.
func NewModel(class string, root *Node, config Config) *Model {
	return &Model{class: class, root: root, config: config}
}

// Class returns the model's architecture class identity.
func (m *Model) Class() string {
	return m.class
}

// Root returns the root node of the module tree.
func (m *Model) Root() *Node {
	return m.root
}

// Config returns the architecture configuration.
func (m *Model) Config() Config {
	return m.config
}

// SetForward installs forward behavior on this model instance.
func (m *Model) SetForward(f Forward) {
	m.forward = f
}

// Forward runs the attached forward behavior.
func (m *Model) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if m.forward == nil {
		return nil, ErrNoForward
	}
	return m.forward(m, input)
}
