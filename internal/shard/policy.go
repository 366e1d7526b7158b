package shard

import (
	"github.com/born-ml/shardtree/internal/nn"
	"github.com/born-ml/shardtree/internal/tensor"
)

// SliceKind tags the partition axis of a slice instruction.
type SliceKind int

// Partition axes.
const (
	// SliceRow splits the first dimension of the weight across partitions.
	// The bias tracks the output dimension and is split the same way.
	SliceRow SliceKind = iota
	// SliceCol splits the last dimension of the weight across partitions.
	// The bias is unaffected and passes through unmodified.
	SliceCol
)

// String returns the axis tag name.
func (k SliceKind) String() string {
	switch k {
	case SliceRow:
		return "row"
	case SliceCol:
		return "col"
	default:
		return "unknown"
	}
}

// Replacement layer classes an instruction may name.
const (
	ReplaceRowLinear = nn.ClassRowParallelLinear
	ReplaceColLinear = nn.ClassColParallelLinear
	ReplaceEmbedding = nn.ClassParallelEmbedding
)

// SliceInstruction describes how one parameter pair of a matched layer is
// partitioned.
type SliceInstruction struct {
	// Weight and Bias are dotted attribute paths relative to the matched
	// node; an empty string declares the side absent.
	Weight string
	Bias   string
	// Replace names the parallel layer class that replaces the node owning
	// the parameters; empty installs the shards onto the existing node.
	Replace string
	// Kind selects the partition axis.
	Kind SliceKind
	// Ignore tolerates missing attribute paths: the missing side is treated
	// as absent, and an instruction where both sides are absent is skipped.
	Ignore bool
	// GatherOutput marks that the column-sliced layer's per-rank output must
	// be all-gathered before use. Meaningful only for SliceCol linear
	// replacements; the embedding path ignores it.
	GatherOutput bool
}

// ParamFunc produces the slice instructions for one group of parameters.
type ParamFunc func() []SliceInstruction

// LayerPolicy is the per-origin-class sharding rule.
type LayerPolicy struct {
	// Origin is the layer class this rule matches.
	Origin string
	// Attrs maps dotted attribute paths to override values, applied to the
	// matched node before any tensor work. Missing targets are skipped:
	// overrides apply opportunistically across slightly different
	// sub-architectures.
	Attrs map[string]any
	// ParamFuncs are evaluated in order; each yields slice instructions.
	ParamFuncs []ParamFunc
	// BindingLayers lists layer classes that must receive the same sharded
	// parameter pair produced by this rule (e.g. tied embeddings).
	BindingLayers []string
}

// Policy supplies the architecture-specific sharding rules.
//
// Policy authoring and automatic policy lookup live outside this package;
// the sharder only consumes this interface.
type Policy interface {
	// InjectPolicy returns the architecture class the policy was authored
	// for and the shard-aware forward behavior to install on the model.
	// A nil forward leaves the model's behavior unchanged.
	InjectPolicy() (origin string, forward nn.Forward)

	// ArgumentPolicy returns the per-layer rules, in the order they must be
	// applied.
	ArgumentPolicy(config nn.Config, worldSize int) []LayerPolicy
}

// Binding is a sharded parameter pair recorded for reuse by bound layers.
type Binding struct {
	Weight *tensor.Tensor
	Bias   *tensor.Tensor
}

// BindingMap records, per bound layer class, the parameter pair that class
// must reuse instead of re-slicing. Keys are written with last-write-wins
// semantics within one pass.
type BindingMap map[string]Binding
