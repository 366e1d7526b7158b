// Package shard rewrites an instantiated model tree into its
// tensor-parallel-sharded equivalent, guided by a per-architecture policy.
//
// The pass is one synchronous traversal per rank: inject the shard-aware
// forward behavior, then walk the tree depth-first and rewrite every layer
// the policy matches. It runs exactly once per model instance; running it
// twice produces undefined results.
package shard

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/born-ml/shardtree/internal/nn"
	"github.com/born-ml/shardtree/internal/tensor"
)

// Sharder orchestrates one sharding pass over one model.
type Sharder struct {
	model    *nn.Model
	policy   Policy
	config   Config
	slicer   *Slicer
	bindings BindingMap
	logger   *zap.Logger
}

// Option configures a Sharder.
type Option func(*Sharder)

// WithLogger attaches a structured logger to the pass.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sharder) {
		s.logger = l
	}
}

// New creates a sharder for one model/policy/config triple.
func New(model *nn.Model, policy Policy, cfg Config, opts ...Option) (*Sharder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Sharder{
		model:    model,
		policy:   policy,
		config:   cfg,
		slicer:   NewSlicer(cfg.Rank, cfg.WorldSize),
		bindings: make(BindingMap),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Shard runs the full pass: Inject, then Replace. It mutates the model in
// place and returns no intermediate state; the first failure aborts the
// pass with the model possibly partially rewritten.
func Shard(model *nn.Model, policy Policy, cfg Config, opts ...Option) error {
	s, err := New(model, policy, cfg, opts...)
	if err != nil {
		return err
	}
	return s.Shard()
}

// Shard runs Inject followed by Replace. Not idempotent: run exactly once
// per model instance.
func (s *Sharder) Shard() error {
	s.logger.Info("sharding model",
		zap.String("model", s.model.Class()),
		zap.Int("rank", s.config.Rank),
		zap.Int("world_size", s.config.WorldSize))
	if err := s.Inject(); err != nil {
		return err
	}
	return s.Replace()
}

// Bindings exposes the pass-scoped binding map, mainly for tests.
func (s *Sharder) Bindings() BindingMap {
	return s.bindings
}

// Inject installs the policy's shard-aware forward behavior on the model.
// The model's class must be the one the policy declares; on mismatch the
// model is left untouched.
func (s *Sharder) Inject() error {
	origin, forward := s.policy.InjectPolicy()
	if s.model.Class() != origin {
		return fmt.Errorf("%w: policy targets %q, model is %q",
			ErrUnsupportedModel, origin, s.model.Class())
	}
	if forward != nil {
		s.model.SetForward(forward)
	}
	return nil
}

// Replace applies every layer rule of the policy, in declared order, to the
// model tree.
func (s *Sharder) Replace() error {
	rules := s.policy.ArgumentPolicy(s.model.Config(), s.config.WorldSize)
	for i := range rules {
		if err := s.replaceIn(s.model.Root(), &rules[i]); err != nil {
			return err
		}
	}
	return nil
}

// replaceIn walks the children of node depth-first in insertion order.
// A child matching the rule's origin class is rewritten and NOT descended
// into: the rule is exclusive for that subtree. The node itself is never a
// match target, so the model root stays in place.
func (s *Sharder) replaceIn(node *nn.Node, rule *LayerPolicy) error {
	for _, name := range node.ChildNames() {
		child, _ := node.Child(name)
		if child.Class() == rule.Origin {
			for k, v := range rule.Attrs {
				// Overrides apply opportunistically: a missing target path
				// is skipped so one rule set covers sibling architectures.
				child.SetAttrAt(k, v)
			}
			if err := s.shardOneLayer(child, rule); err != nil {
				return err
			}
			continue
		}
		if err := s.replaceIn(child, rule); err != nil {
			return err
		}
	}
	return nil
}

// shardOneLayer applies every slice instruction of the rule to one matched
// node.
func (s *Sharder) shardOneLayer(node *nn.Node, rule *LayerPolicy) error {
	for _, fn := range rule.ParamFuncs {
		for _, inst := range fn() {
			if err := s.applyInstruction(node, rule, inst); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sharder) applyInstruction(node *nn.Node, rule *LayerPolicy, inst SliceInstruction) error {
	weight, err := s.resolveParam(node, inst.Weight, inst.Ignore)
	if err != nil {
		return err
	}
	bias, err := s.resolveParam(node, inst.Bias, inst.Ignore)
	if err != nil {
		return err
	}

	if weight == nil && bias == nil {
		if inst.Ignore {
			// The attribute genuinely does not exist on this
			// sub-architecture; the instruction is a no-op.
			return nil
		}
		return fmt.Errorf("%w: instruction on %q resolves neither weight %q nor bias %q",
			ErrMalformedPolicy, node.Class(), inst.Weight, inst.Bias)
	}

	// The owning sub-layer is whatever holds the parameter: the declared
	// path minus its final component.
	paramPath := inst.Weight
	if paramPath == "" {
		paramPath = inst.Bias
	}
	layerAttr := parentPath(paramPath)

	if b, ok := s.bindings[node.Class()]; ok {
		// A prior rule produced the pair this class is bound to; reuse it
		// instead of re-slicing.
		weight, bias = b.Weight, b.Bias
	} else {
		if weight, bias, err = s.slicer.SliceWeightBias(weight, bias, inst.Kind); err != nil {
			return err
		}
	}

	s.logger.Debug("sliced layer parameters",
		zap.String("class", node.Class()),
		zap.String("layer", layerAttr),
		zap.Stringer("kind", inst.Kind),
		zap.String("weight", shapeString(weight)),
		zap.String("bias", shapeString(bias)))

	for _, bound := range rule.BindingLayers {
		// Last write wins within the pass.
		s.bindings[bound] = Binding{Weight: weight, Bias: bias}
	}

	if inst.Replace != "" {
		return s.replaceLayer(node, layerAttr, inst, weight, bias)
	}
	return s.setParam(node, layerAttr, weight, bias)
}

// resolveParam fetches the parameter at a declared dotted path. An empty
// path means the side is absent; a declared-but-missing path fails unless
// ignorable.
func (s *Sharder) resolveParam(node *nn.Node, path string, ignore bool) (*tensor.Tensor, error) {
	if path == "" {
		return nil, nil
	}
	t, ok := node.ParamAt(path)
	if !ok {
		if ignore {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: layer %q has no attribute %q",
			ErrMissingAttribute, node.Class(), path)
	}
	return t, nil
}

// replaceLayer swaps the node at layerAttr for a freshly constructed
// parallel layer sized from the shard, then installs the shard into it.
func (s *Sharder) replaceLayer(node *nn.Node, layerAttr string, inst SliceInstruction, weight, bias *tensor.Tensor) error {
	if layerAttr == "" {
		return fmt.Errorf("%w: replacement instruction must address a nested layer, got bare parameter %q",
			ErrMalformedPolicy, inst.Weight)
	}
	existing, ok := node.NodeAt(layerAttr)
	if !ok {
		if inst.Ignore {
			return nil
		}
		return fmt.Errorf("%w: layer %q has no attribute %q",
			ErrMissingAttribute, node.Class(), layerAttr)
	}
	if weight == nil {
		return fmt.Errorf("%w: replacement of %q requires a weight shard", ErrMalformedPolicy, layerAttr)
	}

	rows, cols := weight.Dim(0), weight.Dim(1)
	var replacement *nn.Node
	switch existing.Class() {
	case nn.ClassLinear:
		switch inst.Replace {
		case ReplaceRowLinear:
			replacement = nn.NewRowParallelLinear(cols, rows, bias != nil)
		case ReplaceColLinear:
			replacement = nn.NewColParallelLinear(cols, rows, bias != nil, inst.GatherOutput)
		default:
			return fmt.Errorf("%w: cannot replace a linear layer with %q", ErrMalformedPolicy, inst.Replace)
		}
	case nn.ClassEmbedding:
		if inst.Replace != ReplaceEmbedding {
			return fmt.Errorf("%w: cannot replace an embedding layer with %q", ErrMalformedPolicy, inst.Replace)
		}
		padding, _ := node.AttrAt(joinPath(layerAttr, nn.AttrPaddingIdx))
		replacement = nn.NewParallelEmbedding(rows, cols, padding)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedLayer, existing.Class())
	}

	node.SetNodeAt(layerAttr, replacement)
	return s.setParam(node, layerAttr, weight, bias)
}

// setParam installs the shard pair onto the node at layerAttr and keeps the
// shape-derived scalar attributes consistent with the new tensor shape.
func (s *Sharder) setParam(node *nn.Node, layerAttr string, weight, bias *tensor.Tensor) error {
	if weight == nil && bias == nil {
		return fmt.Errorf("%w: nothing to install at %q", ErrMalformedPolicy, layerAttr)
	}
	if weight != nil {
		node.SetParamAt(joinPath(layerAttr, nn.ParamWeight), weight)
		s.setLayerSize(node, layerAttr, weight.Shape())
	}
	if bias != nil {
		node.SetParamAt(joinPath(layerAttr, nn.ParamBias), bias)
	}
	return nil
}

// setLayerSize rewrites out_features / in_features from the shard shape
// wherever those attributes already exist, so dependent configuration stays
// consistent.
func (s *Sharder) setLayerSize(node *nn.Node, layerAttr string, shape tensor.Shape) {
	// shape[0] -> out_features, shape[1] -> in_features
	attrs := []string{nn.AttrOutFeatures, nn.AttrInFeatures}
	for i, attr := range attrs {
		if i >= len(shape) {
			break
		}
		path := joinPath(layerAttr, attr)
		if node.Has(path) {
			node.SetAttrAt(path, shape[i])
		}
	}
}

// parentPath strips the final component of a dotted path.
func parentPath(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i]
	}
	return ""
}

// joinPath joins a possibly-empty prefix with a final component.
func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func shapeString(t *tensor.Tensor) string {
	if t == nil {
		return "none"
	}
	return t.Shape().String()
}
