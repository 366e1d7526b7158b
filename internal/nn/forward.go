package nn

import (
	"fmt"

	"github.com/born-ml/shardtree/internal/tensor"
)

// Apply evaluates a leaf layer node on an input tensor.
//
// Linear-like classes compute y = x @ W.T + b. Embedding-like classes treat
// the input's elements as row indices into the weight table. Container nodes
// have no intrinsic forward; composing them is the model forward's job.
func (n *Node) Apply(input *tensor.Tensor) (*tensor.Tensor, error) {
	switch n.class {
	case ClassLinear, ClassRowParallelLinear, ClassColParallelLinear:
		return n.applyLinear(input)
	case ClassEmbedding, ClassParallelEmbedding:
		return n.applyEmbedding(input)
	default:
		return nil, fmt.Errorf("layer class %q has no intrinsic forward", n.class)
	}
}

func (n *Node) applyLinear(input *tensor.Tensor) (*tensor.Tensor, error) {
	w, ok := n.Param(ParamWeight)
	if !ok {
		return nil, fmt.Errorf("%s layer has no weight", n.class)
	}
	wT, err := w.Transpose()
	if err != nil {
		return nil, err
	}
	out, err := input.MatMul(wT)
	if err != nil {
		return nil, err
	}
	if b, ok := n.Param(ParamBias); ok {
		return out.AddRow(b)
	}
	return out, nil
}

func (n *Node) applyEmbedding(input *tensor.Tensor) (*tensor.Tensor, error) {
	w, ok := n.Param(ParamWeight)
	if !ok {
		return nil, fmt.Errorf("%s layer has no weight", n.class)
	}
	data := input.Data()
	indices := make([]int, len(data))
	for i, v := range data {
		indices[i] = int(v)
	}
	return w.Lookup(indices)
}
