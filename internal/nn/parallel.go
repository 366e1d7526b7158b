package nn

import "github.com/born-ml/shardtree/internal/tensor"

// Parallel layer constructors. The sharding pass sizes these from the local
// weight shard and then overwrites their parameters with the sliced tensors,
// so initialization here only matters for layers built directly.

// NewRowParallelLinear creates a linear layer whose output dimension is the
// per-rank shard of the full layer's output dimension. Bias, when enabled,
// is sharded alongside the output dimension.
func NewRowParallelLinear(inFeatures, outFeatures int, bias bool) *Node {
	n := NewNode(ClassRowParallelLinear)
	n.SetParam(ParamWeight, Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}))
	if bias {
		n.SetParam(ParamBias, tensor.Zeros(tensor.Shape{outFeatures}))
	}
	n.SetAttr(AttrInFeatures, inFeatures)
	n.SetAttr(AttrOutFeatures, outFeatures)
	return n
}

// NewColParallelLinear creates a linear layer whose input dimension is the
// per-rank shard of the full layer's input dimension. gatherOutput marks
// that the per-rank output must be recombined across ranks before use.
func NewColParallelLinear(inFeatures, outFeatures int, bias, gatherOutput bool) *Node {
	n := NewNode(ClassColParallelLinear)
	n.SetParam(ParamWeight, Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}))
	if bias {
		n.SetParam(ParamBias, tensor.Zeros(tensor.Shape{outFeatures}))
	}
	n.SetAttr(AttrInFeatures, inFeatures)
	n.SetAttr(AttrOutFeatures, outFeatures)
	n.SetAttr(AttrGatherOutput, gatherOutput)
	return n
}

// NewParallelEmbedding creates an embedding layer holding the per-rank shard
// of the embedding dimension. paddingIdx is forwarded unchanged from the
// original layer; nil means the original had none.
func NewParallelEmbedding(numEmbeddings, embeddingDim int, paddingIdx any) *Node {
	n := NewNode(ClassParallelEmbedding)
	n.SetParam(ParamWeight, tensor.Randn(tensor.Shape{numEmbeddings, embeddingDim}))
	n.SetAttr(AttrNumEmbeddings, numEmbeddings)
	n.SetAttr(AttrEmbeddingDim, embeddingDim)
	if paddingIdx != nil {
		n.SetAttr(AttrPaddingIdx, paddingIdx)
	}
	return n
}
