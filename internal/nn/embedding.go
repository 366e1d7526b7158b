package nn

import "github.com/born-ml/shardtree/internal/tensor"

// NewEmbedding creates an embedding lookup layer node.
//
// Weight has shape [numEmbeddings, embeddingDim], initialized from N(0, 1).
// paddingIdx may be nil when the layer has no padding index.
func NewEmbedding(numEmbeddings, embeddingDim int, paddingIdx any) *Node {
	n := NewNode(ClassEmbedding)
	n.SetParam(ParamWeight, tensor.Randn(tensor.Shape{numEmbeddings, embeddingDim}))
	n.SetAttr(AttrNumEmbeddings, numEmbeddings)
	n.SetAttr(AttrEmbeddingDim, embeddingDim)
	if paddingIdx != nil {
		n.SetAttr(AttrPaddingIdx, paddingIdx)
	}
	return n
}
