package nn

import "github.com/born-ml/shardtree/internal/tensor"

// NewLinear creates a fully connected layer node.
//
// Weight has shape [outFeatures, inFeatures] (Xavier initialized); bias, if
// enabled, has shape [outFeatures] and starts at zero. The node carries
// in_features and out_features attributes so shape-dependent configuration
// stays observable after sharding.
func NewLinear(inFeatures, outFeatures int, bias bool) *Node {
	n := NewNode(ClassLinear)
	n.SetParam(ParamWeight, Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}))
	if bias {
		n.SetParam(ParamBias, tensor.Zeros(tensor.Shape{outFeatures}))
	}
	n.SetAttr(AttrInFeatures, inFeatures)
	n.SetAttr(AttrOutFeatures, outFeatures)
	return n
}
