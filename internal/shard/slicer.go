package shard

import (
	"fmt"

	"github.com/born-ml/shardtree/internal/tensor"
)

// Slicer computes the per-rank shard of weight and bias tensors.
//
// Every rank runs the same deterministic instruction sequence and narrows
// out only its own chunk, so no cross-rank coordination is needed during
// the pass.
type Slicer struct {
	rank      int
	worldSize int
}

// NewSlicer creates a slicer for the given partition.
func NewSlicer(rank, worldSize int) *Slicer {
	return &Slicer{rank: rank, worldSize: worldSize}
}

// SliceWeightBias returns the local shard of weight and bias for the given
// partition axis. Nil inputs pass through as nil; inputs are not mutated.
func (s *Slicer) SliceWeightBias(weight, bias *tensor.Tensor, kind SliceKind) (*tensor.Tensor, *tensor.Tensor, error) {
	switch kind {
	case SliceRow:
		w, err := s.shardDim(weight, 0)
		if err != nil {
			return nil, nil, err
		}
		// Row slicing splits the output dimension, which the bias tracks.
		b, err := s.shardDim(bias, 0)
		if err != nil {
			return nil, nil, err
		}
		return w, b, nil
	case SliceCol:
		var w *tensor.Tensor
		if weight != nil {
			var err error
			if w, err = s.shardDim(weight, len(weight.Shape())-1); err != nil {
				return nil, nil, err
			}
		}
		return w, bias, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown slice kind %d", ErrMalformedPolicy, kind)
	}
}

// shardDim narrows dimension dim of t to the contiguous chunk owned by this
// rank. The dimension must divide evenly by the world size.
func (s *Slicer) shardDim(t *tensor.Tensor, dim int) (*tensor.Tensor, error) {
	if t == nil {
		return nil, nil
	}
	size := t.Dim(dim)
	if size%s.worldSize != 0 {
		return nil, fmt.Errorf("%w: dimension %d has size %d, world size %d",
			ErrShapeMismatch, dim, size, s.worldSize)
	}
	chunk := size / s.worldSize
	return t.Narrow(dim, s.rank*chunk, chunk)
}
