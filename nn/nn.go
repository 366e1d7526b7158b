// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for module trees: dynamic nodes
// addressed by dotted attribute paths, models with swappable forward
// behavior, and the concrete dense / embedding / parallel layer
// constructors the sharding pass targets and produces.
package nn

import (
	"github.com/born-ml/shardtree/internal/nn"
)

// Node is one node of a module tree.
type Node = nn.Node

// Model is a module tree plus its architecture identity and forward behavior.
type Model = nn.Model

// Config carries architecture-level scalar configuration.
type Config = nn.Config

// Forward computes a model's output from an input tensor.
type Forward = nn.Forward

// Layer class identities.
const (
	ClassLinear            = nn.ClassLinear
	ClassEmbedding         = nn.ClassEmbedding
	ClassRowParallelLinear = nn.ClassRowParallelLinear
	ClassColParallelLinear = nn.ClassColParallelLinear
	ClassParallelEmbedding = nn.ClassParallelEmbedding
)

// Well-known parameter and attribute names.
const (
	ParamWeight = nn.ParamWeight
	ParamBias   = nn.ParamBias

	AttrInFeatures    = nn.AttrInFeatures
	AttrOutFeatures   = nn.AttrOutFeatures
	AttrNumEmbeddings = nn.AttrNumEmbeddings
	AttrEmbeddingDim  = nn.AttrEmbeddingDim
	AttrPaddingIdx    = nn.AttrPaddingIdx
	AttrGatherOutput  = nn.AttrGatherOutput
)

// NewNode creates an empty node with the given class identity.
func NewNode(class string) *Node {
	return nn.NewNode(class)
}

// NewModel creates a model over the given root node.
func NewModel(class string, root *Node, config Config) *Model {
	return nn.NewModel(class, root, config)
}

// NewLinear creates a fully connected layer node.
func NewLinear(inFeatures, outFeatures int, bias bool) *Node {
	return nn.NewLinear(inFeatures, outFeatures, bias)
}

// NewEmbedding creates an embedding lookup layer node.
func NewEmbedding(numEmbeddings, embeddingDim int, paddingIdx any) *Node {
	return nn.NewEmbedding(numEmbeddings, embeddingDim, paddingIdx)
}

// NewRowParallelLinear creates a linear layer holding a row shard.
func NewRowParallelLinear(inFeatures, outFeatures int, bias bool) *Node {
	return nn.NewRowParallelLinear(inFeatures, outFeatures, bias)
}

// NewColParallelLinear creates a linear layer holding a column shard.
func NewColParallelLinear(inFeatures, outFeatures int, bias, gatherOutput bool) *Node {
	return nn.NewColParallelLinear(inFeatures, outFeatures, bias, gatherOutput)
}

// NewParallelEmbedding creates an embedding layer holding a dimension shard.
func NewParallelEmbedding(numEmbeddings, embeddingDim int, paddingIdx any) *Node {
	return nn.NewParallelEmbedding(numEmbeddings, embeddingDim, paddingIdx)
}
