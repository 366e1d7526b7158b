// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package shard provides the public API for the tensor-parallel sharding
// pass: a policy-driven, in-place rewrite of a model tree into its
// per-rank-sharded equivalent.
//
// Example:
//
//	cfg, err := shard.ConfigFromEnv()
//	if err != nil { ... }
//	if err := shard.Shard(model, policy, cfg); err != nil { ... }
package shard

import (
	"go.uber.org/zap"

	"github.com/born-ml/shardtree/internal/nn"
	"github.com/born-ml/shardtree/internal/shard"
)

// Config carries the settings of one sharding pass.
type Config = shard.Config

// Policy supplies the architecture-specific sharding rules.
type Policy = shard.Policy

// LayerPolicy is the per-origin-class sharding rule.
type LayerPolicy = shard.LayerPolicy

// SliceInstruction describes how one parameter pair is partitioned.
type SliceInstruction = shard.SliceInstruction

// ParamFunc produces the slice instructions for one group of parameters.
type ParamFunc = shard.ParamFunc

// SliceKind tags the partition axis of a slice instruction.
type SliceKind = shard.SliceKind

// Partition axes.
const (
	SliceRow = shard.SliceRow
	SliceCol = shard.SliceCol
)

// Replacement layer classes.
const (
	ReplaceRowLinear = shard.ReplaceRowLinear
	ReplaceColLinear = shard.ReplaceColLinear
	ReplaceEmbedding = shard.ReplaceEmbedding
)

// Binding is a sharded parameter pair recorded for reuse by bound layers.
type Binding = shard.Binding

// BindingMap records the parameter pair each bound layer class must reuse.
type BindingMap = shard.BindingMap

// Sharder orchestrates one sharding pass over one model.
type Sharder = shard.Sharder

// Slicer computes the per-rank shard of weight and bias tensors.
type Slicer = shard.Slicer

// Option configures a Sharder.
type Option = shard.Option

// Sharding pass failures.
var (
	ErrUnsupportedModel = shard.ErrUnsupportedModel
	ErrMissingAttribute = shard.ErrMissingAttribute
	ErrUnsupportedLayer = shard.ErrUnsupportedLayer
	ErrShapeMismatch    = shard.ErrShapeMismatch
	ErrMalformedPolicy  = shard.ErrMalformedPolicy
)

// Shard runs the full pass over the model, mutating it in place.
func Shard(model *nn.Model, policy Policy, cfg Config, opts ...Option) error {
	return shard.Shard(model, policy, cfg, opts...)
}

// New creates a sharder for one model/policy/config triple.
func New(model *nn.Model, policy Policy, cfg Config, opts ...Option) (*Sharder, error) {
	return shard.New(model, policy, cfg, opts...)
}

// NewSlicer creates a slicer for the given partition.
func NewSlicer(rank, worldSize int) *Slicer {
	return shard.NewSlicer(rank, worldSize)
}

// WithLogger attaches a structured logger to the pass.
func WithLogger(l *zap.Logger) Option {
	return shard.WithLogger(l)
}

// ConfigFromEnv builds a Config from RANK / WORLD_SIZE.
func ConfigFromEnv() (Config, error) {
	return shard.ConfigFromEnv()
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	return shard.LoadConfig(path)
}
