package shard

import "errors"

// Sharding pass failures. All are fatal: the first failure aborts the pass
// and the model may be left partially rewritten.
var (
	// ErrUnsupportedModel: the model's architecture class does not match the
	// class the policy was authored for.
	ErrUnsupportedModel = errors.New("model architecture not supported by policy")

	// ErrMissingAttribute: a required (non-ignorable) attribute path does not
	// exist on a matched node.
	ErrMissingAttribute = errors.New("attribute path not found on layer")

	// ErrUnsupportedLayer: a matched node's layer kind has no defined
	// replacement strategy.
	ErrUnsupportedLayer = errors.New("layer class has no replacement strategy")

	// ErrShapeMismatch: a tensor dimension is not evenly divisible by the
	// partition count.
	ErrShapeMismatch = errors.New("tensor dimension not divisible by world size")

	// ErrMalformedPolicy: the policy violates the sharder's contract, e.g. an
	// instruction that resolves neither weight nor bias without being
	// ignorable. This indicates a bug in the policy, not a recoverable
	// condition.
	ErrMalformedPolicy = errors.New("malformed policy")
)
