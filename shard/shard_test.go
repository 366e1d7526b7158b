package shard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shardtree/nn"
	"github.com/born-ml/shardtree/shard"
	"github.com/born-ml/shardtree/tensor"
)

// tinyPolicy shards a one-block classifier through the public API: the
// projection is row-sliced in place and the shard-aware forward runs the
// local projection.
type tinyPolicy struct{}

func (tinyPolicy) InjectPolicy() (string, nn.Forward) {
	return "TinyClassifier", func(m *nn.Model, input *tensor.Tensor) (*tensor.Tensor, error) {
		proj, ok := m.Root().NodeAt("proj")
		if !ok {
			return nil, assert.AnError
		}
		return proj.Apply(input)
	}
}

func (tinyPolicy) ArgumentPolicy(config nn.Config, worldSize int) []shard.LayerPolicy {
	return []shard.LayerPolicy{{
		Origin: nn.ClassLinear,
		ParamFuncs: []shard.ParamFunc{
			func() []shard.SliceInstruction {
				return []shard.SliceInstruction{{
					Weight: "weight",
					Bias:   "bias",
					Kind:   shard.SliceRow,
					Ignore: true,
				}}
			},
		},
	}}
}

func buildClassifier(t *testing.T) *nn.Model {
	t.Helper()
	proj := nn.NewLinear(4, 8, true)
	data := make([]float32, 8*4)
	for i := range data {
		data[i] = float32(i%7) - 3
	}
	w, err := tensor.FromSlice(data, tensor.Shape{8, 4})
	require.NoError(t, err)
	proj.SetParam(nn.ParamWeight, w)

	root := nn.NewNode("TinyClassifier")
	root.SetChild("proj", proj)
	return nn.NewModel("TinyClassifier", root, nn.Config{"hidden_size": 4})
}

func TestShard_EndToEnd(t *testing.T) {
	const worldSize = 2
	input, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 4})
	require.NoError(t, err)

	// Reference output from the unsharded model.
	full := buildClassifier(t)
	fullProj, _ := full.Root().NodeAt("proj")
	want, err := fullProj.Apply(input)
	require.NoError(t, err)

	// Each rank shards its own instance and computes its slice of the
	// output; concatenating in rank order reconstructs the full output.
	var gathered []float32
	for rank := 0; rank < worldSize; rank++ {
		model := buildClassifier(t)
		cfg := shard.Config{WorldSize: worldSize, Rank: rank}
		require.NoError(t, shard.Shard(model, tinyPolicy{}, cfg))

		out, err := model.Forward(input)
		require.NoError(t, err)
		require.True(t, out.Shape().Equal(tensor.Shape{1, 4}), "rank %d output shape = %v", rank, out.Shape())
		gathered = append(gathered, out.Data()...)
	}

	assert.Equal(t, want.Data(), gathered)
}

func TestShard_EndToEnd_WorldSizeOne(t *testing.T) {
	model := buildClassifier(t)
	require.NoError(t, shard.Shard(model, tinyPolicy{}, shard.Config{WorldSize: 1, Rank: 0}))

	proj, _ := model.Root().NodeAt("proj")
	w, _ := proj.Param(nn.ParamWeight)
	assert.True(t, w.Shape().Equal(tensor.Shape{8, 4}), "world size 1 keeps full tensors")
}
