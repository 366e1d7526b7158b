package nn_test

import (
	"testing"

	"github.com/born-ml/shardtree/internal/nn"
	"github.com/born-ml/shardtree/internal/tensor"
)

func TestNewLinear(t *testing.T) {
	layer := nn.NewLinear(10, 5, true)

	if layer.Class() != nn.ClassLinear {
		t.Errorf("Class = %q, want %q", layer.Class(), nn.ClassLinear)
	}

	w, ok := layer.Param(nn.ParamWeight)
	if !ok || !w.Shape().Equal(tensor.Shape{5, 10}) {
		t.Errorf("weight shape = %v, want (5, 10)", w.Shape())
	}
	b, ok := layer.Param(nn.ParamBias)
	if !ok || !b.Shape().Equal(tensor.Shape{5}) {
		t.Errorf("bias shape = %v, want (5)", b.Shape())
	}

	if in, _ := layer.IntAttr(nn.AttrInFeatures); in != 10 {
		t.Errorf("in_features = %d, want 10", in)
	}
	if out, _ := layer.IntAttr(nn.AttrOutFeatures); out != 5 {
		t.Errorf("out_features = %d, want 5", out)
	}
}

func TestNewLinear_NoBias(t *testing.T) {
	layer := nn.NewLinear(10, 5, false)
	if _, ok := layer.Param(nn.ParamBias); ok {
		t.Error("bias should be absent")
	}
}

func TestNewEmbedding(t *testing.T) {
	layer := nn.NewEmbedding(100, 16, 0)

	w, ok := layer.Param(nn.ParamWeight)
	if !ok || !w.Shape().Equal(tensor.Shape{100, 16}) {
		t.Errorf("weight shape = %v, want (100, 16)", w.Shape())
	}
	if pad, ok := layer.Attr(nn.AttrPaddingIdx); !ok || pad.(int) != 0 {
		t.Errorf("padding_idx = %v, want 0", pad)
	}

	noPad := nn.NewEmbedding(100, 16, nil)
	if _, ok := noPad.Attr(nn.AttrPaddingIdx); ok {
		t.Error("padding_idx should be absent when nil")
	}
}

func TestNewColParallelLinear_GatherFlag(t *testing.T) {
	layer := nn.NewColParallelLinear(8, 16, true, true)
	if layer.Class() != nn.ClassColParallelLinear {
		t.Errorf("Class = %q, want %q", layer.Class(), nn.ClassColParallelLinear)
	}
	v, ok := layer.Attr(nn.AttrGatherOutput)
	if !ok || v.(bool) != true {
		t.Errorf("gather_output = %v, want true", v)
	}
}

func TestApply_Linear(t *testing.T) {
	layer := nn.NewLinear(2, 2, true)
	w, _ := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{2, 2})
	b, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	layer.SetParam(nn.ParamWeight, w)
	layer.SetParam(nn.ParamBias, b)

	x, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{1, 2})
	y, err := layer.Apply(x)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := []float32{4, 6} // identity weight plus bias
	for i, v := range y.Data() {
		if v != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestApply_Embedding(t *testing.T) {
	layer := nn.NewEmbedding(3, 2, nil)
	w, _ := tensor.FromSlice([]float32{0, 0, 1, 1, 2, 2}, tensor.Shape{3, 2})
	layer.SetParam(nn.ParamWeight, w)

	ids, _ := tensor.FromSlice([]float32{2, 1}, tensor.Shape{2})
	y, err := layer.Apply(ids)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := []float32{2, 2, 1, 1}
	for i, v := range y.Data() {
		if v != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestApply_Container(t *testing.T) {
	container := nn.NewNode("Encoder")
	if _, err := container.Apply(tensor.Zeros(tensor.Shape{1, 1})); err == nil {
		t.Error("container nodes must not have an intrinsic forward")
	}
}

func TestModelForward(t *testing.T) {
	root := nn.NewNode("Toy")
	model := nn.NewModel("Toy", root, nn.Config{})

	if _, err := model.Forward(tensor.Zeros(tensor.Shape{1})); err == nil {
		t.Error("expected error before a forward is attached")
	}

	called := false
	model.SetForward(func(m *nn.Model, input *tensor.Tensor) (*tensor.Tensor, error) {
		called = true
		return input, nil
	})
	in := tensor.Zeros(tensor.Shape{1})
	out, err := model.Forward(in)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if !called || out != in {
		t.Error("attached forward was not used")
	}
}
