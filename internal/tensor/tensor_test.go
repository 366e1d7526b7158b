package tensor_test

import (
	"testing"

	"github.com/born-ml/shardtree/internal/tensor"
)

func TestFromSlice(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	ten, err := tensor.FromSlice(data, tensor.Shape{2, 3})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	if !ten.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape = %v, want (2, 3)", ten.Shape())
	}
	if ten.At(1, 2) != 6 {
		t.Errorf("At(1, 2) = %v, want 6", ten.At(1, 2))
	}

	// Data is copied, not shared.
	data[0] = 100
	if ten.At(0, 0) != 1 {
		t.Errorf("tensor shares memory with source slice")
	}
}

func TestFromSlice_ShapeMismatch(t *testing.T) {
	_, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2})
	if err == nil {
		t.Fatal("expected error for mismatched shape")
	}
}

func TestNarrow_Rows(t *testing.T) {
	// 4x2 tensor, rows 0..3.
	ten, _ := tensor.FromSlice([]float32{
		0, 1,
		10, 11,
		20, 21,
		30, 31,
	}, tensor.Shape{4, 2})

	mid, err := ten.Narrow(0, 1, 2)
	if err != nil {
		t.Fatalf("Narrow failed: %v", err)
	}
	if !mid.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("Shape = %v, want (2, 2)", mid.Shape())
	}
	want := []float32{10, 11, 20, 21}
	for i, v := range mid.Data() {
		if v != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, v, want[i])
		}
	}

	// The narrow owns its data.
	mid.Set(99, 0, 0)
	if ten.At(1, 0) != 10 {
		t.Error("Narrow result shares memory with source")
	}
}

func TestNarrow_Cols(t *testing.T) {
	ten, _ := tensor.FromSlice([]float32{
		0, 1, 2, 3,
		10, 11, 12, 13,
	}, tensor.Shape{2, 4})

	right, err := ten.Narrow(1, 2, 2)
	if err != nil {
		t.Fatalf("Narrow failed: %v", err)
	}
	want := []float32{2, 3, 12, 13}
	for i, v := range right.Data() {
		if v != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestNarrow_OutOfBounds(t *testing.T) {
	ten := tensor.Zeros(tensor.Shape{4, 2})
	if _, err := ten.Narrow(0, 3, 2); err == nil {
		t.Error("expected error for out-of-bounds range")
	}
	if _, err := ten.Narrow(2, 0, 1); err == nil {
		t.Error("expected error for out-of-range dimension")
	}
}

func TestTranspose(t *testing.T) {
	ten, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	tr, err := ten.Transpose()
	if err != nil {
		t.Fatalf("Transpose failed: %v", err)
	}
	if !tr.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Shape = %v, want (3, 2)", tr.Shape())
	}
	if tr.At(2, 0) != 3 || tr.At(0, 1) != 4 {
		t.Errorf("Transpose values wrong: %v", tr.Data())
	}
}

func TestMatMul(t *testing.T) {
	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2})
	c, err := a.MatMul(b)
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}
	want := []float32{19, 22, 43, 50}
	for i, v := range c.Data() {
		if v != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestMatMul_InnerMismatch(t *testing.T) {
	a := tensor.Zeros(tensor.Shape{2, 3})
	b := tensor.Zeros(tensor.Shape{2, 2})
	if _, err := a.MatMul(b); err == nil {
		t.Error("expected error for mismatched inner dimensions")
	}
}

func TestAddRow(t *testing.T) {
	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	row, _ := tensor.FromSlice([]float32{10, 20}, tensor.Shape{2})
	out, err := a.AddRow(row)
	if err != nil {
		t.Fatalf("AddRow failed: %v", err)
	}
	want := []float32{11, 22, 13, 24}
	for i, v := range out.Data() {
		if v != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestLookup(t *testing.T) {
	table, _ := tensor.FromSlice([]float32{
		0, 0,
		1, 1,
		2, 2,
	}, tensor.Shape{3, 2})

	out, err := table.Lookup([]int{2, 0})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	want := []float32{2, 2, 0, 0}
	for i, v := range out.Data() {
		if v != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, v, want[i])
		}
	}

	if _, err := table.Lookup([]int{3}); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestEqual(t *testing.T) {
	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	b, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	c, _ := tensor.FromSlice([]float32{1, 3}, tensor.Shape{2})

	if !a.Equal(b) {
		t.Error("equal tensors reported unequal")
	}
	if a.Equal(c) {
		t.Error("unequal tensors reported equal")
	}
	if a.Equal(tensor.Zeros(tensor.Shape{1, 2})) {
		t.Error("different shapes reported equal")
	}
}