package tensor

import "fmt"

// Narrow returns a copy of the sub-range [start, start+length) of the tensor
// along dimension dim. The result owns its data; the receiver is unchanged.
func (t *Tensor) Narrow(dim, start, length int) (*Tensor, error) {
	if dim < 0 || dim >= len(t.shape) {
		return nil, fmt.Errorf("narrow: dimension %d out of range for shape %v", dim, t.shape)
	}
	if start < 0 || length <= 0 || start+length > t.shape[dim] {
		return nil, fmt.Errorf("narrow: range [%d, %d) out of bounds for dimension %d (size %d)",
			start, start+length, dim, t.shape[dim])
	}

	outShape := t.shape.Clone()
	outShape[dim] = length
	out := Zeros(outShape)

	// View the tensor as [outer, shape[dim], inner] and copy contiguous
	// inner-blocks of the selected range.
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= t.shape[i]
	}
	for i := dim + 1; i < len(t.shape); i++ {
		inner *= t.shape[i]
	}

	srcStride := t.shape[dim] * inner
	dstStride := length * inner
	for o := 0; o < outer; o++ {
		src := t.data[o*srcStride+start*inner : o*srcStride+(start+length)*inner]
		copy(out.data[o*dstStride:(o+1)*dstStride], src)
	}
	return out, nil
}

// Transpose returns the transpose of a 2-D tensor.
func (t *Tensor) Transpose() (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("transpose: expected 2D tensor, got shape %v", t.shape)
	}
	rows, cols := t.shape[0], t.shape[1]
	out := Zeros(Shape{cols, rows})
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.data[c*rows+r] = t.data[r*cols+c]
		}
	}
	return out, nil
}

// MatMul computes the 2-D matrix product t @ other.
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	if len(t.shape) != 2 || len(other.shape) != 2 {
		return nil, fmt.Errorf("matmul: expected 2D tensors, got %v and %v", t.shape, other.shape)
	}
	m, k := t.shape[0], t.shape[1]
	k2, n := other.shape[0], other.shape[1]
	if k != k2 {
		return nil, fmt.Errorf("matmul: inner dimensions do not match: %v @ %v", t.shape, other.shape)
	}

	out := Zeros(Shape{m, n})
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			a := t.data[i*k+p]
			if a == 0 {
				continue
			}
			row := other.data[p*n : (p+1)*n]
			dst := out.data[i*n : (i+1)*n]
			for j, b := range row {
				dst[j] += a * b
			}
		}
	}
	return out, nil
}

// AddRow adds a 1-D row vector to every row of a 2-D tensor (bias broadcast).
func (t *Tensor) AddRow(row *Tensor) (*Tensor, error) {
	if len(t.shape) != 2 || len(row.shape) != 1 {
		return nil, fmt.Errorf("addrow: expected 2D tensor and 1D row, got %v and %v", t.shape, row.shape)
	}
	if t.shape[1] != row.shape[0] {
		return nil, fmt.Errorf("addrow: row size %d does not match columns %d", row.shape[0], t.shape[1])
	}
	out := t.Clone()
	cols := t.shape[1]
	for r := 0; r < t.shape[0]; r++ {
		dst := out.data[r*cols : (r+1)*cols]
		for c := range dst {
			dst[c] += row.data[c]
		}
	}
	return out, nil
}

// Lookup gathers rows of a 2-D table by index (embedding lookup).
// Returns a tensor of shape [len(indices), cols].
func (t *Tensor) Lookup(indices []int) (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("lookup: expected 2D table, got shape %v", t.shape)
	}
	rows, cols := t.shape[0], t.shape[1]
	out := Zeros(Shape{len(indices), cols})
	for i, idx := range indices {
		if idx < 0 || idx >= rows {
			return nil, fmt.Errorf("lookup: index %d out of range [0, %d)", idx, rows)
		}
		copy(out.data[i*cols:(i+1)*cols], t.data[idx*cols:(idx+1)*cols])
	}
	return out, nil
}
