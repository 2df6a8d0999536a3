// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package eval

import (
	"fmt"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
	"gorgonia.org/tensor"
)

// iotaDense returns a dense float64 tensor with the given dimensions, with values 0, 1, 2, ...
func iotaDense(dims ...int) *tensor.Dense {
	size := 1
	for _, dim := range dims {
		size *= dim
	}
	values := make([]float64, size)
	for ii := range values {
		values[ii] = float64(ii)
	}
	return tensor.New(tensor.WithShape(dims...), tensor.WithBacking(values))
}

func TestViewOps(t *testing.T) {
	testCases := []struct {
		name string
		dims []int
		fn   func(x *graph.Node) *graph.Node
		want []float64
	}{
		{"Select", []int{10}, func(x *graph.Node) *graph.Node { return graph.Select(x, 0, 2, 8, 3) }, []float64{2, 5}},
		{"Select-axis1", []int{2, 3}, func(x *graph.Node) *graph.Node { return graph.Select(x, 1, 1, 3, 1) },
			[]float64{1, 2, 4, 5}},
		{"Narrow", []int{3, 4}, func(x *graph.Node) *graph.Node { return graph.Narrow(x, []int{1, 1}, []int{2, 2}) },
			[]float64{5, 6, 9, 10}},
		{"Permute", []int{2, 3}, func(x *graph.Node) *graph.Node { return graph.Permute(x, 1, 0) },
			[]float64{0, 3, 1, 4, 2, 5}},
		{"Reshape", []int{2, 3}, func(x *graph.Node) *graph.Node { return graph.Reshape(x, 3, 2) },
			[]float64{0, 1, 2, 3, 4, 5}},
		{"Resize-grow", []int{4}, func(x *graph.Node) *graph.Node { return graph.Resize(x, 2, 3) },
			[]float64{0, 1, 2, 3, 0, 0}},
		{"Resize-shrink", []int{4}, func(x *graph.Node) *graph.Node { return graph.Resize(x, 2) }, []float64{0, 1}},
		{"Unsqueeze+Squeeze", []int{3}, func(x *graph.Node) *graph.Node { return graph.Squeeze(graph.Unsqueeze(x, 0), 0) },
			[]float64{0, 1, 2}},
		{"AsStrided", []int{6}, func(x *graph.Node) *graph.Node {
			return graph.AsStrided(x, []int{2, 2}, []int{1, 2}, 1)
		}, []float64{1, 3, 2, 4}},
		{"Diagonal", []int{3, 3}, func(x *graph.Node) *graph.Node { return graph.Diagonal(x, 0, 0, 1) },
			[]float64{0, 4, 8}},
		{"Diagonal-upper", []int{3, 3}, func(x *graph.Node) *graph.Node { return graph.Diagonal(x, 1, 0, 1) },
			[]float64{1, 5}},
		{"Diagonal-lower", []int{3, 3}, func(x *graph.Node) *graph.Node { return graph.Diagonal(x, -1, 0, 1) },
			[]float64{3, 7}},
		{"Diagonal-batch", []int{2, 3, 3}, func(x *graph.Node) *graph.Node { return graph.Diagonal(x, 0, 1, 2) },
			[]float64{0, 4, 8, 9, 13, 17}},
		{"Diagonal-transposed", []int{2, 3}, func(x *graph.Node) *graph.Node { return graph.Diagonal(x, 0, 1, 0) },
			[]float64{0, 4}},
		{"Add-scalar", []int{3}, func(x *graph.Node) *graph.Node {
			return graph.Add(x, graph.Scalar(x.Graph(), 10, shapes.Make(x.DType())))
		}, []float64{10, 11, 12}},
		{"Add", []int{3}, func(x *graph.Node) *graph.Node { return graph.Add(x, x) }, []float64{0, 2, 4}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := graph.New(tc.name)
			x := graph.Parameter(g, "x", shapes.Make(dtypes.Float64, tc.dims...))
			got, err := EvaluateFlat(tc.fn(x), map[string]*tensor.Dense{"x": iotaDense(tc.dims...)})
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestViewUpdateOps(t *testing.T) {
	g := graph.New("TestViewUpdateOps")
	x := graph.Parameter(g, "x", shapes.Make(dtypes.Float64, 10))
	feeds := map[string]*tensor.Dense{"x": iotaDense(10)}

	source := graph.Scalar(g, -1, shapes.Make(dtypes.Float64, 2))
	got, err := EvaluateFlat(graph.SelectViewUpdate(x, source, 0, 1, 5, 2), feeds)
	require.NoError(t, err)
	require.Equal(t, []float64{0, -1, 2, -1, 4, 5, 6, 7, 8, 9}, got)

	got, err = EvaluateFlat(graph.NarrowViewUpdate(x, source, []int{7}), feeds)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, -1, -1, 9}, got)

	// Overlapping strided window: last write wins.
	overlap := graph.Add(graph.Select(x, 0, 0, 3, 1), graph.Scalar(g, 100, shapes.Make(dtypes.Float64)))
	got, err = EvaluateFlat(graph.AsStridedViewUpdate(x, overlap, []int{0}, 4), feeds)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 3, 102, 5, 6, 7, 8, 9}, got)

	m := graph.Parameter(g, "m", shapes.Make(dtypes.Float64, 3, 3))
	feeds["m"] = iotaDense(3, 3)
	diag := graph.Scalar(g, -1, shapes.Make(dtypes.Float64, 2))
	got, err = EvaluateFlat(graph.DiagonalViewUpdate(m, diag, 1, 0, 1), feeds)
	require.NoError(t, err)
	require.Equal(t, []float64{0, -1, 2, 3, 4, -1, 6, 7, 8}, got)

	got, err = EvaluateFlat(graph.DiagonalViewUpdate(m, diag, -1, 0, 1), feeds)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, -1, 4, 5, 6, -1, 8}, got)
}

func TestOutputDTypes(t *testing.T) {
	for _, dtype := range []dtypes.DType{dtypes.Float64, dtypes.Float32, dtypes.Float16, dtypes.Int64, dtypes.Int32} {
		t.Run(dtype.String(), func(t *testing.T) {
			g := graph.New(fmt.Sprintf("TestOutputDTypes-%s", dtype))
			x := graph.Parameter(g, "x", shapes.Make(dtype, 2, 2))
			y := graph.Add(x, graph.Scalar(g, 0.1, shapes.Make(dtype)))
			out, err := Evaluate(y, map[string]*tensor.Dense{
				"x": tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float32{1, 2, 3, 4}))})
			require.NoError(t, err)
			assert.Equal(t, []int{2, 2}, []int(out.Shape()))
			switch dtype {
			case dtypes.Float64:
				assert.InDeltaSlice(t, []float64{1.1, 2.1, 3.1, 4.1}, out.Data(), 1e-9)
			case dtypes.Float32:
				assert.Equal(t, []float32{1.1, 2.1, 3.1, 4.1}, out.Data())
			case dtypes.Float16:
				want := make([]float32, 4)
				for ii := range want {
					want[ii] = float16.Fromfloat32(float32(float64(ii+1) + 0.1)).Float32()
				}
				assert.Equal(t, want, out.Data())
			case dtypes.Int64:
				assert.Equal(t, []int64{1, 2, 3, 4}, out.Data())
			case dtypes.Int32:
				assert.Equal(t, []int32{1, 2, 3, 4}, out.Data())
			}
		})
	}
}

func TestScalarOutput(t *testing.T) {
	g := graph.New("TestScalarOutput")
	x := graph.Parameter(g, "x", shapes.Make(dtypes.Float64))
	y := graph.Add(x, graph.Scalar(g, 2, shapes.Make(dtypes.Float64)))
	out, err := Evaluate(y, map[string]*tensor.Dense{"x": tensor.New(tensor.FromScalar(3.0))})
	require.NoError(t, err)
	require.True(t, out.IsScalar())
	require.Equal(t, 5.0, out.Data())
}

func TestErrors(t *testing.T) {
	g := graph.New("TestErrors")
	x := graph.Parameter(g, "x", shapes.Make(dtypes.Float64, 3))
	y := graph.Select(x, 0, 0, 2, 1)

	_, err := Evaluate(y, nil)
	require.ErrorContains(t, err, `missing value for parameter "x"`)

	_, err = Evaluate(y, map[string]*tensor.Dense{"x": iotaDense(4)})
	require.ErrorContains(t, err, "has dimensions")

	_, err = Evaluate(y, map[string]*tensor.Dense{
		"x": tensor.New(tensor.WithShape(3), tensor.WithBacking([]bool{true, false, true}))})
	require.ErrorContains(t, err, "unsupported data type")
}

func TestSharedSubExpressions(t *testing.T) {
	g := graph.New("TestSharedSubExpressions")
	x := graph.Parameter(g, "x", shapes.Make(dtypes.Float64, 4))
	s := graph.Select(x, 0, 1, 3, 1)
	y := graph.NarrowViewUpdate(x, graph.Add(s, s), []int{1})
	got, err := EvaluateFlat(y, map[string]*tensor.Dense{"x": iotaDense(4)})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 2, 4, 3}, got)
}

func TestZeroSizeOutput(t *testing.T) {
	g := graph.New("TestZeroSizeOutput")
	x := graph.Parameter(g, "x", shapes.Make(dtypes.Float64, 3, 4))
	x32 := graph.Parameter(g, "x32", shapes.Make(dtypes.Float32, 3, 4))
	feeds := map[string]*tensor.Dense{"x": iotaDense(3, 4), "x32": iotaDense(3, 4)}

	empty := graph.Select(x, 1, 2, 2, 1)
	out, err := Evaluate(empty, feeds)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{3, 0}, out.Shape())
	require.Equal(t, []float64{}, out.Data())

	out, err = Evaluate(graph.Diagonal(x32, 5, 0, 1), feeds)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{0}, out.Shape())
	require.Equal(t, []float32{}, out.Data())

	// Scattering an empty value returns the target unchanged.
	updated := graph.SelectViewUpdate(x, graph.Scalar(g, -1, empty.Shape()), 1, 2, 2, 1)
	flat, err := EvaluateFlat(updated, feeds)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, flat)
}
