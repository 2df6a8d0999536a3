// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/gomlx/lazyview/pkg/core/eval"
	"github.com/stretchr/testify/require"
)

func TestRunScript(t *testing.T) {
	s, err := runScript("TestRunScript", strings.NewReader(`
# Row and diagonal of a matrix.
tensor x 4 4
view row x select 0 1 2 1
view diag x diagonal 0 0 1
fill row -1
print row
add diag 100   # Scalar.
print x row diag

tensor v 4
view col x as_strided 4 4 2
copy col v
add col v
print x
`))
	require.NoError(t, err)
	require.Len(t, s.snapshots, 5)
	require.Equal(t, 9, s.snapshots[1].line)
	require.Equal(t, "x", s.snapshots[1].name)

	want := [][]float64{
		{-1, -1, -1, -1},
		{100, 1, 2, 3, -1, 99, -1, -1, 8, 9, 110, 11, 12, 13, 14, 115},
		{-1, 99, -1, -1},
		{100, 99, 110, 115},
		{100, 1, 0, 3, -1, 99, 2, -1, 8, 9, 4, 11, 12, 13, 6, 115},
	}
	for ii, snap := range s.snapshots {
		got, err := eval.EvaluateFlat(snap.value, s.feeds)
		require.NoError(t, err)
		require.Equalf(t, want[ii], got, "snapshot #%d (%s, line %d)", ii, snap.name, snap.line)
	}
	require.Equal(t, 1, countAliases(s))
	require.NotEmpty(t, nodesTable(s.graph).Render())
}

func TestRunScriptViewKinds(t *testing.T) {
	s, err := runScript("TestRunScriptViewKinds", strings.NewReader(`
tensor m 2 3
view t m permute 1 0
view flat m reshape 6
view window flat narrow 4 2
view head m resize 2
view row m select 0 0 1 1
view squeezed row squeeze 0
view expanded squeezed unsqueeze 1
fill window 0
add expanded 10
print m head
`))
	require.NoError(t, err)
	got, err := eval.EvaluateFlat(s.snapshots[0].value, s.feeds)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 11, 12, 3, 0, 0}, got)
	got, err = eval.EvaluateFlat(s.snapshots[1].value, s.feeds)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 11}, got)
	require.True(t, s.tensors["t"].IsView())
}

func TestRunScriptErrors(t *testing.T) {
	testCases := []struct {
		script, errMsg string
	}{
		{"tensor x 3\nbogus x", "line 2"},
		{"tensor x 3\ntensor x 4", "already defined"},
		{"tensor nan 3", "is a number"},
		{"tensor 1 3", "is a number"},
		{"tensor x 3\nview inf x select 0 0 1 1", "is a number"},
		{"tensor x 3\nview x x select 0 0 1 1", "already defined"},
		{"fill y 1", "not defined"},
		{"tensor x 3\nview y x select 0 1", "takes 4 arguments"},
		{"tensor x 3\nview y x rotate 1", "invalid view kind"},
		{"tensor x 3\nview y x noop", "not supported"},
		{"tensor x a", "invalid integer"},
		{"tensor x 3\nfill x one", "invalid number"},
		{"tensor x 3\nview y x squeeze 0", "line 2"},
		{"tensor x 3\ntensor y 4\ncopy x y", "line 3"},
	}
	for _, tc := range testCases {
		_, err := runScript("TestRunScriptErrors", strings.NewReader(tc.script))
		require.Errorf(t, err, "script %q should fail", tc.script)
		require.ErrorContainsf(t, err, tc.errMsg, "script %q", tc.script)
	}
}
