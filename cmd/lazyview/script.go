// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/lazytensor"
	"github.com/gomlx/lazyview/pkg/core/shapes"
	"github.com/gomlx/lazyview/pkg/core/views"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// snapshot is the value of a tensor requested by a "print" command.
type snapshot struct {
	line  int
	name  string
	value *graph.Node
}

// script holds the state of an executed script: the graph built, the tensors by name and the
// values fed to its parameters.
type script struct {
	graph     *graph.Graph
	tensors   map[string]*lazytensor.Tensor
	feeds     map[string]*tensor.Dense
	snapshots []snapshot
}

// runScript parses and executes the script read from r. Nothing is evaluated: the "print" commands only
// record the value of the tensors at that point.
func runScript(name string, r io.Reader) (*script, error) {
	s := &script{
		graph:   graph.New(name),
		tensors: make(map[string]*lazytensor.Tensor),
		feeds:   make(map[string]*tensor.Dense),
	}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		err := exceptions.TryCatch[error](func() { s.execute(lineNum, fields) })
		if err != nil {
			return nil, errors.WithMessagef(err, "line %d: %q", lineNum, strings.TrimSpace(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading script %q", name)
	}
	return s, nil
}

// execute one command. Errors are reported with panics.
func (s *script) execute(lineNum int, fields []string) {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "tensor":
		requireArgs(cmd, args, 1, -1)
		name := args[0]
		s.checkNewName(name)
		dims := parseInts(args[1:])
		s.tensors[name] = lazytensor.Parameter(s.graph, name, shapes.Make(dtypes.Float64, dims...))
		s.feeds[name] = iotaDense(dims)

	case "view":
		requireArgs(cmd, args, 3, -1)
		dst, src := args[0], s.tensor(args[1])
		s.checkNewName(dst)
		s.tensors[dst] = newView(src, parseKind(args[2]), args[3:])

	case "fill":
		requireArgs(cmd, args, 2, 2)
		s.tensor(args[0]).Fill(parseFloat(args[1]))

	case "add":
		requireArgs(cmd, args, 2, 2)
		t := s.tensor(args[0])
		if value, err := strconv.ParseFloat(args[1], 64); err == nil {
			t.AddScalarInPlace(value)
		} else {
			t.AddInPlace(s.tensor(args[1]))
		}

	case "copy":
		requireArgs(cmd, args, 2, 2)
		s.tensor(args[0]).CopyFrom(s.tensor(args[1]))

	case "print":
		requireArgs(cmd, args, 1, -1)
		for _, name := range args {
			s.snapshots = append(s.snapshots, snapshot{line: lineNum, name: name, value: s.tensor(name).Value()})
		}

	default:
		exceptions.Panicf("unknown command %q", cmd)
	}
}

// checkNewName panics if name is already defined, or if it would be read as a number by "add".
func (s *script) checkNewName(name string) {
	if _, found := s.tensors[name]; found {
		exceptions.Panicf("tensor %q already defined", name)
	}
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		exceptions.Panicf("invalid tensor name %q: it is a number", name)
	}
}

// tensor returns the tensor with the given name, or panics if it is not defined.
func (s *script) tensor(name string) *lazytensor.Tensor {
	t, found := s.tensors[name]
	if !found {
		exceptions.Panicf("tensor %q not defined", name)
	}
	return t
}

// newView creates the view of the given kind of src.
func newView(src *lazytensor.Tensor, kind views.Kind, args []string) *lazytensor.Tensor {
	switch kind {
	case views.KindSelect:
		requireArgs(kind.String(), args, 4, 4)
		ints := parseInts(args)
		return src.Select(ints[0], ints[1], ints[2], ints[3])
	case views.KindNarrow:
		requireArgs(kind.String(), args, 2, 2)
		return src.Narrow(parseIntList(args[0]), parseIntList(args[1]))
	case views.KindPermute:
		return src.Permute(parseInts(args)...)
	case views.KindReshape:
		return src.Reshape(parseInts(args)...)
	case views.KindResize:
		return src.Resize(parseInts(args)...)
	case views.KindSqueeze:
		requireArgs(kind.String(), args, 1, 1)
		return src.Squeeze(parseInts(args)[0])
	case views.KindUnsqueeze:
		requireArgs(kind.String(), args, 1, 1)
		return src.Unsqueeze(parseInts(args)[0])
	case views.KindAsStrided:
		requireArgs(kind.String(), args, 3, 3)
		return src.AsStrided(parseIntList(args[0]), parseIntList(args[1]), parseInts(args[2:])[0])
	case views.KindDiagonal:
		requireArgs(kind.String(), args, 3, 3)
		ints := parseInts(args)
		return src.Diagonal(ints[0], ints[1], ints[2])
	default:
		exceptions.Panicf("view kind %q not supported in scripts", kind)
		return nil
	}
}

// parseKind parses the view kind names used in scripts, e.g. "select" or "as_strided".
func parseKind(arg string) views.Kind {
	kind, err := views.KindString(strings.ReplaceAll(arg, "_", ""))
	if err != nil {
		panic(errors.Wrapf(err, "invalid view kind %q", arg))
	}
	return kind
}

// requireArgs panics if the number of arguments is not within [minArgs, maxArgs]. A negative maxArgs
// means no upper limit.
func requireArgs(cmd string, args []string, minArgs, maxArgs int) {
	if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
		if minArgs == maxArgs {
			exceptions.Panicf("%q takes %d arguments, got %d", cmd, minArgs, len(args))
		}
		exceptions.Panicf("%q takes at least %d arguments, got %d", cmd, minArgs, len(args))
	}
}

func parseInts(args []string) []int {
	ints := make([]int, len(args))
	for ii, arg := range args {
		value, err := strconv.Atoi(arg)
		if err != nil {
			panic(errors.Wrapf(err, "invalid integer %q", arg))
		}
		ints[ii] = value
	}
	return ints
}

// parseIntList parses a comma-separated list of integers.
func parseIntList(arg string) []int {
	return parseInts(strings.Split(arg, ","))
}

func parseFloat(arg string) float64 {
	value, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		panic(errors.Wrapf(err, "invalid number %q", arg))
	}
	return value
}

// iotaDense returns the value fed to script tensors: 0, 1, 2, ... in row-major order.
func iotaDense(dims []int) *tensor.Dense {
	size := 1
	for _, dim := range dims {
		size *= dim
	}
	values := make([]float64, size)
	for ii := range values {
		values[ii] = float64(ii)
	}
	if len(dims) == 0 {
		return tensor.New(tensor.FromScalar(values[0]))
	}
	return tensor.New(tensor.WithShape(dims...), tensor.WithBacking(values))
}
