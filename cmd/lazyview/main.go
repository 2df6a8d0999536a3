// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// lazyview runs a small script of tensor views and in-place updates, and reports the resulting values
// and the graph built to compute them.
//
// Example of script:
//
//	tensor x 4 4
//	view row x select 0 1 2 1
//	view diag x diagonal 0 0 1
//	fill row -1
//	add diag 100
//	print x row
//
// Run with -v=2 to log every update recorded and every view resolved.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/lazyview/pkg/core/eval"
	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"k8s.io/klog/v2"
)

var (
	flagValues  = flag.Bool("values", true, "Print the values requested with the \"print\" commands.")
	flagGraph   = flag.Bool("graph", false, "Print the table of the graph nodes built by the script.")
	flagSummary = flag.Bool("summary", false, "Print a summary of the graph built by the script.")
	flagNoColor = flag.Bool("no_color", false, "Disable colors in the output. Also disabled if NO_COLOR is set.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		klog.Errorf("Expected one script file to run (or \"-\" for stdin). See 'lazyview -help'.")
		os.Exit(1)
	}
	if *flagNoColor || termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	var r io.Reader = os.Stdin
	scriptPath := args[0]
	if scriptPath != "-" {
		f := must.M1(os.Open(scriptPath))
		defer func() { _ = f.Close() }()
		r = f
	}
	s, err := runScript(scriptPath, r)
	if err != nil {
		klog.Errorf("Failed to run script %q: %+v", scriptPath, err)
		os.Exit(1)
	}
	report(s)
}

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == 1 {
				s = headerRowStyle
				return
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

func report(s *script) {
	if *flagValues {
		for _, snap := range s.snapshots {
			fmt.Println(titleStyle.Render(fmt.Sprintf("%s (line %d)", snap.name, snap.line)))
			value := must.M1(eval.Evaluate(snap.value, s.feeds))
			fmt.Printf("%v\n", value)
		}
	}

	if *flagGraph {
		fmt.Println(titleStyle.Render("Graph"))
		fmt.Println(nodesTable(s.graph).Render())
	}

	if *flagSummary {
		fmt.Println(titleStyle.Render("Summary"))
		table := newPlainTable(false)
		table.Row("graph", s.graph.Name())
		table.Row("# nodes", humanize.Comma(int64(s.graph.NumNodes())))
		table.Row("# reused nodes", humanize.Comma(int64(s.graph.DedupHits())))
		var parametersMemory uintptr
		for _, p := range s.graph.Parameters() {
			parametersMemory += p.Shape().Memory()
		}
		table.Row("# parameters", humanize.Comma(int64(len(s.graph.Parameters()))))
		table.Row("parameters memory", humanize.Bytes(uint64(parametersMemory)))
		table.Row("# tensors", humanize.Comma(int64(len(s.tensors))))
		table.Row("# aliases", humanize.Comma(int64(countAliases(s))))
		fmt.Println(table.Render())
	}
}

// nodesTable lists the nodes of g in creation order.
func nodesTable(g *graph.Graph) *lgtable.Table {
	table := newPlainTable(true)
	table.Row("Id", "Operation", "Inputs", "Shape")
	for _, node := range g.Nodes() {
		inputs := make([]string, len(node.Inputs()))
		for ii, input := range node.Inputs() {
			inputs[ii] = fmt.Sprintf("#%d", input.Id())
		}
		table.Row(fmt.Sprintf("#%d", node.Id()), node.StaticInputs().String(), strings.Join(inputs, ", "),
			node.Shape().String())
	}
	return table
}

// countAliases returns the number of distinct storages shared by the script tensors.
func countAliases(s *script) int {
	aliases := make(map[string]bool)
	for _, t := range s.tensors {
		if alias := t.Alias(); alias != nil {
			aliases[alias.ID().String()] = true
		}
	}
	return len(aliases)
}
