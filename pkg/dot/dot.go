// Package dot renders abstract workflows as Graphviz node-link diagrams.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/zaiyan-alam/pegasus/pkg/dax"
)

// Options configures workflow rendering.
type Options struct {
	// Detailed labels jobs with their full transformation identity
	// (namespace::name:version). When false, labels carry the node id
	// and name only.
	Detailed bool
}

// FromADAG converts a workflow to Graphviz DOT format. Jobs become box
// nodes labeled with their id and name (plus node-label when set),
// sub-DAG and sub-DAX nodes are drawn dashed, and dependency edges point
// from parent to child with edge labels attached.
//
// The resulting DOT string can be rendered with [RenderSVG] or any
// Graphviz tool.
func FromADAG(a *dax.ADAG, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", a.Name())
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range a.Nodes() {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, dep := range a.Dependencies() {
		for _, edge := range dep.Parents() {
			if edge.EdgeLabel != "" {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", edge.Parent.ID(), dep.Child().ID(), edge.EdgeLabel)
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", edge.Parent.ID(), dep.Child().ID())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dax.Node, detailed bool) string {
	id := n.ID()
	if l := n.NodeLabel(); l != "" {
		id = fmt.Sprintf("%s (%s)", id, l)
	}

	switch j := n.(type) {
	case *dax.Job:
		name := j.Name()
		if detailed {
			name = identity(j)
		}
		return id + "\n" + name
	case *dax.SubDAG:
		return id + "\ndag: " + j.Name()
	case *dax.SubDAX:
		return id + "\ndax: " + j.Name()
	}
	return id
}

// identity formats the namespace::name:version triple, omitting empty
// parts.
func identity(j *dax.Job) string {
	s := j.Name()
	if ns := j.Namespace(); ns != "" {
		s = ns + "::" + s
	}
	if v := j.Version(); v != "" {
		s = s + ":" + v
	}
	return s
}

func fmtAttrs(n dax.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.(type) {
	case *dax.SubDAG, *dax.SubDAX:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
