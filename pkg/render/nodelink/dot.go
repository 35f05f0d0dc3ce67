package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/libretto/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the character name and line count to node labels.
	// When false, only the initials are shown.
	Detailed bool

	// OnlySelected skips nodes and links whose Selected flag is false.
	OnlySelected bool
}

// pointsPerUnit converts layout units to Graphviz inches.
const pointsPerUnit = 72.0

// ToDOT converts the network part of a layout to Graphviz DOT. Every node
// carries a pinned pos so the force layout is reproduced exactly; y is
// flipped because Graphviz grows upward.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	kept := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if opts.OnlySelected && !n.Selected {
			continue
		}
		kept[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, k := range l.Links {
		if opts.OnlySelected && !k.Selected {
			continue
		}
		if !kept[k.Source] || !kept[k.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", k.Source, k.Target, strings.Join(linkAttrs(k), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, detailed bool) []string {
	label := n.Initials
	if detailed {
		label = fmt.Sprintf("%s\n%s\n%d", n.Initials, n.Name, n.NumLines)
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.X), fmtFloat(0 - n.Y)),
		fmt.Sprintf("width=%s", fmtFloat(2*n.Radius/pointsPerUnit)),
		fmt.Sprintf("fillcolor=%q", orDefault(n.Color, "grey")),
	}
	if n.Image != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Image))
	}
	if !n.Selected {
		attrs = append(attrs, "color=\"#cccccc\"", "fillcolor=\"#eeeeee\"", "fontcolor=\"#999999\"")
	}
	if n.Hidden {
		attrs = append(attrs, "style=\"filled,dotted\"")
	}
	return attrs
}

func linkAttrs(k graph.Link) []string {
	attrs := []string{
		fmt.Sprintf("penwidth=%s", fmtFloat(k.Weight)),
		fmt.Sprintf("color=%q", orDefault(k.Color, "black")),
	}
	if !k.Selected {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
