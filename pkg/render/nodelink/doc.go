// Package nodelink renders the character network as a node-link diagram.
//
// # Overview
//
// Characters become circles coloured with their fill and labelled with their
// initials; conversations become undirected edges whose pen width follows
// the link weight. Node positions come from the force layout and are pinned,
// so Graphviz only draws.
//
// # Usage
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: labels include the full name and line count
//   - OnlySelected: drop nodes and links that are not selected
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering with the neato engine.
package nodelink
