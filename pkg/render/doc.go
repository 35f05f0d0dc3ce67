// Package render holds renderers for computed libretto layouts.
//
// The core pipeline stops at positioned records (see pkg/graph). Renderers
// in the subpackages turn those records into concrete outputs:
//
//   - [nodelink]: Graphviz DOT and SVG of the character network
//
// [nodelink]: github.com/matzehuels/libretto/pkg/render/nodelink
package render
