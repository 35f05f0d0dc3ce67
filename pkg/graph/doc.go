// Package graph provides the serialization format for computed layouts.
//
// This package defines the wire format handed to renderers: a single
// [Layout] document holding the positioned character network, the
// timeline lines and songs, theme diamonds, legend groups, the selection
// that produced them and any diagnostics.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory
// records and external formats:
//
//   - [Layout], [Node], [Link], [Line], [Song], [Diamond]: serialization types (this package)
//   - pkg/show: in-memory records owned by their arenas
//
// Use [FromRecords] to convert records into a Layout.
//
// # Formats
//
// Layouts are written as JSON (default) or YAML. The format is chosen from
// the file extension by [WriteLayoutFile] and [ReadLayoutFile]:
//
//	l := graph.FromRecords(recs)
//	_ = graph.WriteLayoutFile(l, "hamilton.json")
//	_ = graph.WriteLayoutFile(l, "hamilton.yaml")
//
// # Schema
//
// [Schema] returns the JSON Schema of [Layout] so rendering clients can
// validate documents before use.
package graph
