// Package pkg provides the core libraries for libretto script layouts.
//
// # Overview
//
// Libretto turns the tables of a musical's script into two linked views: a
// force-directed network of characters joined by their conversations, and
// a timeline of lyric lines grouped by song with recurring themes marked as
// diamonds. The pkg directory is organized into these areas:
//
//  1. [corpus] - Input tables and the corpus directory loader
//  2. [show] - In-memory records shared by every stage
//  3. [lines], [network], [motif], [selection], [timeline] - The stages
//  4. [pipeline] - Orchestration (expand → network → motif → select → timeline)
//  5. [graph] - Serialization of the layout document
//  6. [render] - Network drawings (DOT, SVG)
//  7. [cache], [observability], [errors] - Supporting infrastructure
//
// # Architecture
//
// The data flow through libretto:
//
//	corpus directory (six JSON tables)
//	         ↓
//	    [corpus] package (decode tables in file order)
//	         ↓
//	    [lines] package (one Line per singer per lyric line)
//	         ↓
//	    [network] + [motif] packages (characters, conversations, themes)
//	         ↓
//	    [selection] package (character, conversation and theme filters)
//	         ↓
//	    [timeline] package (positions)
//	         ↓
//	    [graph] Layout as JSON or YAML
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/libretto/pkg/cache"
//	    "github.com/matzehuels/libretto/pkg/corpus"
//	    "github.com/matzehuels/libretto/pkg/graph"
//	    "github.com/matzehuels/libretto/pkg/pipeline"
//	)
//
//	tables, _ := corpus.LoadDir("shows/hamilton")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(context.Background(), tables, pipeline.Options{
//	    Characters: []string{"hamilton"},
//	})
//	_ = graph.WriteLayoutFile(result.Layout, "hamilton.layout.json")
//
// Unresolved references are collected as errors.Diagnostics. A line sung
// by an unknown character fails the run unless Options.SkipMissing is set.
package pkg
