package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/libretto/pkg/cache"
	"github.com/matzehuels/libretto/pkg/graph"
	"github.com/matzehuels/libretto/pkg/render/nodelink"
)

// RenderOptions configures network artifacts.
type RenderOptions struct {
	Detailed     bool
	OnlySelected bool
}

func (o RenderOptions) keyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		Detailed:     o.Detailed,
		OnlySelected: o.OnlySelected,
	}
}

func (o RenderOptions) nodelink() nodelink.Options {
	return nodelink.Options{Detailed: o.Detailed, OnlySelected: o.OnlySelected}
}

// Render produces one artifact from a layout: the layout document itself
// (json, yaml) or the character network (dot, svg).
func Render(ctx context.Context, l graph.Layout, format string, o RenderOptions) ([]byte, error) {
	switch format {
	case FormatJSON, FormatYAML:
		return encode(l, format)
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, o.nodelink())), nil
	case FormatSVG:
		data, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(l, o.nodelink()))
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return data, nil
	default:
		return nil, ValidateFormat(format)
	}
}
