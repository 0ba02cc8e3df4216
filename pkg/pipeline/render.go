package pipeline

import (
	"context"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l Layout, opts Options) (map[string][]byte, error) {
	if l.Graph == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no graph")
	}

	dotOpts := nodelink.Options{Detailed: opts.Detailed}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = MarshalLayout(l)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(l.Graph, dotOpts))
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(l.Graph, dotOpts))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	return "." + format
}
