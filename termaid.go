// Package termaid renders Mermaid-style diagram source as Unicode box-drawing
// text. The first keyword of the source selects the diagram type: graph and
// flowchart for flowcharts, erDiagram for entity relationship diagrams, and
// sequenceDiagram for sequence diagrams.
package termaid

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cdr.dev/slog"

	"github.com/termaid/termaid/lib/log"
	"github.com/termaid/termaid/tmlayouts/tmer"
	"github.com/termaid/termaid/tmlayouts/tmgraph"
	"github.com/termaid/termaid/tmlayouts/tmsequence"
	"github.com/termaid/termaid/tmparser"
	"github.com/termaid/termaid/tmrenderers/tmascii"
)

// RenderOpts customizes rendering.
type RenderOpts struct {
	// MaxWidth caps the output width in columns. Nil or a non-positive value
	// means unconstrained.
	MaxWidth *int
}

// Render renders diagram source with default options.
func Render(ctx context.Context, input string) (string, error) {
	return RenderWithOptions(ctx, input, nil)
}

// RenderWithOptions renders diagram source, dispatching on its leading
// keyword.
func RenderWithOptions(ctx context.Context, input string, opts *RenderOpts) (string, error) {
	maxWidth := 0
	if opts != nil && opts.MaxWidth != nil {
		maxWidth = *opts.MaxWidth
	}
	kind := leadingKeyword(input)
	log.Debug(ctx, "rendering diagram",
		slog.F("kind", kind),
		slog.F("max_width", maxWidth))

	switch kind {
	case "":
		return "", errors.New("empty diagram")
	case "graph", "flowchart":
		d, err := tmparser.ParseGraph(input)
		if err != nil {
			return "", err
		}
		l, err := tmgraph.ComputeWithMaxWidth(ctx, d, maxWidth)
		if err != nil {
			return "", err
		}
		return tmascii.RenderGraph(ctx, l), nil
	case "erDiagram":
		d, err := tmparser.ParseER(input)
		if err != nil {
			return "", err
		}
		l, err := tmer.ComputeWithMaxWidth(ctx, d, maxWidth)
		if err != nil {
			return "", err
		}
		return tmascii.RenderER(ctx, l), nil
	case "sequenceDiagram":
		d, err := tmparser.ParseSequence(input)
		if err != nil {
			return "", err
		}
		l, err := tmsequence.ComputeWithMaxWidth(ctx, d, maxWidth)
		if err != nil {
			return "", err
		}
		return tmascii.RenderSequence(ctx, l), nil
	}
	return "", fmt.Errorf("unknown diagram type `%s`", kind)
}

// leadingKeyword returns the first word of the first line that is neither
// blank nor a %% comment.
func leadingKeyword(input string) string {
	for _, line := range strings.Split(input, "\n") {
		t := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if t == "" || strings.HasPrefix(t, "%%") {
			continue
		}
		return strings.Fields(t)[0]
	}
	return ""
}
