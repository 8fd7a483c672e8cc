package pipeline

import (
	"bytes"
	"context"
	"fmt"

	congaio "github.com/matzehuels/conga/pkg/io"
	"github.com/matzehuels/conga/pkg/overlap"
	"github.com/matzehuels/conga/pkg/render"
)

// pngScale is the rsvg-convert zoom factor for PNG output.
const pngScale = 2.0

func isDrawing(format string) bool {
	switch format {
	case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
		return true
	}
	return false
}

// Render produces the given formats for the cover at count.
func Render(ctx context.Context, res *overlap.Result, doc *congaio.Document, count int, formats []string, opts Options) (map[string][]byte, error) {
	c, ok := res.Cover(count)
	if !ok {
		return nil, fmt.Errorf("%w %d", overlap.ErrNoCover, count)
	}

	var dot string
	var svg []byte
	drawSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = render.RenderSVG(ctx, dot)
		return svg, err
	}

	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if isDrawing(format) && dot == "" {
			dot = render.ToDOT(res.Graph(), c, render.Options{Indices: opts.Indices, Title: opts.Title})
		}

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = congaio.WriteResult(&buf, doc)
			data = buf.Bytes()
		case FormatCSV:
			var buf bytes.Buffer
			labels := doc.Labels
			if opts.Indices {
				labels = nil
			}
			err = congaio.WriteCoverCSV(&buf, c, labels)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = drawSVG()
		case FormatPNG:
			if data, err = drawSVG(); err == nil {
				data, err = render.ToPNG(data, pngScale)
			}
		case FormatPDF:
			if data, err = drawSVG(); err == nil {
				data, err = render.ToPDF(data)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
