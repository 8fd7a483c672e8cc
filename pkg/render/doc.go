// Package render draws a graph coloured by one of its covers.
//
// # Overview
//
// [ToDOT] produces Graphviz DOT source for the original graph where every
// vertex is filled with its community's colour. Vertices that belong to
// several communities are drawn as wedged pies with one slice per
// community, so overlap is visible at a glance.
//
//	dot := render.ToDOT(g, cover, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Formats
//
//   - DOT: the output of [ToDOT], for external Graphviz tools
//   - SVG: rendered in-process by [RenderSVG]
//   - PDF and PNG: converted from SVG by [ToPDF] and [ToPNG]
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz]. PDF and PNG
// conversion requires librsvg (rsvg-convert).
package render
