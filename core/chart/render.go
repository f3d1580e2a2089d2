// Package chart draws report charts as PNG or SVG line charts.
package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"pingplotter-roi/core/roi"
	"pingplotter-roi/internal/errors"
)

// Format is an image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png", ".png":
		return FormatPNG, nil
	case "svg", ".svg":
		return FormatSVG, nil
	}
	return "", errors.NotSupported("chart format " + s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Options controls the canvas size
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns a 1000x500 canvas.
func DefaultOptions() Options {
	return Options{Width: 1000, Height: 500}
}

var palette = []drawing.Color{
	gochart.ColorBlue,
	gochart.ColorRed,
	gochart.ColorGreen,
	gochart.ColorOrange,
}

var referenceStyle = gochart.Style{
	StrokeColor:     gochart.ColorAlternateGray,
	StrokeWidth:     1,
	StrokeDashArray: []float64{5.0, 5.0},
}

// Render draws data onto w.
func Render(w io.Writer, data roi.ChartData, format Format, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}
	if len(data.Series) == 0 || len(data.Series[0].X) == 0 {
		return errors.Render(fmt.Sprintf("chart %s has no data", data.Name), nil)
	}

	xr, yr := bounds(data)
	series := make([]gochart.Series, 0, len(data.Series)+len(data.ReferenceLines))
	for i, s := range data.Series {
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style: gochart.Style{
				StrokeColor: palette[i%len(palette)],
				StrokeWidth: 2,
			},
		})
	}
	for _, line := range data.ReferenceLines {
		series = append(series, referenceSeries(line, xr, yr))
	}

	ch := gochart.Chart{
		Title:  data.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:  data.XLabel,
			Range: xr,
		},
		YAxis: gochart.YAxis{
			Name:  data.YLabel,
			Range: yr,
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	provider := gochart.PNG
	if format == FormatSVG {
		provider = gochart.SVG
	}

	// Render into a buffer so a failed render never leaves a partial image.
	var buf bytes.Buffer
	if err := ch.Render(provider, &buf); err != nil {
		return errors.Render("failed to render chart "+data.Name, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return errors.Render("failed to write chart "+data.Name, err)
	}
	return nil
}

// bounds computes axis ranges over every series and reference line, widening
// degenerate ranges so single-row tables still plot.
func bounds(data roi.ChartData) (*gochart.ContinuousRange, *gochart.ContinuousRange) {
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := 0.0, math.Inf(-1)
	for _, s := range data.Series {
		for _, x := range s.X {
			xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
		}
		for _, y := range s.Y {
			yMin, yMax = math.Min(yMin, y), math.Max(yMax, y)
		}
	}
	for _, line := range data.ReferenceLines {
		if line.Axis == roi.AxisY {
			yMin, yMax = math.Min(yMin, line.Value), math.Max(yMax, line.Value)
		}
	}
	if xMax <= xMin {
		xMin, xMax = xMin-1, xMax+1
	}
	if yMax <= yMin {
		yMax = yMin + 1
	}
	return &gochart.ContinuousRange{Min: xMin, Max: xMax}, &gochart.ContinuousRange{Min: yMin, Max: yMax * 1.05}
}

func referenceSeries(line roi.ReferenceLine, xr, yr *gochart.ContinuousRange) gochart.Series {
	s := gochart.ContinuousSeries{Name: line.Label, Style: referenceStyle}
	if line.Axis == roi.AxisX {
		s.XValues = []float64{line.Value, line.Value}
		s.YValues = []float64{yr.Min, yr.Max}
	} else {
		s.XValues = []float64{xr.Min, xr.Max}
		s.YValues = []float64{line.Value, line.Value}
	}
	return s
}

// RenderReport draws the named chart of a report.
func RenderReport(w io.Writer, rep *roi.Report, name string, format Format, opts Options) error {
	data, ok := rep.Chart(name)
	if !ok {
		return errors.NotFound("chart", name)
	}
	return Render(w, data, format, opts)
}
