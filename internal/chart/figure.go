// Package chart turns metrics into Plotly-compatible figure descriptions.
//
// A Figure marshals to the JSON accepted by plotly.js (`Plotly.newPlot(el,
// fig.data, fig.layout)`), so the same value can be served by the dashboard,
// written to disk, or inspected in tests.
package chart

import "slices"

// Figure is a chart: its traces and its layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// HasData reports whether the figure has anything to draw.
func (f Figure) HasData() bool {
	return len(f.Data) > 0
}

// Trace is one plotly trace. Only the attributes used by the renderers are modelled.
type Trace struct {
	Type         string    `json:"type"`
	Name         string    `json:"name,omitempty"`
	Mode         string    `json:"mode,omitempty"`
	X            []string  `json:"x,omitempty"`
	Y            []float64 `json:"y,omitempty"`
	Labels       []string  `json:"labels,omitempty"`
	Values       []float64 `json:"values,omitempty"`
	Text         []string  `json:"text,omitempty"`
	TextPosition string    `json:"textposition,omitempty"`
	Width        float64   `json:"width,omitempty"`
	Opacity      float64   `json:"opacity,omitempty"`
	Marker       *Marker   `json:"marker,omitempty"`
	Line         *Line     `json:"line,omitempty"`
	Value        *float64  `json:"value,omitempty"`
	Title        *Text     `json:"title,omitempty"`
	Gauge        *Gauge    `json:"gauge,omitempty"`
}

// Marker styles bars, points and pie slices. Color is either a single color
// or one value per point; Colors is the pie slice palette.
type Marker struct {
	Color      any      `json:"color,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	ColorScale [][2]any `json:"colorscale,omitempty"`
}

// Line styles a scatter line.
type Line struct {
	Color string `json:"color,omitempty"`
	Shape string `json:"shape,omitempty"`
}

// Text is a plotly title object.
type Text struct {
	Text string `json:"text"`
}

// Gauge configures an indicator gauge.
type Gauge struct {
	Axis  GaugeAxis   `json:"axis"`
	Bar   GaugeBar    `json:"bar"`
	Steps []GaugeStep `json:"steps,omitempty"`
}

// GaugeAxis is the gauge scale.
type GaugeAxis struct {
	Range [2]float64 `json:"range"`
}

// GaugeBar is the gauge value bar.
type GaugeBar struct {
	Color string `json:"color"`
}

// GaugeStep is a colored band of the gauge.
type GaugeStep struct {
	Range [2]float64 `json:"range"`
	Color string     `json:"color"`
}

// Layout is the figure layout.
type Layout struct {
	Title        *Text        `json:"title,omitempty"`
	XAxis        *Axis        `json:"xaxis,omitempty"`
	YAxis        *Axis        `json:"yaxis,omitempty"`
	PaperBgColor string       `json:"paper_bgcolor,omitempty"`
	PlotBgColor  string       `json:"plot_bgcolor,omitempty"`
	Font         *Font        `json:"font,omitempty"`
	Colorway     []string     `json:"colorway,omitempty"`
	BarMode      string       `json:"barmode,omitempty"`
	BarGap       float64      `json:"bargap,omitempty"`
	Margin       *Margin      `json:"margin,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`
}

// Axis is an x or y axis.
type Axis struct {
	Title     *Text    `json:"title,omitempty"`
	TickAngle int      `json:"tickangle,omitempty"`
	TickVals  []string `json:"tickvals,omitempty"`
	TickText  []string `json:"ticktext,omitempty"`
	Visible   *bool    `json:"visible,omitempty"`
}

// Font sets the default text color.
type Font struct {
	Color string `json:"color,omitempty"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	T int `json:"t"`
	B int `json:"b"`
	L int `json:"l"`
	R int `json:"r"`
}

// Annotation is free text placed on the plot.
type Annotation struct {
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// clone returns a deep copy of the parts of f that ApplyTheme writes, so the
// input figure is never modified.
func (f Figure) clone() Figure {
	out := f
	out.Data = slices.Clone(f.Data)
	out.Layout.Colorway = slices.Clone(f.Layout.Colorway)
	out.Layout.Annotations = slices.Clone(f.Layout.Annotations)
	if f.Layout.Font != nil {
		font := *f.Layout.Font
		out.Layout.Font = &font
	}
	return out
}
