package chart

// Palette is the set of colors a figure is drawn with.
type Palette struct {
	Background string
	Text       string
	Primary    string
	Secondary  string
	Tertiary   string
	Quaternary string
	Highlight  string
}

// BluePalette is the default dark theme with shades of blue.
var BluePalette = Palette{
	Background: "#1e1e1e",
	Text:       "#FFFFFF",
	Primary:    "#1E90FF",
	Secondary:  "#4682B4",
	Tertiary:   "#87CEEB",
	Quaternary: "#B0C4DE",
	Highlight:  "#00BFFF",
}

// Colorway returns the palette colors used for successive traces.
func (p Palette) Colorway() []string {
	return []string{p.Primary, p.Secondary, p.Tertiary, p.Quaternary, p.Highlight}
}

// ApplyTheme returns a copy of fig with the palette applied to its
// background, font and trace colorway. fig itself is left untouched.
func ApplyTheme(fig Figure, p Palette) Figure {
	out := fig.clone()
	out.Layout.PaperBgColor = p.Background
	out.Layout.PlotBgColor = p.Background
	out.Layout.Font = &Font{Color: p.Text}
	out.Layout.Colorway = p.Colorway()
	return out
}
