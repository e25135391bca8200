package voxel

// DefaultColors is the editor's build palette.
var DefaultColors = []Voxel{
	{R: 255, G: 100, B: 50},  // orange
	{R: 50, G: 150, B: 255},  // blue
	{R: 50, G: 255, B: 100},  // green
	{R: 255, G: 50, B: 150},  // pink
	{R: 255, G: 255, B: 50},  // yellow
	{R: 150, G: 50, B: 255},  // purple
	{R: 255, G: 255, B: 255}, // white
	{R: 100, G: 100, B: 100}, // gray
}

// Palette cycles through a fixed list of build colors.
type Palette struct {
	colors []Voxel
	index  int
}

// NewPalette returns a palette over the default colors.
func NewPalette() *Palette {
	return &Palette{colors: DefaultColors}
}

// Current returns the selected color.
func (p *Palette) Current() Voxel {
	return p.colors[p.index]
}

// Index returns the selected color's position in the palette.
func (p *Palette) Index() int {
	return p.index
}

// Next advances to the next color, wrapping around.
func (p *Palette) Next() {
	p.index = (p.index + 1) % len(p.colors)
}

// Prev steps back to the previous color, wrapping around.
func (p *Palette) Prev() {
	p.index = (p.index - 1 + len(p.colors)) % len(p.colors)
}
