package asciiart

// TerminalColor is one of the eight standard ANSI terminal colors.
type TerminalColor int

const (
	Black TerminalColor = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White

	paletteSize = 8
)

// colorReset clears all SGR attributes.
const colorReset = "\x1b[0m"

// terminalPalette binds each color to its reference RGB anchor and ANSI
// escape strings. The 170-value anchors match the classic VGA palette most
// terminals use for the non-bright colors.
var terminalPalette = [paletteSize]struct {
	r, g, b uint8
	name    string
	fg, bg  string
}{
	{0, 0, 0, "Black", "\x1b[30m", "\x1b[40m"},
	{170, 0, 0, "Red", "\x1b[31m", "\x1b[41m"},
	{0, 170, 0, "Green", "\x1b[32m", "\x1b[42m"},
	{170, 170, 0, "Yellow", "\x1b[33m", "\x1b[43m"},
	{0, 0, 170, "Blue", "\x1b[34m", "\x1b[44m"},
	{170, 0, 170, "Magenta", "\x1b[35m", "\x1b[45m"},
	{0, 170, 170, "Cyan", "\x1b[36m", "\x1b[46m"},
	{170, 170, 170, "White", "\x1b[37m", "\x1b[47m"},
}

// String returns the color name.
func (c TerminalColor) String() string {
	if c < 0 || c >= paletteSize {
		return "invalid"
	}
	return terminalPalette[c].name
}

// RGB returns the color's reference triple.
func (c TerminalColor) RGB() (r, g, b uint8) {
	p := terminalPalette[c]
	return p.r, p.g, p.b
}

// Foreground returns the SGR sequence selecting this color as foreground.
func (c TerminalColor) Foreground() string { return terminalPalette[c].fg }

// Background returns the SGR sequence selecting this color as background.
func (c TerminalColor) Background() string { return terminalPalette[c].bg }

// NearestColor maps an RGB triple to the closest terminal color using a
// perceptually weighted squared distance: the eye is most sensitive to
// green, then red, then blue, so channel deltas are weighted 4:3:2. Ties go
// to the lowest color index. Pure and total over [0,255]^3.
func NearestColor(r, g, b uint8) TerminalColor {
	best := 0
	minDistance := 255 * 255 * 3

	for i := 0; i < paletteSize; i++ {
		dr := int(r) - int(terminalPalette[i].r)
		dg := int(g) - int(terminalPalette[i].g)
		db := int(b) - int(terminalPalette[i].b)

		distance := (dr*dr*3 + dg*dg*4 + db*db*2) / 9
		if distance < minDistance {
			minDistance = distance
			best = i
		}
	}
	return TerminalColor(best)
}
