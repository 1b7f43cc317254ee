package asciiart

import (
	"fmt"
	"io"
	"strings"
)

// asciiRamp maps brightness to glyphs, darkest to lightest.
const asciiRamp = " .:-=+*#%@"

// AsciiArtConfig controls character and color emission.
type AsciiArtConfig struct {
	// UseColor emits SGR foreground sequences per pixel run.
	UseColor bool

	// UseDithering enables Floyd-Steinberg error diffusion before render.
	UseDithering bool

	// UseExtendedChars is reserved for a Unicode block-character ramp; the
	// ASCII ramp ignores it.
	UseExtendedChars bool

	// ColorMode is 8 or 16; only the 8-color palette is implemented.
	ColorMode int

	// Brightness and Contrast feed the resampler's inline tone pass.
	Brightness float64
	Contrast   float64
}

// DefaultConfig returns the standard rendering configuration: color on,
// dithering on, 8-color mode, neutral tone.
func DefaultConfig() AsciiArtConfig {
	return AsciiArtConfig{
		UseColor:     true,
		UseDithering: true,
		ColorMode:    8,
		Brightness:   1.0,
		Contrast:     1.0,
	}
}

// RenderLines converts a pixel grid into terminal lines. Each pixel becomes
// two identical characters (terminal cells are roughly twice as tall as
// wide), chosen from the brightness ramp by the pixel's luma. With color
// enabled, the nearest terminal foreground color is emitted only when it
// differs from the previous pixel's, and each colored line ends with a
// reset. The background is always black.
//
// The output has exactly buf.H lines of 2*buf.W characters each, escape
// sequences aside. buf is read but not released; ownership stays with the
// caller.
func RenderLines(buf *PixelBuffer, cfg AsciiArtConfig) ([]string, error) {
	if buf == nil || buf.Pix == nil {
		return nil, fmt.Errorf("render: nil pixel buffer")
	}
	if buf.W < 1 || buf.H < 1 {
		return nil, fmt.Errorf("render: invalid dimensions %dx%d", buf.W, buf.H)
	}

	lines := make([]string, 0, buf.H)
	lastFg, lastBg := Black, Black

	var line strings.Builder
	for y := 0; y < buf.H; y++ {
		line.Reset()
		colorActive := false

		for x := 0; x < buf.W; x++ {
			r, g, b := buf.At(x, y)

			gray := grayValue(r, g, b)
			ch := asciiRamp[int(gray)*(len(asciiRamp)-1)/255]

			if cfg.UseColor {
				fg := NearestColor(r, g, b)
				bg := Black
				if !colorActive || fg != lastFg || bg != lastBg {
					line.WriteString(fg.Foreground())
					line.WriteString(bg.Background())
					lastFg = fg
					lastBg = bg
					colorActive = true
				}
			}

			line.WriteByte(ch)
			line.WriteByte(ch)
		}

		if colorActive {
			line.WriteString(colorReset)
		}
		lines = append(lines, line.String())
	}
	return lines, nil
}

// Fprint renders buf and writes each line, newline-terminated, to w.
func Fprint(w io.Writer, buf *PixelBuffer, cfg AsciiArtConfig) error {
	lines, err := RenderLines(buf, cfg)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// grayValue converts RGB to perceptual grayscale with the standard BT.601
// luma weights.
func grayValue(r, g, b uint8) uint8 {
	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}
