package asciiart

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// Fallback target dimensions (in pixels; each pixel renders as two terminal
// columns) when the terminal size cannot be detected.
const (
	defaultTargetWidth  = 40
	defaultTargetHeight = 20
)

// Art renders one byte buffer as ASCII art, with a fluent API for
// configuration. State is scoped to a single rendering request; nothing is
// shared between Art values, so renders are independent and reentrant.
type Art struct {
	data   []byte
	budget *MemoryBudget
	opts   ImageProcessOptions
	cfg    AsciiArtConfig

	width  int
	height int
	scale  int

	// Result metadata from the last Render call.
	placeholder  bool
	nativeWidth  int
	nativeHeight int
}

// From creates an Art for the given compressed image bytes with default
// options: aspect-preserving bilinear resampling, color and dithering on,
// neutral tone, and the large memory budget.
func From(data []byte) *Art {
	return &Art{
		data: data,
		opts: DefaultProcessOptions(),
		cfg:  DefaultConfig(),
	}
}

// Budget sets the byte ceiling for pixel buffer allocations.
func (a *Art) Budget(limit int) *Art {
	a.budget = NewMemoryBudget(limit)
	return a
}

// Options replaces the resampling options.
func (a *Art) Options(opts ImageProcessOptions) *Art {
	a.opts = opts
	return a
}

// Config replaces the rendering configuration. Its tone fields feed the
// resampler, so a later Options call overrides them.
func (a *Art) Config(cfg AsciiArtConfig) *Art {
	a.cfg = cfg
	if cfg.Brightness != 0 {
		a.opts.BrightnessAdjust = cfg.Brightness
	}
	if cfg.Contrast != 0 {
		a.opts.ContrastAdjust = cfg.Contrast
	}
	return a
}

// Size sets the target dimensions in pixels (one pixel is two terminal
// columns and one row). Unset dimensions are auto-detected from the
// terminal.
func (a *Art) Size(w, h int) *Art {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	a.width = w
	a.height = h
	return a
}

// Scale forces an explicit codec reduction factor (1, 2, 4 or 8) instead of
// automatic selection against the budget.
func (a *Art) Scale(s int) *Art {
	a.scale = s
	return a
}

// Placeholder reports whether the last Render substituted a gradient for a
// source that exceeded the memory budget.
func (a *Art) Placeholder() bool { return a.placeholder }

// NativeSize returns the source dimensions reported by the codec on the
// last Render, or zeros before any render.
func (a *Art) NativeSize() (w, h int) { return a.nativeWidth, a.nativeHeight }

// Render runs the full pipeline: classify, budget-aware decode, resample,
// optional dither, character emission. It returns the rendered lines or a
// classified error (see the Err sentinels); out-of-memory conditions are
// recovered internally via the placeholder and never surface here.
//
// Peak memory holds at most two buffers: the decode output and the
// resampled destination. The decode buffer is released as soon as
// resampling completes.
func (a *Art) Render() ([]string, error) {
	budget := a.budget
	if budget == nil {
		budget = NewMemoryBudget(LargeBudget)
	}

	var (
		result *DecodeResult
		err    error
	)
	if a.scale != 0 {
		result, err = DecodeScaled(a.data, budget, a.scale)
	} else {
		result, err = Decode(a.data, budget)
	}
	if err != nil {
		return nil, err
	}
	a.placeholder = result.Placeholder
	a.nativeWidth = result.NativeWidth
	a.nativeHeight = result.NativeHeight

	targetW, targetH := a.targetSize()
	scaled, err := Resample(result.Buffer, targetW, targetH, a.opts, budget)
	result.Buffer.Release() // decode buffer is done either way
	if err != nil {
		if errors.Is(err, ErrOutOfMemory) {
			// Degrade to a placeholder-sized render rather than failing.
			return a.renderPlaceholder(budget)
		}
		return nil, err
	}
	defer scaled.Release()

	if a.cfg.UseDithering {
		if derr := DitherFloydSteinberg(scaled); derr != nil && !errors.Is(derr, ErrOutOfMemory) {
			return nil, derr
		}
		// On ErrOutOfMemory the buffer is untouched; render it undithered.
	}

	return RenderLines(scaled, a.cfg)
}

// Print renders and writes the lines to w.
func (a *Art) Print(w io.Writer) error {
	lines, err := a.Render()
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// renderPlaceholder substitutes the gradient when resampling itself cannot
// fit the budget.
func (a *Art) renderPlaceholder(budget *MemoryBudget) ([]string, error) {
	buf, err := placeholderBuffer(a.nativeWidth, a.nativeHeight, budget)
	if err != nil {
		return nil, err
	}
	defer buf.Release()
	a.placeholder = true

	if a.cfg.UseDithering {
		if derr := DitherFloydSteinberg(buf); derr != nil && !errors.Is(derr, ErrOutOfMemory) {
			return nil, derr
		}
	}
	return RenderLines(buf, a.cfg)
}

// targetSize resolves the render dimensions: explicit values win, then the
// detected terminal size, then the 40x20 fallback.
func (a *Art) targetSize() (int, int) {
	w, h := a.width, a.height
	if w > 0 && h > 0 {
		return w, h
	}

	cols, rows := terminalSize()
	if w == 0 {
		w = cols / 2 // two characters per pixel
	}
	if h == 0 {
		h = rows - 2 // leave room for the prompt
	}
	if w < 1 {
		w = defaultTargetWidth
	}
	if h < 1 {
		h = defaultTargetHeight
	}
	return w, h
}

// terminalSize returns the attached terminal's character dimensions, or
// zeros when stdout is not a terminal.
func terminalSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0
	}
	return cols, rows
}
