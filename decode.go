package asciiart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

// Placeholder base resolution. When an image cannot be decoded within the
// memory budget, a gradient at (or near) this size is substituted so the
// caller always gets something renderable.
const (
	placeholderWidth  = 32
	placeholderHeight = 16
	placeholderMinW   = 8
	placeholderMinH   = 4
)

// decodeScales are the codec-assisted reductions tried in order when the
// full-resolution image would not fit the budget.
var decodeScales = [...]int{1, 2, 4, 8}

// DecodeResult is the outcome of a successful (or recovered) decode.
type DecodeResult struct {
	// Buffer holds the decoded pixels. Ownership transfers to the caller,
	// who must Release it.
	Buffer *PixelBuffer

	// Placeholder reports that the source was too large for the budget and
	// Buffer holds a synthesized gradient instead of real pixels.
	Placeholder bool

	// NativeWidth and NativeHeight are the source image's dimensions as
	// reported by the codec before any reduction.
	NativeWidth  int
	NativeHeight int
}

// Decode turns compressed image bytes into a PixelBuffer within the given
// memory budget. An over-budget native size is first met by reduction, not
// substitution: the smallest codec reduction from {1,2,4,8} whose output
// fits the budget is picked, and only when even 8x reduction does not fit
// does the result degrade to a synthesized placeholder gradient rather than
// failing. Decode errors
// other than memory exhaustion surface classified (ErrNotAnImage,
// ErrUnknownFormat, ErrMissingFrameMarker, ErrCorruptData, ...) so callers
// can decide whether to fall back to displaying the bytes as text.
func Decode(data []byte, budget *MemoryBudget) (*DecodeResult, error) {
	return decode(data, budget, 0)
}

// DecodeScaled is Decode with an explicit codec reduction factor (1, 2, 4 or
// 8) instead of automatic selection. The scale is a per-call parameter so
// decodes stay reentrant and testable in isolation. A scaled output that
// still exceeds the budget degrades to a placeholder.
func DecodeScaled(data []byte, budget *MemoryBudget, scale int) (*DecodeResult, error) {
	if !validScale(scale) {
		return nil, fmt.Errorf("invalid decode scale %d (want 1, 2, 4 or 8)", scale)
	}
	return decode(data, budget, scale)
}

func validScale(scale int) bool {
	for _, s := range decodeScales {
		if s == scale {
			return true
		}
	}
	return false
}

// decode runs the fallback sequence: classify, probe dimensions, fit the
// budget (scaling or degrading to a placeholder), then the real decode.
// scale 0 means automatic selection.
func decode(data []byte, budget *MemoryBudget, scale int) (*DecodeResult, error) {
	if budget == nil {
		budget = NewMemoryBudget(LargeBudget)
	}

	if cls := Classify(data); cls.Kind == KindText {
		return nil, ErrNotAnImage
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, classifyDecodeError(err)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("%w: reported dimensions %dx%d",
			ErrCorruptData, cfg.Width, cfg.Height)
	}

	needed, ok := pixelBytes(cfg.Width, cfg.Height)
	if !ok {
		return placeholderResult(cfg.Width, cfg.Height, budget)
	}

	if scale == 0 {
		scale = chooseScale(needed, budget.Available())
		if scale == 0 {
			return placeholderResult(cfg.Width, cfg.Height, budget)
		}
	} else if needed/(scale*scale) > budget.Available() {
		return placeholderResult(cfg.Width, cfg.Height, budget)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, classifyDecodeError(err)
	}

	buf, err := imageToBuffer(img, cfg.Width/scale, cfg.Height/scale, budget)
	if err != nil {
		// The reservation pre-check above should cover this, but another
		// holder of the same budget may have claimed bytes in between.
		// Degrade to a placeholder like any other memory exhaustion.
		if errors.Is(err, ErrOutOfMemory) {
			return placeholderResult(cfg.Width, cfg.Height, budget)
		}
		return nil, err
	}

	return &DecodeResult{
		Buffer:       buf,
		NativeWidth:  cfg.Width,
		NativeHeight: cfg.Height,
	}, nil
}

// chooseScale returns the smallest reduction from decodeScales whose output
// fits in available bytes, or 0 when none does.
func chooseScale(needed, available int) int {
	for _, s := range decodeScales {
		if needed/(s*s) <= available {
			return s
		}
	}
	return 0
}

// pixelBytes returns w*h*3 with an overflow check.
func pixelBytes(w, h int) (int, bool) {
	const maxInt = int(^uint(0) >> 1)
	if w > maxInt/h || w*h > maxInt/3 {
		return 0, false
	}
	return w * h * 3, true
}

// imageToBuffer converts a decoded image into a budget-reserved PixelBuffer
// at the given target dimensions, downscaling during conversion when the
// target differs from the source (the reduced-decode substitute).
func imageToBuffer(img image.Image, targetW, targetH int, budget *MemoryBudget) (*PixelBuffer, error) {
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}

	buf, err := NewPixelBuffer(targetW, targetH, budget)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() != targetW || bounds.Dy() != targetH {
		dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
		img = dst
		bounds = dst.Bounds()
	}

	for y := 0; y < targetH; y++ {
		for x := 0; x < targetW; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			buf.Set(x, y, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}
	return buf, nil
}

// placeholderResult synthesizes the fallback gradient for an image whose
// native size exceeds the budget.
func placeholderResult(nativeW, nativeH int, budget *MemoryBudget) (*DecodeResult, error) {
	buf, err := placeholderBuffer(nativeW, nativeH, budget)
	if err != nil {
		return nil, err
	}
	return &DecodeResult{
		Buffer:       buf,
		Placeholder:  true,
		NativeWidth:  nativeW,
		NativeHeight: nativeH,
	}, nil
}

// placeholderBuffer builds a small two-axis gradient (red tracks x, green
// tracks y, blue constant) whose shape roughly follows the source's aspect
// ratio. Dimensions are always at least 1x1.
func placeholderBuffer(nativeW, nativeH int, budget *MemoryBudget) (*PixelBuffer, error) {
	w, h := placeholderWidth, placeholderHeight
	if nativeW > 0 && nativeH > 0 {
		aspect := float64(nativeW) / float64(nativeH)
		if aspect > 2.0 {
			h = int(float64(w) / aspect)
			if h < placeholderMinH {
				h = placeholderMinH
			}
		} else if aspect < 0.5 {
			w = int(float64(h) * aspect)
			if w < placeholderMinW {
				w = placeholderMinW
			}
		}
	}

	buf, err := NewPixelBuffer(w, h, budget)
	if err != nil {
		// A budget too small for even the placeholder means the host is
		// critically low; surface it rather than recovering.
		return nil, fmt.Errorf("%w: placeholder %dx%d does not fit budget",
			ErrAllocationFailure, w, h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, uint8(x*255/w), uint8(y*255/h), 128)
		}
	}
	return buf, nil
}
