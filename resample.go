package asciiart

import "fmt"

// ImageProcessOptions controls how the resampler scales and tones pixels.
type ImageProcessOptions struct {
	// MaintainAspectRatio shrinks one target dimension so the output never
	// distorts the source proportions.
	MaintainAspectRatio bool

	// UseBilinearFiltering interpolates among the four nearest source
	// pixels; when false, nearest-neighbor sampling is used.
	UseBilinearFiltering bool

	// BrightnessAdjust multiplies each channel. 1.0 is neutral; the
	// expected range is 0.5 to 2.0.
	BrightnessAdjust float64

	// ContrastAdjust scales each channel around a 128 pivot. Same range
	// and neutral value as BrightnessAdjust.
	ContrastAdjust float64
}

// DefaultProcessOptions returns the standard options: aspect-preserving,
// bilinear, neutral tone.
func DefaultProcessOptions() ImageProcessOptions {
	return ImageProcessOptions{
		MaintainAspectRatio:  true,
		UseBilinearFiltering: true,
		BrightnessAdjust:     1.0,
		ContrastAdjust:       1.0,
	}
}

// Resample scales src to the target dimensions, allocating the destination
// from the budget. src is not mutated and not released; the caller keeps
// ownership of both buffers. Brightness/contrast adjustments are applied
// inline during the scaling pass when they differ from neutral, avoiding a
// second full-buffer walk.
//
// With MaintainAspectRatio set, whichever target dimension would stretch the
// source is recomputed downward (never below 1), so the result's aspect
// ratio tracks the source's.
func Resample(src *PixelBuffer, targetW, targetH int, opts ImageProcessOptions, budget *MemoryBudget) (*PixelBuffer, error) {
	if src == nil || src.Pix == nil {
		return nil, fmt.Errorf("%w: nil source buffer", ErrAllocationFailure)
	}
	if targetW < 1 || targetH < 1 {
		return nil, fmt.Errorf("%w: invalid target %dx%d", ErrAllocationFailure, targetW, targetH)
	}

	if opts.MaintainAspectRatio {
		targetW, targetH = fitAspect(src.W, src.H, targetW, targetH)
	}

	dst, err := NewPixelBuffer(targetW, targetH, budget)
	if err != nil {
		return nil, err
	}

	xRatio := float64(src.W) / float64(targetW)
	yRatio := float64(src.H) / float64(targetH)
	tone := opts.BrightnessAdjust != 1.0 || opts.ContrastAdjust != 1.0

	for y := 0; y < targetH; y++ {
		for x := 0; x < targetW; x++ {
			var r, g, b uint8
			if opts.UseBilinearFiltering {
				r, g, b = sampleBilinear(src, float64(x)*xRatio, float64(y)*yRatio)
			} else {
				r, g, b = src.At(int(float64(x)*xRatio), int(float64(y)*yRatio))
			}
			if tone {
				r, g, b = AdjustPixel(r, g, b, opts.BrightnessAdjust, opts.ContrastAdjust)
			}
			dst.Set(x, y, r, g, b)
		}
	}
	return dst, nil
}

// fitAspect shrinks one of the target dimensions so the target aspect ratio
// matches the source's, flooring at 1.
func fitAspect(srcW, srcH, targetW, targetH int) (int, int) {
	srcAspect := float64(srcW) / float64(srcH)
	tgtAspect := float64(targetW) / float64(targetH)

	if srcAspect > tgtAspect {
		// Source is wider: shrink the target height.
		h := int(float64(targetW) / srcAspect)
		if h < 1 {
			h = 1
		}
		targetH = h
	} else if srcAspect < tgtAspect {
		// Source is taller: shrink the target width.
		w := int(float64(targetH) * srcAspect)
		if w < 1 {
			w = 1
		}
		targetW = w
	}
	return targetW, targetH
}

// sampleBilinear interpolates among the four source pixels surrounding the
// fractional coordinate (fx, fy). At the right/bottom edge the edge pixel is
// reused instead of reading out of bounds.
func sampleBilinear(src *PixelBuffer, fx, fy float64) (uint8, uint8, uint8) {
	x0 := int(fx)
	y0 := int(fy)
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	r00, g00, b00 := src.At(x0, y0)
	r10, g10, b10 := r00, g00, b00
	r01, g01, b01 := r00, g00, b00
	r11, g11, b11 := r00, g00, b00
	if x0 < src.W-1 {
		r10, g10, b10 = src.At(x0+1, y0)
	}
	if y0 < src.H-1 {
		r01, g01, b01 = src.At(x0, y0+1)
	}
	if x0 < src.W-1 && y0 < src.H-1 {
		r11, g11, b11 = src.At(x0+1, y0+1)
	}

	lerp := func(p00, p10, p01, p11 uint8) uint8 {
		return uint8((1-dx)*(1-dy)*float64(p00) +
			dx*(1-dy)*float64(p10) +
			(1-dx)*dy*float64(p01) +
			dx*dy*float64(p11))
	}
	return lerp(r00, r10, r01, r11), lerp(g00, g10, g01, g11), lerp(b00, b10, b01, b11)
}

// AdjustPixel applies brightness as a channel multiplier, then contrast as a
// scale around a 128 pivot, clamping each channel to [0,255]. Neutral
// settings (1.0, 1.0) return the input unchanged.
func AdjustPixel(r, g, b uint8, brightness, contrast float64) (uint8, uint8, uint8) {
	adjust := func(c uint8) uint8 {
		v := float64(c) * brightness
		v = 128.0 + (v-128.0)*contrast
		return clampInt(int(v), 0, 255)
	}
	return adjust(r), adjust(g), adjust(b)
}

// clampInt bounds value to [min, max] and narrows to a channel byte.
func clampInt(value, min, max int) uint8 {
	if value < min {
		return uint8(min)
	}
	if value > max {
		return uint8(max)
	}
	return uint8(value)
}
