package asciiart

// DitherFloydSteinberg quantizes buf to the 8-color terminal palette in
// place, diffusing each pixel's quantization error to not-yet-visited
// neighbors with the classic Floyd-Steinberg weights (7/16 right, 5/16
// below, 3/16 below-left, 1/16 below-right).
//
// A working copy of the buffer is reserved from buf's budget for the
// duration of the call: diffused source values are read from the copy while
// the final quantized output overwrites buf. Processing is strictly
// row-major, left to right, top to bottom; later pixels depend on earlier
// error propagation, so the output is deterministic for a given input.
//
// Returns ErrOutOfMemory when the working copy does not fit the budget; buf
// is left unmodified in that case and the caller may render it undithered.
func DitherFloydSteinberg(buf *PixelBuffer) error {
	work, err := buf.Clone()
	if err != nil {
		return err
	}
	defer work.Release()

	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			oldR, oldG, oldB := work.At(x, y)

			c := NearestColor(oldR, oldG, oldB)
			newR, newG, newB := c.RGB()
			buf.Set(x, y, newR, newG, newB)

			errR := int(oldR) - int(newR)
			errG := int(oldG) - int(newG)
			errB := int(oldB) - int(newB)

			if x+1 < buf.W {
				diffuse(work, x+1, y, errR, errG, errB, 7)
			}
			if y+1 < buf.H {
				diffuse(work, x, y+1, errR, errG, errB, 5)
				if x > 0 {
					diffuse(work, x-1, y+1, errR, errG, errB, 3)
				}
				if x+1 < buf.W {
					diffuse(work, x+1, y+1, errR, errG, errB, 1)
				}
			}
		}
	}
	return nil
}

// diffuse adds weight/16 of the error to the working-copy pixel, clamping
// each channel.
func diffuse(work *PixelBuffer, x, y, errR, errG, errB, weight int) {
	r, g, b := work.At(x, y)
	work.Set(x, y,
		clampInt(int(r)+errR*weight/16, 0, 255),
		clampInt(int(g)+errG*weight/16, 0, 255),
		clampInt(int(b)+errB*weight/16, 0, 255))
}
