package asciiart

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Sentinel errors for the decode and allocation paths. Callers match against
// these with errors.Is to decide on fallback behavior (e.g. re-displaying the
// raw bytes as text when a server returned an HTML error page).
var (
	// ErrNotAnImage indicates the content was classified as text/HTML.
	ErrNotAnImage = errors.New("content is not an image")

	// ErrUnknownFormat indicates no registered codec recognized the data.
	ErrUnknownFormat = errors.New("unknown image format")

	// ErrMissingFrameMarker indicates a JPEG with no Start Of Frame marker,
	// which usually means the server returned an HTML error page instead of
	// an image.
	ErrMissingFrameMarker = errors.New("missing frame marker")

	// ErrCorruptData indicates the bitstream is damaged or truncated.
	ErrCorruptData = errors.New("corrupt image data")

	// ErrUnsupportedFormat indicates a recognized format using a codec
	// feature the decoder does not implement.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrOutOfMemory indicates a pixel buffer did not fit the memory budget.
	// The pipeline recovers from this internally by substituting a
	// placeholder; it is never surfaced from Render.
	ErrOutOfMemory = errors.New("image exceeds memory budget")

	// ErrAllocationFailure indicates a buffer could not be created at all:
	// invalid dimensions or a size that overflows. Unlike ErrOutOfMemory
	// this is surfaced to the caller.
	ErrAllocationFailure = errors.New("pixel buffer allocation failed")
)

// classifyDecodeError maps a codec error onto the sentinel taxonomy, keeping
// the original error in the chain.
func classifyDecodeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "sof"):
		return fmt.Errorf("%w: %v", ErrMissingFrameMarker, err)
	case strings.Contains(msg, "huffman"),
		strings.Contains(msg, "checksum"),
		strings.Contains(msg, "unexpected eof"),
		strings.Contains(msg, "corrupt"),
		strings.Contains(msg, "invalid"):
		return fmt.Errorf("%w: %v", ErrCorruptData, err)
	case strings.Contains(msg, "unsupported"):
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	case strings.Contains(msg, "unknown format"):
		return fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	default:
		return fmt.Errorf("image decode failed: %w", err)
	}
}
