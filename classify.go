package asciiart

import (
	"bytes"
	"strings"
)

// Format is a codec-family hint derived from magic bytes. It is advisory
// only: callers must still attempt a real decode and handle its failure.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatGIF
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "JPEG"
	case FormatPNG:
		return "PNG"
	case FormatGIF:
		return "GIF"
	default:
		return "unknown"
	}
}

// ContentKind is the top-level classification of a byte buffer.
type ContentKind int

const (
	// KindText marks HTML or mostly-printable content, typically a server
	// error page that arrived where an image was expected.
	KindText ContentKind = iota
	// KindImage marks anything that is not text; decode may still fail.
	KindImage
)

// Classification is the result of inspecting a buffer's leading bytes.
type Classification struct {
	Kind   ContentKind
	Format Format
}

// sampleLen is how many leading bytes the text heuristics inspect.
const sampleLen = 200

// extScanLen is how many leading bytes the extension fallback scans.
const extScanLen = 100

// htmlMarkers are substrings that identify HTML/HTTP content when found in
// the first sampleLen bytes.
var htmlMarkers = []string{
	"<html", "<HTML", "<!DOCTYPE", "<!doctype",
	"<head", "<HEAD", "<body", "<BODY",
	"HTTP/", "http://",
}

// imageExtensions are filename substrings scanned as a last-resort hint when
// no magic number matches (servers sometimes prefix binary data with text
// headers that mention the filename).
var imageExtensions = []string{".jpg", ".jpeg", ".gif", ".png", ".bmp"}

// Classify decides whether a buffer holds text/HTML or image data. Text wins
// over any image signature: an HTML marker in the first 200 bytes classifies
// the buffer as text even if image magic bytes appear later. The function is
// pure and reads only a bounded prefix.
func Classify(data []byte) Classification {
	if looksLikeText(data) {
		return Classification{Kind: KindText}
	}
	return Classification{Kind: KindImage, Format: sniffFormat(data)}
}

// looksLikeText reports whether the buffer is likely HTML or plain text:
// either a known HTML/HTTP marker appears in the sampled prefix, or more
// than 90% of the sampled bytes are printable or whitespace.
func looksLikeText(data []byte) bool {
	sample := data
	if len(sample) > sampleLen {
		sample = sample[:sampleLen]
	}
	for _, marker := range htmlMarkers {
		if bytes.Contains(sample, []byte(marker)) {
			return true
		}
	}

	if len(sample) == 0 {
		return false
	}
	printable := 0
	for _, b := range sample {
		if isPrintable(b) || isSpace(b) {
			printable++
		}
	}
	return float64(printable) > float64(len(sample))*0.9
}

func isPrintable(b byte) bool { return b >= 0x20 && b < 0x7f }

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// sniffFormat checks leading magic bytes, then falls back to scanning the
// first 100 bytes for image filename extensions. The fallback never alters
// the contract: it only refines the hint.
func sniffFormat(data []byte) Format {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return FormatJPEG
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return FormatPNG
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("GIF8")):
		return FormatGIF
	}

	head := data
	if len(head) > extScanLen {
		head = head[:extScanLen]
	}
	lower := strings.ToLower(string(head))
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			switch ext {
			case ".jpg", ".jpeg":
				return FormatJPEG
			case ".png":
				return FormatPNG
			case ".gif":
				return FormatGIF
			}
			break
		}
	}
	return FormatUnknown
}
