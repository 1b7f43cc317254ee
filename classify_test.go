package asciiart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	tests := []struct {
		name       string
		data       []byte
		wantKind   ContentKind
		wantFormat Format
	}{
		{
			name:     "html error page",
			data:     []byte("<html><body>404 Not Found</body></html>"),
			wantKind: KindText,
		},
		{
			name:     "doctype",
			data:     []byte("<!DOCTYPE html>\n<p>gone</p>"),
			wantKind: KindText,
		},
		{
			name:     "http status line",
			data:     []byte("HTTP/1.1 503 Service Unavailable\r\n\r\n"),
			wantKind: KindText,
		},
		{
			name:     "plain text",
			data:     []byte("Welcome to the gopher hole.\nEnjoy your stay.\n"),
			wantKind: KindText,
		},
		{
			name:       "jpeg magic",
			data:       append(jpegHeader, bytes.Repeat([]byte{0x00, 0xC4}, 50)...),
			wantKind:   KindImage,
			wantFormat: FormatJPEG,
		},
		{
			name:       "png magic",
			data:       append(pngHeader, bytes.Repeat([]byte{0x01, 0x80}, 50)...),
			wantKind:   KindImage,
			wantFormat: FormatPNG,
		},
		{
			name:       "gif magic",
			data:       append([]byte("GIF89a"), bytes.Repeat([]byte{0x02, 0xF0}, 50)...),
			wantKind:   KindImage,
			wantFormat: FormatGIF,
		},
		{
			name:       "extension hint without magic",
			data:       append([]byte{0x00, 0x01}, []byte("photo.jpg")...),
			wantKind:   KindImage,
			wantFormat: FormatJPEG,
		},
		{
			name:       "bmp extension is not a supported format",
			data:       append([]byte{0x00, 0x01}, []byte("scan.bmp")...),
			wantKind:   KindImage,
			wantFormat: FormatUnknown,
		},
		{
			name:       "binary junk",
			data:       bytes.Repeat([]byte{0x00, 0xFF, 0x13}, 40),
			wantKind:   KindImage,
			wantFormat: FormatUnknown,
		},
		{
			name:     "empty buffer",
			data:     nil,
			wantKind: KindImage, // nothing printable to see, decode decides
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.data)
			assert.Equal(t, tt.wantKind, c.Kind)
			if tt.wantKind == KindImage {
				assert.Equal(t, tt.wantFormat, c.Format)
			}
		})
	}
}

func TestClassifyTextWinsOverMagic(t *testing.T) {
	// An HTML marker in the prefix beats image magic bytes further in.
	data := append([]byte("<html> inline "), 0xFF, 0xD8, 0xFF)
	c := Classify(data)
	assert.Equal(t, KindText, c.Kind)
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "JPEG", FormatJPEG.String())
	assert.Equal(t, "PNG", FormatPNG.String())
	assert.Equal(t, "GIF", FormatGIF.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
