package asciiart

import (
	"fmt"
	"io"
	"strings"
)

// DisplayText writes raw server bytes to w as readable lines. It is the
// secondary fallback for content that failed image decoding but looks
// textual (typically an HTML error page): leading non-printable bytes are
// skipped, control characters other than CR/LF/TAB become spaces, and
// trailing CR/LF are stripped from each emitted line.
func DisplayText(w io.Writer, data []byte) error {
	start := 0
	for start < len(data) && !isPrintable(data[start]) && !isSpace(data[start]) {
		start++
	}

	var line strings.Builder
	flush := func() error {
		s := strings.TrimRight(line.String(), "\r\n")
		line.Reset()
		if s == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, s)
		return err
	}

	for _, b := range data[start:] {
		c := b
		if c < 0x20 && c != '\r' && c != '\n' && c != '\t' {
			c = ' '
		}
		line.WriteByte(c)
		if c == '\n' {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
