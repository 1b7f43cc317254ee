package gopher

import (
	"strconv"
	"strings"
)

// MaxDirectoryItems caps how many entries ParseDirectory returns.
const MaxDirectoryItems = 64

// Item is one line of a gopher directory listing.
type Item struct {
	Type     byte
	Display  string
	Selector string
	Host     string
	Port     int
}

// IsListing reports whether data looks like a directory listing: the first
// byte is a known item type and the first line is tab separated.
func IsListing(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	switch data[0] {
	case TypeFile, TypeDirectory, TypeError, TypeSearch, TypeBinary,
		TypeGIF, TypeHTML, TypeImage, TypeInfo:
	default:
		return false
	}
	end := len(data)
	if i := strings.IndexByte(string(data), '\n'); i >= 0 {
		end = i
	}
	return strings.IndexByte(string(data[:end]), '\t') >= 0
}

// ParseDirectory parses a directory response into items, up to
// MaxDirectoryItems. Malformed lines are skipped rather than failing the
// whole listing; info lines tolerate missing selector and host fields.
// Missing hosts and ports default to the client's current server.
func (c *Client) ParseDirectory(data []byte) []Item {
	items := make([]Item, 0, 16)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if line == "." { // listing terminator
			break
		}
		item, ok := c.parseLine(line)
		if !ok {
			continue
		}
		items = append(items, item)
		if len(items) >= MaxDirectoryItems {
			break
		}
	}
	return items
}

func (c *Client) parseLine(line string) (Item, bool) {
	item := Item{
		Type: line[0],
		Host: c.Host,
		Port: c.Port,
	}
	fields := strings.Split(line[1:], "\t")
	item.Display = fields[0]

	// Info lines carry no usable selector; some servers omit the trailing
	// fields entirely.
	if item.Type == TypeInfo {
		return item, true
	}
	if len(fields) < 3 {
		return Item{}, false
	}
	item.Selector = fields[1]
	if fields[2] != "" {
		item.Host = fields[2]
	}
	if len(fields) >= 4 && strings.TrimSpace(fields[3]) != "" {
		if p, err := strconv.Atoi(strings.TrimSpace(fields[3])); err == nil && p > 0 {
			item.Port = p
		} else {
			item.Port = DefaultPort
		}
	}
	return item, true
}
