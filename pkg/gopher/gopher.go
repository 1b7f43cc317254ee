// Package gopher implements a minimal RFC 1436 client: selector fetching,
// directory parsing, and a bounded navigation history.
package gopher

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// Item type characters from RFC 1436, plus the common extensions.
const (
	TypeFile      = '0'
	TypeDirectory = '1'
	TypeError     = '3'
	TypeSearch    = '7'
	TypeBinary    = '9'
	TypeGIF       = 'g'
	TypeHTML      = 'h'
	TypeImage     = 'I'
	TypeInfo      = 'i'
)

const (
	// DefaultPort is the well-known gopher port.
	DefaultPort = 70

	// historySize bounds the navigation ring.
	historySize = 10

	defaultMaxResponse = 4 << 20

	dialTimeout = 5 * time.Second
	readTimeout = 10 * time.Second
)

// Entry is one selector the client has visited.
type Entry struct {
	Host     string
	Port     int
	Selector string
}

func (e Entry) String() string {
	return fmt.Sprintf("gopher://%s:%d%s", e.Host, e.Port, e.Selector)
}

// Client fetches gopher selectors from a single server. It is not safe for
// concurrent use.
type Client struct {
	Host string
	Port int

	// MaxResponseSize caps how many bytes Fetch reads; zero means the
	// 4 MiB default.
	MaxResponseSize int

	history [historySize]Entry
	count   int
	head    int
}

// NewClient returns a client for host. Port zero means DefaultPort.
func NewClient(host string, port int) *Client {
	if port <= 0 {
		port = DefaultPort
	}
	return &Client{Host: host, Port: port}
}

// Fetch requests selector and returns the raw response bytes. The visit is
// recorded in the history ring.
func (c *Client) Fetch(ctx context.Context, selector string) ([]byte, error) {
	data, err := c.fetch(ctx, c.Host, c.Port, selector)
	if err != nil {
		return nil, err
	}
	c.record(Entry{Host: c.Host, Port: c.Port, Selector: selector})
	return data, nil
}

// FetchItem requests a selector from an arbitrary server, as when following
// a directory entry that points off-host. The client's own Host and Port
// are updated on success so relative navigation continues from there.
func (c *Client) FetchItem(ctx context.Context, host string, port int, selector string) ([]byte, error) {
	if port <= 0 {
		port = DefaultPort
	}
	data, err := c.fetch(ctx, host, port, selector)
	if err != nil {
		return nil, err
	}
	c.Host, c.Port = host, port
	c.record(Entry{Host: host, Port: port, Selector: selector})
	return data, nil
}

// FetchEntry revisits a history entry without recording it again, so going
// back does not grow the ring. The client's Host and Port follow the entry.
func (c *Client) FetchEntry(ctx context.Context, e Entry) ([]byte, error) {
	data, err := c.fetch(ctx, e.Host, e.Port, e.Selector)
	if err != nil {
		return nil, err
	}
	c.Host, c.Port = e.Host, e.Port
	return data, nil
}

func (c *Client) fetch(ctx context.Context, host string, port int, selector string) ([]byte, error) {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("dial %s:%d: %w", host, port, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(readTimeout))
	}

	if _, err := io.WriteString(conn, selector+"\r\n"); err != nil {
		return nil, fmt.Errorf("send selector: %w", err)
	}

	limit := c.MaxResponseSize
	if limit <= 0 {
		limit = defaultMaxResponse
	}
	data, err := io.ReadAll(io.LimitReader(conn, int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// record appends e to the ring, evicting the oldest entry when full.
func (c *Client) record(e Entry) {
	c.history[c.head] = e
	c.head = (c.head + 1) % historySize
	if c.count < historySize {
		c.count++
	}
}

// Back pops the current location and returns the previous one. The second
// return is false when there is nothing to go back to.
func (c *Client) Back() (Entry, bool) {
	if c.count < 2 {
		return Entry{}, false
	}
	c.head = (c.head - 1 + historySize) % historySize
	c.count--
	prev := c.history[(c.head-1+historySize)%historySize]
	return prev, true
}

// History returns the visited entries, oldest first.
func (c *Client) History() []Entry {
	out := make([]Entry, 0, c.count)
	for i := 0; i < c.count; i++ {
		idx := (c.head - c.count + i + historySize) % historySize
		out = append(out, c.history[idx])
	}
	return out
}

// TypeString names an item type character for display.
func TypeString(t byte) string {
	switch t {
	case TypeFile:
		return "text"
	case TypeDirectory:
		return "dir"
	case TypeError:
		return "error"
	case TypeSearch:
		return "search"
	case TypeBinary:
		return "binary"
	case TypeGIF:
		return "gif"
	case TypeHTML:
		return "html"
	case TypeImage:
		return "image"
	case TypeInfo:
		return "info"
	default:
		return "unknown"
	}
}
