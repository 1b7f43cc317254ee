package gopher

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs a one-shot gopher server on the loopback that responds
// to every selector with respond(selector).
func startServer(t *testing.T, respond func(selector string) string) (host string, port int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil {
					return
				}
				selector := line
				for len(selector) > 0 && (selector[len(selector)-1] == '\n' || selector[len(selector)-1] == '\r') {
					selector = selector[:len(selector)-1]
				}
				fmt.Fprint(c, respond(selector))
			}(conn)
		}
	}()

	h, p, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	pn, err := strconv.Atoi(p)
	require.NoError(t, err)
	return h, pn
}

func TestClientFetch(t *testing.T) {
	host, port := startServer(t, func(selector string) string {
		return "you asked for: " + selector
	})

	client := NewClient(host, port)
	data, err := client.Fetch(context.Background(), "/about.txt")
	require.NoError(t, err)
	assert.Equal(t, "you asked for: /about.txt", string(data))

	hist := client.History()
	require.Len(t, hist, 1)
	assert.Equal(t, "/about.txt", hist[0].Selector)
}

func TestClientFetchResponseCap(t *testing.T) {
	host, port := startServer(t, func(string) string {
		return "0123456789abcdef"
	})

	client := NewClient(host, port)
	client.MaxResponseSize = 8
	data, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "01234567", string(data))
}

func TestClientFetchConnectionRefused(t *testing.T) {
	// Grab a free port and close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	h, p, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	pn, _ := strconv.Atoi(p)

	client := NewClient(h, pn)
	_, err = client.Fetch(context.Background(), "")
	assert.Error(t, err)
	assert.Empty(t, client.History(), "failed fetches are not recorded")
}

func TestFetchEntryDoesNotRecord(t *testing.T) {
	host, port := startServer(t, func(selector string) string {
		return "revisit: " + selector
	})

	client := NewClient(host, port)
	_, err := client.Fetch(context.Background(), "/first")
	require.NoError(t, err)
	require.Len(t, client.History(), 1)

	data, err := client.FetchEntry(context.Background(), Entry{Host: host, Port: port, Selector: "/first"})
	require.NoError(t, err)
	assert.Equal(t, "revisit: /first", string(data))
	assert.Len(t, client.History(), 1, "revisiting history must not grow the ring")
}

func TestClientFetchItemSwitchesServer(t *testing.T) {
	host, port := startServer(t, func(string) string { return "ok" })

	client := NewClient("unreachable.invalid", 70)
	_, err := client.FetchItem(context.Background(), host, port, "/pic.jpg")
	require.NoError(t, err)
	assert.Equal(t, host, client.Host)
	assert.Equal(t, port, client.Port)
}

func TestHistoryRing(t *testing.T) {
	c := NewClient("example.org", 70)
	for i := 0; i < historySize+3; i++ {
		c.record(Entry{Host: "example.org", Port: 70, Selector: fmt.Sprintf("/%d", i)})
	}

	hist := c.History()
	require.Len(t, hist, historySize, "ring evicts oldest entries")
	assert.Equal(t, "/3", hist[0].Selector)
	assert.Equal(t, fmt.Sprintf("/%d", historySize+2), hist[len(hist)-1].Selector)
}

func TestBack(t *testing.T) {
	c := NewClient("example.org", 70)

	_, ok := c.Back()
	assert.False(t, ok, "nothing to go back to")

	c.record(Entry{Selector: "/first"})
	_, ok = c.Back()
	assert.False(t, ok, "single entry has no previous")

	c.record(Entry{Selector: "/second"})
	c.record(Entry{Selector: "/third"})

	prev, ok := c.Back()
	require.True(t, ok)
	assert.Equal(t, "/second", prev.Selector)

	prev, ok = c.Back()
	require.True(t, ok)
	assert.Equal(t, "/first", prev.Selector)

	_, ok = c.Back()
	assert.False(t, ok)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("example.org", 0)
	assert.Equal(t, DefaultPort, c.Port)
}

func TestEntryString(t *testing.T) {
	e := Entry{Host: "example.org", Port: 70, Selector: "/pics"}
	assert.Equal(t, "gopher://example.org:70/pics", e.String())
}
