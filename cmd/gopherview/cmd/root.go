/*
Copyright © 2024 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/blacktop/go-asciiart"
	"github.com/blacktop/go-asciiart/pkg/gopher"
)

var (
	verbose   bool
	port      int
	itemIndex int
	noPrompt  bool
)

func init() {
	log.SetHandler(clihander.Default)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", gopher.DefaultPort, "Gopher server port")
	rootCmd.Flags().IntVarP(&itemIndex, "item", "i", 0, "Open entry N from the directory listing")
	rootCmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Print the listing and exit without prompting")
}

// rootCmd fetches a selector and shows it: directory listings as a numbered
// menu (with entry selection via --item or the prompt), text as text, images
// as ASCII art.
var rootCmd = &cobra.Command{
	Use:   "gopherview <host> [selector]",
	Short: "Browse gopherspace with images rendered as ASCII art",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		selector := ""
		if len(args) > 1 {
			selector = args[1]
		}

		client := gopher.NewClient(args[0], port)
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		log.Debugf("fetching gopher://%s:%d%s", client.Host, client.Port, selector)
		data, err := client.Fetch(ctx, selector)
		if err != nil {
			return err
		}

		if !gopher.IsListing(data) {
			return display(os.Stdout, data)
		}

		items := client.ParseDirectory(data)
		printListing(os.Stdout, items)

		if itemIndex > 0 {
			_, err := openItem(ctx, client, items, itemIndex, os.Stdout)
			return err
		}
		if noPrompt || !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil
		}
		return browse(cmd.Context(), client, items, os.Stdin, os.Stdout)
	},
}

func printListing(w io.Writer, items []gopher.Item) {
	for i, item := range items {
		if item.Type == gopher.TypeInfo {
			fmt.Fprintf(w, "              %s\n", item.Display)
			continue
		}
		fmt.Fprintf(w, "%2d. [%-6s] %s\t%s:%d%s\n",
			i+1, gopher.TypeString(item.Type), item.Display,
			item.Host, item.Port, item.Selector)
	}
}

// openItem fetches listing entry n (1-based) and shows it. When the entry is
// itself a directory the parsed sub-listing is returned so the caller can
// keep navigating from it; otherwise the returned slice is nil.
func openItem(ctx context.Context, client *gopher.Client, items []gopher.Item, n int, w io.Writer) ([]gopher.Item, error) {
	if n < 1 || n > len(items) {
		return nil, fmt.Errorf("no entry %d (listing has %d entries)", n, len(items))
	}
	item := items[n-1]
	if item.Type == gopher.TypeInfo {
		return nil, fmt.Errorf("entry %d is informational text", n)
	}

	data, err := client.FetchItem(ctx, item.Host, item.Port, item.Selector)
	if err != nil {
		return nil, err
	}
	if item.Type == gopher.TypeDirectory && gopher.IsListing(data) {
		sub := client.ParseDirectory(data)
		printListing(w, sub)
		return sub, nil
	}
	return nil, display(w, data)
}

// browse is the interactive loop over a directory listing: a number opens
// that entry, "back" revisits the previous selector, "ls" reprints the
// current listing, "quit" leaves.
func browse(ctx context.Context, client *gopher.Client, items []gopher.Item, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "gopherview> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "q", "quit":
			return nil
		case "ls":
			printListing(out, items)
		case "b", "back":
			prev, ok := client.Back()
			if !ok {
				fmt.Fprintln(out, "history is empty")
				continue
			}
			data, err := client.FetchEntry(ctx, prev)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if gopher.IsListing(data) {
				items = client.ParseDirectory(data)
				printListing(out, items)
			} else if err := display(out, data); err != nil {
				fmt.Fprintln(out, err)
			}
		default:
			n, err := strconv.Atoi(input)
			if err != nil {
				fmt.Fprintf(out, "unknown command %q (want an entry number, ls, back or quit)\n", input)
				continue
			}
			sub, err := openItem(ctx, client, items, n, out)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if sub != nil {
				items = sub
			}
		}
	}
}

// display renders data as an image when it classifies as one, otherwise
// falls back to plain text.
func display(w io.Writer, data []byte) error {
	c := asciiart.Classify(data)
	log.Debugf("classified response as %s (format %s)", kindName(c.Kind), c.Format)

	if c.Kind == asciiart.KindImage {
		if err := renderImage(w, data); err == nil {
			return nil
		} else {
			log.Debugf("image render failed, falling back to text: %v", err)
		}
	}
	return asciiart.DisplayText(w, data)
}

func kindName(k asciiart.ContentKind) string {
	if k == asciiart.KindImage {
		return "image"
	}
	return "text"
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
