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
	"context"
	"io"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/blacktop/go-asciiart"
	"github.com/blacktop/go-asciiart/pkg/gopher"
)

var (
	budget     int
	width      int
	height     int
	scale      int
	noColor    bool
	noDither   bool
	nearest    bool
	stretch    bool
	brightness float64
	contrast   float64
)

func init() {
	rootCmd.AddCommand(imgCmd)

	for _, cmd := range []*cobra.Command{imgCmd, catCmd} {
		cmd.Flags().IntVar(&budget, "budget", asciiart.LargeBudget, "Pixel memory budget in bytes")
		cmd.Flags().IntVarP(&width, "width", "w", 0, "Target width in pixels (0 = terminal width)")
		cmd.Flags().IntVar(&height, "height", 0, "Target height in pixels (0 = terminal height)")
		cmd.Flags().IntVar(&scale, "scale", 0, "Force codec reduction factor (1, 2, 4 or 8)")
		cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
		cmd.Flags().BoolVar(&noDither, "no-dither", false, "Disable Floyd-Steinberg dithering")
		cmd.Flags().BoolVar(&nearest, "nearest", false, "Use nearest-neighbor resampling")
		cmd.Flags().BoolVar(&stretch, "stretch", false, "Ignore aspect ratio")
		cmd.Flags().Float64Var(&brightness, "brightness", 1.0, "Brightness multiplier")
		cmd.Flags().Float64Var(&contrast, "contrast", 1.0, "Contrast multiplier")
	}
}

// imgCmd fetches a single selector and renders it as ASCII art regardless
// of what the server claims it is.
var imgCmd = &cobra.Command{
	Use:   "img <host> <selector>",
	Short: "Fetch a gopher selector and render it as ASCII art",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		client := gopher.NewClient(args[0], port)
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		data, err := client.Fetch(ctx, args[1])
		if err != nil {
			return err
		}
		return renderImage(os.Stdout, data)
	},
}

func renderImage(w io.Writer, data []byte) error {
	art := asciiart.From(data).
		Budget(budget).
		Size(width, height).
		Options(asciiart.ImageProcessOptions{
			MaintainAspectRatio:  !stretch,
			UseBilinearFiltering: !nearest,
			BrightnessAdjust:     brightness,
			ContrastAdjust:       contrast,
		}).
		Config(asciiart.AsciiArtConfig{
			UseColor:     !noColor,
			UseDithering: !noDither,
			Brightness:   brightness,
			Contrast:     contrast,
		})
	if scale != 0 {
		art = art.Scale(scale)
	}

	if err := art.Print(w); err != nil {
		return err
	}
	if art.Placeholder() {
		w, h := art.NativeSize()
		log.Warnf("image too large for budget (%dx%d), showing placeholder", w, h)
	}
	return nil
}
