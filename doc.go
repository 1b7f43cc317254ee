/*
Package asciiart renders compressed images as colored ASCII art for plain
ANSI terminals, under an explicit memory budget.

The pipeline classifies raw bytes (text versus image, and image format by
magic numbers), decodes with a codec reduction factor chosen to fit the
budget, resamples to the target size with bilinear filtering, optionally
applies Floyd-Steinberg dithering over the standard 8-color palette, and
emits lines of ramp characters with SGR color runs. Sources too large for
the budget degrade to a gradient placeholder instead of failing.

Main features:

  - Explicit memory budgeting with recoverable out-of-memory handling
  - Automatic decode downscaling (1/2/4/8) against the budget
  - Bilinear or nearest-neighbor resampling with aspect preservation
  - Brightness and contrast adjustment fused into resampling
  - Floyd-Steinberg error diffusion over the 8-color ANSI palette
  - Run-length optimized SGR output, two characters per pixel
  - Fluent API for easy configuration

Basic Usage:

	// Render to stdout with defaults (terminal-sized, color, dithering).
	data, _ := os.ReadFile("image.jpg")
	err := asciiart.From(data).Print(os.Stdout)

Fluent API:

	// Chain configuration methods
	lines, err := asciiart.From(data).
	    Budget(200_000).
	    Size(40, 20).
	    Options(asciiart.ImageProcessOptions{
	        MaintainAspectRatio:  true,
	        UseBilinearFiltering: true,
	    }).
	    Render()

Classification:

	c := asciiart.Classify(data)
	if c.Kind == asciiart.KindText {
	    asciiart.DisplayText(os.Stdout, data)
	}

Decode errors are classified into sentinel values (ErrNotAnImage,
ErrUnknownFormat, ErrCorruptData, and so on) that callers can test with
errors.Is to decide between a text fallback and a hard failure.
*/
package asciiart
