package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"doccoder-be/pkg/content"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	labelWidth  = 800
	labelHeight = 600
	// basicfont glyphs are 13px tall, scaled up to roughly a 24px face
	labelScale = 2
)

var labelInk = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

// labelImageWriter renders a descriptive card, not a page rasterization.
type labelImageWriter struct {
	format Format
}

func (w labelImageWriter) Format() Format { return w.format }

func (w labelImageWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	pages := 1
	if in.Provenance != nil && in.Provenance.PageCount > 0 {
		pages = in.Provenance.PageCount
	}
	img := renderLabel([]string{
		"PDF: " + in.displayName(),
		fmt.Sprintf("Pages: %d", pages),
		"Converted with Doccoder",
	})

	data, err := encodeImage(img, w.format)
	if err != nil {
		return nil, err
	}
	res := result(in, w.format, data)
	res.LowFidelity = true
	return res, nil
}

// renderLabel draws lines at x=50 starting at y=100, 50px apart, on a white canvas.
func renderLabel(lines []string) *image.RGBA {
	small := image.NewRGBA(image.Rect(0, 0, labelWidth/labelScale, labelHeight/labelScale))
	xdraw.Draw(small, small.Bounds(), image.White, image.Point{}, xdraw.Src)

	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(labelInk),
		Face: basicfont.Face7x13,
	}
	maxChars := (labelWidth/labelScale - 50/labelScale*2) / 7
	for i, line := range lines {
		if len([]rune(line)) > maxChars {
			line = string([]rune(line)[:maxChars-3]) + "..."
		}
		d.Dot = fixed.P(50/labelScale, (100+50*i)/labelScale)
		d.DrawString(line)
	}

	out := image.NewRGBA(image.Rect(0, 0, labelWidth, labelHeight))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return out
}

func encodeImage(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatJPG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, err
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// imageSetWriter zips one label PNG per page with a README describing the set.
type imageSetWriter struct{}

func (imageSetWriter) Format() Format { return FormatImages }

func (imageSetWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	pages := 1
	if in.Provenance != nil && in.Provenance.PageCount > 0 {
		pages = in.Provenance.PageCount
	}
	texts := strings.Split(in.Text, "\n\n")

	parts := make([]zipPart, 0, pages+1)
	for p := 1; p <= pages; p++ {
		lines := []string{
			"PDF: " + in.displayName(),
			fmt.Sprintf("Page %d of %d", p, pages),
		}
		if p <= len(texts) {
			if first := NonEmptyLines(texts[p-1]); len(first) > 0 {
				lines = append(lines, first[0])
			}
		}
		data, err := encodeImage(renderLabel(lines), FormatPNG)
		if err != nil {
			return nil, err
		}
		parts = append(parts, zipPart{name: fmt.Sprintf("%s-page-%d.png", in.Name, p), data: data})
	}

	readme := fmt.Sprintf("Images generated from %s\nPages: %d\n\nEach image is a summary card for one page. Page contents are not rasterized.\n",
		in.displayName(), pages)
	parts = append(parts, zipPart{name: "README.txt", data: []byte(readme)})

	data, err := writeZip(parts)
	if err != nil {
		return nil, err
	}
	res := &content.ConversionResult{
		Bytes:         data,
		SuggestedName: in.Name + "-images.zip",
		MimeType:      MimeType(FormatImages),
		LowFidelity:   true,
	}
	return res, nil
}
