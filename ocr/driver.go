package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"gocv.io/x/gocv"
)

// blurKernels is the retry ladder for glyph images the engine reads as
// blank: successively stronger and directional Gaussian blurs smooth the
// upscaling artifacts that confuse Tesseract. First non-empty read wins.
var blurKernels = []image.Point{
	{X: 3, Y: 3},
	{X: 5, Y: 5},
	{X: 3, Y: 5},
	{X: 5, Y: 3},
	{X: 1, Y: 5},
	{X: 5, Y: 1},
}

type Driver struct {
	engine Engine
}

func NewDriver(engine Engine) *Driver {
	return &Driver{engine: engine}
}

// ReadBoard runs the engine over the glyph mask, retrying with blurred
// variants when the first pass comes back empty, and returns the
// lowercased candidate words in board order.
func (d *Driver) ReadBoard(ctx context.Context, glyphs gocv.Mat) ([]string, error) {
	png, err := encodePNG(glyphs)
	if err != nil {
		return nil, err
	}
	text, err := d.engine.Recognize(ctx, png)
	if err != nil {
		return nil, err
	}

	for _, k := range blurKernels {
		if strings.TrimSpace(text) != "" {
			break
		}
		blurred := gocv.NewMat()
		gocv.GaussianBlur(glyphs, &blurred, k, 0, 0, gocv.BorderDefault)
		png, err = encodePNG(blurred)
		blurred.Close()
		if err != nil {
			return nil, err
		}
		text, err = d.engine.Recognize(ctx, png)
		if err != nil {
			return nil, err
		}
	}

	return ParseLines(text), nil
}

// ParseLines normalizes engine output: strip, lowercase, split on
// newlines, drop whitespace-only lines. Length checks are the
// validator's job.
func ParseLines(text string) []string {
	var words []string
	for _, line := range strings.Split(strings.ToLower(strings.TrimSpace(text)), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	return words
}

func encodePNG(m gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, m)
	if err != nil {
		return nil, fmt.Errorf("encode glyphs: %w", err)
	}
	defer buf.Close()
	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
