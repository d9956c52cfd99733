package board

import "image"

// squareEnough accepts rectangles whose sides differ by at most 1.5% of
// their combined length. Tiles survive scaling and mild compression;
// text glyphs and scrollbar artifacts do not.
func squareEnough(r image.Rectangle) bool {
	w, h := r.Dx(), r.Dy()
	diff := w - h
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) <= 0.015*float64(w+h)
}

// probePoint is an interior sample safely inside the tile border:
// a quarter tile-width in from the top-left corner.
func probePoint(r image.Rectangle) image.Point {
	q := r.Dx() / 4
	return image.Pt(r.Min.X+q, r.Min.Y+q)
}

// columnSpan is the central half of a tile, x+w/4 to x+3w/4. Cropping
// columns to this span removes the inter-tile gaps that make OCR
// mis-segment the row.
func columnSpan(r image.Rectangle) (x0, x1 int) {
	w := r.Dx()
	return r.Min.X + w/4, r.Min.X + 3*w/4
}

// verticalBounds is the y-range covered by any tile.
func verticalBounds(tiles []image.Rectangle) (minY, maxY int) {
	minY, maxY = tiles[0].Min.Y, tiles[0].Max.Y
	for _, t := range tiles[1:] {
		if t.Min.Y < minY {
			minY = t.Min.Y
		}
		if t.Max.Y > maxY {
			maxY = t.Max.Y
		}
	}
	return minY, maxY
}

func reverse(tiles []image.Rectangle) {
	for i, j := 0, len(tiles)-1; i < j; i, j = i+1, j-1 {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}
