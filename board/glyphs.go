package board

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ExtractGlyphs builds the single image handed to OCR: the central half
// of each of the five columns, concatenated side by side and clipped
// vertically to the board. The character mask uses the same threshold in
// both themes because letters are light-on-fill either way once
// inverted.
func ExtractGlyphs(d *Detection) (gocv.Mat, error) {
	charMask := gocv.NewMat()
	defer charMask.Close()
	gocv.Threshold(d.Gray, &charMask, charThr, maxPixel, gocv.ThresholdBinaryInv)

	minY, maxY := verticalBounds(d.Board.Tiles)
	bounds := image.Rect(0, 0, charMask.Cols(), charMask.Rows())

	out := gocv.NewMat()
	for c := 0; c < cols; c++ {
		x0, x1 := columnSpan(d.Board.Tiles[c])
		crop := image.Rect(x0, minY, x1, maxY).Intersect(bounds)
		if crop.Empty() {
			out.Close()
			return gocv.NewMat(), fmt.Errorf("%w: column %d outside image", ErrBoardNotFound, c)
		}
		region := charMask.Region(crop)
		if out.Empty() {
			region.CopyTo(&out)
		} else {
			joined := gocv.NewMat()
			gocv.Hconcat(out, region, &joined)
			out.Close()
			out = joined
		}
		region.Close()
	}

	if d.Board.Theme == Light {
		bridgeBlankScanlines(&out)
	}
	return out, nil
}

// bridgeBlankScanlines fills any all-background scanline so OCR does not
// read faint cross-tile gaps as paragraph breaks. Light theme only; the
// dark theme's fills already bridge the rows.
func bridgeBlankScanlines(mask *gocv.Mat) {
	w := mask.Cols()
	for y := 0; y < mask.Rows(); y++ {
		line := mask.Region(image.Rect(0, y, w, y+1))
		if gocv.CountNonZero(line) == 0 {
			line.SetTo(gocv.NewScalar(maxPixel, 0, 0, 0))
		}
		line.Close()
	}
}
