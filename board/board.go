// Package board locates the 6x5 Wordle grid in a screenshot and carves
// out a single compact glyph image for OCR. All pixel work happens on a
// grayscale copy; tile colors are never read, the scorer re-derives them
// from the solution.
package board

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"
)

var (
	ErrImageMalformed = errors.New("couldn't read that image")
	ErrBoardNotFound  = errors.New("couldn't find the game")
)

type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

const (
	rows      = 6
	cols      = 5
	tileCount = rows * cols

	maxPixel     = 255
	darkCellThr  = 30
	lightCellThr = 200
	charThr      = 200
	themeMedian  = 200
	vertexCount  = 4
)

// Detection owns the mats produced while finding the board. Close it
// when the glyph image has been extracted.
type Detection struct {
	Gray     gocv.Mat
	CellMask gocv.Mat
	Board    Board
}

type Board struct {
	Tiles      []image.Rectangle // row-major, index 0 is top-left
	Theme      Theme
	PlayedRows int
}

func (d *Detection) Close() {
	d.Gray.Close()
	d.CellMask.Close()
}

// Detect decodes the image, classifies the theme, and filters external
// contours of the cell mask down to the 30 tile rectangles.
func Detect(buf []byte) (*Detection, error) {
	gray, err := gocv.IMDecode(buf, gocv.IMReadGrayScale)
	if err != nil || gray.Empty() || gray.Rows() == 0 || gray.Cols() == 0 {
		gray.Close()
		if err == nil {
			err = errors.New("decoded to empty buffer")
		}
		return nil, fmt.Errorf("%w: %v", ErrImageMalformed, err)
	}

	theme := detectTheme(gray)
	mask := cellMask(gray, theme)

	tiles, err := tileRects(mask)
	if err != nil {
		gray.Close()
		mask.Close()
		return nil, err
	}

	d := &Detection{
		Gray:     gray,
		CellMask: mask,
		Board: Board{
			Tiles:      tiles,
			Theme:      theme,
			PlayedRows: playedRows(mask, tiles),
		},
	}
	return d, nil
}

// detectTheme takes the median pixel of the topmost row. The header area
// is reliably page background, unlike tile pixels which vary by state.
func detectTheme(gray gocv.Mat) Theme {
	w := gray.Cols()
	row := make([]int, w)
	for x := 0; x < w; x++ {
		row[x] = int(gray.GetUCharAt(0, x))
	}
	sort.Ints(row)
	if row[w/2] < themeMedian {
		return Dark
	}
	return Light
}

// cellMask makes tile interiors foreground regardless of fill state.
func cellMask(gray gocv.Mat, theme Theme) gocv.Mat {
	mask := gocv.NewMat()
	if theme == Dark {
		gocv.Threshold(gray, &mask, darkCellThr, maxPixel, gocv.ThresholdBinary)
	} else {
		gocv.Threshold(gray, &mask, lightCellThr, maxPixel, gocv.ThresholdBinaryInv)
	}
	return mask
}

// tileRects keeps external contours that are 4-vertex near-squares.
// Anything other than exactly 30 survivors means we are not looking at
// a Wordle board.
func tileRects(mask gocv.Mat) ([]image.Rectangle, error) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var tiles []image.Rectangle
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		peri := gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, 0.04*peri, true)
		vertices := approx.Size()
		rect := gocv.BoundingRect(approx)
		approx.Close()
		if vertices != vertexCount || !squareEnough(rect) {
			continue
		}
		tiles = append(tiles, rect)
	}
	if len(tiles) != tileCount {
		return nil, fmt.Errorf("%w: %d square contours, want %d", ErrBoardNotFound, len(tiles), tileCount)
	}

	// contour extraction walks bottom-right to top-left; flip to
	// row-major from the top-left
	reverse(tiles)
	return tiles, nil
}

// playedRows probes an interior pixel of each row's first tile in the
// cell mask; the first row whose probe is background ends the game.
func playedRows(mask gocv.Mat, tiles []image.Rectangle) int {
	for r := 0; r < rows; r++ {
		p := probePoint(tiles[r*cols])
		if mask.GetUCharAt(p.Y, p.X) == 0 {
			return r
		}
	}
	return rows
}
