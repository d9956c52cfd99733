package board

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestSquareEnough(t *testing.T) {
	t.Parallel()
	require.True(t, squareEnough(image.Rect(0, 0, 100, 100)))
	require.True(t, squareEnough(image.Rect(10, 10, 110, 112))) // 2 <= 0.015*202
	require.True(t, squareEnough(image.Rect(0, 0, 62, 60)))
	require.False(t, squareEnough(image.Rect(0, 0, 100, 110)))
	require.False(t, squareEnough(image.Rect(0, 0, 40, 20)))
}

func TestProbePoint(t *testing.T) {
	t.Parallel()
	p := probePoint(image.Rect(100, 200, 160, 260))
	require.Equal(t, image.Pt(115, 215), p)
}

func TestColumnSpan(t *testing.T) {
	t.Parallel()
	x0, x1 := columnSpan(image.Rect(100, 0, 160, 60))
	require.Equal(t, 115, x0)
	require.Equal(t, 145, x1)
}

func TestVerticalBounds(t *testing.T) {
	t.Parallel()
	minY, maxY := verticalBounds([]image.Rectangle{
		image.Rect(0, 50, 60, 110),
		image.Rect(70, 10, 130, 70),
		image.Rect(140, 200, 200, 260),
	})
	require.Equal(t, 10, minY)
	require.Equal(t, 260, maxY)
}

func TestReverse(t *testing.T) {
	t.Parallel()
	tiles := []image.Rectangle{
		image.Rect(2, 2, 3, 3),
		image.Rect(1, 1, 2, 2),
		image.Rect(0, 0, 1, 1),
	}
	reverse(tiles)
	require.Equal(t, image.Rect(0, 0, 1, 1), tiles[0])
	require.Equal(t, image.Rect(2, 2, 3, 3), tiles[2])
}

const (
	tileSize = 60
	tileGap  = 10
	margin   = 40
)

func tileRect(row, col int) image.Rectangle {
	x := margin + col*(tileSize+tileGap)
	y := margin + row*(tileSize+tileGap)
	return image.Rect(x, y, x+tileSize, y+tileSize)
}

// syntheticBoard draws a light-theme board: filled gray tiles for played
// rows, thin outlines for the rest, on a white page.
func syntheticBoard(t *testing.T, playedRows int) []byte {
	t.Helper()
	w := 2*margin + 5*tileSize + 4*tileGap
	h := 2*margin + 6*tileSize + 5*tileGap
	img := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	defer img.Close()
	img.SetTo(gocv.NewScalar(255, 0, 0, 0))

	for r := 0; r < 6; r++ {
		for c := 0; c < 5; c++ {
			rect := tileRect(r, c)
			if r < playedRows {
				gocv.Rectangle(&img, rect, color.RGBA{B: 120}, -1)
			} else {
				gocv.Rectangle(&img, rect, color.RGBA{B: 150}, 2)
			}
		}
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	require.NoError(t, err)
	defer buf.Close()
	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out
}

func TestDetectSyntheticBoard(t *testing.T) {
	d, err := Detect(syntheticBoard(t, 6))
	require.NoError(t, err)
	defer d.Close()

	require.Equal(t, Light, d.Board.Theme)
	require.Len(t, d.Board.Tiles, 30)
	require.Equal(t, 6, d.Board.PlayedRows)
	for _, tile := range d.Board.Tiles {
		require.True(t, squareEnough(tile))
	}
}

func TestDetectPartialBoard(t *testing.T) {
	d, err := Detect(syntheticBoard(t, 2))
	require.NoError(t, err)
	defer d.Close()
	require.Equal(t, 2, d.Board.PlayedRows)
}

func TestDetectRejectsGarbage(t *testing.T) {
	_, err := Detect([]byte("not an image at all"))
	require.ErrorIs(t, err, ErrImageMalformed)
	_, err = Detect(nil)
	require.ErrorIs(t, err, ErrImageMalformed)
}

func TestDetectRejectsNonBoard(t *testing.T) {
	img := gocv.NewMatWithSize(400, 400, gocv.MatTypeCV8U)
	defer img.Close()
	img.SetTo(gocv.NewScalar(255, 0, 0, 0))
	// 29 squares is not a board
	for i := 0; i < 29; i++ {
		x := 10 + (i%6)*65
		y := 10 + (i/6)*65
		gocv.Rectangle(&img, image.Rect(x, y, x+60, y+60), color.RGBA{B: 120}, -1)
	}
	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	require.NoError(t, err)
	defer buf.Close()

	_, err = Detect(buf.GetBytes())
	require.ErrorIs(t, err, ErrBoardNotFound)
}

func TestExtractGlyphsShape(t *testing.T) {
	d, err := Detect(syntheticBoard(t, 6))
	require.NoError(t, err)
	defer d.Close()

	glyphs, err := ExtractGlyphs(d)
	require.NoError(t, err)
	defer glyphs.Close()

	minY, maxY := verticalBounds(d.Board.Tiles)
	require.Equal(t, maxY-minY, glyphs.Rows())
	// five half-tile column crops
	total := 0
	for c := 0; c < 5; c++ {
		x0, x1 := columnSpan(d.Board.Tiles[c])
		total += x1 - x0
	}
	require.Equal(t, total, glyphs.Cols())
}
