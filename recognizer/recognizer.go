// Package recognizer is the full screenshot-to-guesses pipeline:
// sniff, decode, locate tiles, extract glyphs, OCR, validate.
package recognizer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/board"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/ocr"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/score"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/wordbank"
)

type Recognizer struct {
	driver *ocr.Driver
	bank   *wordbank.Bank
}

func New(engine ocr.Engine, bank *wordbank.Bank) *Recognizer {
	return &Recognizer{driver: ocr.NewDriver(engine), bank: bank}
}

// Recognize returns the ordered, validated guesses read off the board.
func (r *Recognizer) Recognize(ctx context.Context, img []byte) ([]string, error) {
	if kind := mimetype.Detect(img); !strings.HasPrefix(kind.String(), "image/") {
		return nil, fmt.Errorf("%w: attachment is %s", board.ErrImageMalformed, kind)
	}

	d, err := board.Detect(img)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	if d.Board.PlayedRows == 0 {
		return nil, fmt.Errorf("%w: board has no played rows", board.ErrBoardNotFound)
	}

	glyphs, err := board.ExtractGlyphs(d)
	if err != nil {
		return nil, err
	}
	defer glyphs.Close()

	words, err := r.driver.ReadBoard(ctx, glyphs)
	if err != nil {
		return nil, err
	}
	// the tile mask's playedness count is ground truth: a read that
	// dropped or split a row must not be scored, a short board would
	// commit a wrong guess count into the aggregate
	if len(words) != d.Board.PlayedRows {
		log.Printf("recognizer: OCR read %d words for %d played rows", len(words), d.Board.PlayedRows)
		return nil, fmt.Errorf("%w: read %d words from %d played rows",
			wordbank.ErrInvalidGuess, len(words), d.Board.PlayedRows)
	}

	for _, w := range words {
		if len(w) != score.WordLen {
			return nil, fmt.Errorf("%w: %q", wordbank.ErrInvalidGuess, w)
		}
		if err := r.bank.Check(w); err != nil {
			return nil, err
		}
	}
	return words, nil
}
