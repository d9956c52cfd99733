// Package wordbank holds the set of words the game accepts as guesses.
// OCR output is checked against this set so that misreads never reach the
// scorer. The canonical list is fetched over HTTP and cached on disk; a
// bundled list serves when neither is available.
package wordbank

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed words.txt
var bundled embed.FS

var ErrInvalidGuess = errors.New("invalid word detected")

// Bank is a read-only validity set, safe to share across goroutines
// after construction.
type Bank struct {
	words map[string]struct{}
}

// New builds a bank from the given words, keeping only 5-letter
// lowercase entries.
func New(words []string) *Bank {
	b := &Bank{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if isGuessWord(w) {
			b.words[w] = struct{}{}
		}
	}
	return b
}

// Bundled returns the bank backed by the word list compiled into the
// binary.
func Bundled() *Bank {
	f, err := bundled.Open("words.txt")
	if err != nil {
		panic(fmt.Sprintf("bundled word list: %v", err))
	}
	defer f.Close()
	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	return New(words)
}

func (b *Bank) Valid(word string) bool {
	_, ok := b.words[strings.ToLower(word)]
	return ok
}

// Check returns ErrInvalidGuess for any word the bank does not accept.
func (b *Bank) Check(word string) error {
	if !b.Valid(word) {
		return fmt.Errorf("%w: %q", ErrInvalidGuess, word)
	}
	return nil
}

func (b *Bank) Len() int { return len(b.words) }

func isGuessWord(w string) bool {
	if len(w) != 5 {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
