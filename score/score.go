// Package score turns a sequence of Wordle guesses and the day's solution
// into per-cell marks and the aggregate counters the stats store folds in.
package score

import (
	"errors"
	"fmt"
	"strings"
)

// Mark is the outcome of a single board cell.
type Mark int

const (
	Incorrect Mark = iota
	Misplaced
	Correct
)

func (m Mark) String() string {
	switch m {
	case Correct:
		return "correct"
	case Misplaced:
		return "misplaced"
	default:
		return "incorrect"
	}
}

const (
	WordLen    = 5
	MaxGuesses = 6
)

var (
	ErrBadSolution = errors.New("solution must be 5 lowercase letters")
	ErrBadGuess    = errors.New("guess must be 5 lowercase letters")
	ErrNoGuesses   = errors.New("no guesses")
	ErrTooMany     = errors.New("more than 6 guesses")
)

// Game is the immutable result of scoring one submission.
type Game struct {
	Guesses  []string
	Solution string
	Marks    [][WordLen]Mark
	Won      bool

	TotalCorrect   int
	TotalMisplaced int

	// Unique counters credit each (column, letter) pair at most once
	// across all rows, so repeating a letter row after row does not
	// inflate a player's green/yellow rates.
	UniqueCorrect   int
	UniqueMisplaced int
	UniqueAll       int
}

func (g *Game) NumGuesses() int { return len(g.Guesses) }

// Score runs the two-pass Wordle algorithm over every guess.
func Score(guesses []string, solution string) (*Game, error) {
	if !isWord(solution) {
		return nil, fmt.Errorf("%w: %q", ErrBadSolution, solution)
	}
	if len(guesses) == 0 {
		return nil, ErrNoGuesses
	}
	if len(guesses) > MaxGuesses {
		return nil, fmt.Errorf("%w: got %d", ErrTooMany, len(guesses))
	}

	g := &Game{
		Guesses:  guesses,
		Solution: solution,
		Marks:    make([][WordLen]Mark, 0, len(guesses)),
	}
	var seen [WordLen]map[byte]bool
	for i := range seen {
		seen[i] = make(map[byte]bool)
	}

	for _, guess := range guesses {
		if !isWord(guess) {
			return nil, fmt.Errorf("%w: %q", ErrBadGuess, guess)
		}
		marks := scoreRow(guess, solution)
		g.Marks = append(g.Marks, marks)
		for i := 0; i < WordLen; i++ {
			switch marks[i] {
			case Correct:
				g.TotalCorrect++
				if !seen[i][guess[i]] {
					g.UniqueCorrect++
				}
			case Misplaced:
				g.TotalMisplaced++
				if !seen[i][guess[i]] {
					g.UniqueMisplaced++
				}
			}
			seen[i][guess[i]] = true
		}
	}

	for i := range seen {
		g.UniqueAll += len(seen[i])
	}
	g.Won = allCorrect(g.Marks[len(g.Marks)-1])
	return g, nil
}

// scoreRow marks one guess against the solution. Greens are assigned first
// and consume letter counts, so a duplicated guess letter never earns more
// credit than the solution has copies of it.
func scoreRow(guess, solution string) [WordLen]Mark {
	var marks [WordLen]Mark
	var counts [26]int
	for i := 0; i < WordLen; i++ {
		counts[solution[i]-'a']++
	}
	for i := 0; i < WordLen; i++ {
		if guess[i] == solution[i] {
			marks[i] = Correct
			counts[guess[i]-'a']--
		}
	}
	for i := 0; i < WordLen; i++ {
		if marks[i] == Correct {
			continue
		}
		if counts[guess[i]-'a'] > 0 {
			marks[i] = Misplaced
			counts[guess[i]-'a']--
		} else {
			marks[i] = Incorrect
		}
	}
	return marks
}

func allCorrect(marks [WordLen]Mark) bool {
	for _, m := range marks {
		if m != Correct {
			return false
		}
	}
	return true
}

func isWord(s string) bool {
	if len(s) != WordLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// Squares renders the marks as the shareable emoji grid.
func (g *Game) Squares() string {
	var b strings.Builder
	for r, marks := range g.Marks {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, m := range marks {
			switch m {
			case Correct:
				b.WriteString("🟩")
			case Misplaced:
				b.WriteString("🟨")
			default:
				b.WriteString("⬛")
			}
		}
	}
	return b.String()
}
