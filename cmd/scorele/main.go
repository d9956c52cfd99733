// scorele scores a Wordle screenshot from the command line, without the
// chat transport. Useful for checking what the recognizer sees.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/ocr"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/oracle"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/recognizer"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/score"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/stats"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/wordbank"
)

type options struct {
	Image     string `short:"i" long:"image" required:"true" description:"screenshot to score"`
	Solution  string `short:"s" long:"solution" description:"the day's solution word"`
	Solutions string `short:"l" long:"solutions" description:"solution list file (YYYYMMDD word per line)"`
	Date      string `short:"d" long:"date" description:"date as YYYYMMDD, defaults to today"`
	Timeout   int    `short:"t" long:"timeout" default:"60" description:"seconds allowed for OCR"`
}

const (
	ansiGreen  = "\x1b[42m\x1b[30m"
	ansiYellow = "\x1b[43m\x1b[30m"
	ansiGray   = "\x1b[100m\x1b[37m"
	ansiReset  = "\x1b[0m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var o options
	if _, err := flags.Parse(&o); err != nil {
		os.Exit(1)
	}

	date := stats.DateOf(time.Now())
	if o.Date != "" {
		n, err := strconv.Atoi(o.Date)
		if err != nil || !stats.Date(n).Valid() {
			return fmt.Errorf("bad date %q, want YYYYMMDD", o.Date)
		}
		date = stats.Date(n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(o.Timeout)*time.Second)
	defer cancel()

	solution, err := resolveSolution(ctx, o, date)
	if err != nil {
		return err
	}

	img, err := os.ReadFile(o.Image)
	if err != nil {
		return err
	}

	engine, err := ocr.NewTesseract()
	if err != nil {
		return fmt.Errorf("init tesseract: %w", err)
	}
	defer engine.Close()

	guesses, err := recognizer.New(engine, loadBank(ctx)).Recognize(ctx, img)
	if err != nil {
		return err
	}

	g, err := score.Score(guesses, solution)
	if err != nil {
		return err
	}

	printBoard(g)
	if g.Won {
		fmt.Printf("\nsolved in %d/%d\n", g.NumGuesses(), score.MaxGuesses)
	} else {
		fmt.Printf("\nnot solved, X/%d\n", score.MaxGuesses)
	}
	return nil
}

// loadBank fetches the full accepted-guess list, caching it next to the
// user's other tool caches. Offline it degrades to the embedded list.
func loadBank(ctx context.Context) *wordbank.Bank {
	var cache string
	if dir, err := os.UserCacheDir(); err == nil {
		cache = filepath.Join(dir, "scorele", "words.txt")
	}
	return wordbank.Load(ctx, wordbank.FetchOptions{
		CachePath: cache,
		MaxAge:    30 * 24 * time.Hour,
	})
}

func resolveSolution(ctx context.Context, o options, date stats.Date) (string, error) {
	switch {
	case o.Solution != "":
		return o.Solution, nil
	case o.Solutions != "":
		f, err := os.Open(o.Solutions)
		if err != nil {
			return "", err
		}
		defer f.Close()
		l, err := oracle.NewList(f)
		if err != nil {
			return "", err
		}
		return l.SolutionFor(ctx, date)
	default:
		return oracle.NewNYT().SolutionFor(ctx, date)
	}
}

func printBoard(g *score.Game) {
	for r, guess := range g.Guesses {
		for i := 0; i < score.WordLen; i++ {
			var color string
			switch g.Marks[r][i] {
			case score.Correct:
				color = ansiGreen
			case score.Misplaced:
				color = ansiYellow
			default:
				color = ansiGray
			}
			fmt.Printf("%s %c %s", color, guess[i]-'a'+'A', ansiReset)
		}
		fmt.Printf("\n")
	}
}
