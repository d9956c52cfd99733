// Package bot is the chat front-end: it watches rooms for board
// screenshots, runs them through the pipeline, and replies with the
// scored game and the submitter's aggregates.
package bot

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/board"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/ocr"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/oracle"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/score"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/stats"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/wordbank"
)

// Reply is what gets sent back to the room: a short text line plus a
// structured field list, rendered as HTML where the transport allows.
type Reply struct {
	Text   string
	Fields []Field
}

type Field struct {
	Name  string
	Value string
}

// ComposeScored builds the reply for an accepted submission. Pure.
func ComposeScored(user string, g *score.Game, base stats.BaseStats, kind stats.Kind) Reply {
	result := fmt.Sprintf("X/%d", score.MaxGuesses)
	if g.Won {
		result = fmt.Sprintf("%d/%d", g.NumGuesses(), score.MaxGuesses)
	}
	text := fmt.Sprintf("%s got %s\n%s", user, result, g.Squares())
	if kind == stats.KindNew {
		text += "\nfirst submission recorded, welcome!"
	}
	return Reply{Text: text, Fields: statFields(base)}
}

// ComposeStats builds the !stats reply. Pure.
func ComposeStats(user string, full stats.FullStats) Reply {
	fields := statFields(full.BaseStats)
	fields = append(fields,
		Field{"Avg Guesses", fmt.Sprintf("%.2f", full.AvgGuesses)},
		Field{"Green Rate", fmt.Sprintf("%.1f%%", 100*full.GreenRate)},
		Field{"Yellow Rate", fmt.Sprintf("%.1f%%", 100*full.YellowRate)},
		Field{"Last Submitted", full.LastSubmit.String()},
	)
	return Reply{
		Text:   fmt.Sprintf("stats for %s", user),
		Fields: fields,
	}
}

func statFields(base stats.BaseStats) []Field {
	return []Field{
		{"Games Played", fmt.Sprintf("%d", base.Games)},
		{"Win Rate", fmt.Sprintf("%.1f%%", 100*base.WinRate)},
		{"Current Streak", fmt.Sprintf("%d", base.CurrentStreak)},
		{"Max Streak", fmt.Sprintf("%d", base.MaxStreak)},
		{"Guess Distribution", formatDistribution(base.GuessDist)},
	}
}

func formatDistribution(d [score.MaxGuesses]int) string {
	parts := make([]string, len(d))
	for i, n := range d {
		parts[i] = fmt.Sprintf("%d:%d", i+1, n)
	}
	return strings.Join(parts, " ")
}

// PlainText flattens a reply for transports without formatting.
func (r Reply) PlainText() string {
	var b strings.Builder
	b.WriteString(r.Text)
	for _, f := range r.Fields {
		fmt.Fprintf(&b, "\n%s: %s", f.Name, f.Value)
	}
	return b.String()
}

// HTML renders the reply for Matrix formatted bodies.
func (r Reply) HTML() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(html.EscapeString(r.Text), "\n", "<br>"))
	if len(r.Fields) > 0 {
		b.WriteString("<ul>")
		for _, f := range r.Fields {
			fmt.Fprintf(&b, "<li><b>%s</b>: %s</li>",
				html.EscapeString(f.Name), html.EscapeString(f.Value))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}

// UserMessage maps pipeline errors onto the short strings users see.
// Unexpected errors return "" and should only be logged.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, board.ErrImageMalformed):
		return "couldn't read that image"
	case errors.Is(err, board.ErrBoardNotFound):
		return "couldn't find the game"
	case errors.Is(err, wordbank.ErrInvalidGuess):
		return "invalid word detected"
	case errors.Is(err, ocr.ErrTimeout):
		return "reading the board took too long, try again"
	case errors.Is(err, stats.ErrDoubleSubmit):
		return "you already submit today's game"
	case errors.Is(err, stats.ErrUnknownUser):
		return "no games on record yet, submit a board first"
	case errors.Is(err, oracle.ErrUnavailable):
		return "couldn't look up the day's solution, try again later"
	default:
		return ""
	}
}
