package bot

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/oracle"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/score"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/stats"
)

// Guesser is the recognizer's surface, narrowed so tests can fake the
// whole image pipeline.
type Guesser interface {
	Recognize(ctx context.Context, img []byte) ([]string, error)
}

// Handler scores one submission end to end. It is stateless apart from
// the store and safe for concurrent use.
type Handler struct {
	Guesser  Guesser
	Oracle   oracle.Oracle
	Store    *stats.Store
	Location *time.Location
}

// HandleSubmission runs oracle lookup, recognition, scoring, and the
// stats commit, in that order. The solution is resolved for the day the
// user played, taken from the message timestamp in the bot's timezone,
// so a submission crossing midnight scores against the right word.
func (h *Handler) HandleSubmission(ctx context.Context, user string, sentAt time.Time, img []byte) (Reply, error) {
	id := ksuid.New().String()
	loc := h.Location
	if loc == nil {
		loc = time.Local
	}
	date := stats.DateOf(sentAt.In(loc))
	log.Printf("submission %s: user=%s date=%s bytes=%d", id, user, date, len(img))

	solution, err := h.Oracle.SolutionFor(ctx, date)
	if err != nil {
		return Reply{}, err
	}

	guesses, err := h.Guesser.Recognize(ctx, img)
	if err != nil {
		return Reply{}, err
	}

	g, err := score.Score(guesses, solution)
	if err != nil {
		return Reply{}, err
	}

	// past this point the aggregate is authoritative even if the reply
	// is lost; do not commit after cancellation
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	base, kind, err := h.Store.Submit(ctx, user, date, g)
	if err != nil {
		return Reply{}, err
	}
	log.Printf("submission %s: accepted guesses=%d won=%v kind=%d", id, g.NumGuesses(), g.Won, kind)
	return ComposeScored(user, g, base, kind), nil
}

// HandleStats answers the !stats command.
func (h *Handler) HandleStats(ctx context.Context, user string) (Reply, error) {
	full, err := h.Store.FullStats(ctx, user)
	if err != nil {
		return Reply{}, err
	}
	return ComposeStats(user, full), nil
}
