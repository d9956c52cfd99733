// Package oracle answers "what was the solution on this date". The bot
// scores a submission against the word effective on the day the user
// played, so implementations are keyed by calendar date, never by "now".
package oracle

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/stats"
)

var ErrUnavailable = errors.New("solution unavailable")

type Oracle interface {
	SolutionFor(ctx context.Context, date stats.Date) (string, error)
}

// Cached wraps an Oracle with a small per-date LRU so that one day's
// lookup hits the upstream at most once.
type Cached struct {
	inner Oracle
	cache *lru.Cache
}

func NewCached(inner Oracle, size int) *Cached {
	if size <= 0 {
		size = 4
	}
	c, err := lru.New(size)
	if err != nil {
		panic(err) // only fails for size <= 0
	}
	return &Cached{inner: inner, cache: c}
}

func (c *Cached) SolutionFor(ctx context.Context, date stats.Date) (string, error) {
	if w, ok := c.cache.Get(date); ok {
		return w.(string), nil
	}
	w, err := c.inner.SolutionFor(ctx, date)
	if err != nil {
		return "", err
	}
	c.cache.Add(date, w)
	return w, nil
}
