package oracle

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/stats"
)

// List serves solutions from a preloaded table, for offline scoring and
// tests. Input lines are "YYYYMMDD word"; blank lines and #-comments are
// skipped.
type List struct {
	byDate map[stats.Date]string
}

func NewList(r io.Reader) (*List, error) {
	l := &List{byDate: make(map[stats.Date]string)}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("solution list line %d: want \"YYYYMMDD word\", got %q", line, text)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || !stats.Date(n).Valid() {
			return nil, fmt.Errorf("solution list line %d: bad date %q", line, fields[0])
		}
		word := strings.ToLower(fields[1])
		if len(word) != 5 {
			return nil, fmt.Errorf("solution list line %d: bad word %q", line, fields[1])
		}
		l.byDate[stats.Date(n)] = word
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("solution list: %w", err)
	}
	return l, nil
}

// Fixed returns an oracle that answers word for every date. Test helper.
func Fixed(word string) Oracle { return fixed(word) }

type fixed string

func (f fixed) SolutionFor(context.Context, stats.Date) (string, error) {
	return string(f), nil
}

func (l *List) SolutionFor(_ context.Context, date stats.Date) (string, error) {
	w, ok := l.byDate[date]
	if !ok {
		return "", fmt.Errorf("%w: no entry for %s", ErrUnavailable, date)
	}
	return w, nil
}
