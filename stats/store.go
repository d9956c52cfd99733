// Package stats persists per-user Wordle aggregates in sqlite. Submit is
// the only mutator: it folds one scored game into a user's counters inside
// a single transaction and rejects a second submission on the same day.
package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/score"
)

var (
	ErrDoubleSubmit = errors.New("already submitted today")
	ErrUnknownUser  = errors.New("unknown user")
	ErrBadDate      = errors.New("bad date")
)

// Kind tells a caller whether Submit created the user's record or folded
// into an existing one.
type Kind int

const (
	KindNew Kind = iota
	KindExisting
)

// BaseStats is the slice of a user's record the reply composer needs.
type BaseStats struct {
	Games         int
	Wins          int
	GuessDist     [score.MaxGuesses]int
	CurrentStreak int
	MaxStreak     int
	WinRate       float64
	AvgGuesses    float64
}

// FullStats adds the raw counters and rates behind the !stats command.
type FullStats struct {
	BaseStats
	TotalGuesses int
	TotalGreens  int
	TotalYellows int
	TotalUniques int
	LastWin      Date
	LastSubmit   Date
	GreenRate    float64
	YellowRate   float64
}

type Store struct {
	db *sql.DB

	// allowResubmit drops the once-per-day guard. Test hook only.
	allowResubmit bool
}

type Option func(*Store)

func AllowResubmit() Option {
	return func(s *Store) { s.allowResubmit = true }
}

const schema = `
CREATE TABLE IF NOT EXISTS UserData (
	username     TEXT PRIMARY KEY,
	games        INTEGER NOT NULL,
	wins         INTEGER NOT NULL,
	guesses      INTEGER NOT NULL,
	greens       INTEGER NOT NULL,
	yellows      INTEGER NOT NULL,
	uniques      INTEGER NOT NULL,
	guess_distro TEXT    NOT NULL,
	last_win     INTEGER NOT NULL,
	last_submit  INTEGER NOT NULL,
	curr_streak  INTEGER NOT NULL,
	max_streak   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS UserStats (
	username    TEXT PRIMARY KEY REFERENCES UserData(username),
	win_rate    REAL NOT NULL,
	avg_guesses REAL NOT NULL,
	green_rate  REAL NOT NULL,
	yellow_rate REAL NOT NULL
);`

// Open opens or creates the store at path. Use ":memory:" for tests.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	// modernc sqlite serializes writers; a second writer on one
	// connection corrupts nothing but returns SQLITE_BUSY. One
	// connection keeps Submit calls strictly ordered.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s := &Store{db: db}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// row mirrors the UserData table.
type row struct {
	games, wins              int
	guesses, greens, yellows int
	uniques                  int
	distro                   [score.MaxGuesses]int
	lastWin, lastSubmit      Date
	currStreak, maxStreak    int
}

// Submit folds one scored game into the user's aggregate. All derived
// counters commit in one transaction; a failed submit leaves the record
// exactly as it was.
func (s *Store) Submit(ctx context.Context, user string, date Date, g *score.Game) (BaseStats, Kind, error) {
	if !date.Valid() {
		return BaseStats{}, KindNew, fmt.Errorf("%w: %d", ErrBadDate, int(date))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BaseStats{}, KindNew, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	prev, err := readRow(ctx, tx, user)
	switch {
	case errors.Is(err, ErrUnknownUser):
		r := newRow(date, g)
		if err := insertRow(ctx, tx, user, r); err != nil {
			return BaseStats{}, KindNew, err
		}
		if err := tx.Commit(); err != nil {
			return BaseStats{}, KindNew, fmt.Errorf("commit: %w", err)
		}
		return r.base(), KindNew, nil
	case err != nil:
		return BaseStats{}, KindNew, err
	}

	if prev.lastSubmit == date && !s.allowResubmit {
		return BaseStats{}, KindExisting, fmt.Errorf("%w: %s", ErrDoubleSubmit, date)
	}

	next := prev.fold(date, g)
	if err := updateRow(ctx, tx, user, next); err != nil {
		return BaseStats{}, KindExisting, err
	}
	if err := tx.Commit(); err != nil {
		return BaseStats{}, KindExisting, fmt.Errorf("commit: %w", err)
	}
	return next.base(), KindExisting, nil
}

func newRow(date Date, g *score.Game) row {
	r := row{
		games:      1,
		guesses:    g.NumGuesses(),
		greens:     g.UniqueCorrect,
		yellows:    g.UniqueMisplaced,
		uniques:    g.UniqueAll,
		lastSubmit: date,
	}
	if g.Won {
		r.wins = 1
		r.distro[g.NumGuesses()-1] = 1
		r.lastWin = date
		r.currStreak = 1
		r.maxStreak = 1
	}
	return r
}

func (r row) fold(date Date, g *score.Game) row {
	next := r
	next.games++
	next.guesses += g.NumGuesses()
	next.greens += g.UniqueCorrect
	next.yellows += g.UniqueMisplaced
	next.uniques += g.UniqueAll
	if g.Won {
		next.wins++
		next.distro[g.NumGuesses()-1]++
		if r.lastWin != 0 && date.DaysSince(r.lastWin) == 1 {
			next.currStreak++
		} else {
			next.currStreak = 1
		}
		if next.currStreak > next.maxStreak {
			next.maxStreak = next.currStreak
		}
		next.lastWin = date
	} else {
		next.currStreak = 0
	}
	next.lastSubmit = date
	return next
}

func (r row) base() BaseStats {
	b := BaseStats{
		Games:         r.games,
		Wins:          r.wins,
		GuessDist:     r.distro,
		CurrentStreak: r.currStreak,
		MaxStreak:     r.maxStreak,
	}
	b.WinRate, b.AvgGuesses = r.winRate(), r.avgGuesses()
	return b
}

func (r row) winRate() float64    { return float64(r.wins) / float64(r.games) }
func (r row) avgGuesses() float64 { return float64(r.guesses) / float64(r.games) }

func (r row) greenRate() float64 {
	if r.uniques == 0 {
		return 0
	}
	return float64(r.greens) / float64(r.uniques)
}

func (r row) yellowRate() float64 {
	if r.uniques == 0 {
		return 0
	}
	return float64(r.yellows) / float64(r.uniques)
}

func readRow(ctx context.Context, tx *sql.Tx, user string) (row, error) {
	var r row
	var distro string
	err := tx.QueryRowContext(ctx, `
		SELECT games, wins, guesses, greens, yellows, uniques,
		       guess_distro, last_win, last_submit, curr_streak, max_streak
		FROM UserData WHERE username = ?`, user).Scan(
		&r.games, &r.wins, &r.guesses, &r.greens, &r.yellows, &r.uniques,
		&distro, &r.lastWin, &r.lastSubmit, &r.currStreak, &r.maxStreak)
	if errors.Is(err, sql.ErrNoRows) {
		return row{}, fmt.Errorf("%w: %q", ErrUnknownUser, user)
	}
	if err != nil {
		return row{}, fmt.Errorf("read %q: %w", user, err)
	}
	r.distro, err = ParseDistro(distro)
	if err != nil {
		return row{}, fmt.Errorf("read %q: %w", user, err)
	}
	return r, nil
}

func insertRow(ctx context.Context, tx *sql.Tx, user string, r row) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO UserData (username, games, wins, guesses, greens, yellows,
			uniques, guess_distro, last_win, last_submit, curr_streak, max_streak)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user, r.games, r.wins, r.guesses, r.greens, r.yellows, r.uniques,
		FormatDistro(r.distro), int(r.lastWin), int(r.lastSubmit), r.currStreak, r.maxStreak,
	); err != nil {
		return fmt.Errorf("insert %q: %w", user, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO UserStats (username, win_rate, avg_guesses, green_rate, yellow_rate)
		VALUES (?, ?, ?, ?, ?)`,
		user, r.winRate(), r.avgGuesses(), r.greenRate(), r.yellowRate(),
	); err != nil {
		return fmt.Errorf("insert stats %q: %w", user, err)
	}
	return nil
}

func updateRow(ctx context.Context, tx *sql.Tx, user string, r row) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE UserData SET games=?, wins=?, guesses=?, greens=?, yellows=?,
			uniques=?, guess_distro=?, last_win=?, last_submit=?,
			curr_streak=?, max_streak=?
		WHERE username=?`,
		r.games, r.wins, r.guesses, r.greens, r.yellows, r.uniques,
		FormatDistro(r.distro), int(r.lastWin), int(r.lastSubmit), r.currStreak, r.maxStreak,
		user,
	); err != nil {
		return fmt.Errorf("update %q: %w", user, err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE UserStats SET win_rate=?, avg_guesses=?, green_rate=?, yellow_rate=?
		WHERE username=?`,
		r.winRate(), r.avgGuesses(), r.greenRate(), r.yellowRate(), user,
	); err != nil {
		return fmt.Errorf("update stats %q: %w", user, err)
	}
	return nil
}

// FullStats returns everything the store knows about a user.
func (s *Store) FullStats(ctx context.Context, user string) (FullStats, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return FullStats{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	r, err := readRow(ctx, tx, user)
	if err != nil {
		return FullStats{}, err
	}
	return FullStats{
		BaseStats:    r.base(),
		TotalGuesses: r.guesses,
		TotalGreens:  r.greens,
		TotalYellows: r.yellows,
		TotalUniques: r.uniques,
		LastWin:      r.lastWin,
		LastSubmit:   r.lastSubmit,
		GreenRate:    r.greenRate(),
		YellowRate:   r.yellowRate(),
	}, nil
}

// FormatDistro renders the guess distribution as the six space-separated
// counts the UserData table stores, in order 1..6.
func FormatDistro(d [score.MaxGuesses]int) string {
	parts := make([]string, len(d))
	for i, n := range d {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func ParseDistro(s string) ([score.MaxGuesses]int, error) {
	var d [score.MaxGuesses]int
	parts := strings.Fields(s)
	if len(parts) != len(d) {
		return d, fmt.Errorf("guess_distro %q: want %d fields", s, len(d))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return d, fmt.Errorf("guess_distro %q: %w", s, err)
		}
		d[i] = n
	}
	return d, nil
}
