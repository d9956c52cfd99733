package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/score"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func win(t *testing.T, numGuesses int) *score.Game {
	t.Helper()
	guesses := make([]string, numGuesses)
	for i := 0; i < numGuesses-1; i++ {
		guesses[i] = "roost"
	}
	guesses[numGuesses-1] = "robot"
	g, err := score.Score(guesses, "robot")
	require.NoError(t, err)
	require.True(t, g.Won)
	return g
}

func loss(t *testing.T) *score.Game {
	t.Helper()
	g, err := score.Score([]string{"roost", "roost", "roost", "roost", "roost", "roost"}, "robot")
	require.NoError(t, err)
	require.False(t, g.Won)
	return g
}

func TestDate(t *testing.T) {
	t.Parallel()
	d := DateOf(time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC))
	require.Equal(t, Date(20240301), d)
	require.Equal(t, "2024-03-01", d.String())
	require.True(t, d.Valid())
	require.False(t, Date(20240230).Valid())
	require.False(t, Date(0).Valid())

	// month and year boundaries are calendar deltas, not integer ones
	require.Equal(t, 1, Date(20240301).DaysSince(20240229))
	require.Equal(t, 1, Date(20240101).DaysSince(20231231))
	require.Equal(t, 2, Date(20230301).DaysSince(20230227))
	require.Equal(t, 0, Date(20240301).DaysSince(20240301))
}

func TestFirstSubmit(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	base, kind, err := s.Submit(ctx, "mitch", 20240301, win(t, 3))
	require.NoError(t, err)
	require.Equal(t, KindNew, kind)
	require.Equal(t, 1, base.Games)
	require.Equal(t, 1, base.Wins)
	require.Equal(t, [6]int{0, 0, 1, 0, 0, 0}, base.GuessDist)
	require.Equal(t, 1, base.CurrentStreak)
	require.Equal(t, 1, base.MaxStreak)
	require.Equal(t, 1.0, base.WinRate)
	require.Equal(t, 3.0, base.AvgGuesses)
}

func TestFirstSubmitLoss(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	base, kind, err := s.Submit(ctx, "mitch", 20240301, loss(t))
	require.NoError(t, err)
	require.Equal(t, KindNew, kind)
	require.Equal(t, 1, base.Games)
	require.Equal(t, 0, base.Wins)
	require.Equal(t, [6]int{}, base.GuessDist)
	require.Equal(t, 0, base.CurrentStreak)
	require.Equal(t, 0, base.MaxStreak)

	full, err := s.FullStats(ctx, "mitch")
	require.NoError(t, err)
	require.Equal(t, Date(0), full.LastWin)
	require.Equal(t, Date(20240301), full.LastSubmit)
}

func TestConsecutiveWinsStreak(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Submit(ctx, "mitch", 20240301, win(t, 3))
	require.NoError(t, err)
	base, kind, err := s.Submit(ctx, "mitch", 20240302, win(t, 3))
	require.NoError(t, err)
	require.Equal(t, KindExisting, kind)
	require.Equal(t, 2, base.CurrentStreak)
	require.Equal(t, 2, base.MaxStreak)
	require.Equal(t, [6]int{0, 0, 2, 0, 0, 0}, base.GuessDist)
	require.Equal(t, 2, base.Games)
	require.Equal(t, 2, base.Wins)
}

func TestStreakAcrossMonthBoundary(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Submit(ctx, "mitch", 20240229, win(t, 4))
	require.NoError(t, err)
	base, _, err := s.Submit(ctx, "mitch", 20240301, win(t, 4))
	require.NoError(t, err)
	require.Equal(t, 2, base.CurrentStreak)
}

func TestGapResetsStreakToOne(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Submit(ctx, "mitch", 20240301, win(t, 2))
	require.NoError(t, err)
	base, _, err := s.Submit(ctx, "mitch", 20240305, win(t, 2))
	require.NoError(t, err)
	require.Equal(t, 1, base.CurrentStreak)
	require.Equal(t, 1, base.MaxStreak)
}

func TestLossResetsStreakToZero(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	day := Date(20240301)
	for i := 0; i < 4; i++ {
		_, _, err := s.Submit(ctx, "mitch", day, win(t, 3))
		require.NoError(t, err)
		day = DateOf(day.Time().AddDate(0, 0, 1))
	}
	base, _, err := s.Submit(ctx, "mitch", day, loss(t))
	require.NoError(t, err)
	require.Equal(t, 0, base.CurrentStreak)
	require.Equal(t, 4, base.MaxStreak)
}

func TestDoubleSubmit(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	first, _, err := s.Submit(ctx, "mitch", 20240302, win(t, 3))
	require.NoError(t, err)
	_, _, err = s.Submit(ctx, "mitch", 20240302, win(t, 2))
	require.ErrorIs(t, err, ErrDoubleSubmit)

	full, err := s.FullStats(ctx, "mitch")
	require.NoError(t, err)
	require.Equal(t, first, full.BaseStats)
	require.Equal(t, 1, full.Games)
}

func TestAllowResubmit(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, AllowResubmit())
	ctx := context.Background()

	_, _, err := s.Submit(ctx, "mitch", 20240302, win(t, 3))
	require.NoError(t, err)
	base, _, err := s.Submit(ctx, "mitch", 20240302, win(t, 3))
	require.NoError(t, err)
	require.Equal(t, 2, base.Games)
}

func TestRatesTrackCounters(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Submit(ctx, "mitch", 20240301, win(t, 3))
	require.NoError(t, err)
	_, _, err = s.Submit(ctx, "mitch", 20240302, loss(t))
	require.NoError(t, err)

	full, err := s.FullStats(ctx, "mitch")
	require.NoError(t, err)
	require.Equal(t, float64(full.Wins)/float64(full.Games), full.WinRate)
	require.Equal(t, float64(full.TotalGuesses)/float64(full.Games), full.AvgGuesses)
	require.Equal(t, float64(full.TotalGreens)/float64(full.TotalUniques), full.GreenRate)
	require.Equal(t, float64(full.TotalYellows)/float64(full.TotalUniques), full.YellowRate)
}

func TestUsersIndependent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Submit(ctx, "mitch", 20240301, win(t, 3))
	require.NoError(t, err)
	base, kind, err := s.Submit(ctx, "sam", 20240301, loss(t))
	require.NoError(t, err)
	require.Equal(t, KindNew, kind)
	require.Equal(t, 1, base.Games)

	_, err = s.FullStats(ctx, "nobody")
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestSubmitRejectsBadDate(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	_, _, err := s.Submit(context.Background(), "mitch", 20241399, win(t, 3))
	require.ErrorIs(t, err, ErrBadDate)
}

func TestDistroRoundTrip(t *testing.T) {
	t.Parallel()
	d := [6]int{0, 3, 11, 7, 2, 1}
	s := FormatDistro(d)
	require.Equal(t, "0 3 11 7 2 1", s)
	got, err := ParseDistro(s)
	require.NoError(t, err)
	require.Equal(t, d, got)

	_, err = ParseDistro("1 2 3")
	require.Error(t, err)
	_, err = ParseDistro("a b c d e f")
	require.Error(t, err)
}

func TestPersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	path := t.TempDir() + "/stats.db"
	s, err := Open(path)
	require.NoError(t, err)
	ctx := context.Background()
	_, _, err = s.Submit(ctx, "mitch", 20240301, win(t, 5))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	full, err := s.FullStats(ctx, "mitch")
	require.NoError(t, err)
	require.Equal(t, 1, full.Games)
	require.Equal(t, [6]int{0, 0, 0, 0, 1, 0}, full.GuessDist)
}
