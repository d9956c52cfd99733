package wordbank

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBundled(t *testing.T) {
	t.Parallel()
	b := Bundled()
	require.Greater(t, b.Len(), 2000)
	for _, w := range []string{"crane", "abbey", "aback", "robot", "roost", "sweet"} {
		require.True(t, b.Valid(w), w)
	}
	require.False(t, b.Valid("zzzzz"))
	require.False(t, b.Valid("cran"))
}

// Words the game accepts as guesses but never uses as a solution still
// have to validate, or a legitimate screenshot gets rejected.
func TestBundledAcceptsGuessOnlyWords(t *testing.T) {
	t.Parallel()
	b := Bundled()
	for _, w := range []string{"adieu", "soare", "roate", "aahed", "crwth", "oater", "salet"} {
		require.True(t, b.Valid(w), w)
	}
}

func TestNewFilters(t *testing.T) {
	t.Parallel()
	b := New([]string{"CRANE", " slate ", "toolong", "abc", "ab1de", ""})
	require.Equal(t, 2, b.Len())
	require.True(t, b.Valid("crane"))
	require.True(t, b.Valid("SLATE"))
}

func TestCheck(t *testing.T) {
	t.Parallel()
	b := New([]string{"crane"})
	require.NoError(t, b.Check("crane"))
	require.ErrorIs(t, b.Check("qqqqq"), ErrInvalidGuess)
}

func TestFetch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("crane\nslate\nnotaword6\n"))
	}))
	defer srv.Close()

	cache := filepath.Join(t.TempDir(), "words.txt")
	b, err := Fetch(context.Background(), FetchOptions{URL: srv.URL, CachePath: cache})
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	// second load hits the cache even with the server gone
	srv.Close()
	b, err = Fetch(context.Background(), FetchOptions{URL: srv.URL, CachePath: cache, MaxAge: time.Hour})
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())
}

func TestFetchRejectsEmptyList(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("nothing useful here\n"))
	}))
	defer srv.Close()
	_, err := Fetch(context.Background(), FetchOptions{URL: srv.URL})
	require.Error(t, err)
}

func TestLoadFallsBackToBundled(t *testing.T) {
	t.Parallel()
	b := Load(context.Background(), FetchOptions{URL: "http://127.0.0.1:1/nope", CachePath: ""})
	require.Greater(t, b.Len(), 2000)
}

func TestLoadPrefersStaleCache(t *testing.T) {
	t.Parallel()
	cache := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(cache, []byte("crane\nslate\n"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(cache, old, old))

	b := Load(context.Background(), FetchOptions{
		URL:       "http://127.0.0.1:1/nope",
		CachePath: cache,
		MaxAge:    time.Hour,
	})
	require.Equal(t, 2, b.Len())
}
