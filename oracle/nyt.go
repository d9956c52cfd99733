package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/stats"
)

const DefaultNYTBase = "https://www.nytimes.com/svc/wordle/v2"

// NYT queries the game site's per-day JSON endpoint,
// e.g. GET {base}/2024-03-01.json.
type NYT struct {
	Base   string
	Client *http.Client
}

func NewNYT() *NYT {
	return &NYT{Base: DefaultNYTBase, Client: &http.Client{Timeout: 15 * time.Second}}
}

func (n *NYT) SolutionFor(ctx context.Context, date stats.Date) (string, error) {
	base := n.Base
	if base == "" {
		base = DefaultNYTBase
	}
	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	url := fmt.Sprintf("%s/%s.json", base, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %s", ErrUnavailable, url, resp.Status)
	}

	var payload struct {
		Solution string `json:"solution"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	w := strings.ToLower(strings.TrimSpace(payload.Solution))
	if len(w) != 5 {
		return "", fmt.Errorf("%w: bad solution %q for %s", ErrUnavailable, payload.Solution, date)
	}
	return w, nil
}
