package oracle

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/stats"
)

// Archive scrapes a past-answers page: any table whose rows carry a date
// in one cell and the answer in another. It is the fallback when the
// game site's JSON endpoint is unreachable.
type Archive struct {
	URL      string
	Selector string // row selector, defaults to "table tr"
	Client   *http.Client
}

var answerRE = regexp.MustCompile(`\b[A-Za-z]{5}\b`)

var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

func (a *Archive) SolutionFor(ctx context.Context, date stats.Date) (string, error) {
	doc, err := a.fetch(ctx)
	if err != nil {
		return "", err
	}
	selector := a.Selector
	if selector == "" {
		selector = "table tr"
	}

	var found string
	doc.Find(selector).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		rowDate, ok := parseCellDate(cells.First().Text())
		if !ok || rowDate != date {
			return true
		}
		// answer is the last cell that reads as a bare 5-letter word
		for i := cells.Length() - 1; i >= 1; i-- {
			text := strings.TrimSpace(cells.Eq(i).Text())
			if w := answerRE.FindString(text); w != "" && len(text) < 24 {
				found = strings.ToLower(w)
				return false
			}
		}
		return true
	})
	if found == "" {
		return "", fmt.Errorf("%w: no entry for %s at %s", ErrUnavailable, date, a.URL)
	}
	return found, nil
}

func (a *Archive) fetch(ctx context.Context) (*goquery.Document, error) {
	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrUnavailable, a.URL, resp.Status)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrUnavailable, err)
	}
	return doc, nil
}

func parseCellDate(text string) (stats.Date, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return stats.DateOf(t), true
		}
	}
	return 0, false
}
