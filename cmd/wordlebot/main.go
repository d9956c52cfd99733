// wordlebot is the Matrix front-end: it scores Wordle screenshots posted
// to its rooms and keeps per-user statistics.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/bot"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/ocr"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/oracle"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/recognizer"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/stats"
	"github.com/m-schmutz/Wordle-Scores-Bot-sub000/wordbank"
)

func mustEnv(key string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		log.Fatalf("missing env var %s", key)
	}
	return val
}

func parseIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("bad %s=%q: %v", key, raw, err)
	}
	return n
}

func parseBoolEnv(key string) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return raw == "1" || raw == "true" || raw == "yes"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bot stopped: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := bot.Config{
		Homeserver: mustEnv("MATRIX_HOMESERVER"),
		User:       mustEnv("MATRIX_USER"),
		Password:   mustEnv("MATRIX_PASS"),
		Room:       strings.TrimSpace(os.Getenv("MATRIX_ROOM")),
		Timeout:    time.Duration(parseIntEnv("WORDLE_TIMEOUT_SECONDS", 60)) * time.Second,
		Workers:    parseIntEnv("WORDLE_WORKERS", 2),
	}

	dbPath := strings.TrimSpace(os.Getenv("WORDLE_DB"))
	if dbPath == "" {
		dbPath = "wordle.db"
	}
	var storeOpts []stats.Option
	if parseBoolEnv("WORDLE_ALLOW_RESUBMIT") {
		log.Printf("WARNING: double-submit guard disabled")
		storeOpts = append(storeOpts, stats.AllowResubmit())
	}
	store, err := stats.Open(dbPath, storeOpts...)
	if err != nil {
		return err
	}
	defer store.Close()

	loc := time.Local
	if tz := strings.TrimSpace(os.Getenv("WORDLE_TZ")); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("load WORDLE_TZ: %w", err)
		}
	}

	engine, err := ocr.NewTesseract()
	if err != nil {
		return fmt.Errorf("init tesseract: %w", err)
	}
	defer engine.Close()

	bank := wordbank.Load(ctx, wordbank.FetchOptions{
		URL:       strings.TrimSpace(os.Getenv("WORDLE_WORDBANK_URL")),
		CachePath: strings.TrimSpace(os.Getenv("WORDLE_WORDBANK_CACHE")),
		MaxAge:    30 * 24 * time.Hour,
	})
	log.Printf("word bank loaded, %d words", bank.Len())

	var upstream oracle.Oracle
	if path := strings.TrimSpace(os.Getenv("WORDLE_SOLUTIONS")); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open solution list: %w", err)
		}
		upstream, err = oracle.NewList(f)
		f.Close()
		if err != nil {
			return err
		}
		log.Printf("using solution list %s", path)
	} else {
		upstream = oracle.NewNYT()
	}

	h := &bot.Handler{
		Guesser:  recognizer.New(engine, bank),
		Oracle:   oracle.NewCached(upstream, 4),
		Store:    store,
		Location: loc,
	}
	return bot.Run(ctx, cfg, h)
}
