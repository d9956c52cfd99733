// Package ocr reads the glyph image into guess candidates. The engine is
// an interface so tests stub it; production uses Tesseract constrained to
// an uppercase whitelist and a single uniform text block.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

var ErrTimeout = errors.New("OCR timed out")

// Engine turns an encoded image into newline-separated text.
type Engine interface {
	Recognize(ctx context.Context, img []byte) (string, error)
	Close() error
}

// Tesseract wraps a gosseract client. The client is not safe for
// concurrent use; the mutex serializes calls from submission workers.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

func NewTesseract() (*Tesseract, error) {
	c := gosseract.NewClient()
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		c.Close()
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}
	if err := c.SetWhitelist("ABCDEFGHIJKLMNOPQRSTUVWXYZ"); err != nil {
		c.Close()
		return nil, fmt.Errorf("set whitelist: %w", err)
	}
	return &Tesseract{client: c}, nil
}

func (t *Tesseract) Recognize(ctx context.Context, img []byte) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if err := t.client.SetImageFromBytes(img); err != nil {
			ch <- result{err: fmt.Errorf("set image: %w", err)}
			return
		}
		text, err := t.client.Text()
		ch <- result{text: text, err: err}
	}()
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		}
		return "", ctx.Err()
	case r := <-ch:
		return r.text, r.err
	}
}

func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
