package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZaguanLabs/relay/cache"
)

// slowCaller upper-cases chunks after a delay and tracks how many calls run at once.
type slowCaller struct {
	delay    time.Duration
	inFlight int64
	peak     int64
	calls    int64
}

func (c *slowCaller) Call(ctx context.Context, req CallRequest) (string, error) {
	atomic.AddInt64(&c.calls, 1)
	n := atomic.AddInt64(&c.inFlight, 1)
	defer atomic.AddInt64(&c.inFlight, -1)

	for {
		peak := atomic.LoadInt64(&c.peak)
		if n <= peak || atomic.CompareAndSwapInt64(&c.peak, peak, n) {
			break
		}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(c.delay):
	}
	return strings.ToUpper(promptText(req.Prompt)), nil
}

func paragraphs(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("paragraph %02d", i)
	}
	return strings.Join(parts, "\n\n")
}

func TestTranslateChunks_Concurrency(t *testing.T) {
	caller := &slowCaller{delay: 30 * time.Millisecond}
	tr := newTestTranslator(caller, nil, WithChunkSize(1), WithConcurrency(4))

	text := paragraphs(12)
	res, err := tr.Translate(context.Background(), Request{Text: text, TargetLang: "fr"})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	if res.TranslatedText != strings.ToUpper(text) {
		t.Errorf("chunks out of order:\n%s", res.TranslatedText)
	}
	if peak := atomic.LoadInt64(&caller.peak); peak > 4 || peak < 2 {
		t.Errorf("peak concurrency = %d, want between 2 and 4", peak)
	}
	if res.Chunks != 12 {
		t.Errorf("Chunks = %d, want 12", res.Chunks)
	}
}

func TestTranslateChunks_Sequential(t *testing.T) {
	caller := &slowCaller{delay: time.Millisecond}
	tr := newTestTranslator(caller, nil, WithChunkSize(1))

	if _, err := tr.Translate(context.Background(), Request{Text: paragraphs(5), TargetLang: "fr"}); err != nil {
		t.Fatal(err)
	}
	if peak := atomic.LoadInt64(&caller.peak); peak != 1 {
		t.Errorf("peak concurrency = %d, want 1", peak)
	}
}

func TestTranslateChunks_Cancelled(t *testing.T) {
	caller := &slowCaller{delay: time.Second}
	store := cache.NewInMemoryCache()
	tr := newTestTranslator(caller, store, WithChunkSize(1), WithConcurrency(2))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := tr.Translate(ctx, Request{Text: paragraphs(6), TargetLang: "fr"})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("cancellation took %v", elapsed)
	}
	if store.Len() != 0 {
		t.Error("cancelled translation must not be cached")
	}
	if calls := atomic.LoadInt64(&caller.calls); calls > 2 {
		t.Errorf("%d chunks started after cancellation", calls-2)
	}
}
