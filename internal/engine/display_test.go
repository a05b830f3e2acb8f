package engine

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mAK]|\r`)

// syncBuffer guards a bytes.Buffer against the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ansiRegex.ReplaceAllString(b.buf.String(), "")
}

func TestStartSpinner_UpdatesMessageWhenAlreadySpinning(t *testing.T) {
	var out syncBuffer
	d := NewDisplay(&out)

	d.StartSpinner("waiting for model...")
	d.StartSpinner("still waiting...")

	d.spinMu.Lock()
	spinning, msg := d.spinning, d.spinMsg
	d.spinMu.Unlock()

	if !spinning {
		t.Fatal("expected spinner to remain active")
	}
	if msg != "still waiting..." {
		t.Fatalf("expected spinner message to update, got %q", msg)
	}

	d.StopSpinner()
}

func TestStopSpinner_Idempotent(t *testing.T) {
	var out syncBuffer
	d := NewDisplay(&out)

	d.StopSpinner()
	d.StartSpinner("x")
	time.Sleep(100 * time.Millisecond)
	d.StopSpinner()
	d.StopSpinner()

	if d.spinning {
		t.Fatal("spinner still marked active")
	}
}

func TestShowAttemptResult(t *testing.T) {
	var out syncBuffer
	d := NewDisplay(&out)

	d.ShowAttemptResult(1, false, "Title too long (61 > 60)", 1500*time.Millisecond)
	d.ShowAttemptResult(2, true, "OK", 200*time.Millisecond)

	got := out.String()
	for _, want := range []string{
		"[!!] attempt 1: Title too long (61 > 60)",
		"( 1.50s)",
		"[ok] attempt 2: OK",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestShowAttemptHeader(t *testing.T) {
	var out syncBuffer
	d := NewDisplay(&out)

	d.ShowAttemptHeader(2, 3)

	got := out.String()
	if !strings.Contains(got, "Attempt 2/3") {
		t.Errorf("output missing attempt counter:\n%s", got)
	}
	if strings.Count(got, barFilled)+strings.Count(got, barEmpty) != AttemptBarWidth {
		t.Errorf("progress bar width wrong:\n%s", got)
	}
}

func TestShowRunHeaderAndSummaries(t *testing.T) {
	var out syncBuffer
	d := NewDisplay(&out)

	d.ShowRunHeader("ollama", 3)
	d.ShowAttemptHeader(3, 3)
	d.ShowRetry(3, 3, 400*time.Millisecond)
	d.ShowDegraded("Missing sections: [cta]")
	d.ShowSuccess("Listing generated")
	d.ShowError("no output")

	got := out.String()
	for _, want := range []string{
		"Engine: ollama",
		"Max attempts: 3",
		"retrying in 400ms",
		"Returning last output despite validation failure",
		"Last failure: Missing sections: [cta]",
		"Listing generated",
		"Attempts: 3/3",
		"[!!] Error",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestNilDisplay(t *testing.T) {
	var d *Display
	d.StartSpinner("x")
	d.StopSpinner()
	d.ShowRunHeader("x", 1)
	d.ShowAttemptHeader(1, 1)
	d.ShowAttemptResult(1, true, "OK", 0)
	d.ShowRetry(2, 3, time.Second)
	d.ShowSuccess("x")
	d.ShowDegraded("x")
	d.ShowError("x")
	d.ShowInfo("%s", "x")
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1040 * time.Millisecond, " 1.04s"},
		{12 * time.Second, " 12.0s"},
		{150 * time.Second, "  150s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("a long message here", 10); got != "a long ..." {
		t.Errorf("truncate() = %q", got)
	}

	got := truncate("LLM error: délai dépassé côté serveur", 14)
	if got != "LLM error: ..." {
		t.Errorf("truncate() = %q", got)
	}
	got = truncate("ééééééééééééé", 10)
	if got != "ééééééé..." || !utf8.ValidString(got) {
		t.Errorf("truncate() = %q", got)
	}
}
