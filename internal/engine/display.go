package engine

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Spinner frames using braille characters
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress bar characters
const (
	barFilled = "█"
	barEmpty  = "░"
)

// Flusher is an optional interface for writers that support flushing.
type Flusher interface {
	Sync() error
}

// Display handles terminal output with spinners and formatted status.
// A nil *Display discards everything.
type Display struct {
	out       io.Writer
	mu        sync.Mutex
	spinMu    sync.Mutex // Separate mutex for spinner to avoid deadlock
	spinning  bool
	spinStop  chan struct{}
	spinDone  chan struct{}
	spinMsg   string
	spinStart time.Time
	runStart  time.Time

	attempt     int
	maxAttempts int
}

// flush attempts to flush the output if it supports it.
func (d *Display) flush() {
	if f, ok := d.out.(Flusher); ok {
		f.Sync()
	}
}

// NewDisplay creates a new display writer.
func NewDisplay(out io.Writer) *Display {
	return &Display{
		out:      out,
		runStart: time.Now(),
	}
}

// StartSpinner begins the loading spinner with a message. If a spinner is
// already running only its message changes.
func (d *Display) StartSpinner(msg string) {
	if d == nil {
		return
	}
	d.spinMu.Lock()
	if d.spinning {
		d.spinMsg = msg
		d.spinMu.Unlock()
		return
	}
	d.spinning = true
	d.spinMsg = msg
	d.spinStart = time.Now()
	d.spinStop = make(chan struct{})
	d.spinDone = make(chan struct{})
	stop, done := d.spinStop, d.spinDone
	d.spinMu.Unlock()

	go func() {
		defer close(done)
		frame := 0
		first := true
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				if !first {
					// Move up, clear line, stay there for next output
					fmt.Fprintf(d.out, "\033[1A\r\033[K")
					d.flush()
				}
				return
			case <-ticker.C:
				d.spinMu.Lock()
				msg := d.spinMsg
				elapsed := formatElapsed(time.Since(d.spinStart))
				d.spinMu.Unlock()

				d.mu.Lock()
				if first {
					fmt.Fprintf(d.out, "   %s %s (%s)\n", spinnerFrames[frame], msg, elapsed)
					first = false
				} else {
					fmt.Fprintf(d.out, "\033[1A\r\033[K   %s %s (%s)\n", spinnerFrames[frame], msg, elapsed)
				}
				d.flush()
				d.mu.Unlock()
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// StopSpinner stops the loading spinner and waits for it to clear its line.
func (d *Display) StopSpinner() {
	if d == nil {
		return
	}
	d.spinMu.Lock()
	if !d.spinning {
		d.spinMu.Unlock()
		return
	}
	d.spinning = false
	close(d.spinStop)
	done := d.spinDone
	d.spinMu.Unlock()
	<-done
}

// ShowRunHeader displays the engine and attempt budget for a generation run.
func (d *Display) ShowRunHeader(engineName string, maxAttempts int) {
	if d == nil {
		return
	}
	d.maxAttempts = maxAttempts
	d.runStart = time.Now()

	body := fmt.Sprintf("%s\n%s\n%s",
		StyleTitle.Render("Listing generation"),
		StyleMuted.Render(fmt.Sprintf("Engine: %s", engineName)),
		StyleMuted.Render(fmt.Sprintf("Max attempts: %d", maxAttempts)))
	d.write(HeaderBox().Render(body) + "\n\n")
}

// ShowAttemptHeader displays the attempt banner with a progress bar.
func (d *Display) ShowAttemptHeader(current, max int) {
	if d == nil {
		return
	}
	d.attempt = current
	d.maxAttempts = max

	filled := 0
	if max > 0 {
		filled = (current - 1) * AttemptBarWidth / max
	}
	if filled > AttemptBarWidth {
		filled = AttemptBarWidth
	}
	bar := StyleProgressFilled.Render(strings.Repeat(barFilled, filled)) +
		StyleProgressEmpty.Render(strings.Repeat(barEmpty, AttemptBarWidth-filled))
	elapsed := time.Since(d.runStart).Round(time.Second)

	d.write(fmt.Sprintf("  Attempt %d/%d  [%s]  %s elapsed\n", current, max, bar, elapsed))
}

// ShowAttemptResult displays the verdict of one attempt.
func (d *Display) ShowAttemptResult(attempt int, passed bool, reason string, elapsed time.Duration) {
	if d == nil {
		return
	}
	d.StopSpinner()
	status := StyleSuccess.Render("[ok]")
	if !passed {
		status = StyleError.Render("[!!]")
	}
	d.write(fmt.Sprintf("   %s attempt %d: %s %s\n", status, attempt, reason, StyleMuted.Render("("+formatElapsed(elapsed)+")")))
}

// ShowRetry displays the pause before the next attempt.
func (d *Display) ShowRetry(next, max int, delay time.Duration) {
	if d == nil {
		return
	}
	d.write(StyleMuted.Render(fmt.Sprintf("   ... retrying in %s with corrective instructions (attempt %d/%d)", delay, next, max)) + "\n")
}

// ShowSuccess displays a success message with final stats.
func (d *Display) ShowSuccess(msg string) {
	if d == nil {
		return
	}
	d.StopSpinner()
	body := fmt.Sprintf("%s\n%s\n%s",
		StyleSuccess.Render("[ok] "+msg),
		fmt.Sprintf("Attempts: %d/%d", d.attempt, d.maxAttempts),
		fmt.Sprintf("Total time: %s", time.Since(d.runStart).Round(time.Millisecond)))
	d.write("\n" + SuccessBox().Render(body) + "\n")
}

// ShowDegraded displays that unverified output is being returned.
func (d *Display) ShowDegraded(reason string) {
	if d == nil {
		return
	}
	d.StopSpinner()
	body := fmt.Sprintf("%s\n%s\n%s",
		StyleWarning.Render("[--] Returning last output despite validation failure"),
		truncate("Last failure: "+reason, 70),
		fmt.Sprintf("Attempts: %d/%d", d.attempt, d.maxAttempts))
	d.write("\n" + WarningBox().Render(body) + "\n")
}

// ShowError displays an error message.
func (d *Display) ShowError(msg string) {
	if d == nil {
		return
	}
	d.StopSpinner()
	body := fmt.Sprintf("%s\n%s\n%s",
		StyleError.Render("[!!] Error"),
		truncate(msg, 70),
		fmt.Sprintf("After %d attempts (%s)", d.attempt, time.Since(d.runStart).Round(time.Millisecond)))
	d.write("\n" + ErrorBox().Render(body) + "\n")
}

// ShowInfo displays an info message.
func (d *Display) ShowInfo(format string, args ...interface{}) {
	if d == nil {
		return
	}
	d.write(fmt.Sprintf(format, args...))
}

func (d *Display) write(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.out, s)
	d.flush()
}

// formatElapsed formats duration with fixed width (always 6 chars like " 1.04s")
func formatElapsed(d time.Duration) string {
	secs := d.Seconds()
	if secs < 10 {
		return fmt.Sprintf("%5.2fs", secs)
	} else if secs < 100 {
		return fmt.Sprintf("%5.1fs", secs)
	}
	return fmt.Sprintf("%5.0fs", secs)
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
