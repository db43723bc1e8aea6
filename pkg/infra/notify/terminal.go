package notify

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"golang.org/x/text/language"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
)

// Terminal shows alerts on a terminal and waits for acknowledgement
type Terminal struct {
	lang language.Tag
	in   io.Reader
	out  io.Writer

	mu      sync.Mutex
	reader  *bufio.Reader
	pending chan struct{} // closed when the in-flight line read returns
}

var _ interfaces.Notifier = (*Terminal)(nil)

// Option configures Terminal
type Option func(*Terminal)

// WithLanguage selects the alert language
func WithLanguage(tag language.Tag) Option {
	return func(n *Terminal) {
		n.lang = tag
	}
}

// WithIO sets the streams. A nil reader makes alerts non-blocking.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(n *Terminal) {
		n.in = in
		n.out = out
	}
}

// NewTerminal creates a Terminal notifier writing to stderr and blocking on stdin
func NewTerminal(opts ...Option) *Terminal {
	n := &Terminal{
		lang: language.English,
		in:   os.Stdin,
		out:  os.Stderr,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Alert prints the localized message and blocks until a line is read from
// input. Concurrent alerts are shown one at a time.
func (n *Terminal) Alert(ctx context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	text := Localize(n.lang, msg)

	alert := color.New(color.FgRed, color.Bold)
	if _, err := alert.Fprintln(n.out, "⚠ "+text); err != nil {
		ctxlog.From(ctx).Warn("Failed to show alert", "error", err, "message", text)
	}

	if n.in == nil {
		return
	}

	line := n.readLine()
	_, _ = color.New(color.Faint).Fprint(n.out, "Press Enter to continue...")

	select {
	case <-line:
	case <-ctx.Done():
	}
	_, _ = n.out.Write([]byte("\n"))
}

// readLine returns a channel closed once a line has been read. A read left
// behind by an alert whose context ended is reused, so at most one goroutine
// reads input. Must be called with mu held.
func (n *Terminal) readLine() <-chan struct{} {
	if n.pending != nil {
		select {
		case <-n.pending:
		default:
			return n.pending
		}
	}

	if n.reader == nil {
		n.reader = bufio.NewReader(n.in)
	}

	r := n.reader
	done := make(chan struct{})
	n.pending = done
	go func() {
		defer close(done)
		_, _ = r.ReadString('\n')
	}()
	return done
}

// Log is a Notifier for headless hosts; alerts become error logs
type Log struct {
	lang language.Tag
}

var _ interfaces.Notifier = (*Log)(nil)

// NewLog creates a Log notifier
func NewLog(lang language.Tag) *Log {
	return &Log{lang: lang}
}

// Alert writes the localized message as an error record
func (n *Log) Alert(ctx context.Context, msg string) {
	ctxlog.From(ctx).Error("Alert", "message", Localize(n.lang, msg))
}
