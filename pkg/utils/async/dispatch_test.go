package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/pdfsaver/pkg/utils/async"
)

// lockedBuffer is a bytes.Buffer safe for concurrent log writes
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// notifyHandler signals on written after every record
type notifyHandler struct {
	slog.Handler
	written chan struct{}
}

func (h *notifyHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.Handler.Handle(ctx, r)
	select {
	case h.written <- struct{}{}:
	default:
	}
	return err
}

func (h *notifyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &notifyHandler{Handler: h.Handler.WithAttrs(attrs), written: h.written}
}

func (h *notifyHandler) WithGroup(name string) slog.Handler {
	return &notifyHandler{Handler: h.Handler.WithGroup(name), written: h.written}
}

func newCapture() (*lockedBuffer, *notifyHandler, context.Context) {
	buf := &lockedBuffer{}
	h := &notifyHandler{
		Handler: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelError}),
		written: make(chan struct{}, 1),
	}
	ctx := ctxlog.With(context.Background(), slog.New(h))
	return buf, h, ctx
}

func waitLog(t *testing.T, h *notifyHandler) {
	t.Helper()
	select {
	case <-h.written:
	case <-time.After(time.Second):
		t.Fatal("log was not written within timeout")
	}
}

func TestDispatch_RunsHandler(t *testing.T) {
	done := make(chan struct{})

	async.Dispatch(context.Background(), "run", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not executed")
	}
}

func TestDispatch_LogsError(t *testing.T) {
	buf, h, ctx := newCapture()

	async.Dispatch(ctx, "save offer.pdf", func(ctx context.Context) error {
		return errors.New("disk full")
	})

	waitLog(t, h)
	gt.String(t, buf.String()).Contains("async task failed")
	gt.String(t, buf.String()).Contains("disk full")
	gt.String(t, buf.String()).Contains("save offer.pdf")
}

func TestDispatch_RecoversPanic(t *testing.T) {
	buf, h, ctx := newCapture()

	async.Dispatch(ctx, "panicky", func(ctx context.Context) error {
		panic("boom")
	})

	waitLog(t, h)
	out := buf.String()
	gt.String(t, out).Contains("panic in async task")
	gt.String(t, out).Contains("boom")
	gt.String(t, out).Contains("goroutine")
}

func TestDispatch_DetachesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)

	async.Dispatch(ctx, "detached", func(newCtx context.Context) error {
		cancel()
		result <- newCtx.Err()
		return nil
	})

	select {
	case err := <-result:
		gt.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("handler was not executed")
	}
}

func TestDispatch_KeepsLogger(t *testing.T) {
	buf := &lockedBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	ctx := ctxlog.With(context.Background(), logger)
	done := make(chan struct{})

	async.Dispatch(ctx, "logger", func(newCtx context.Context) error {
		ctxlog.From(newCtx).Info("carried over")
		close(done)
		return nil
	})

	select {
	case <-done:
		gt.String(t, buf.String()).Contains("carried over")
	case <-time.After(time.Second):
		t.Fatal("handler was not executed")
	}
}
