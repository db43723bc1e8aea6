package dialog_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/spf13/afero"

	"github.com/m-mizutani/pdfsaver/pkg/infra/dialog"
)

func TestFileHandle_WriteAndClose(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	h := dialog.NewFileHandle(fs, "/home/user/Documents/offer.pdf")
	gt.Value(t, h.Name()).Equal("/home/user/Documents/offer.pdf")

	sink, err := h.CreateWritable(ctx)
	gt.NoError(t, err)
	gt.NoError(t, sink.Write(ctx, []byte("%PDF-")))
	gt.NoError(t, sink.Write(ctx, []byte("1.7")))

	// nothing visible until close
	exists, err := afero.Exists(fs, "/home/user/Documents/offer.pdf")
	gt.NoError(t, err)
	gt.False(t, exists)

	gt.NoError(t, sink.Close(ctx))

	got, err := afero.ReadFile(fs, "/home/user/Documents/offer.pdf")
	gt.NoError(t, err)
	gt.Value(t, string(got)).Equal("%PDF-1.7")

	// idempotent close, write after close fails
	gt.NoError(t, sink.Close(ctx))
	gt.Error(t, sink.Write(ctx, []byte("x")))
}

func TestFileHandle_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	gt.NoError(t, afero.WriteFile(fs, "/out/offer.pdf", []byte("old"), 0644))

	sink, err := dialog.NewFileHandle(fs, "/out/offer.pdf").CreateWritable(ctx)
	gt.NoError(t, err)
	gt.NoError(t, sink.Write(ctx, []byte("new")))
	gt.NoError(t, sink.Close(ctx))

	got, err := afero.ReadFile(fs, "/out/offer.pdf")
	gt.NoError(t, err)
	gt.Value(t, string(got)).Equal("new")
}

func TestFileHandle_ReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := dialog.NewFileHandle(fs, "/out/offer.pdf").CreateWritable(context.Background())
	gt.Error(t, err)
}
