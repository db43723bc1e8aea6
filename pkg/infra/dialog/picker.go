package dialog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
	"github.com/m-mizutani/pdfsaver/pkg/domain/types"
	"github.com/m-mizutani/pdfsaver/pkg/infra/download"
)

// Picker is a terminal "Save As" dialog
type Picker struct {
	fs  afero.Fs
	dir string
	in  io.Reader
	out io.Writer
}

var _ interfaces.SavePicker = (*Picker)(nil)

// Option configures Picker
type Option func(*Picker)

// WithIO sets the terminal streams used by the dialog
func WithIO(in io.Reader, out io.Writer) Option {
	return func(p *Picker) {
		p.in = in
		p.out = out
	}
}

// New creates a Picker that proposes files under dir
func New(fs afero.Fs, dir string, opts ...Option) *Picker {
	p := &Picker{
		fs:  fs,
		dir: dir,
		in:  os.Stdin,
		out: os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ShowSaveFilePicker runs the dialog until the user accepts or dismisses it
func (p *Picker) ShowSaveFilePicker(ctx context.Context, opts model.SaveFilePickerOptions) (interfaces.FileHandle, error) {
	initial := filepath.Join(p.dir, download.SanitizeFilename(opts.SuggestedName))
	m := newPickerModel(initial, opts.Types, p.stat)

	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, goerr.Wrap(types.ErrAbort, "save dialog interrupted", goerr.V("cause", ctx.Err()))
		}
		return nil, goerr.Wrap(err, "failed to run save dialog")
	}

	result, ok := final.(pickerModel)
	if !ok || result.state != stateAccepted {
		return nil, goerr.Wrap(types.ErrAbort, "save dialog dismissed")
	}

	ctxlog.From(ctx).Debug("Save location chosen", "path", result.path)
	return NewFileHandle(p.fs, result.path), nil
}

func (p *Picker) stat(path string) (bool, bool) {
	fi, err := p.fs.Stat(path)
	if err != nil {
		return false, false
	}
	return true, fi.IsDir()
}

// FileHandle is a location accepted in the dialog
type FileHandle struct {
	fs   afero.Fs
	path string
}

var _ interfaces.FileHandle = (*FileHandle)(nil)

// NewFileHandle creates a handle for path on fs
func NewFileHandle(fs afero.Fs, path string) *FileHandle {
	return &FileHandle{fs: fs, path: path}
}

// Name returns the chosen path
func (h *FileHandle) Name() string {
	return h.path
}

// CreateWritable opens a staging file next to the target. The target is only
// replaced when the sink is closed after successful writes.
func (h *FileHandle) CreateWritable(ctx context.Context) (interfaces.WritableSink, error) {
	dir := filepath.Dir(h.path)
	if err := h.fs.MkdirAll(dir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create directory", goerr.V("dir", dir))
	}

	tmp, err := afero.TempFile(h.fs, dir, "."+filepath.Base(h.path)+".*.crswap")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create staging file", goerr.V("path", h.path))
	}

	return &sink{fs: h.fs, file: tmp, target: h.path}, nil
}

type sink struct {
	fs     afero.Fs
	file   afero.File
	target string
	failed bool
	closed bool
}

func (s *sink) Write(ctx context.Context, data []byte) error {
	if s.closed {
		return goerr.New("write to closed sink", goerr.V("path", s.target))
	}
	if _, err := s.file.Write(data); err != nil {
		s.failed = true
		return goerr.Wrap(err, "failed to write file", goerr.V("path", s.target))
	}
	return nil
}

// Close commits the staged data, or discards it when a write failed
func (s *sink) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	staged := s.file.Name()
	if err := s.file.Close(); err != nil {
		_ = s.fs.Remove(staged)
		return goerr.Wrap(err, "failed to close staging file", goerr.V("path", s.target))
	}

	if s.failed {
		_ = s.fs.Remove(staged)
		return nil
	}

	if err := s.fs.Rename(staged, s.target); err != nil {
		_ = s.fs.Remove(staged)
		return goerr.Wrap(err, "failed to move file into place", goerr.V("path", s.target))
	}
	return nil
}
