// Package phonebook runs the generation pipeline: load contacts, organize
// them, render the LaTeX document and write it out.
package phonebook

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/phonebook/internal/config"
	"github.com/JonMunkholm/phonebook/internal/contact"
	"github.com/JonMunkholm/phonebook/internal/csvload"
	"github.com/JonMunkholm/phonebook/internal/latex"
	"github.com/JonMunkholm/phonebook/internal/logging"
	"github.com/JonMunkholm/phonebook/internal/phone"
)

// Service generates phone books from contact lists.
// It holds no per-run state and is safe for concurrent use.
type Service struct {
	cfg         config.PhonebookConfig
	now         func() time.Time
	diagnostics io.Writer
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for the title page date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDiagnostics sets where unparsable phone numbers are reported.
func WithDiagnostics(w io.Writer) Option {
	return func(s *Service) { s.diagnostics = w }
}

// NewService creates a Service with the given labels and region.
func NewService(cfg config.PhonebookConfig, opts ...Option) *Service {
	s := &Service{
		cfg:         cfg,
		now:         time.Now,
		diagnostics: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OutputName is the file name used for generated documents.
func (s *Service) OutputName() string {
	return s.cfg.OutputName
}

func (s *Service) renderer(diag io.Writer) *latex.Renderer {
	formatter := phone.NewFormatter(s.cfg.Region)
	formatter.Diagnostics = diag

	return &latex.Renderer{
		Labels: latex.Labels{
			Title:           s.cfg.Title,
			FrontPageHeader: s.cfg.FrontPageHeader,
			CellularCaption: s.cfg.CellularCaption,
			DateLayout:      s.cfg.DateLayout,
		},
		Phones: formatter,
		Now:    s.now,
	}
}

// Render organizes contacts and writes the document to w.
func (s *Service) Render(ctx context.Context, w io.Writer, contacts []contact.Contact) error {
	book := contact.Organize(contacts)

	logging.FromContext(ctx).Info("phone book organized",
		"contacts", len(contacts),
		"front_page", len(book.FrontPage),
		"groups", len(book.Groups),
	)

	return s.renderer(s.diagnostics).Render(ctx, w, book)
}

// RenderCSV loads contacts from r and writes the document to w.
func (s *Service) RenderCSV(ctx context.Context, r io.Reader, w io.Writer) error {
	contacts, err := csvload.Load(ctx, r)
	if err != nil {
		return err
	}
	return s.Render(ctx, w, contacts)
}

// GenerateFile reads the contact table at csvPath and writes the document
// next to it. It returns the path of the written file.
//
// Nothing is written when the input cannot be loaded.
func (s *Service) GenerateFile(ctx context.Context, csvPath string) (string, error) {
	contacts, err := csvload.LoadFile(ctx, csvPath)
	if err != nil {
		return "", err
	}
	return s.WriteBook(ctx, filepath.Dir(csvPath), contacts)
}

// WriteBook renders contacts into dir/OutputName. The file is written to a
// temporary name first and renamed into place, so a failed run never leaves
// a partial document.
func (s *Service) WriteBook(ctx context.Context, dir string, contacts []contact.Contact) (string, error) {
	target := filepath.Join(dir, s.cfg.OutputName)

	tmp, err := os.CreateTemp(dir, ".phonebook-*.tex")
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := s.Render(ctx, tmp, contacts); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("move output into place: %w", err)
	}

	logging.FromContext(ctx).Info("phone book written", "path", target)
	return target, nil
}
