package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/JonMunkholm/phonebook/internal/logging"
	"github.com/JonMunkholm/phonebook/internal/phonebook"
	"github.com/JonMunkholm/phonebook/internal/store"
)

// sniffLen is how much of an upload is inspected to detect its type.
const sniffLen = 3072

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGenerate renders the phone book for an uploaded CSV file and returns
// it as a download.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if isTooLarge(err) {
			respondError(w, r, fmt.Errorf("%w: limit is %d bytes", phonebook.ErrFileTooLarge, maxSize))
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", phonebook.ErrNoFile, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", phonebook.ErrNoFile, err))
		return
	}
	defer file.Close()

	body, err := sniffText(file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("generating phone book",
		"filename", header.Filename,
		"size", header.Size,
	)

	var buf bytes.Buffer
	if err := s.books.RenderCSV(r.Context(), body, &buf); err != nil {
		respondError(w, r, err)
		return
	}
	s.writeDocument(w, r, &buf)
}

// handleGenerateStored renders the phone book from the stored contact list.
func (s *Server) handleGenerateStored(w http.ResponseWriter, r *http.Request) {
	if s.contacts == nil {
		respondError(w, r, store.ErrNoDatabase)
		return
	}

	contacts, err := s.contacts.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.books.Render(r.Context(), &buf, contacts); err != nil {
		respondError(w, r, err)
		return
	}
	s.writeDocument(w, r, &buf)
}

func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "application/x-tex; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.books.OutputName()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Error("write document", "error", err)
	}
}

// sniffText checks that the upload is text and returns a reader over the
// whole file, including the inspected prefix.
func sniffText(file multipart.File) (io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	if n > 0 {
		if mtype := mimetype.Detect(head); !isText(mtype) {
			return nil, fmt.Errorf("%w: %s", phonebook.ErrUnsupportedType, mtype.String())
		}
	}
	return io.MultiReader(bytes.NewReader(head), file), nil
}

// isTooLarge reports whether err came from the request body limit. Multipart
// parsing does not always keep the *http.MaxBytesError in the chain.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

// isText reports whether m is text/plain or one of its subtypes such as
// text/csv.
func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
