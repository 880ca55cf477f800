// Package latex renders an organized phone book as LaTeX source.
//
// The document is a chain of templ components: preamble, front page, one
// section per letter group, closing marker. Each component collects its lines
// and writes them in a single call, so the output is never built by repeated
// string concatenation.
package latex

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/phonebook/internal/contact"
)

// Labels are the fixed strings printed in the document.
type Labels struct {
	Title           string
	FrontPageHeader string
	CellularCaption string
	DateLayout      string
}

// PhoneFormatter formats a free-text phone number for display.
type PhoneFormatter interface {
	Format(ctx context.Context, s string) string
}

// Renderer produces the LaTeX document for a contact.Book.
type Renderer struct {
	Labels Labels
	Phones PhoneFormatter
	Now    func() time.Time
}

const (
	tableBegin = `\keepXColumns\begin{tabularx}{\textwidth}{X r}`
	tableEnd   = `\end{tabularx}`
	pageBreak  = `\clearpage`
	docEnd     = `\end{document}`
)

const preambleTemplate = `\documentclass[a5paper]{article}
\usepackage[a5paper]{geometry}
\usepackage{ltablex}

\usepackage[table]{xcolor}
\definecolor{lightgray}{gray}{0.9}
\let\oldtabularx\tabularx
\let\endoldtabularx\endtabularx
\renewenvironment{tabularx}{\rowcolors{2}{white}{lightgray}\oldtabularx}{\endoldtabularx}

\title{%s}
\date{%s}
\author{}

\begin{document}
\begin{titlepage}
\maketitle
\thispagestyle{empty}
\end{titlepage}
\shipout\null`

// Render writes the full document for book to w.
func (r *Renderer) Render(ctx context.Context, w io.Writer, book contact.Book) error {
	bw := bufio.NewWriter(w)
	if err := r.Document(book).Render(ctx, bw); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush document: %w", err)
	}
	return nil
}

// Document returns the component for the whole phone book.
func (r *Renderer) Document(book contact.Book) templ.Component {
	parts := make([]templ.Component, 0, len(book.Groups)+3)
	parts = append(parts, r.Preamble(), r.FrontPage(book.FrontPage))
	for _, g := range book.Groups {
		parts = append(parts, r.LetterSection(g))
	}
	parts = append(parts, lines(func(context.Context) []string {
		return []string{docEnd}
	}))
	return templ.Join(parts...)
}

// Preamble is the document header and title page.
func (r *Renderer) Preamble() templ.Component {
	return lines(func(context.Context) []string {
		date := r.now().Format(r.dateLayout())
		return []string{fmt.Sprintf(preambleTemplate, Escape(r.Labels.Title), date)}
	})
}

// FrontPage lists the featured contacts with their mobile numbers.
func (r *Renderer) FrontPage(contacts []contact.Contact) templ.Component {
	return lines(func(ctx context.Context) []string {
		out := make([]string, 0, len(contacts)+4)
		out = append(out, section(r.Labels.FrontPageHeader), tableBegin)
		for _, c := range contacts {
			out = append(out, row(Escape(c.Name), r.phone(ctx, c.Cellular)))
		}
		return append(out, tableEnd, pageBreak)
	})
}

// LetterSection renders one letter group. Contacts without any number are
// left out; a mobile number under a landline gets its own captioned row.
func (r *Renderer) LetterSection(g contact.Group) templ.Component {
	return lines(func(ctx context.Context) []string {
		out := make([]string, 0, 2*len(g.Contacts)+4)
		out = append(out, section(g.Letter), tableBegin)
		for _, c := range g.Contacts {
			name := Escape(c.Name)
			switch {
			case c.Phone != "":
				out = append(out, row(name, r.phone(ctx, c.Phone)))
				if c.Cellular != "" {
					caption := `\hspace{1em}` + Escape(r.Labels.CellularCaption)
					out = append(out, row(caption, r.phone(ctx, c.Cellular)))
				}
			case c.Cellular != "":
				out = append(out, row(name, r.phone(ctx, c.Cellular)))
			}
		}
		return append(out, tableEnd, pageBreak)
	})
}

func (r *Renderer) phone(ctx context.Context, s string) string {
	if r.Phones == nil {
		return Escape(s)
	}
	return Escape(r.Phones.Format(ctx, s))
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Renderer) dateLayout() string {
	if r.Labels.DateLayout == "" {
		return "02-01-2006"
	}
	return r.Labels.DateLayout
}

func section(title string) string {
	return `\section*{` + Escape(title) + `}`
}

func row(left, right string) string {
	return left + ` & ` + right + ` \\`
}

// lines adapts a line producer into a component that writes the lines,
// newline-terminated, in one call.
func lines(build func(ctx context.Context) []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ls := build(ctx)
		if len(ls) == 0 {
			return nil
		}
		_, err := io.WriteString(w, strings.Join(ls, "\n")+"\n")
		return err
	})
}
