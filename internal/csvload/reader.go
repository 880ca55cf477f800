package csvload

// reader.go wraps the raw input so encoding/csv sees clean UTF-8:
//
//   - bomReader drops a leading UTF-8 byte order mark (Excel on Windows adds one)
//   - utf8Sanitizer replaces invalid bytes with '?'
//   - countingReader tracks how many bytes were consumed
//
// Use wrapInput to apply them in the right order.

import (
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomReader skips the UTF-8 BOM if the stream starts with one.
type bomReader struct {
	r       io.Reader
	checked bool
	head    []byte // bytes read during the check that belong to the payload
}

func newBOMReader(r io.Reader) *bomReader {
	return &bomReader{r: r}
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		buf := make([]byte, len(utf8BOM))
		n, err := io.ReadFull(b.r, buf)
		switch {
		case err == io.ErrUnexpectedEOF || err == io.EOF:
			// Short stream; whatever we got is payload unless it is a BOM.
		case err != nil:
			return 0, err
		}
		if n == len(utf8BOM) && bytes.Equal(buf, utf8BOM) {
			n = 0
		}
		b.head = buf[:n]
	}

	if len(b.head) > 0 {
		n := copy(p, b.head)
		b.head = b.head[n:]
		return n, nil
	}

	return b.r.Read(p)
}

// utf8Sanitizer replaces invalid UTF-8 bytes with '?' without buffering the
// whole input. A multi-byte rune split across reads is carried over.
type utf8Sanitizer struct {
	r       io.Reader
	buf     []byte
	pending []byte // incomplete rune from the previous chunk
	out     []byte // sanitized bytes not yet returned
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{
		r:       r,
		buf:     make([]byte, 4096),
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(s.out) == 0 {
		offset := copy(s.buf, s.pending)
		s.pending = s.pending[:0]

		n, err := s.r.Read(s.buf[offset:])
		n += offset
		if n > 0 {
			s.out = s.sanitize(s.buf[:n], err == io.EOF)
		}
		if err != nil {
			if len(s.out) == 0 {
				return 0, err
			}
			if err != io.EOF {
				return s.drain(p), err
			}
			break
		}
		if n == 0 {
			return 0, nil
		}
	}

	return s.drain(p), nil
}

func (s *utf8Sanitizer) drain(p []byte) int {
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n
}

// sanitize rewrites data in place and returns the bytes to emit.
// Unless atEOF, a trailing incomplete rune is moved to pending.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) []byte {
	write := 0
	for read := 0; read < len(data); {
		if data[read] < utf8.RuneSelf {
			data[write] = data[read]
			write++
			read++
			continue
		}

		if !atEOF && !utf8.FullRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			break
		}

		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			data[write] = '?'
			write++
			read++
			continue
		}

		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return data[:write]
}

// countingReader counts the bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// wrapInput strips the BOM first, then sanitizes, then counts.
func wrapInput(r io.Reader) *countingReader {
	return &countingReader{r: newUTF8Sanitizer(newBOMReader(r))}
}
