// Package content loads documents and lays them out for a terminal of a given width.
package content

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document has no text")
)

// Format is the source markup of a document
type Format int

const (
	FormatText Format = iota
	FormatHTML
)

// Chapter is a titled run of paragraphs
type Chapter struct {
	Title      string
	Paragraphs []string
}

// Document is a loaded, markup-free book
type Document struct {
	Path     string
	Title    string
	Bytes    int64
	Chapters []Chapter
}

// Paragraphs counts the paragraphs in all chapters
func (d *Document) Paragraphs() int {
	n := 0
	for _, c := range d.Chapters {
		n += len(c.Paragraphs)
	}
	return n
}

// DetectFormat picks the parser from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md", "":
		return FormatText, nil
	case ".html", ".htm", ".xhtml":
		return FormatHTML, nil
	}
	return FormatText, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads and parses the document at path
func Load(path string) (*Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc, err := Parse(bytes.NewReader(data), format, title)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc.Path = path
	doc.Bytes = int64(len(data))
	return doc, nil
}

// Parse reads a document from r. fallbackTitle is used when the markup names none.
func Parse(r io.Reader, format Format, fallbackTitle string) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch format {
	case FormatText:
		doc, err = parseText(r)
	case FormatHTML:
		doc, err = parseHTML(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if doc.Title == "" {
		doc.Title = fallbackTitle
	}
	if doc.Paragraphs() == 0 {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

// parseText splits plain text into paragraphs on blank lines. A line starting
// with "# " opens a new chapter.
func parseText(r io.Reader) (*Document, error) {
	doc := &Document{}
	b := newBuilder(doc)

	var para []string
	flush := func() {
		if len(para) > 0 {
			b.paragraph(strings.Join(para, " "))
			para = para[:0]
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "# "):
			flush()
			title := strings.TrimSpace(line[2:])
			if doc.Title == "" && len(doc.Chapters) == 0 {
				doc.Title = title
			}
			b.chapter(title)
		default:
			para = append(para, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan text: %w", err)
	}
	flush()
	b.finish()
	return doc, nil
}

// builder accumulates chapters, dropping empty untitled ones
type builder struct {
	doc     *Document
	current *Chapter
}

func newBuilder(doc *Document) *builder {
	return &builder{doc: doc}
}

func (b *builder) chapter(title string) {
	b.finish()
	b.current = &Chapter{Title: title}
}

func (b *builder) paragraph(text string) {
	text = collapseWhitespace(text)
	if text == "" {
		return
	}
	if b.current == nil {
		b.current = &Chapter{}
	}
	b.current.Paragraphs = append(b.current.Paragraphs, text)
}

func (b *builder) finish() {
	if b.current == nil {
		return
	}
	if len(b.current.Paragraphs) > 0 || b.current.Title != "" {
		b.doc.Chapters = append(b.doc.Chapters, *b.current)
	}
	b.current = nil
}

// collapseWhitespace turns every whitespace run into one space and trims the ends
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
