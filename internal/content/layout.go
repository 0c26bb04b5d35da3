package content

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mattn/go-runewidth"
)

// Layout is a document wrapped to one terminal width
type Layout struct {
	Width int
	Lines []string
	// ChapterStarts holds the index in Lines of each chapter's first line
	ChapterStarts []int
}

// Chapters returns the number of chapters in the layout
func (l *Layout) Chapters() int { return len(l.ChapterStarts) }

// ChapterLines returns the lines of chapter i
func (l *Layout) ChapterLines(i int) []string {
	if i < 0 || i >= len(l.ChapterStarts) {
		return nil
	}
	end := len(l.Lines)
	if i+1 < len(l.ChapterStarts) {
		end = l.ChapterStarts[i+1]
	}
	return l.Lines[l.ChapterStarts[i]:end]
}

// ChapterAt returns the chapter containing line
func (l *Layout) ChapterAt(line int) int {
	ch := 0
	for i, start := range l.ChapterStarts {
		if start > line {
			break
		}
		ch = i
	}
	return ch
}

// Pages cuts the layout into pages of height lines. Chapters always start on a
// fresh page and the last page of a chapter is padded to full height.
func (l *Layout) Pages(height int) [][]string {
	if height <= 0 {
		return nil
	}
	var pages [][]string
	for i := range l.ChapterStarts {
		lines := l.ChapterLines(i)
		for start := 0; start < len(lines); start += height {
			end := min(start+height, len(lines))
			page := make([]string, height)
			copy(page, lines[start:end])
			pages = append(pages, page)
		}
	}
	return pages
}

// Build wraps doc to width columns. Each chapter starts with its title (when
// it has one) and paragraphs are separated by a blank line.
func Build(doc *Document, width int) *Layout {
	if width < 1 {
		width = 1
	}
	l := &Layout{Width: width}
	for _, ch := range doc.Chapters {
		l.ChapterStarts = append(l.ChapterStarts, len(l.Lines))
		if ch.Title != "" {
			l.Lines = append(l.Lines, Wrap(strings.ToUpper(ch.Title), width)...)
			l.Lines = append(l.Lines, "")
		}
		for i, p := range ch.Paragraphs {
			if i > 0 {
				l.Lines = append(l.Lines, "")
			}
			l.Lines = append(l.Lines, Wrap(p, width)...)
		}
		l.Lines = append(l.Lines, "")
	}
	return l
}

// Wrap breaks text into lines no wider than width display cells. Words wider
// than a line are split.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var (
		lines []string
		line  strings.Builder
		used  int
	)
	emit := func() {
		lines = append(lines, line.String())
		line.Reset()
		used = 0
	}

	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if used > 0 && used+1+w <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			used += 1 + w
			continue
		}
		if used > 0 {
			emit()
		}
		for w > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// a single rune wider than the line
				r := []rune(word)
				head = string(r[0])
			}
			line.WriteString(head)
			emit()
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if word != "" {
			line.WriteString(word)
			used = w
		}
	}
	if used > 0 || len(lines) == 0 {
		emit()
	}
	return lines
}

// Layouter caches layouts of one document by width
type Layouter struct {
	mu    sync.Mutex
	doc   *Document
	cache *lru.Cache[int, *Layout]
}

// NewLayouter creates a Layouter keeping up to size layouts
func NewLayouter(doc *Document, size int) *Layouter {
	if size < 1 {
		size = 1
	}
	cache, err := lru.New[int, *Layout](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Layouter{doc: doc, cache: cache}
}

// Document returns the document being laid out
func (l *Layouter) Document() *Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc
}

// Layout returns the layout for width, building it on a cache miss
func (l *Layouter) Layout(width int) *Layout {
	l.mu.Lock()
	defer l.mu.Unlock()
	if layout, ok := l.cache.Get(width); ok {
		return layout
	}
	layout := Build(l.doc, width)
	l.cache.Add(width, layout)
	return layout
}

// Replace swaps in a reloaded document and drops every cached layout
func (l *Layouter) Replace(doc *Document) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.doc = doc
	l.cache.Purge()
}
