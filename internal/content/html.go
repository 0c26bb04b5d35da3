package content

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// paragraphTags end the paragraph being collected
var paragraphTags = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.Div:        true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Tr:         true,
	atom.Blockquote: true,
	atom.Hr:         true,
	atom.Pre:        true,
}

// chapterTags open a new chapter titled with their text
var chapterTags = map[atom.Atom]bool{
	atom.H1: true,
	atom.H2: true,
}

// skipTags hide their content
var skipTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Head:   true,
}

// parseHTML extracts chapters and paragraphs from (X)HTML with the tokenizer
func parseHTML(r io.Reader) (*Document, error) {
	doc := &Document{}
	b := newBuilder(doc)
	z := html.NewTokenizer(r)

	var (
		text      strings.Builder
		skipDepth int
		inTitle   bool
		inHeading bool
		title     strings.Builder
	)

	endParagraph := func() {
		if inHeading {
			return
		}
		b.paragraph(text.String())
		text.Reset()
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to tokenize html: %w", err)
			}
			endParagraph()
			b.finish()
			return doc, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Title && tt == html.StartTagToken {
				inTitle = true
				continue
			}
			if skipTags[a] {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			switch {
			case chapterTags[a] && tt == html.StartTagToken:
				endParagraph()
				inHeading = true
			case paragraphTags[a]:
				endParagraph()
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Title {
				inTitle = false
				continue
			}
			if skipTags[a] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			switch {
			case chapterTags[a] && inHeading:
				inHeading = false
				heading := collapseWhitespace(text.String())
				text.Reset()
				b.chapter(heading)
			case paragraphTags[a]:
				endParagraph()
			}

		case html.TextToken:
			// <title> sits inside <head>, which is skipped for body text
			if inTitle {
				title.Write(z.Text())
				continue
			}
			if skipDepth > 0 {
				continue
			}
			text.Write(z.Text())
		}

		if doc.Title == "" && !inTitle && title.Len() > 0 {
			doc.Title = collapseWhitespace(title.String())
		}
	}
}
