// Package surface renders a laid-out document in the terminal and reports how
// the user scrolls it.
package surface

import (
	"log"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/mattn/go-runewidth"

	"foliotui/internal/content"
	"foliotui/internal/domain"
	"foliotui/internal/position"
	"foliotui/internal/sched"
)

const (
	// animationFrames is how many steps an animated scroll takes
	animationFrames = 6
	// animationFrame is the delay between two steps of an animated scroll
	animationFrame = 20 * time.Millisecond
	// settleDelay is how long after the last user scroll the motion counts as decelerated
	settleDelay = 150 * time.Millisecond
)

// Delegate receives the scroll event stream of a Pane. Calls arrive on the
// goroutine that drives the Pane.
type Delegate interface {
	ScrollBegan()
	ScrollChanged(offset float64)
	ScrollDecelerated()
	ScrollAnimationEnded()
	ContentSizeChanged(size domain.Size)
	PageTurned(chapter int)
}

// Pane is a scrollable view of a document. Offsets are in terminal cells: lines
// for the vertical modes, columns for Horizontal.
type Pane struct {
	mode     domain.DirectionMode
	sched    sched.Scheduler
	layouter *content.Layouter
	delegate Delegate

	width  int
	height int
	wrap   int // 0 wraps at the pane width
	layout *content.Layout

	vp      viewport.Model
	pages   [][]string // Horizontal
	x       int        // Horizontal offset
	chapter int        // HorizontalWithVerticalContent

	anim   sched.Slot
	settle sched.Slot
}

// New creates a Pane of the given text area size
func New(mode domain.DirectionMode, s sched.Scheduler, layouter *content.Layouter, width, height int) *Pane {
	p := &Pane{
		mode:     mode,
		sched:    s,
		layouter: layouter,
		vp:       viewport.New(max(width, 1), max(height, 1)),
	}
	p.relayout(width, height)
	return p
}

// SetDelegate sets the receiver of scroll events
func (p *Pane) SetDelegate(d Delegate) { p.delegate = d }

// SetWrapWidth caps the text width below the pane width; 0 removes the cap
func (p *Pane) SetWrapWidth(w int) {
	if w < 0 || w == p.wrap {
		return
	}
	p.wrap = w
	p.Reload()
}

func (p *Pane) Mode() domain.DirectionMode { return p.mode }
func (p *Pane) Width() int                 { return p.width }
func (p *Pane) Height() int                { return p.height }

// Chapter returns the chapter at the top of the pane
func (p *Pane) Chapter() int {
	switch p.mode {
	case domain.HorizontalWithVerticalContent:
		return p.chapter
	case domain.Horizontal:
		if len(p.pages) == 0 {
			return 0
		}
		return p.pageChapter(p.currentPage())
	default:
		return p.layout.ChapterAt(p.vp.YOffset)
	}
}

// Chapters returns the number of chapters in the document
func (p *Pane) Chapters() int { return p.layout.Chapters() }

// ChapterText returns chapter i as plain text
func (p *Pane) ChapterText(i int) string {
	return strings.Join(p.layout.ChapterLines(i), "\n")
}

// ScrollOffset returns the offset along the mode's axis
func (p *Pane) ScrollOffset(mode domain.DirectionMode) float64 {
	return position.AxisOffset(p.offsetPoint(), mode)
}

// ViewportSize returns the visible area in cells
func (p *Pane) ViewportSize() domain.Size {
	return domain.Size{Width: float64(p.width), Height: float64(p.height)}
}

// ContentSize returns the scrollable content size in cells
func (p *Pane) ContentSize() domain.Size {
	switch p.mode {
	case domain.Horizontal:
		return domain.Size{Width: float64(len(p.pages) * p.width), Height: float64(p.height)}
	default:
		return domain.Size{Width: float64(p.width), Height: float64(p.vp.TotalLineCount())}
	}
}

// SetScrollOffset moves the content. Animated moves step over a few frames and
// end with ScrollAnimationEnded.
func (p *Pane) SetScrollOffset(offset float64, animated bool) {
	p.anim.Cancel()
	target := p.clampOffset(int(math.Round(offset)))
	if !animated {
		p.moveTo(target)
		return
	}
	p.animateTo(target)
}

// ScrollBy is a user-driven scroll of delta cells (arrow keys, mouse wheel).
// It settles into ScrollDecelerated once the user stops.
func (p *Pane) ScrollBy(delta int) {
	p.anim.Cancel()
	if !p.settle.Pending() {
		p.emit(func(d Delegate) { d.ScrollBegan() })
	}
	p.moveTo(p.clampOffset(p.offset() + delta))
	p.settle.Schedule(p.sched, settleDelay, func() {
		p.emit(func(d Delegate) { d.ScrollDecelerated() })
	})
}

// PageForward moves one screen forward, animated
func (p *Pane) PageForward() { p.page(1) }

// PageBack moves one screen back, animated
func (p *Pane) PageBack() { p.page(-1) }

// Home jumps to the start of the scrollable content, animated
func (p *Pane) Home() { p.SetScrollOffset(0, true) }

// End jumps to the end of the scrollable content, animated
func (p *Pane) End() { p.SetScrollOffset(float64(p.maxOffset()), true) }

// TurnChapter switches to the next or previous chapter in
// HorizontalWithVerticalContent mode. It reports whether the chapter changed.
func (p *Pane) TurnChapter(delta int) bool {
	if p.mode != domain.HorizontalWithVerticalContent {
		return false
	}
	next := p.chapter + delta
	if next < 0 || next >= p.layout.Chapters() {
		return false
	}
	p.anim.Cancel()
	p.settle.Cancel()
	p.chapter = next
	p.loadChapter()
	log.Printf("Surface: chapter %d/%d", next+1, p.layout.Chapters())
	p.emit(func(d Delegate) { d.PageTurned(next) })
	p.emit(func(d Delegate) { d.ContentSizeChanged(p.ContentSize()) })
	return true
}

// Resize lays the document out for a new text area, keeping the relative position
func (p *Pane) Resize(width, height int) {
	if width == p.width && height == p.height {
		return
	}
	p.anim.Cancel()
	fraction := position.OffsetToFraction(float64(p.offset()), p.ViewportSize(), p.ContentSize(), p.mode)
	p.relayout(width, height)
	p.moveQuietly(p.clampOffset(int(math.Round(position.FractionToOffset(fraction, p.ViewportSize(), p.ContentSize(), p.mode)))))
	p.emit(func(d Delegate) { d.ContentSizeChanged(p.ContentSize()) })
}

// Reload re-lays out after the Layouter's document was replaced
func (p *Pane) Reload() {
	p.anim.Cancel()
	offset := p.offset()
	p.relayout(p.width, p.height)
	p.moveQuietly(p.clampOffset(offset))
	p.emit(func(d Delegate) { d.ContentSizeChanged(p.ContentSize()) })
}

// Stop cancels any running animation and settle timer
func (p *Pane) Stop() {
	p.anim.Cancel()
	p.settle.Cancel()
}

// View renders the text area
func (p *Pane) View() string {
	if p.mode != domain.Horizontal {
		return p.vp.View()
	}
	return p.horizontalView()
}

func (p *Pane) page(dir int) {
	step := p.height
	if p.mode == domain.Horizontal {
		step = p.width
		// land on a page boundary
		cur := p.currentPage() * p.width
		p.SetScrollOffset(float64(cur+dir*step), true)
		return
	}
	p.SetScrollOffset(float64(p.offset()+dir*step), true)
}

func (p *Pane) animateTo(target int) {
	from := p.offset()
	if from == target {
		p.emit(func(d Delegate) { d.ScrollAnimationEnded() })
		return
	}
	frame := 0
	var step func()
	step = func() {
		frame++
		progress := float64(frame) / animationFrames
		// ease out
		eased := 1 - (1-progress)*(1-progress)
		p.moveTo(from + int(math.Round(float64(target-from)*eased)))
		if frame >= animationFrames {
			p.emit(func(d Delegate) { d.ScrollAnimationEnded() })
			return
		}
		p.anim.Schedule(p.sched, animationFrame, step)
	}
	p.anim.Schedule(p.sched, animationFrame, step)
}

// moveTo sets the offset and reports it
func (p *Pane) moveTo(offset int) {
	if !p.moveQuietly(offset) {
		return
	}
	off := p.ScrollOffset(p.mode)
	p.emit(func(d Delegate) { d.ScrollChanged(off) })
}

// moveQuietly sets the offset and reports whether it changed
func (p *Pane) moveQuietly(offset int) bool {
	if offset == p.offset() {
		return false
	}
	if p.mode == domain.Horizontal {
		p.x = offset
		return true
	}
	p.vp.SetYOffset(offset)
	return true
}

func (p *Pane) offset() int {
	if p.mode == domain.Horizontal {
		return p.x
	}
	return p.vp.YOffset
}

func (p *Pane) offsetPoint() domain.Point {
	return position.PointFor(float64(p.offset()), p.mode)
}

func (p *Pane) maxOffset() int {
	return int(position.ScrollableExtent(p.ViewportSize(), p.ContentSize(), p.mode))
}

func (p *Pane) clampOffset(offset int) int {
	return max(0, min(offset, p.maxOffset()))
}

func (p *Pane) relayout(width, height int) {
	p.width = max(width, 1)
	p.height = max(height, 1)
	lw := p.width
	if p.wrap > 0 && p.wrap < lw {
		lw = p.wrap
	}
	p.layout = p.layouter.Layout(lw)
	p.vp.Width = p.width
	p.vp.Height = p.height

	switch p.mode {
	case domain.Horizontal:
		p.pages = p.layout.Pages(p.height)
	case domain.HorizontalWithVerticalContent:
		p.chapter = min(p.chapter, max(p.layout.Chapters()-1, 0))
		p.loadChapter()
	default:
		p.vp.SetContent(strings.Join(p.layout.Lines, "\n"))
	}
}

func (p *Pane) loadChapter() {
	p.vp.SetContent(strings.Join(p.layout.ChapterLines(p.chapter), "\n"))
	p.vp.SetYOffset(0)
}

func (p *Pane) currentPage() int {
	if p.width == 0 {
		return 0
	}
	return int(math.Round(float64(p.x) / float64(p.width)))
}

// pageChapter finds the chapter a Horizontal page belongs to
func (p *Pane) pageChapter(page int) int {
	seen := 0
	for i := 0; i < p.layout.Chapters(); i++ {
		n := (len(p.layout.ChapterLines(i)) + p.height - 1) / p.height
		if page < seen+n {
			return i
		}
		seen += n
	}
	return max(p.layout.Chapters()-1, 0)
}

// horizontalView renders the columns [x, x+width) of the page strip
func (p *Pane) horizontalView() string {
	if len(p.pages) == 0 {
		return ""
	}
	first := p.x / p.width
	shift := p.x - first*p.width

	rows := make([]string, p.height)
	for r := range rows {
		left := p.pageLine(first, r)
		if shift == 0 {
			rows[r] = runewidth.FillRight(left, p.width)
			continue
		}
		strip := runewidth.FillRight(left, p.width) + runewidth.FillRight(p.pageLine(first+1, r), p.width)
		rows[r] = sliceCells(strip, shift, p.width)
	}
	return strings.Join(rows, "\n")
}

func (p *Pane) pageLine(page, row int) string {
	if page < 0 || page >= len(p.pages) || row >= len(p.pages[page]) {
		return ""
	}
	return runewidth.Truncate(p.pages[page][row], p.width, "")
}

// sliceCells returns the width cells of s starting at cell from. A wide rune
// cut in half becomes a space.
func sliceCells(s string, from, width int) string {
	var b strings.Builder
	pos, used := 0, 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		switch {
		case pos+w <= from:
		case pos < from:
			b.WriteString(strings.Repeat(" ", pos+w-from))
			used += pos + w - from
		case used+w <= width:
			b.WriteRune(r)
			used += w
		default:
			return runewidth.FillRight(b.String(), width)
		}
		pos += w
	}
	return runewidth.FillRight(b.String(), width)
}

func (p *Pane) emit(fn func(Delegate)) {
	if p.delegate != nil {
		fn(p.delegate)
	}
}
