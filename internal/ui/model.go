package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"foliotui/internal/config"
	"foliotui/internal/content"
	"foliotui/internal/domain"
	"foliotui/internal/eventbus"
	"foliotui/internal/sched"
	"foliotui/internal/scrubsync"
	"foliotui/internal/surface"
	"foliotui/internal/visibility"
)

const (
	// scrubStep is how far one key press moves a grabbed scrubber
	scrubStep = 0.05
	// wheelLines is how far one wheel notch scrolls
	wheelLines = 3
)

// Options configures a Model
type Options struct {
	Config   *config.Config
	Layouter *content.Layouter
	Bus      eventbus.EventBus
	// Scheduler drives timers and animations. Nil uses a wall-clock scheduler
	// posting through the program, set with SetProgram.
	Scheduler sched.Scheduler
}

// Model represents the UI state
type Model struct {
	bus      eventbus.EventBus
	config   *config.Config
	mode     domain.DirectionMode
	sched    sched.Scheduler
	layouter *content.Layouter

	pane     *surface.Pane
	engine   *scrubsync.Engine
	scrubber *Scrubber

	keys      KeyMap
	scrubKeys ScrubKeyMap
	help      help.Model
	styles    *Styles
	helpView  *HelpRenderer

	// UI-specific state
	width       int
	height      int
	keyScrub    bool // scrubber grabbed from the keyboard
	mouseScrub  bool // scrubber grabbed with the mouse
	status      string
	statusErr   bool
	inPagerMode bool

	// Program reference for terminal management
	program *tea.Program
	pager   *PagerOps
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	mode := cfg.Reader.Direction
	styles := NewStyles()

	m := &Model{
		bus:      opts.Bus,
		config:   cfg,
		mode:     mode,
		sched:    opts.Scheduler,
		layouter: opts.Layouter,
		keys:     NewKeyMap(mode),
		help:     help.New(),
		styles:   styles,
		helpView: NewHelpRenderer(styles),
	}
	m.scrubKeys = newScrubKeyMap(m.keys)
	if m.sched == nil {
		m.sched = sched.New(sched.PosterFunc(m.post))
	}

	orient := OrientVertical
	if mode == domain.Horizontal {
		orient = OrientHorizontal
	}
	m.scrubber = NewScrubber(orient, cfg.Scrubber.TrackColor, cfg.Scrubber.ThumbColor)

	settings := cfg.EngineSettings()
	fade := visibility.NewFade(m.sched, settings.FrameInterval, m.scrubber.SetOpacity)
	m.engine = scrubsync.New(mode, settings, m.sched, fade, m.scrubber)
	m.engine.OnVisibilityChange(func(v domain.Visibility) {
		if m.bus != nil {
			m.bus.Publish(eventbus.VisibilityChangedEvent{Visibility: v})
		}
	})
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// post hands fn to the UI loop. Timers fire on their own goroutines and must
// never touch the model directly.
func (m *Model) post(fn func()) {
	if m.program == nil {
		log.Printf("UI: dropping scheduled callback, no program")
		return
	}
	m.program.Send(runMsg(fn))
}

// Engine exposes the sync engine, mainly for tests
func (m *Model) Engine() *scrubsync.Engine { return m.engine }

// Pane returns the content pane; nil before the first WindowSizeMsg
func (m *Model) Pane() *surface.Pane { return m.pane }

// Scrubber returns the scrubber control
func (m *Model) Scrubber() *Scrubber { return m.scrubber }

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case runMsg:
		msg()
		return m, nil

	case tea.KeyMsg:
		if m.pane == nil {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		m.setStatus("", false)
		if m.keyScrub {
			return m, m.handleScrubKey(msg)
		}
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if m.pane != nil {
			m.handleMouse(msg)
		}
		return m, nil

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DocumentReloadedMsg:
		m.layouter.Replace(msg.Document)
		if m.pane != nil {
			m.pane.Reload()
		}
		m.setStatus(fmt.Sprintf("reloaded %s", msg.Document.Title), false)
		if m.bus != nil {
			m.bus.Publish(eventbus.DocumentLoadedEvent{Path: msg.Document.Path, Title: msg.Document.Title, Bytes: msg.Document.Bytes})
		}

	case EventMsg:
		if e, ok := msg.Event.(eventbus.ErrorEvent); ok {
			m.setStatus(e.Message, true)
		}

	case pagerMsg:
		if msg.err != nil {
			log.Printf("Error showing %s: %v", msg.what, msg.err)
			m.setStatus(fmt.Sprintf("%s: %v", msg.what, msg.err), true)
		}

	case pauseRenderingMsg:
		m.inPagerMode = true

	case resumeRenderingMsg:
		m.inPagerMode = false
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.pane.ScrollBy(1)
	case key.Matches(msg, m.keys.Up):
		m.pane.ScrollBy(-1)
	case key.Matches(msg, m.keys.Left):
		m.sideways(-1)
	case key.Matches(msg, m.keys.Right):
		m.sideways(1)
	case key.Matches(msg, m.keys.PageDown):
		m.pane.PageForward()
	case key.Matches(msg, m.keys.PageUp):
		m.pane.PageBack()
	case key.Matches(msg, m.keys.Home):
		m.pane.Home()
	case key.Matches(msg, m.keys.End):
		m.pane.End()
	case key.Matches(msg, m.keys.Scrub):
		m.keyScrub = true
		m.engine.OnScrubberDragStart()
	case key.Matches(msg, m.keys.Show):
		m.engine.Show()
	case key.Matches(msg, m.keys.Hide):
		m.engine.Hide()
	case key.Matches(msg, m.keys.Chapter):
		ch := m.pane.Chapter()
		return m.showInPager(fmt.Sprintf("chapter %d", ch+1), m.pane.ChapterText(ch))
	case key.Matches(msg, m.keys.Help):
		return m.showInPager("help", m.helpView.Render(m.keys, m.mode))
	}
	return nil
}

// sideways scrolls a Horizontal pane or turns the chapter of a
// HorizontalWithVerticalContent one
func (m *Model) sideways(dir int) {
	switch m.mode {
	case domain.Horizontal:
		m.pane.ScrollBy(dir * max(m.pane.Width()/8, 1))
	case domain.HorizontalWithVerticalContent:
		m.pane.TurnChapter(dir)
	}
}

func (m *Model) handleScrubKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return tea.Quit
	case key.Matches(msg, m.scrubKeys.Finish):
		m.keyScrub = false
		m.engine.OnScrubberDragEnd()
	case key.Matches(msg, m.scrubKeys.Back):
		m.scrubTo(m.scrubber.Value() - scrubStep)
	case key.Matches(msg, m.scrubKeys.Forward):
		m.scrubTo(m.scrubber.Value() + scrubStep)
	}
	return nil
}

// scrubTo moves the control under the user's hand and lets the engine follow
func (m *Model) scrubTo(fraction float64) {
	m.scrubber.SetValue(fraction)
	m.engine.OnScrubberValueChanged(m.scrubber.Value())
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		m.wheel(1)
		return
	case tea.MouseButtonWheelUp:
		m.wheel(-1)
		return
	}

	cell, length, onTrack := m.trackHit(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onTrack {
			return
		}
		m.mouseScrub = true
		m.engine.OnScrubberDragStart()
		m.scrubTo(m.scrubber.FractionAt(cell, length))
	case tea.MouseActionMotion:
		if m.mouseScrub {
			m.scrubTo(m.scrubber.FractionAt(cell, length))
		}
	case tea.MouseActionRelease:
		if m.mouseScrub {
			m.mouseScrub = false
			m.engine.OnScrubberDragEnd()
		}
	}
}

func (m *Model) wheel(dir int) {
	if m.mode == domain.Horizontal {
		m.pane.ScrollBy(dir * max(m.pane.Width()/8, 1))
		return
	}
	m.pane.ScrollBy(dir * wheelLines)
}

// trackHit maps a mouse position to a cell on the scrubber track. Motion
// off the track still maps, clamped, so a drag can leave it.
func (m *Model) trackHit(x, y int) (cell, length int, onTrack bool) {
	w, h := m.pane.Width(), m.pane.Height()
	if m.scrubber.Orientation() == OrientHorizontal {
		return min(max(x, 0), w-1), w, y == h
	}
	return min(max(y, 0), h-1), h, x == w
}

// resize lays the pane out for the window, creating it on first use
func (m *Model) resize() {
	w, h := m.textArea()
	if m.pane == nil {
		m.pane = surface.New(m.mode, m.sched, m.layouter, w, h)
		m.pane.SetWrapWidth(m.config.Reader.WrapWidth)
		m.pane.SetDelegate(engineDelegate{engine: m.engine})
		m.engine.Attach(m.pane)
		m.syncProportion()
		return
	}
	m.pane.Resize(w, h)
	m.syncProportion()
}

// textArea returns the space left for text after the scrubber track and status line
func (m *Model) textArea() (w, h int) {
	w, h = m.width, m.height-1
	if m.scrubber.Orientation() == OrientHorizontal {
		h--
	} else {
		w--
	}
	return max(w, 1), max(h, 1)
}

// syncProportion sizes the thumb by the visible part of the book; content that
// fits the viewport, or none at all, fills the track
func (m *Model) syncProportion() {
	vp, cs := m.pane.ViewportSize(), m.pane.ContentSize()
	visible, total := vp.Height, cs.Height
	if m.mode == domain.Horizontal {
		visible, total = vp.Width, cs.Width
	}
	if total <= visible {
		m.scrubber.SetProportion(1)
		return
	}
	m.scrubber.SetProportion(visible / total)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// shutdown stops every timer before the program exits
func (m *Model) shutdown() {
	if m.pane != nil {
		m.pane.Stop()
	}
	m.engine.Close()
}

// showInPager returns a command that pages text with ov
func (m *Model) showInPager(what, text string) tea.Cmd {
	if m.pager == nil {
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.Show(text)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{what: what, err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 || m.pane == nil {
		return "Loading..."
	}
	m.syncProportion()

	body := m.pane.View()
	if m.scrubber.Orientation() == OrientHorizontal {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.scrubber.Row(m.pane.Width()))
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.scrubber.Column(m.pane.Height()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

func (m *Model) statusLine() string {
	doc := m.layouter.Document()
	parts := []string{
		m.styles.Title.Render(doc.Title),
		m.styles.StatusKey.Render(fmt.Sprintf("%d%%", int(m.engine.Fraction()*100+0.5))),
		m.styles.Status.Render(fmt.Sprintf("ch %d/%d", m.pane.Chapter()+1, max(m.pane.Chapters(), 1))),
	}
	if doc.Bytes > 0 {
		parts = append(parts, m.styles.Status.Render(humanize.Bytes(uint64(doc.Bytes))))
	}

	switch {
	case m.keyScrub:
		parts = append(parts, m.styles.Scrubbing.Render("SCRUB"), m.help.View(m.scrubKeys))
	case m.status != "":
		style := m.styles.StatusSuccess
		if m.statusErr {
			style = m.styles.StatusError
		}
		parts = append(parts, style.Render(m.status))
	default:
		parts = append(parts, m.help.View(m.keys))
	}

	line := strings.Join(parts, m.styles.Dim.Render(" · "))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// engineDelegate forwards pane scroll events to the sync engine
type engineDelegate struct {
	engine *scrubsync.Engine
}

func (d engineDelegate) ScrollBegan()                 { d.engine.OnScrollBegin() }
func (d engineDelegate) ScrollChanged(offset float64) { d.engine.OnScrollChanged(offset) }
func (d engineDelegate) ScrollDecelerated()           { d.engine.OnScrollDecelerationEnd() }
func (d engineDelegate) ScrollAnimationEnded()        { d.engine.OnScrollAnimationEnd() }
func (d engineDelegate) ContentSizeChanged(domain.Size) {
	d.engine.OnContentSizeChanged()
}

// PageTurned hides the scrubber; it belonged to the previous chapter
func (d engineDelegate) PageTurned(int) { d.engine.Hide() }
