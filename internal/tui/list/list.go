// Package list hosts a scroller.Engine in a bubbletea program: it draws the
// materialized posts between spacer lines, measures them, and feeds scroll
// and size changes back to the engine.
package list

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/turbo/internal/metrics"
	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/charmbracelet/turbo/internal/tui/styles"
	"github.com/charmbracelet/turbo/internal/tui/util"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/ordered"
)

const (
	// Redraws allowed within one update while measurements settle.
	maxDrawPasses = 4

	ViewportDefaultScrollSize = 3

	spacerGlyph = "╌"
	barGlyph    = "│"
	knobGlyph   = "┃"
)

// RenderFunc draws the item with the given key at the given width.
type RenderFunc func(key string, width int) string

// PositioningFunc receives positioning snapshots. The returned command is
// run by the program.
type PositioningFunc func(scroller.Positioning[string]) tea.Cmd

type confOptions struct {
	keyMap        KeyMap
	gap           int
	assumed       int
	overscan      float64
	scrollWait    time.Duration
	scrollMaxWait time.Duration
	positioning   time.Duration
	cacheKey      string
	store         scroller.HeightStore[string]
	metrics       *metrics.Metrics
	onPositioning PositioningFunc
	enableMouse   bool
}

type ListOption func(*confOptions)

// WithGap sets the number of blank lines after each item.
func WithGap(gap int) ListOption {
	return func(l *confOptions) {
		l.gap = max(gap, 0)
	}
}

// WithAssumedHeight sets the height in lines of items never drawn.
func WithAssumedHeight(h int) ListOption {
	return func(l *confOptions) {
		l.assumed = h
	}
}

// WithOverscanRatio sets how many viewport heights are drawn beyond each
// edge.
func WithOverscanRatio(r float64) ListOption {
	return func(l *confOptions) {
		l.overscan = r
	}
}

func WithScrollDebounce(wait, maxWait time.Duration) ListOption {
	return func(l *confOptions) {
		l.scrollWait = wait
		l.scrollMaxWait = maxWait
	}
}

func WithPositioningTimeout(d time.Duration) ListOption {
	return func(l *confOptions) {
		l.positioning = d
	}
}

// WithHeightStore keeps measured heights in store under cacheKey. The width
// is appended to the key since heights depend on it.
func WithHeightStore(store scroller.HeightStore[string], cacheKey string) ListOption {
	return func(l *confOptions) {
		l.store = store
		l.cacheKey = cacheKey
	}
}

func WithMetrics(m *metrics.Metrics) ListOption {
	return func(l *confOptions) {
		l.metrics = m
	}
}

func WithPositioningHandler(fn PositioningFunc) ListOption {
	return func(l *confOptions) {
		l.onPositioning = fn
	}
}

func WithKeyMap(keyMap KeyMap) ListOption {
	return func(l *confOptions) {
		l.keyMap = keyMap
	}
}

func WithEnableMouse() ListOption {
	return func(l *confOptions) {
		l.enableMouse = true
	}
}

// Model is a windowed list of items identified by string keys.
type Model struct {
	*confOptions

	render RenderFunc
	sched  *Scheduler
	vp     *viewport
	engine *scroller.Engine[string, string]

	width, height int
	items         []string

	// drawn holds the height, gap included, of every item of the last draw.
	drawn map[string]int
	lines []string
	dirty bool

	pending []tea.Cmd
}

var _ util.Model = (*Model)(nil)

// New returns a list drawing items with render. The engine starts once the
// list learns its size.
func New(render RenderFunc, opts ...ListOption) *Model {
	m := &Model{
		confOptions: &confOptions{
			keyMap:        DefaultKeyMap(),
			gap:           1,
			assumed:       8,
			overscan:      scroller.DefaultOverscanRatio,
			scrollWait:    scroller.DefaultScrollWait,
			scrollMaxWait: scroller.DefaultScrollMaxWait,
			positioning:   scroller.DefaultPositioningTimeout,
		},
		render: render,
		sched:  NewScheduler(),
		vp:     newViewport(),
		drawn:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(m.confOptions)
	}
	if m.metrics == nil {
		m.metrics = metrics.NewMetrics()
	}
	return m
}

// Init implements util.Model.
func (m *Model) Init() tea.Cmd {
	return m.sched.Listen()
}

// Update implements util.Model.
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if ok, cmd := m.sched.Handle(msg); ok {
		cmds = append(cmds, cmd)
	} else {
		switch msg := msg.(type) {
		case tea.MouseWheelMsg:
			if m.enableMouse {
				m.sched.Input()
				switch msg.Button {
				case tea.MouseWheelDown:
					m.ScrollBy(ViewportDefaultScrollSize)
				case tea.MouseWheelUp:
					m.ScrollBy(-ViewportDefaultScrollSize)
				}
			}
		case tea.KeyPressMsg:
			m.sched.Input()
			switch {
			case key.Matches(msg, m.keyMap.Down):
				m.ScrollBy(1)
			case key.Matches(msg, m.keyMap.Up):
				m.ScrollBy(-1)
			case key.Matches(msg, m.keyMap.HalfPageDown):
				m.ScrollBy(m.height / 2)
			case key.Matches(msg, m.keyMap.HalfPageUp):
				m.ScrollBy(-m.height / 2)
			case key.Matches(msg, m.keyMap.PageDown):
				m.ScrollBy(m.height)
			case key.Matches(msg, m.keyMap.PageUp):
				m.ScrollBy(-m.height)
			case key.Matches(msg, m.keyMap.End):
				m.GotoBottom()
			case key.Matches(msg, m.keyMap.Home):
				m.GotoTop()
			}
		}
	}
	return m, m.flush(cmds...)
}

// flush draws if the engine asked for it and collects the commands produced
// while handling a message.
func (m *Model) flush(cmds ...tea.Cmd) tea.Cmd {
	for pass := 0; m.dirty && pass < maxDrawPasses; pass++ {
		m.draw()
	}
	cmds = append(cmds, m.pending...)
	m.pending = nil
	cmds = append(cmds, m.sched.Cmd())
	return tea.Batch(cmds...)
}

// View implements util.Model.
func (m *Model) View() string {
	return strings.Join(m.lines, "\n")
}

// SetSize resizes the list. The engine starts on the first call; a new
// width restarts it since every height depends on the width.
func (m *Model) SetSize(width, height int) tea.Cmd {
	width, height = max(width, 1), max(height, 1)
	switch {
	case m.engine == nil:
		m.width, m.height = width, height
		m.vp.resize(height)
		m.start(0)
	case width != m.width:
		anchor := m.topIndex()
		m.stop()
		m.width, m.height = width, height
		m.vp.resize(height)
		m.start(anchor)
	case height != m.height:
		m.height = height
		m.vp.resize(height)
		m.dirty = true
	}
	return m.flush()
}

// SetItems replaces the listed items.
func (m *Model) SetItems(items []string) tea.Cmd {
	m.items = items
	if m.engine != nil {
		m.engine.SetList(items)
		m.dirty = true
	}
	return m.flush()
}

// Items returns the listed items.
func (m *Model) Items() []string {
	return m.items
}

// ScrollBy moves the viewport by delta lines.
func (m *Model) ScrollBy(delta int) {
	m.ScrollTo(m.vp.top + delta)
}

// ScrollTo moves the top of the viewport to line top.
func (m *Model) ScrollTo(top int) {
	if m.vp.scrollTo(top, m.maxTop()) {
		m.dirty = true
	}
}

func (m *Model) GotoTop() {
	m.ScrollTo(0)
}

func (m *Model) GotoBottom() {
	m.ScrollTo(m.maxTop())
}

// Offset returns the first visible line.
func (m *Model) Offset() int {
	return m.vp.top
}

// Engine returns the running engine, if any.
func (m *Model) Engine() *scroller.Engine[string, string] {
	return m.engine
}

// Metrics returns the metrics shared by every engine of the list.
func (m *Model) Metrics() *metrics.Metrics {
	return m.metrics
}

// ScrollPercent returns how far down the list the viewport is.
func (m *Model) ScrollPercent() float64 {
	top := m.maxTop()
	if top <= 0 {
		return 1
	}
	return float64(m.vp.top) / float64(top)
}

// SetOverscanRatio changes the overscan of the running engine and of the
// engines started later. The returned command runs the window update the
// change asks for.
func (m *Model) SetOverscanRatio(r float64) (tea.Cmd, error) {
	if m.engine != nil {
		if err := m.engine.SetOverscanRatio(r); err != nil {
			return nil, err
		}
	}
	m.overscan = r
	return m.flush(), nil
}

// SetScrollDebounce changes the scroll debounce of the running engine and of
// the engines started later.
func (m *Model) SetScrollDebounce(wait, maxWait time.Duration) (tea.Cmd, error) {
	if m.engine != nil {
		if err := m.engine.SetScrollDebounce(wait, maxWait); err != nil {
			return nil, err
		}
	}
	m.scrollWait, m.scrollMaxWait = wait, maxWait
	return m.flush(), nil
}

// Close stops the engine, handing its heights to the store, and the
// scheduler.
func (m *Model) Close() {
	m.stop()
	m.sched.Close()
}

func (m *Model) start(initial int) {
	opts := []scroller.Option{
		scroller.WithInitialItemIndex(initial),
		scroller.WithOverscanRatio(m.overscan),
		scroller.WithScrollDebounce(m.scrollWait, m.scrollMaxWait),
		scroller.WithPositioningTimeout(m.positioning),
		scroller.WithMetrics(m.metrics),
	}
	if m.store != nil && m.cacheKey != "" {
		opts = append(opts, scroller.WithCacheKey(fmt.Sprintf("%s@%d", m.cacheKey, m.width)))
	}

	engine, err := scroller.New(scroller.Config[string, string]{
		List:          m.items,
		Viewport:      m.vp,
		RenderItem:    func(key string) string { return m.render(key, m.contentWidth()) },
		Measurer:      scroller.MeasurerFunc[string](m.measure),
		Scheduler:     m.sched,
		AssumedHeight: float64(m.assumed),
		Store:         m.store,
		Invalidate:    func() { m.dirty = true },
		OnPositioningUpdate: func(p scroller.Positioning[string]) {
			if m.onPositioning != nil {
				m.pending = append(m.pending, m.onPositioning(p))
			}
		},
		OnHeightsUpdate: func(ms scroller.Measurement) {
			slog.Debug("Heights changed", "measured", ms.Measured, "delta", ms.Delta)
		},
	}, opts...)
	if err != nil {
		m.pending = append(m.pending, util.ReportError(err))
		return
	}
	m.engine = engine
	clear(m.drawn)

	if initial > 0 {
		layout := engine.Layout()
		if initial < layout.Len() {
			m.vp.top = int(math.Round(layout.At(initial).Top))
		}
	}
	if err := engine.Mount(); err != nil {
		m.pending = append(m.pending, util.ReportError(err))
		return
	}
	m.dirty = true
}

func (m *Model) stop() {
	if m.engine == nil {
		return
	}
	if err := m.engine.Unmount(); err != nil {
		slog.Error("Failed to unmount list", "error", err)
	}
	m.engine = nil
}

// topIndex returns the index of the item at the top of the viewport.
func (m *Model) topIndex() int {
	if m.engine == nil {
		return 0
	}
	layout := m.engine.Layout()
	top := float64(m.vp.top)
	return sort.Search(layout.Len(), func(i int) bool {
		r := layout.At(i)
		return r.Top+r.Height > top
	})
}

func (m *Model) measure(key string) (float64, bool) {
	h, ok := m.drawn[key]
	if !ok {
		return 0, false
	}
	return float64(h), true
}

func (m *Model) contentWidth() int {
	return max(m.width-2, 1)
}

func (m *Model) maxTop() int {
	if m.engine == nil {
		return 0
	}
	return int(math.Ceil(m.engine.Layout().Height())) - m.height
}

// draw renders the window into the visible lines, records how tall every
// item came out and tells the engine.
func (m *Model) draw() {
	m.dirty = false
	if m.engine == nil {
		m.lines = nil
		return
	}

	t := styles.CurrentTheme()
	width := m.contentWidth()
	top := m.vp.top

	rows := make([]string, m.height)
	covered := make([]bool, m.height)

	f := m.engine.Render()
	y := int(math.Round(f.Above))
	clear(m.drawn)
	for i, key := range f.Keys {
		itemLines := strings.Split(f.Items[i], "\n")
		h := lipgloss.Height(f.Items[i]) + m.gap
		m.drawn[key] = h
		for j := range h {
			row := y + j - top
			if row < 0 || row >= m.height {
				continue
			}
			covered[row] = true
			if j < len(itemLines) {
				rows[row] = itemLines[j]
			}
		}
		y += h
	}

	spacer := t.S().Spacer.Render(strings.Repeat(spacerGlyph, width))
	bar := m.scrollBar(t)
	for row := range rows {
		line := rows[row]
		if !covered[row] {
			line = spacer
		}
		line = ansi.Truncate(line, width, "")
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		rows[row] = line + " " + bar[row]
	}
	m.lines = rows

	if m.vp.top > max(m.maxTop(), 0) {
		m.ScrollTo(m.maxTop())
	}
	if err := m.engine.DidRender(); err != nil {
		slog.Error("Failed to report render", "error", err)
	}
}

// scrollBar returns one glyph per visible row.
func (m *Model) scrollBar(t *styles.Theme) []string {
	bar := make([]string, m.height)
	total := m.engine.Layout().Height()
	if total <= float64(m.height) {
		for i := range bar {
			bar[i] = " "
		}
		return bar
	}
	knob := ordered.Clamp(int(float64(m.height)*float64(m.height)/total), 1, m.height)
	pos := 0
	if maxTop := m.maxTop(); maxTop > 0 {
		pos = ordered.Clamp(m.vp.top*(m.height-knob)/maxTop, 0, m.height-knob)
	}
	for i := range bar {
		if i >= pos && i < pos+knob {
			bar[i] = t.S().ScrollKnob.Render(knobGlyph)
		} else {
			bar[i] = t.S().ScrollBar.Render(barGlyph)
		}
	}
	return bar
}
