package tui

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/turbo/internal/config"
	"github.com/charmbracelet/turbo/internal/feed"
	"github.com/charmbracelet/turbo/internal/history"
	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/charmbracelet/turbo/internal/term"
	"github.com/charmbracelet/turbo/internal/tui/list"
	"github.com/charmbracelet/turbo/internal/tui/styles"
	"github.com/charmbracelet/turbo/internal/tui/util"
)

// pageDelay stands in for the latency of fetching more posts.
const pageDelay = 300 * time.Millisecond

var lastMouseEvent time.Time

func MouseEventFilter(m tea.Model, msg tea.Msg) tea.Msg {
	switch msg.(type) {
	case tea.MouseWheelMsg, tea.MouseMotionMsg:
		now := time.Now()
		// trackpad is sending too many requests
		if now.Sub(lastMouseEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseEvent = now
	}
	return msg
}

type (
	// ConfigReloadedMsg carries scroller settings read after the
	// configuration file changed.
	ConfigReloadedMsg struct {
		Scroller config.ScrollerOptions
	}

	pageLoadedMsg struct {
		posts []feed.Post
	}
)

// appModel is the demo: a feed of posts in a windowed list.
type appModel struct {
	wWidth, wHeight int
	keyMap          KeyMap

	feed     *feed.Feed
	gen      *feed.Generator
	pager    *feed.Pager
	renderer *feed.Renderer
	list     *list.Model

	filter    textinput.Model
	filtering bool
	queries   *history.Queries

	help            help.Model
	showingFullHelp bool

	info    util.InfoMsg
	infoSeq int

	// sendProgressBar instructs the TUI to send progress bar updates to the
	// terminal.
	sendProgressBar bool

	// QueryVersion instructs the TUI to query for the terminal version when it
	// starts.
	QueryVersion bool
}

// Init initializes the application model and returns initial commands.
func (a *appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{a.list.Init(), a.list.SetItems(a.feed.Keys())}
	if a.QueryVersion {
		cmds = append(cmds, tea.RequestTerminalVersion)
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the application state.
func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.EnvMsg:
		if !a.sendProgressBar {
			a.sendProgressBar = term.EnvSupportsProgressBar(msg)
		}
		return a, nil
	case tea.TerminalVersionMsg:
		if !a.sendProgressBar {
			a.sendProgressBar = strings.Contains(strings.ToLower(msg.Name), "ghostty")
		}
		return a, nil
	case tea.WindowSizeMsg:
		a.wWidth, a.wHeight = msg.Width, msg.Height
		return a, a.resize()
	case tea.KeyPressMsg:
		return a, a.handleKeyPressMsg(msg)
	case pageLoadedMsg:
		a.pager.Done()
		a.feed.Append(msg.posts)
		return a, tea.Batch(
			a.list.SetItems(a.feed.Keys()),
			util.ReportInfo(fmt.Sprintf("Loaded %d more posts", len(msg.posts))),
		)
	case ConfigReloadedMsg:
		return a, a.applyScroller(msg.Scroller)
	case util.InfoMsg:
		a.infoSeq++
		a.info = msg
		return a, util.ClearStatusAfter(a.infoSeq, msg.TTL)
	case util.ClearStatusMsg:
		if msg.Seq == a.infoSeq {
			a.info = util.InfoMsg{}
		}
		return a, nil
	}

	_, cmd := a.list.Update(msg)
	return a, cmd
}

func (a *appModel) handleKeyPressMsg(msg tea.KeyPressMsg) tea.Cmd {
	if a.filtering {
		switch {
		case key.Matches(msg, a.keyMap.Clear):
			a.filtering = false
			a.filter.Blur()
			a.filter.SetValue("")
			a.queries.Reset()
			return tea.Batch(a.resize(), a.applyFilter())
		case key.Matches(msg, a.keyMap.Accept):
			a.filtering = false
			a.filter.Blur()
			a.queries.Reset()
			var cmd tea.Cmd
			if err := a.queries.Add(a.filter.Value()); err != nil {
				slog.Warn("Failed to save filter query", "error", err)
				cmd = util.ReportWarn("Filter history not saved")
			}
			return tea.Batch(cmd, a.resize())
		case key.Matches(msg, a.keyMap.Older):
			return a.recall(a.queries.Previous(a.filter.Value()))
		case key.Matches(msg, a.keyMap.Newer):
			return a.recall(a.queries.Next(a.filter.Value()))
		}
		before := a.filter.Value()
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(msg)
		if a.filter.Value() == before {
			return cmd
		}
		return tea.Batch(cmd, a.applyFilter())
	}

	switch {
	case key.Matches(msg, a.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, a.keyMap.Help):
		a.showingFullHelp = !a.showingFullHelp
		a.help.ShowAll = a.showingFullHelp
		return a.resize()
	case key.Matches(msg, a.keyMap.Filter):
		a.filtering = true
		return tea.Batch(a.filter.Focus(), a.resize())
	case key.Matches(msg, a.keyMap.Clear):
		if !a.feed.Filtered() {
			return nil
		}
		a.filter.SetValue("")
		return a.applyFilter()
	case key.Matches(msg, a.keyMap.Reshuffle):
		keys := a.list.Items()
		shuffled := append([]string(nil), keys...)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		a.list.GotoTop()
		return tea.Batch(a.list.SetItems(shuffled), util.ReportInfo("Reshuffled"))
	}
	_, cmd := a.list.Update(msg)
	return cmd
}

// recall puts an earlier query into the filter.
func (a *appModel) recall(query string) tea.Cmd {
	if query == a.filter.Value() {
		return nil
	}
	a.filter.SetValue(query)
	a.filter.CursorEnd()
	return a.applyFilter()
}

// applyFilter lists the posts matching the filter from the top.
func (a *appModel) applyFilter() tea.Cmd {
	a.feed.Filter(a.filter.Value())
	a.list.GotoTop()
	return a.list.SetItems(a.feed.Keys())
}

func (a *appModel) applyScroller(s config.ScrollerOptions) tea.Cmd {
	overscanCmd, err := a.list.SetOverscanRatio(s.Overscan())
	if err != nil {
		return util.ReportError(err)
	}
	debounceCmd, err := a.list.SetScrollDebounce(s.ScrollWait(), s.ScrollMaxWait())
	if err != nil {
		return util.ReportError(err)
	}
	return tea.Batch(overscanCmd, debounceCmd, util.ReportInfo("Configuration reloaded"))
}

// onPositioning loads another page once the end of the feed is in the
// window.
func (a *appModel) onPositioning(p scroller.Positioning[string]) tea.Cmd {
	if !a.pager.Want(a.feed, p) {
		return nil
	}
	n := a.pager.Size(a.feed)
	if n == 0 {
		a.pager.Done()
		return nil
	}
	posts := a.gen.Next(n)
	a.list.Metrics().IncrementCustomMetric("pages_requested")
	return tea.Tick(pageDelay, func(time.Time) tea.Msg {
		return pageLoadedMsg{posts: posts}
	})
}

func (a *appModel) renderPost(id string, width int) string {
	a.renderer.SetWidth(width)
	p, ok := a.feed.Post(id)
	if !ok {
		return id
	}
	return a.renderer.Render(p)
}

func (a *appModel) resize() tea.Cmd {
	if a.wWidth == 0 || a.wHeight == 0 {
		return nil
	}
	a.filter.SetWidth(max(a.wWidth-4, 1))
	return a.list.SetSize(a.wWidth, max(a.wHeight-lipgloss.Height(a.footer()), 1))
}

// View renders the list above the status bar.
func (a *appModel) View() tea.View {
	var view tea.View
	t := styles.CurrentTheme()
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion
	view.BackgroundColor = t.BgBase

	view.SetContent(lipgloss.JoinVertical(lipgloss.Left, a.list.View(), a.footer()))

	if a.sendProgressBar && a.pager.Loading() {
		view.ProgressBar = tea.NewProgressBar(tea.ProgressBarIndeterminate, 0)
	}
	return view
}

func (a *appModel) footer() string {
	t := styles.CurrentTheme()
	var rows []string
	if a.filtering {
		rows = append(rows, a.filter.View())
	}
	rows = append(rows, a.statusBar())
	if a.filtering {
		rows = append(rows, a.help.View(filterKeyMap(a.keyMap)))
	} else {
		rows = append(rows, a.help.View(a.keyMap))
	}
	return t.S().Base.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a *appModel) statusBar() string {
	t := styles.CurrentTheme()
	s := t.S()
	stat := func(k, v string) string {
		return s.StatusKey.Render(k+" ") + s.StatusValue.Render(v)
	}

	var parts []string
	if e := a.list.Engine(); e != nil {
		sl := e.Slice()
		blank := e.BlankSpace()
		parts = append(parts,
			stat("window", fmt.Sprintf("%d–%d/%d", sl.Start, sl.End, len(e.List()))),
			stat("spacers", fmt.Sprintf("%.0f+%.0f", blank.Above, blank.Below)),
		)
	}
	m := a.list.Metrics()
	parts = append(parts,
		stat("commits", fmt.Sprint(m.Commits.Load())),
		stat("frames", fmt.Sprint(m.FrameUpdates.Load())),
		stat("idle", fmt.Sprint(m.IdleUpdates.Load())),
		stat("measured", fmt.Sprint(m.MeasuredItems.Load())),
	)
	if a.feed.Filtered() {
		parts = append(parts, stat("filter", a.feed.Query()))
	}
	if a.pager.Loading() {
		parts = append(parts, s.StatusInfo.Render("loading…"))
	}

	switch a.info.Type {
	case util.InfoTypeError:
		parts = append(parts, s.StatusError.Render(a.info.Msg))
	default:
		if a.info.Msg != "" {
			parts = append(parts, s.StatusInfo.Render(a.info.Msg))
		}
	}

	sep := s.StatusKey.Render(" · ")
	return s.Status.Width(max(a.wWidth, 1)).Render(strings.Join(parts, sep))
}

// Close stops the list, which saves its heights.
func (a *appModel) Close() {
	a.list.Close()
}

// New creates the demo model. store may be nil, in which case heights live
// as long as the program.
func New(cfg *config.Config, store scroller.HeightStore[string]) *appModel {
	t := styles.CurrentTheme()
	gen := feed.NewGenerator(cfg.Demo.Seed)

	a := &appModel{
		keyMap: DefaultKeyMap(),
		feed:   feed.New(gen.Next(cfg.Demo.Posts)),
		gen:    gen,
		pager:  feed.NewPager(cfg.Demo.PageSize, cfg.Demo.MaxPosts),
		renderer: feed.NewRenderer(feed.Styles{
			Author: t.S().Author,
			Meta:   t.S().Muted,
			Title:  t.S().Title,
			Tag:    t.S().Tag,
		}, styles.MarkdownStyle()),
		help: help.New(),
	}
	a.help.Styles = t.S().Help

	a.queries = openQueries(cfg)

	a.filter = textinput.New()
	a.filter.Prompt = t.S().Prompt.Render("/ ")
	a.filter.Placeholder = "author, title or tag"

	sc := cfg.Scroller
	opts := []list.ListOption{
		list.WithAssumedHeight(sc.AssumedHeight),
		list.WithOverscanRatio(sc.Overscan()),
		list.WithScrollDebounce(sc.ScrollWait(), sc.ScrollMaxWait()),
		list.WithPositioningTimeout(sc.PositioningTimeout()),
		list.WithPositioningHandler(a.onPositioning),
		list.WithEnableMouse(),
	}
	if store != nil {
		opts = append(opts, list.WithHeightStore(store, sc.CacheKey))
	}
	a.list = list.New(a.renderPost, opts...)
	return a
}

// openQueries loads the filter history kept next to the height store, or
// keeps it in memory when nothing is persisted.
func openQueries(cfg *config.Config) *history.Queries {
	var path string
	if cfg.Options != nil && cfg.Options.DataDirectory != "" && cfg.Scroller.Persist() {
		path = filepath.Join(cfg.Options.DataDirectory, "filter_history.txt")
	}
	q, err := history.Open(path, history.DefaultMaxSize)
	if err != nil {
		slog.Warn("Failed to load filter history", "error", err)
		q, _ = history.Open("", history.DefaultMaxSize)
	}
	return q
}
