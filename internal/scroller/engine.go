// Package scroller materializes a scroll-relevant window of a long list whose
// items have variable heights that are only known once they are drawn.
//
// An Engine keeps a prefix-sum layout built from measured heights (or an
// assumed height for items never drawn), picks the range of items the host
// should render, and decides when to pick again. It never draws anything: the
// host renders the items of Window between two spacers of BlankSpace, then
// calls DidRender so the engine can measure what was drawn.
package scroller

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/turbo/internal/metrics"
	"github.com/google/uuid"
)

// Viewport is the scrolling area the list lives in.
type Viewport interface {
	// Rect returns the visible area. Top is the scroll offset in the same
	// coordinates as the list origin.
	Rect() ViewportRect
	// OnScroll registers fn to be called after every scroll.
	OnScroll(fn func()) (unsubscribe func())
}

// Config holds the collaborators of an Engine. Every field but Store, Origin,
// Invalidate and OnHeightsUpdate is required.
type Config[K comparable, R any] struct {
	List          []K
	Viewport      Viewport
	RenderItem    func(K) R
	Measurer      Measurer[K]
	Scheduler     Scheduler
	AssumedHeight float64

	// OnPositioningUpdate receives geometry snapshots at low priority.
	OnPositioningUpdate func(Positioning[K])
	// OnHeightsUpdate is called after a measurement pass that changed the
	// layout.
	OnHeightsUpdate func(Measurement)
	// Invalidate asks the host to draw again. The host answers with
	// DidRender once it has.
	Invalidate func()

	// Store keeps measured heights across engines. Defaults to a store
	// private to the engine.
	Store HeightStore[K]
	// Origin returns the offset of the list within the viewport's content,
	// for lists that do not start at the top of their scroll container.
	Origin func() float64
}

// State is the lifecycle stage of an Engine.
type State int

const (
	StateUninitialized State = iota
	StateMounted
	StateUnmounted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateMounted:
		return "mounted"
	case StateUnmounted:
		return "unmounted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine windows a list. It is not safe for concurrent use: every method and
// every callback its Scheduler runs must happen on one goroutine.
type Engine[K comparable, R any] struct {
	cfg     Config[K, R]
	opts    options
	metrics *metrics.Metrics
	logger  *slog.Logger

	list    []K
	heights Heights[K]
	slice   Slice
	state   State

	unsubscribe func()
	scroll      *debouncer
	frame       *coalescer
	idle        *coalescer
	positioning *coalescer
}

// New validates cfg and builds an engine showing the first screen of the
// list. Heights stored under the cache key are used right away.
func New[K comparable, R any](cfg Config[K, R], opts ...Option) (*Engine[K, R], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validate(cfg, o); err != nil {
		return nil, err
	}

	if cfg.Store == nil {
		cfg.Store = NewMemoryStore[K]()
	}
	if cfg.Origin == nil {
		cfg.Origin = func() float64 { return 0 }
	}
	if o.metrics == nil {
		o.metrics = metrics.NewMetrics()
	}

	e := &Engine[K, R]{
		cfg:     cfg,
		opts:    o,
		metrics: o.metrics,
		logger:  slog.Default().With("engine", uuid.NewString()[:8]),
		list:    cfg.List,
	}

	if o.cacheKey != "" {
		h, ok := cfg.Store.Get(o.cacheKey)
		e.metrics.RecordStoreLookup(ok)
		if ok {
			e.heights = h
		}
		e.logger.Debug("Loaded height cache", "key", o.cacheKey, "found", ok, "entries", h.Len())
	}

	e.slice = InitialSlice(e.layout(), o.initialIndex, cfg.Viewport.Rect().Height)

	e.frame = newCoalescer(cfg.Scheduler.Frame, e.runFrameUpdate)
	e.idle = newCoalescer(idleOrFrame(cfg.Scheduler, 0), e.runIdleUpdate)
	e.positioning = newCoalescer(idleOrFrame(cfg.Scheduler, o.positioningTimeout), e.notifyPositioning)
	e.scroll = newDebouncer(cfg.Scheduler, o.scrollWait, o.scrollMaxWait, e.scrolled)

	return e, nil
}

func validate[K comparable, R any](cfg Config[K, R], o options) error {
	switch {
	case cfg.Viewport == nil:
		return fmt.Errorf("%w: viewport is required", ErrInvalidConfig)
	case cfg.RenderItem == nil:
		return fmt.Errorf("%w: render function is required", ErrInvalidConfig)
	case cfg.Measurer == nil:
		return fmt.Errorf("%w: measurer is required", ErrInvalidConfig)
	case cfg.Scheduler == nil:
		return fmt.Errorf("%w: scheduler is required", ErrInvalidConfig)
	case cfg.OnPositioningUpdate == nil:
		return fmt.Errorf("%w: positioning callback is required", ErrInvalidConfig)
	case !(cfg.AssumedHeight > 0) || math.IsInf(cfg.AssumedHeight, 0):
		return fmt.Errorf("%w: assumed height must be positive, got %v", ErrInvalidConfig, cfg.AssumedHeight)
	case !(o.overscanRatio >= 0) || math.IsInf(o.overscanRatio, 0):
		return fmt.Errorf("%w: overscan ratio must not be negative, got %v", ErrInvalidConfig, o.overscanRatio)
	case o.initialIndex < 0:
		return fmt.Errorf("%w: initial item index must not be negative, got %d", ErrInvalidConfig, o.initialIndex)
	case o.scrollWait < 0 || o.scrollMaxWait < 0:
		return fmt.Errorf("%w: scroll debounce must not be negative", ErrInvalidConfig)
	case o.positioningTimeout < 0:
		return fmt.Errorf("%w: positioning timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Mount starts listening to the viewport and runs the first round of
// post-render processing.
func (e *Engine[K, R]) Mount() error {
	switch e.state {
	case StateMounted:
		return ErrAlreadyMounted
	case StateUnmounted:
		return ErrUnmounted
	}
	e.state = StateMounted
	e.unsubscribe = e.cfg.Viewport.OnScroll(e.handleScroll)
	e.logger.Debug("Mounted", "items", len(e.list), "slice", e.slice)
	e.postRender(true)
	return nil
}

// SetList replaces the list. Heights of keys that appear in both lists are
// kept. The window is clamped to the new list and re-evaluated.
func (e *Engine[K, R]) SetList(list []K) {
	if e.state == StateUnmounted {
		e.dropped("set list")
		return
	}
	e.list = list
	e.commit(e.slice.Clamp(len(list)))
	if e.state == StateMounted {
		e.postRender(true)
	}
}

// DidRender tells the engine the host drew the current window.
func (e *Engine[K, R]) DidRender() error {
	switch e.state {
	case StateUninitialized:
		return ErrNotMounted
	case StateUnmounted:
		e.dropped("render")
		return nil
	}
	e.postRender(false)
	return nil
}

// Unmount stops listening to the viewport and hands the measured heights to
// the store. Anything already scheduled becomes a no-op.
func (e *Engine[K, R]) Unmount() error {
	switch e.state {
	case StateUninitialized:
		return ErrNotMounted
	case StateUnmounted:
		return nil
	}
	e.state = StateUnmounted
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.scroll.Cancel()
	if e.opts.cacheKey != "" {
		e.cfg.Store.Set(e.opts.cacheKey, e.heights)
	}
	e.logger.Debug("Unmounted", "key", e.opts.cacheKey, "heights", e.heights.Len())
	return nil
}

// SetOverscanRatio changes the overscan ratio of a live engine.
func (e *Engine[K, R]) SetOverscanRatio(ratio float64) error {
	if !(ratio >= 0) || math.IsInf(ratio, 0) {
		return fmt.Errorf("%w: overscan ratio must not be negative, got %v", ErrInvalidConfig, ratio)
	}
	if ratio == e.opts.overscanRatio {
		return nil
	}
	e.opts.overscanRatio = ratio
	if e.state == StateMounted && !e.windowCovers() {
		e.idle.Trigger()
	}
	return nil
}

// SetScrollDebounce changes the scroll debounce of a live engine. A pending
// burst keeps its timer and is judged by the new limits when it fires. A
// maxWait below wait is raised to wait.
func (e *Engine[K, R]) SetScrollDebounce(wait, maxWait time.Duration) error {
	if wait < 0 || maxWait < 0 {
		return fmt.Errorf("%w: scroll debounce must not be negative", ErrInvalidConfig)
	}
	if e.state == StateUnmounted {
		e.dropped("set scroll debounce")
		return nil
	}
	e.scroll.setLimits(wait, maxWait)
	return nil
}

// State returns the lifecycle stage.
func (e *Engine[K, R]) State() State {
	return e.state
}

// Metrics returns the collector the engine records into.
func (e *Engine[K, R]) Metrics() *metrics.Metrics {
	return e.metrics
}

// List returns the list the engine windows.
func (e *Engine[K, R]) List() []K {
	return e.list
}

// Slice returns the materialized range.
func (e *Engine[K, R]) Slice() Slice {
	return e.slice
}

// Heights returns the measured heights. The value is immutable.
func (e *Engine[K, R]) Heights() Heights[K] {
	return e.heights
}

// Layout computes the current geometry of the list.
func (e *Engine[K, R]) Layout() Layout[K] {
	return e.layout()
}

// Window returns the keys of the materialized items.
func (e *Engine[K, R]) Window() []K {
	s := e.slice.Clamp(len(e.list))
	return slices.Clone(e.list[s.Start:s.End])
}

// BlankSpace returns the spacer sizes around the window.
func (e *Engine[K, R]) BlankSpace() BlankSpace {
	return ComputeBlankSpace(e.layout(), e.slice)
}

// Render renders every materialized item.
func (e *Engine[K, R]) Render() Frame[K, R] {
	keys := e.Window()
	blank := e.BlankSpace()
	f := Frame[K, R]{
		Above: blank.Above,
		Below: blank.Below,
		Keys:  keys,
		Items: make([]R, len(keys)),
	}
	for i, key := range keys {
		f.Items[i] = e.cfg.RenderItem(key)
	}
	return f
}

// Positioning returns a snapshot of the current geometry.
func (e *Engine[K, R]) Positioning() Positioning[K] {
	return Positioning[K]{
		Viewport:   e.relativeViewport(),
		Rects:      e.layout().Map(),
		SliceStart: e.slice.Start,
		SliceEnd:   e.slice.End,
	}
}

func (e *Engine[K, R]) layout() Layout[K] {
	return ComputeLayout(e.list, e.heights, e.cfg.AssumedHeight)
}

// relativeViewport translates the viewport into list coordinates. It is
// empty until the list is mounted.
func (e *Engine[K, R]) relativeViewport() ViewportRect {
	if e.state != StateMounted {
		return ViewportRect{}
	}
	r := e.cfg.Viewport.Rect()
	r.Top -= e.cfg.Origin()
	return r
}

func (e *Engine[K, R]) desiredSlice() (Slice, bool) {
	if e.state != StateMounted {
		return Slice{}, false
	}
	return DesiredSlice(e.layout(), e.relativeViewport(), e.opts.overscanRatio)
}

// windowCovers reports whether the committed window still holds everything
// the viewport needs.
func (e *Engine[K, R]) windowCovers() bool {
	desired, ok := e.desiredSlice()
	if !ok {
		return true
	}
	return e.slice.Contains(desired)
}

func (e *Engine[K, R]) postRender(listChanged bool) {
	start := time.Now()
	heights, m := RecordHeights(e.Window(), e.heights, e.cfg.AssumedHeight, e.cfg.Measurer)
	e.metrics.RecordMeasure(time.Since(start), m.Measured, m.Changed)
	if m.Changed {
		e.heights = heights
		e.logger.Debug("Heights changed", "measured", m.Measured, "delta", m.Delta)
		if e.cfg.OnHeightsUpdate != nil {
			e.cfg.OnHeightsUpdate(m)
		}
		e.invalidate()
	}

	if listChanged || m.Changed || !e.windowCovers() {
		e.idle.Trigger()
	}
	e.positioning.Trigger()
}

func (e *Engine[K, R]) handleScroll() {
	if e.state != StateMounted {
		e.dropped("scroll")
		return
	}
	e.metrics.ScrollEvents.Add(1)
	e.scroll.Call()
}

func (e *Engine[K, R]) scrolled() {
	if e.state != StateMounted {
		e.dropped("scroll debounce")
		return
	}
	e.frame.Trigger()
}

func (e *Engine[K, R]) runFrameUpdate() {
	if e.state != StateMounted {
		e.dropped("frame update")
		return
	}
	e.metrics.FrameUpdates.Add(1)
	e.update()
}

func (e *Engine[K, R]) runIdleUpdate() {
	if e.state != StateMounted {
		e.dropped("idle update")
		return
	}
	e.metrics.IdleUpdates.Add(1)
	e.update()
}

// update moves the window toward the slice the viewport needs.
func (e *Engine[K, R]) update() {
	desired, ok := e.desiredSlice()
	if !ok {
		return
	}
	e.positioning.Trigger()
	e.commit(MergeSlice(e.slice, desired))
}

func (e *Engine[K, R]) commit(s Slice) {
	if s == e.slice {
		return
	}
	e.logger.Debug("Committed slice", "from", e.slice, "to", s)
	e.slice = s
	e.metrics.RecordCommit(s.Len())
	e.invalidate()
}

func (e *Engine[K, R]) invalidate() {
	if e.cfg.Invalidate != nil && e.state == StateMounted {
		e.cfg.Invalidate()
	}
}

func (e *Engine[K, R]) notifyPositioning() {
	if e.state != StateMounted {
		e.dropped("positioning")
		return
	}
	e.metrics.Positionings.Add(1)
	e.cfg.OnPositioningUpdate(e.Positioning())
}

func (e *Engine[K, R]) dropped(what string) {
	e.metrics.DroppedCallbacks.Add(1)
	e.logger.Debug("Ignoring callback after unmount", "callback", what)
}
