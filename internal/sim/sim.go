// Package sim drives a windowing engine headlessly: a fake viewport scrolls
// through a list of items with seeded heights while a manual clock stands in
// for frames, timers and idle periods.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/turbo/internal/metrics"
	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/charmbracelet/turbo/internal/scroller/scrollertest"
	"github.com/charmbracelet/x/exp/ordered"
	"golang.org/x/sync/errgroup"
)

// maxRounds bounds the frame and idle rounds run after a step.
const maxRounds = 128

// Options describes one run.
type Options struct {
	Items         int     `json:"items"`
	Viewport      float64 `json:"viewport"`
	AssumedHeight float64 `json:"assumed_height"`
	// Items get a height drawn uniformly from [MinHeight, MaxHeight].
	MinHeight int     `json:"min_height"`
	MaxHeight int     `json:"max_height"`
	Overscan  float64 `json:"overscan"`

	// Steps scroll events are sent, Step apart, Interval apart in time.
	// The direction flips at either end of the list.
	Steps    int           `json:"steps"`
	Step     float64       `json:"step"`
	Interval time.Duration `json:"interval"`
	// IdleEvery lets idle work run after every n-th step. Zero means idle
	// work only runs when its timeout expires.
	IdleEvery int `json:"idle_every"`

	ScrollWait         time.Duration `json:"scroll_wait"`
	ScrollMaxWait      time.Duration `json:"scroll_max_wait"`
	PositioningTimeout time.Duration `json:"positioning_timeout"`

	Seed int64 `json:"seed"`
}

// DefaultOptions returns a run over a thousand items scrolled a few lines
// at a time.
func DefaultOptions() Options {
	return Options{
		Items:              1000,
		Viewport:           40,
		AssumedHeight:      8,
		MinHeight:          3,
		MaxHeight:          20,
		Overscan:           0.5,
		Steps:              200,
		Step:               7,
		Interval:           16 * time.Millisecond,
		IdleEvery:          10,
		ScrollWait:         100 * time.Millisecond,
		ScrollMaxWait:      100 * time.Millisecond,
		PositioningTimeout: 500 * time.Millisecond,
		Seed:               1,
	}
}

func (o Options) validate() error {
	switch {
	case o.Items < 0:
		return fmt.Errorf("items must not be negative, got %d", o.Items)
	case !(o.Viewport > 0):
		return fmt.Errorf("viewport must be positive, got %v", o.Viewport)
	case o.MinHeight < 1 || o.MaxHeight < o.MinHeight:
		return fmt.Errorf("invalid height range [%d, %d]", o.MinHeight, o.MaxHeight)
	case o.Steps < 0:
		return fmt.Errorf("steps must not be negative, got %d", o.Steps)
	case o.Interval < 0:
		return fmt.Errorf("interval must not be negative, got %v", o.Interval)
	}
	return nil
}

// Snapshot is the state of the run after a step.
type Snapshot struct {
	Step    int                 `json:"step"`
	Top     float64             `json:"top"`
	Slice   scroller.Slice      `json:"slice"`
	Blank   scroller.BlankSpace `json:"blank"`
	Height  float64             `json:"height"`
	Covered bool                `json:"covered"`
}

// Result is the outcome of a run.
type Result struct {
	Seed      int64      `json:"seed"`
	Snapshots []Snapshot `json:"snapshots,omitempty"`
	Final     Snapshot   `json:"final"`
	// BlankSteps counts the steps after which part of the viewport showed
	// spacer instead of items.
	BlankSteps   int            `json:"blank_steps"`
	Positionings int            `json:"positionings"`
	LastReport   scroller.Slice `json:"last_report"`
	Metrics      map[string]any `json:"metrics"`
}

type run struct {
	opts     Options
	heights  []float64
	sched    *scrollertest.IdleScheduler
	viewport *scrollertest.Viewport
	measurer *scrollertest.Measurer[int]
	engine   *scroller.Engine[int, int]
	metrics  *metrics.Metrics
	dirty    bool

	positionings int
	lastReport   scroller.Slice
}

// Run performs one run with o.
func Run(ctx context.Context, o Options) (Result, error) {
	if err := o.validate(); err != nil {
		return Result{}, err
	}

	r := &run{
		opts:     o,
		heights:  trueHeights(o),
		sched:    scrollertest.NewIdleScheduler(),
		viewport: scrollertest.NewViewport(o.Viewport),
		measurer: scrollertest.NewMeasurer[int](),
		metrics:  metrics.NewMetrics(),
	}

	e, err := scroller.New(scroller.Config[int, int]{
		List:          scrollertest.Keys(o.Items),
		Viewport:      r.viewport,
		RenderItem:    func(k int) int { return k },
		Measurer:      r.measurer,
		Scheduler:     r.sched,
		AssumedHeight: o.AssumedHeight,
		Invalidate:    func() { r.dirty = true },
		OnPositioningUpdate: func(p scroller.Positioning[int]) {
			r.positionings++
			r.lastReport = p.Slice()
		},
	},
		scroller.WithOverscanRatio(o.Overscan),
		scroller.WithScrollDebounce(o.ScrollWait, o.ScrollMaxWait),
		scroller.WithPositioningTimeout(o.PositioningTimeout),
		scroller.WithMetrics(r.metrics),
	)
	if err != nil {
		return Result{}, err
	}
	r.engine = e

	r.render()
	if err := e.Mount(); err != nil {
		return Result{}, err
	}
	defer e.Unmount() //nolint:errcheck
	r.pump(true)

	res := Result{Seed: o.Seed}
	top, dir := 0.0, 1.0
	for step := 1; step <= o.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		maxTop := max(e.Layout().Height()-o.Viewport, 0)
		next := top + dir*o.Step
		if next > maxTop || next < 0 {
			dir = -dir
			next = ordered.Clamp(next, 0, maxTop)
		}
		top = next
		r.viewport.ScrollTo(top)

		r.sched.Advance(o.Interval)
		r.pump(o.IdleEvery > 0 && step%o.IdleEvery == 0)

		snap := r.snapshot(step)
		if !snap.Covered {
			res.BlankSteps++
		}
		res.Snapshots = append(res.Snapshots, snap)
	}

	// Let every debounce and timeout expire, then go idle.
	r.sched.Advance(max(o.ScrollMaxWait, o.PositioningTimeout))
	r.pump(true)

	res.Final = r.snapshot(o.Steps)
	res.Positionings = r.positionings
	res.LastReport = r.lastReport
	res.Metrics = r.metrics.GetSnapshot()
	delete(res.Metrics, "uptime_seconds")
	delete(res.Metrics, "avg_measure_ms")
	return res, nil
}

// RunMany performs runs runs in parallel, seeding run i with o.Seed+i.
// Results are in seed order.
func RunMany(ctx context.Context, o Options, runs int) ([]Result, error) {
	if runs < 1 {
		return nil, errors.New("at least one run is required")
	}

	results := make([]Result, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range runs {
		g.Go(func() error {
			ro := o
			ro.Seed = o.Seed + int64(i)
			res, err := Run(ctx, ro)
			if err != nil {
				return fmt.Errorf("run with seed %d: %w", ro.Seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.Debug("Simulations finished", "runs", runs, "seed", o.Seed)
	return results, nil
}

// pump runs frames, draws and, when idle is set, idle work until nothing is
// left to do.
func (r *run) pump(idle bool) {
	for range maxRounds {
		n := r.sched.RunFrame()
		r.render()
		if idle {
			n += r.sched.RunIdle()
			r.render()
		}
		if n == 0 && !r.dirty {
			return
		}
	}
}

// render draws the window: every drawn item becomes measurable.
func (r *run) render() {
	if r.engine.State() == scroller.StateMounted && !r.dirty {
		return
	}
	r.dirty = false
	for _, k := range r.engine.Render().Keys {
		r.measurer.Set(k, r.heights[k])
	}
	if r.engine.State() == scroller.StateMounted {
		_ = r.engine.DidRender()
	}
}

func (r *run) snapshot(step int) Snapshot {
	layout := r.engine.Layout()
	rect := r.viewport.Rect()
	s := r.engine.Slice()
	return Snapshot{
		Step:    step,
		Top:     rect.Top,
		Slice:   s,
		Blank:   r.engine.BlankSpace(),
		Height:  layout.Height(),
		Covered: covers(layout, s, rect),
	}
}

// covers reports whether the items of s span the part of the viewport that
// overlaps the list.
func covers(layout scroller.Layout[int], s scroller.Slice, v scroller.ViewportRect) bool {
	top := max(v.Top, 0)
	bottom := min(v.Bottom(), layout.Height())
	if bottom <= top {
		return true
	}
	s = s.Clamp(layout.Len())
	if s.Empty() {
		return false
	}
	return layout.At(s.Start).Top <= top && layout.At(s.End-1).Bottom >= bottom
}

func trueHeights(o Options) []float64 {
	rng := rand.New(rand.NewPCG(uint64(o.Seed), uint64(o.Seed)^0x5851f42d4c957f2d))
	out := make([]float64, o.Items)
	for i := range out {
		out[i] = float64(o.MinHeight + rng.IntN(o.MaxHeight-o.MinHeight+1))
	}
	return out
}
