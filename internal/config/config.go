package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/turbo/internal/fsext"
	"github.com/invopop/jsonschema"
)

const (
	appName              = "turbo"
	defaultDataDirectory = ".turbo"
	defaultCacheKey      = "feed"
)

// Defaults for the scroller section. Heights are in terminal lines.
const (
	DefaultAssumedHeight        = 8
	DefaultOverscanRatio        = 0.5
	DefaultScrollWaitMS         = 100
	DefaultScrollMaxWaitMS      = 100
	DefaultPositioningTimeoutMS = 500
)

// Defaults for the demo feed.
const (
	DefaultPosts    = 500
	DefaultPageSize = 100
	DefaultMaxPosts = 5000
)

type Options struct {
	DataDirectory string `json:"data_directory,omitempty" jsonschema:"description=Directory for storing application data (relative to working directory),default=.turbo,example=.turbo"`
	Debug         bool   `json:"debug,omitempty" jsonschema:"description=Enable debug logging,default=false"`
}

type ScrollerOptions struct {
	// Height given to items that have never been drawn.
	AssumedHeight int `json:"assumed_height,omitempty" jsonschema:"description=Height in lines assumed for items that were never drawn,minimum=1,default=8"`
	// Fraction of the viewport rendered above and below it.
	OverscanRatio *float64 `json:"overscan_ratio,omitempty" jsonschema:"description=Viewport heights rendered beyond each edge of the viewport,minimum=0,default=0.5,example=1"`

	ScrollWaitMS         int `json:"scroll_wait_ms,omitempty" jsonschema:"description=Quiet period in milliseconds before a scroll burst updates the window,minimum=0,default=100"`
	ScrollMaxWaitMS      int `json:"scroll_max_wait_ms,omitempty" jsonschema:"description=Longest delay in milliseconds a scroll burst may impose,minimum=0,default=100"`
	PositioningTimeoutMS int `json:"positioning_timeout_ms,omitempty" jsonschema:"description=Longest delay in milliseconds for positioning reports,minimum=0,default=500"`

	// Name of the height cache in the height store.
	CacheKey string `json:"cache_key,omitempty" jsonschema:"description=Name under which measured heights are stored,default=feed"`
	// Persist measured heights to disk between runs.
	PersistHeights *bool `json:"persist_heights,omitempty" jsonschema:"description=Keep measured heights in the data directory between runs,default=true"`
}

func (s ScrollerOptions) Overscan() float64 {
	return ptrValOr(s.OverscanRatio, DefaultOverscanRatio)
}

func (s ScrollerOptions) ScrollWait() time.Duration {
	return time.Duration(s.ScrollWaitMS) * time.Millisecond
}

func (s ScrollerOptions) ScrollMaxWait() time.Duration {
	return time.Duration(s.ScrollMaxWaitMS) * time.Millisecond
}

func (s ScrollerOptions) PositioningTimeout() time.Duration {
	return time.Duration(s.PositioningTimeoutMS) * time.Millisecond
}

func (s ScrollerOptions) Persist() bool {
	return ptrValOr(s.PersistHeights, true)
}

type DemoOptions struct {
	Posts    int   `json:"posts,omitempty" jsonschema:"description=Number of posts in the feed at start,minimum=0,default=500"`
	PageSize int   `json:"page_size,omitempty" jsonschema:"description=Number of posts loaded when the end of the feed is reached,minimum=1,default=100"`
	MaxPosts int   `json:"max_posts,omitempty" jsonschema:"description=Stop loading posts past this many,minimum=0,default=5000"`
	Seed     int64 `json:"seed,omitempty" jsonschema:"description=Seed of the generated feed. Zero picks a fixed default"`
}

// Config holds the configuration for turbo.
type Config struct {
	Schema string `json:"$schema,omitempty"`

	Options *Options `json:"options,omitempty" jsonschema:"description=General application options"`

	Scroller ScrollerOptions `json:"scroller,omitzero" jsonschema:"description=List windowing options"`

	Demo DemoOptions `json:"demo,omitzero" jsonschema:"description=Options of the demo feed"`

	workingDir string
}

func (Config) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Title = "Turbo Configuration"
	schema.Description = "Configuration schema for the turbo list windowing demo"
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// HeightsDB returns the path of the height store database.
func (c *Config) HeightsDB() string {
	return filepath.Join(c.Options.DataDirectory, appName+".db")
}

// LogFile returns the path of the log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.Options.DataDirectory, "logs", appName+".log")
}

func (c *Config) setDefaults(workingDir, dataDir string) {
	c.workingDir = workingDir
	if c.Options == nil {
		c.Options = &Options{}
	}
	switch {
	case dataDir != "":
		c.Options.DataDirectory = dataDir
	case c.Options.DataDirectory == "":
		c.Options.DataDirectory = filepath.Join(workingDir, defaultDataDirectory)
	default:
		c.Options.DataDirectory = fsext.Resolve(workingDir, c.Options.DataDirectory)
	}

	s := &c.Scroller
	if s.AssumedHeight == 0 {
		s.AssumedHeight = DefaultAssumedHeight
	}
	if s.ScrollWaitMS == 0 {
		s.ScrollWaitMS = DefaultScrollWaitMS
	}
	if s.ScrollMaxWaitMS == 0 {
		s.ScrollMaxWaitMS = DefaultScrollMaxWaitMS
	}
	if s.PositioningTimeoutMS == 0 {
		s.PositioningTimeoutMS = DefaultPositioningTimeoutMS
	}
	if s.CacheKey == "" {
		s.CacheKey = defaultCacheKey
	}

	d := &c.Demo
	if d.Posts == 0 {
		d.Posts = DefaultPosts
	}
	if d.PageSize == 0 {
		d.PageSize = DefaultPageSize
	}
	if d.MaxPosts == 0 {
		d.MaxPosts = DefaultMaxPosts
	}
	if d.Seed == 0 {
		d.Seed = 1
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	s := c.Scroller
	if s.AssumedHeight < 1 {
		errs = append(errs, fmt.Errorf("scroller.assumed_height must be at least 1, got %d", s.AssumedHeight))
	}
	if s.Overscan() < 0 {
		errs = append(errs, fmt.Errorf("scroller.overscan_ratio must not be negative, got %v", s.Overscan()))
	}
	if s.ScrollWaitMS < 0 || s.ScrollMaxWaitMS < 0 {
		errs = append(errs, errors.New("scroller debounce must not be negative"))
	}
	if s.PositioningTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("scroller.positioning_timeout_ms must not be negative, got %d", s.PositioningTimeoutMS))
	}
	d := c.Demo
	if d.Posts < 0 || d.MaxPosts < 0 {
		errs = append(errs, errors.New("demo post counts must not be negative"))
	}
	if d.PageSize < 1 {
		errs = append(errs, fmt.Errorf("demo.page_size must be at least 1, got %d", d.PageSize))
	}
	return errors.Join(errs...)
}

func ptrValOr[T any](t *T, el T) T {
	if t == nil {
		return el
	}
	return *t
}
