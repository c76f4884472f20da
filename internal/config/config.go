package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tidwall/pretty"
)

// Defaults for every tunable the core consumes. These mirror spec's §3/§4
// defaults: ~4 KiB chunks, 8-column tabs, a small scroll margin, a
// large-file threshold past which line scanning is deferred, and a
// keystroke-grouping timeout for undo.
const (
	DefaultChunkMinSize     = 2048
	DefaultChunkMaxSize     = 4096
	DefaultTabWidth         = 8
	DefaultScrollMargin     = 2
	DefaultLargeFileBytes   = 32 << 20 // 32 MiB
	DefaultUndoGroupTimeout = 700 * time.Millisecond
	configFileName          = "fresh.json"
)

// ErrSettingNotFound indicates a requested setting has no override and no
// default; callers fall back to the zero value.
var ErrSettingNotFound = errors.New("config: setting not found")

// Settings is the plain, JSON-(de)serializable set of tunables. It is
// deliberately small: schema export and a settings UI are out of scope
// for this core, so there is nothing here beyond what §3/§4 name.
type Settings struct {
	ChunkMinSize     int           `json:"chunk_min_size"`
	ChunkMaxSize     int           `json:"chunk_max_size"`
	TabWidth         int           `json:"tab_width"`
	ScrollMargin     int           `json:"scroll_margin"`
	LargeFileBytes   int64         `json:"large_file_bytes"`
	UndoGroupTimeout time.Duration `json:"undo_group_timeout_ms"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		ChunkMinSize:     DefaultChunkMinSize,
		ChunkMaxSize:     DefaultChunkMaxSize,
		TabWidth:         DefaultTabWidth,
		ScrollMargin:     DefaultScrollMargin,
		LargeFileBytes:   DefaultLargeFileBytes,
		UndoGroupTimeout: DefaultUndoGroupTimeout,
	}
}

// jsonSettings mirrors Settings but carries the undo timeout in
// milliseconds, since encoding/json has no native duration support.
type jsonSettings struct {
	ChunkMinSize     int   `json:"chunk_min_size"`
	ChunkMaxSize     int   `json:"chunk_max_size"`
	TabWidth         int   `json:"tab_width"`
	ScrollMargin     int   `json:"scroll_margin"`
	LargeFileBytes   int64 `json:"large_file_bytes"`
	UndoGroupTimeout int64 `json:"undo_group_timeout_ms"`
}

func (s Settings) toJSON() jsonSettings {
	return jsonSettings{
		ChunkMinSize:     s.ChunkMinSize,
		ChunkMaxSize:     s.ChunkMaxSize,
		TabWidth:         s.TabWidth,
		ScrollMargin:     s.ScrollMargin,
		LargeFileBytes:   s.LargeFileBytes,
		UndoGroupTimeout: s.UndoGroupTimeout.Milliseconds(),
	}
}

func (j jsonSettings) apply(s *Settings) {
	if j.ChunkMinSize > 0 {
		s.ChunkMinSize = j.ChunkMinSize
	}
	if j.ChunkMaxSize > 0 {
		s.ChunkMaxSize = j.ChunkMaxSize
	}
	if j.TabWidth > 0 {
		s.TabWidth = j.TabWidth
	}
	if j.ScrollMargin >= 0 {
		s.ScrollMargin = j.ScrollMargin
	}
	if j.LargeFileBytes > 0 {
		s.LargeFileBytes = j.LargeFileBytes
	}
	if j.UndoGroupTimeout > 0 {
		s.UndoGroupTimeout = time.Duration(j.UndoGroupTimeout) * time.Millisecond
	}
}

// Config is the process-wide options holder. Every subsystem that takes a
// functional-options constructor (rope.ConfigureChunkSize, the view
// pipeline's tab width, history's undo-group timeout, ...) reads its
// starting values from a Config snapshot rather than its own baked-in
// constant.
type Config struct {
	mu sync.RWMutex

	settings Settings

	userConfigDir    string
	projectConfigDir string

	// enableWatcher/enableSchema are accepted for call-site compatibility
	// with the donor's bootstrap sequence. Live-reload watching and schema
	// validation are out of scope for this core (settings UI, schema
	// export); both are recorded but inert.
	enableWatcher bool
	enableSchema  bool

	closed bool
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the user configuration directory searched by Load.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) { c.userConfigDir = dir }
}

// WithProjectConfigDir sets the project configuration directory searched
// by Load. A project-level fresh.json overrides a user-level one.
func WithProjectConfigDir(dir string) Option {
	return func(c *Config) { c.projectConfigDir = dir }
}

// WithWatcher records whether live-reload watching was requested. Out of
// scope for this core; recorded only so callers don't need a build tag.
func WithWatcher(enable bool) Option {
	return func(c *Config) { c.enableWatcher = enable }
}

// WithSchemaValidation records whether schema validation was requested.
// Schema export and validation are out of scope for this core.
func WithSchemaValidation(enable bool) Option {
	return func(c *Config) { c.enableSchema = enable }
}

// WithSettings overrides the starting settings (tests mainly use this to
// avoid touching disk).
func WithSettings(s Settings) Option {
	return func(c *Config) { c.settings = s }
}

// New creates a Config with defaults, then applies opts.
func New(opts ...Option) *Config {
	c := &Config{settings: DefaultSettings()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads fresh.json from the project config directory if set, else
// the user config directory, merging found values over the defaults. A
// missing file is not an error; the zero value for any absent field keeps
// the default.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, dir := range []string{c.projectConfigDir, c.userConfigDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, configFileName)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		var j jsonSettings
		if err := json.Unmarshal(data, &j); err != nil {
			return err
		}
		j.apply(&c.settings)
	}
	return nil
}

// Close marks the config as shut down. There is no watcher or notifier to
// stop in this core; Close exists so callers can treat Config like any
// other lifecycle-managed component.
func (c *Config) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Snapshot returns a copy of the current settings.
func (c *Config) Snapshot() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// ChunkSize returns the configured min/max rope chunk size.
func (c *Config) ChunkSize() (min, max int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.ChunkMinSize, c.settings.ChunkMaxSize
}

// TabWidth returns the configured tab expansion width.
func (c *Config) TabWidth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.TabWidth
}

// ScrollMargin returns the configured minimum scroll-off margin.
func (c *Config) ScrollMargin() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.ScrollMargin
}

// LargeFileThreshold returns the byte size past which large-file mode
// (deferred newline scanning) activates.
func (c *Config) LargeFileThreshold() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.LargeFileBytes
}

// UndoGroupTimeout returns the window within which consecutive
// single-character inserts from the same cursor merge into one undo
// group.
func (c *Config) UndoGroupTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.UndoGroupTimeout
}

// Marshal serializes the current settings as indented JSON, for a
// keystroke-log-style debug dump. pretty.Pretty is used instead of
// json.MarshalIndent so the same formatter backs both this and the
// keystroke-log dump below, keeping their indentation/key order
// conventions identical.
func (c *Config) Marshal() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, err := json.Marshal(c.settings.toJSON())
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(data), nil
}
