package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/hanckmann/webcamrec/assets"
)

const (
	// SourceAuto records from the webcam when a backend is compiled in and
	// from the screen otherwise.
	SourceAuto      = "auto"
	SourceScreen    = "screen"
	SourceSynthetic = "synthetic"
	SourceWebcam    = "webcam"

	SurfaceTk       = "tk"
	SurfaceTerminal = "terminal"
	SurfaceNone     = "none"
	SurfaceGocv     = "gocv"

	FormatAuto = "auto"
	FormatJSON = "json"
	FormatText = "text"

	// ProjectFile is looked up in the working directory first.
	ProjectFile = "webcamrec.toml"
)

// Config holds runtime configuration for the recorder.
// Fields may be loaded from a TOML file and overridden by command-line flags.
type Config struct {
	// Root receives data/<session>/. Empty means the working directory.
	Root    string  `toml:"root"`
	Capture Capture `toml:"capture"`
	Display Display `toml:"display"`
	Logging Logging `toml:"logging"`
	Debug   Debug   `toml:"debug"`
}

type Capture struct {
	Source       string `toml:"source"`
	Device       int    `toml:"device"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	RetryDelayMS int    `toml:"retry_delay_ms"`
	SyntheticFPS int    `toml:"synthetic_fps"`
}

type Display struct {
	Surface        string `toml:"surface"`
	Title          string `toml:"title"`
	PollIntervalMS int    `toml:"poll_interval_ms"`
	PreviewWidth   int    `toml:"preview_width"`
	PreviewHeight  int    `toml:"preview_height"`
	Dark           bool   `toml:"dark"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Debug struct {
	Enabled        bool `toml:"enabled"`
	IntervalS      int  `toml:"interval_s"`
	QueueWarnDepth int  `toml:"queue_warn_depth"`
}

// Default returns a Config populated with standard defaults.
func Default() *Config {
	return &Config{
		Capture: Capture{
			Source:       SourceAuto,
			Device:       0,
			Width:        640,
			Height:       480,
			RetryDelayMS: 10,
			SyntheticFPS: 30,
		},
		Display: Display{
			Surface:        SurfaceTk,
			Title:          "webcamrec",
			PollIntervalMS: 33,
			PreviewWidth:   800,
			PreviewHeight:  600,
		},
		Logging: Logging{Level: "info", Format: FormatAuto},
		Debug:   Debug{IntervalS: 5, QueueWarnDepth: 256},
	}
}

// Validate clamps numeric values to safe ranges and rejects unknown
// enumerations.
func (c *Config) Validate() error {
	d := Default()
	c.Capture.Source = strings.ToLower(strings.TrimSpace(c.Capture.Source))
	switch c.Capture.Source {
	case SourceAuto, SourceScreen, SourceSynthetic, SourceWebcam:
	case "":
		c.Capture.Source = d.Capture.Source
	default:
		return fmt.Errorf("capture.source: unknown source %q", c.Capture.Source)
	}
	if c.Capture.Device < 0 {
		c.Capture.Device = d.Capture.Device
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = d.Capture.Width
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = d.Capture.Height
	}
	if c.Capture.RetryDelayMS <= 0 {
		c.Capture.RetryDelayMS = d.Capture.RetryDelayMS
	}
	if c.Capture.SyntheticFPS <= 0 || c.Capture.SyntheticFPS > 1000 {
		c.Capture.SyntheticFPS = d.Capture.SyntheticFPS
	}

	c.Display.Surface = strings.ToLower(strings.TrimSpace(c.Display.Surface))
	switch c.Display.Surface {
	case SurfaceTk, SurfaceTerminal, SurfaceNone, SurfaceGocv:
	case "":
		c.Display.Surface = d.Display.Surface
	default:
		return fmt.Errorf("display.surface: unknown surface %q", c.Display.Surface)
	}
	if strings.TrimSpace(c.Display.Title) == "" {
		c.Display.Title = d.Display.Title
	}
	if c.Display.PollIntervalMS <= 0 {
		c.Display.PollIntervalMS = d.Display.PollIntervalMS
	}
	if c.Display.PreviewWidth <= 0 {
		c.Display.PreviewWidth = d.Display.PreviewWidth
	}
	if c.Display.PreviewHeight <= 0 {
		c.Display.PreviewHeight = d.Display.PreviewHeight
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	case "warning":
		c.Logging.Level = "warn"
	case "":
		c.Logging.Level = d.Logging.Level
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case FormatAuto, FormatJSON, FormatText:
	case "":
		c.Logging.Format = d.Logging.Format
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}

	if c.Debug.IntervalS <= 0 {
		c.Debug.IntervalS = d.Debug.IntervalS
	}
	if c.Debug.QueueWarnDepth <= 0 {
		c.Debug.QueueWarnDepth = d.Debug.QueueWarnDepth
	}
	return nil
}

// Load reads configuration from the given TOML file path. If the file does
// not exist it returns Default(). On parse error it returns defaults with
// the error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve returns the file Load should read. An explicit path wins; otherwise
// ./webcamrec.toml and then ~/.config/webcamrec/config.toml are tried. found
// is false when no candidate exists.
func Resolve(explicit string) (path string, found bool, err error) {
	if explicit != "" {
		p, err := ExpandPath(explicit)
		if err != nil {
			return "", false, err
		}
		return p, fileExists(p), nil
	}
	project, err := filepath.Abs(ProjectFile)
	if err != nil {
		return "", false, err
	}
	if fileExists(project) {
		return project, true, nil
	}
	user, err := DefaultPath()
	if err != nil {
		return project, false, nil
	}
	return user, fileExists(user), nil
}

// DefaultPath is the per-user configuration file.
func DefaultPath() (string, error) {
	return ExpandPath("~/.config/webcamrec/config.toml")
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}

// Save writes the configuration to the given path in TOML format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeFile(path, data)
}

// CreateSample writes the embedded, commented sample configuration. An
// existing file is only replaced when force is set.
func CreateSample(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("config %s already exists", path)
	}
	return writeFile(path, assets.SampleConfig)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
