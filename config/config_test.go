package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/hanckmann/webcamrec/assets"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestDefault_SourceIsAuto(t *testing.T) {
	cfg := Default()
	if cfg.Capture.Source != SourceAuto {
		t.Fatalf("default source = %q, want %q", cfg.Capture.Source, SourceAuto)
	}
	if err := cfg.Validate(); err != nil || cfg.Capture.Source != SourceAuto {
		t.Fatalf("auto must survive Validate, got %q err=%v", cfg.Capture.Source, err)
	}
}

func TestLoad_OverridesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	data := `
root = "/srv/rec"
[capture]
source = "Synthetic"
width = -4
[display]
surface = "none"
poll_interval_ms = 0
[logging]
level = "WARNING"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "/srv/rec" || cfg.Capture.Source != SourceSynthetic || cfg.Display.Surface != SurfaceNone {
		t.Fatalf("values not applied: %+v", cfg)
	}
	if cfg.Capture.Width != 640 || cfg.Display.PollIntervalMS != 33 {
		t.Fatalf("out of range values should be clamped: %+v", cfg)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Capture.Height != 480 {
		t.Fatalf("unset height should keep default, got %d", cfg.Capture.Height)
	}
}

func TestLoad_RejectsUnknownSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	_ = os.WriteFile(path, []byte("[display]\nsurface = \"opengl\"\n"), 0o644)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "display.surface") {
		t.Fatalf("expected surface error, got %v", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	_ = os.WriteFile(path, []byte("root = \n"), 0o644)
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg == nil || cfg.Capture.Source != SourceAuto {
		t.Fatalf("defaults should accompany a parse error")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "c.toml")
	cfg := Default()
	cfg.Root = "/data"
	cfg.Capture.Source = SourceWebcam
	cfg.Capture.Device = 2
	cfg.Display.Dark = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestSampleConfig_MatchesDefaults(t *testing.T) {
	var cfg Config
	if err := toml.Unmarshal(assets.SampleConfig, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
	if cfg != *Default() {
		t.Fatalf("sample config drifted from defaults:\n got %+v\nwant %+v", cfg, *Default())
	}
}

func TestCreateSample_RespectsForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	if err := CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if err := CreateSample(path, false); err == nil {
		t.Fatalf("expected error when file exists")
	}
	if err := CreateSample(path, true); err != nil {
		t.Fatalf("CreateSample force: %v", err)
	}
}

func TestResolve_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	got, found, err := Resolve(path)
	if err != nil || found || got != path {
		t.Fatalf("Resolve = %q %v %v", got, found, err)
	}
	_ = os.WriteFile(path, []byte(""), 0o644)
	if _, found, _ := Resolve(path); !found {
		t.Fatalf("expected explicit file to be found")
	}
}

func TestExpandPath_Home(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/x/y.toml")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "x", "y.toml") {
		t.Fatalf("ExpandPath = %q", got)
	}
}
