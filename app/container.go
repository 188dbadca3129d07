package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/hanckmann/webcamrec/capture"
	"github.com/hanckmann/webcamrec/config"
	frames "github.com/hanckmann/webcamrec/domain/capture"
	"github.com/hanckmann/webcamrec/domain/session"
	"github.com/hanckmann/webcamrec/domain/storage"
	"github.com/hanckmann/webcamrec/ui/view"
)

// Openers maps a display surface name to the function opening it. The Tk
// and gocv surfaces are registered by the binary so that this package does
// not link the GUI toolkits.
type Openers map[string]view.Opener

// AppContainer assembles the recorder's collaborators.
type AppContainer struct {
	Config   *config.Config
	Logger   *slog.Logger
	FS       afero.Fs
	Root     string
	Sessions *session.Manager
	Queue    *frames.Queue
	Device   frames.Device
	Producer *frames.Producer
	Writer   *storage.PNGWriter
	Opener   view.Opener
}

// BuildContainer constructs all components. The root folder is validated
// first; a missing root yields a *session.ConfigurationError before
// anything else is created.
func BuildContainer(cfg *config.Config, logger *slog.Logger, fsys afero.Fs, openers Openers) (*AppContainer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	root, err := resolveRoot(cfg.Root)
	if err != nil {
		return nil, err
	}
	sessions, err := session.NewManager(fsys, root)
	if err != nil {
		return nil, err
	}

	c := &AppContainer{Config: cfg, Logger: logger, FS: fsys, Root: root, Sessions: sessions}
	c.Opener, err = pickOpener(cfg.Display.Surface, openers)
	if err != nil {
		return nil, err
	}
	c.Device, err = newDevice(cfg.Capture)
	if err != nil {
		return nil, err
	}
	c.Queue = frames.NewQueue()
	c.Producer = frames.NewProducer(c.Device, c.Queue, logger.With("component", "producer"),
		frames.WithRetryDelay(time.Duration(cfg.Capture.RetryDelayMS)*time.Millisecond))
	c.Writer = storage.NewPNGWriter(fsys)
	return c, nil
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		return wd, nil
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root), nil
	}
	return config.ExpandPath(root)
}

func newDevice(c config.Capture) (frames.Device, error) {
	switch ResolveSource(c.Source, capture.WebcamBackend) {
	case config.SourceScreen:
		return capture.NewScreen(), nil
	case config.SourceSynthetic:
		return capture.NewSynthetic(c.Width, c.Height, c.SyntheticFPS), nil
	case config.SourceWebcam:
		return capture.NewWebcam(c.Device, c.Width, c.Height), nil
	default:
		return nil, fmt.Errorf("unknown capture source %q", c.Source)
	}
}

// ResolveSource maps the auto source onto the device this build can open.
func ResolveSource(source, webcamBackend string) string {
	if source != config.SourceAuto && source != "" {
		return source
	}
	if webcamBackend != "none" {
		return config.SourceWebcam
	}
	return config.SourceScreen
}

func pickOpener(surface string, openers Openers) (view.Opener, error) {
	if op, ok := openers[surface]; ok && op != nil {
		return op, nil
	}
	switch surface {
	case config.SurfaceNone:
		return view.OpenHeadless, nil
	case config.SurfaceTerminal:
		return view.OpenTerminal, nil
	}
	return nil, fmt.Errorf("display surface %q is not available in this build", surface)
}
