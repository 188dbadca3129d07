package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hanckmann/webcamrec/app"
	"github.com/hanckmann/webcamrec/config"
	"github.com/hanckmann/webcamrec/domain/session"
)

// flags shared by the commands.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	source     string
	device     int
	display    string
	debug      bool
}

func newRootCommand() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "webcamrec [root-folder]",
		Short: "Record every captured frame as PNG into timestamped session folders",
		Long: "webcamrec captures frames continuously and writes each one to\n" +
			"<root>/data/<session>/frame_<timestamp>.png while previewing the latest frame.\n" +
			"Keys: ENTER or SPACE start a new session, ESC or q quit.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, &opts, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: auto, json, text")

	f := rootCmd.Flags()
	f.StringVar(&opts.source, "source", "", "Capture source: auto, screen, synthetic, webcam")
	f.IntVar(&opts.device, "device", 0, "Webcam index")
	f.StringVar(&opts.display, "display", "", "Display surface: tk, terminal, none, gocv")
	f.BoolVar(&opts.debug, "debug", false, "Log goroutine and memory statistics")

	rootCmd.AddCommand(newSessionsCommand(&opts))
	rootCmd.AddCommand(newConfigCommand(&opts))
	return rootCmd
}

// loadConfig reads the configuration file and applies the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, string, error) {
	path, found, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, "", err
	}
	cfg := config.Default()
	if found {
		if cfg, err = config.Load(path); err != nil {
			return nil, "", err
		}
	} else if opts.configPath != "" {
		return nil, "", fmt.Errorf("config file %s does not exist", path)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
	if flags.Changed("source") {
		cfg.Capture.Source = opts.source
	}
	if flags.Changed("device") {
		cfg.Capture.Device = opts.device
	}
	if flags.Changed("display") {
		cfg.Display.Surface = opts.display
	}
	if flags.Changed("debug") {
		cfg.Debug.Enabled = opts.debug
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	if !found {
		path = ""
	}
	return cfg, path, nil
}

func runRecord(cmd *cobra.Command, opts *options, args []string) error {
	cfg, cfgPath, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}
	// Stdout belongs to the terminal surface's status line.
	logger := app.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if cfgPath != "" {
		logger.Debug("configuration loaded", "path", cfgPath)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.BuildContainer(cfg, logger, afero.NewOsFs(), surfaceOpeners(cfg))
	if err != nil {
		var cfgErr *session.ConfigurationError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("configuration error: %w", err)
		}
		return err
	}
	return app.Run(ctx, c)
}
