package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/hanckmann/webcamrec/config"
	"github.com/hanckmann/webcamrec/domain/session"
)

// isolateConfig keeps the user's own configuration out of the test.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecord_MissingRootIsConfigurationError(t *testing.T) {
	isolateConfig(t)
	parent := t.TempDir()
	missing := filepath.Join(parent, "absent")

	_, err := execute(t, missing, "--source", "synthetic", "--display", "none")
	var cfgErr *session.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !errors.Is(err, session.ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound in chain, got %v", err)
	}
	if _, statErr := os.Stat(missing); !os.IsNotExist(statErr) {
		t.Fatalf("root must not be created, stat err=%v", statErr)
	}
	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatalf("read parent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("nothing should be written, found %d entries", len(entries))
	}
}

func TestRun_MissingRootExitsWithStatusOne(t *testing.T) {
	isolateConfig(t)
	missing := filepath.Join(t.TempDir(), "absent")
	var stdout, stderr bytes.Buffer
	code := run([]string{missing, "--source", "synthetic", "--display", "none"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit status = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "configuration error") {
		t.Fatalf("stderr should report the configuration error, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should stay empty, got %q", stdout.String())
	}
}

func TestConfigShow_FlagsOverrideOnlyWhenSet(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "webcamrec.toml")
	file := "[capture]\nsource = \"synthetic\"\ndevice = 3\n[logging]\nlevel = \"error\"\nformat = \"json\"\n"
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := execute(t, "config", "show", "--config", path, "--log-level", "debug")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.HasPrefix(out, "# loaded from "+path) {
		t.Fatalf("missing source comment: %q", out)
	}
	var got config.Config
	if err := toml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Logging.Level != "debug" {
		t.Fatalf("flag should override level, got %q", got.Logging.Level)
	}
	if got.Logging.Format != "json" {
		t.Fatalf("unset flag must keep file format, got %q", got.Logging.Format)
	}
	if got.Capture.Source != "synthetic" || got.Capture.Device != 3 {
		t.Fatalf("file values lost: %+v", got.Capture)
	}
}

func TestConfigShow_MissingExplicitConfig(t *testing.T) {
	isolateConfig(t)
	_, err := execute(t, "config", "show", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestSessions_ListsRecordedSessions(t *testing.T) {
	isolateConfig(t)
	root := t.TempDir()
	started := time.Date(2024, 1, 2, 3, 4, 5, 6000, time.Local)
	dir := filepath.Join(root, session.DataDir, session.Name(started))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for i := 0; i < 2; i++ {
		name := session.FrameName(started.Add(time.Duration(i) * time.Second))
		if err := os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}

	out, err := execute(t, "sessions", root)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if !strings.Contains(out, session.Name(started)) {
		t.Fatalf("session missing from table:\n%s", out)
	}
	if !strings.Contains(strings.ToLower(out), "1 sessions") {
		t.Fatalf("footer missing:\n%s", out)
	}
}

func TestSessions_EmptyRoot(t *testing.T) {
	isolateConfig(t)
	root := t.TempDir()
	out, err := execute(t, "sessions", root)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if !strings.Contains(out, "No sessions under") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := os.Stat(filepath.Join(root, session.DataDir)); !os.IsNotExist(err) {
		t.Fatalf("listing must not create data dir, stat err=%v", err)
	}
}

func TestSessions_MissingRoot(t *testing.T) {
	isolateConfig(t)
	_, err := execute(t, "sessions", filepath.Join(t.TempDir(), "absent"))
	var cfgErr *session.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}
