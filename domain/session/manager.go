package session

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Manager creates timestamped session directories under <root>/data.
type Manager struct {
	fs   afero.Fs
	root string
	data string
}

// Info summarises one session directory.
type Info struct {
	Name       string
	Path       string
	StartedAt  time.Time
	Frames     int
	Bytes      int64
	FirstFrame time.Time
	LastFrame  time.Time
}

// CheckRoot verifies that root exists and is a directory without touching
// the filesystem otherwise. Failures are *ConfigurationError.
func CheckRoot(fsys afero.Fs, root string) error {
	info, err := fsys.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ConfigurationError{Root: root, Err: ErrRootNotFound}
		}
		return &ConfigurationError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return &ConfigurationError{Root: root, Err: ErrRootNotDir}
	}
	return nil
}

// NewManager validates root and returns a manager for it. Nothing is
// written until the first Create.
func NewManager(fsys afero.Fs, root string) (*Manager, error) {
	if err := CheckRoot(fsys, root); err != nil {
		return nil, err
	}
	return &Manager{fs: fsys, root: root, data: filepath.Join(root, DataDir)}, nil
}

// Root returns the root folder.
func (m *Manager) Root() string { return m.root }

// DataPath returns <root>/data.
func (m *Manager) DataPath() string { return m.data }

// Create makes a new session directory named after now and returns its
// path. A name collision is reported as an error; no retry is attempted.
func (m *Manager) Create(now time.Time) (string, error) {
	if err := CheckRoot(m.fs, m.root); err != nil {
		return "", err
	}
	if err := m.ensureDataDir(); err != nil {
		return "", err
	}
	dir := filepath.Join(m.data, Name(now))
	if err := m.fs.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session directory %q: %w", dir, err)
	}
	return dir, nil
}

func (m *Manager) ensureDataDir() error {
	ok, err := afero.DirExists(m.fs, m.data)
	if err != nil {
		return fmt.Errorf("stat data directory %q: %w", m.data, err)
	}
	if ok {
		return nil
	}
	if err := m.fs.Mkdir(m.data, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("create data directory %q: %w", m.data, err)
	}
	return nil
}

// List returns all sessions in chronological order. Entries under data/
// whose names are not session timestamps are skipped. A missing data
// directory yields an empty list.
func (m *Manager) List() ([]Info, error) {
	entries, err := afero.ReadDir(m.fs, m.data)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data directory %q: %w", m.data, err)
	}
	var out []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		started, err := ParseName(entry.Name(), time.Local)
		if err != nil {
			continue
		}
		info := Info{Name: entry.Name(), Path: filepath.Join(m.data, entry.Name()), StartedAt: started}
		if err := m.scanFrames(&info); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Manager) scanFrames(info *Info) error {
	files, err := afero.ReadDir(m.fs, info.Path)
	if err != nil {
		return fmt.Errorf("read session directory %q: %w", info.Path, err)
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasPrefix(f.Name(), framePrefix) {
			continue
		}
		at, err := ParseFrameName(f.Name(), time.Local)
		if err != nil {
			continue
		}
		info.Frames++
		info.Bytes += f.Size()
		if info.FirstFrame.IsZero() || at.Before(info.FirstFrame) {
			info.FirstFrame = at
		}
		if at.After(info.LastFrame) {
			info.LastFrame = at
		}
	}
	return nil
}
