package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gofrs/flock"
)

// ErrSessionNotFound is returned by Load when no state file exists for the
// requested session name.
var ErrSessionNotFound = errors.New("no active session")

// CorruptStateError is returned when a state file exists but cannot be
// parsed. It is never auto-healed: overwriting a corrupt file without
// surfacing the condition would hide data loss, so the caller decides.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return "corrupt session state file " + e.Path + ": " + e.Err.Error()
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// validName keeps session names safe to use as file names.
var validName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Info is a summary of one stored session, as reported by List.
type Info struct {
	Name            string
	DriverSessionID string
	Err             error // non-nil when the state file is unreadable
}

// Store persists session State to disk. Sessions are independent: no
// cross-session locking is ever taken.
type Store interface {
	Load(name string) (*State, error) // ErrSessionNotFound if none exists
	Save(s *State) error
	Delete(name string) error
	List() ([]Info, error)
	// Update performs a locked read-modify-write: the state file is locked
	// against concurrent invocations for the duration of fn, and the result
	// is written atomically. Fails with ErrSessionNotFound when no state
	// exists; only Save creates sessions.
	Update(name string, fn func(*State) error) (*State, error)
}

// diskStore is the concrete Store that writes to the XDG data directory.
type diskStore struct {
	dir string // sessions directory
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/tauri-browse/sessions or ~/.local/share/tauri-browse/sessions
func NewStore() (Store, error) {
	dir, err := sessionsDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{dir: dir}, nil
}

// sessionsDir returns the tauri-browse session state directory.
func sessionsDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "tauri-browse", "sessions"), nil
}

// StatePath returns the on-disk path of a session's state file, whether or
// not it exists. Used by the viewer to watch the file for changes.
func StatePath(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	dir, err := sessionsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".json"), nil
}

func (d *diskStore) path(name string) string {
	return filepath.Join(d.dir, name+".json")
}

func (d *diskStore) lockPath(name string) string {
	return filepath.Join(d.dir, name+".lock")
}

func checkName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid session name %q", name)
	}
	return nil
}

// Load reads and unmarshals the state file for name.
func (d *diskStore) Load(name string) (*State, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return d.load(name)
}

func (d *diskStore) load(name string) (*State, error) {
	path := d.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w %q: run 'tauri-browse launch <binary>' first", ErrSessionNotFound, name)
		}
		return nil, &CorruptStateError{Path: path, Err: err}
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &CorruptStateError{Path: path, Err: err}
	}
	if s.Name == "" {
		s.Name = name
	}
	if s.Refs == nil {
		s.Refs = map[string]RefEntry{}
	}
	return &s, nil
}

// Save marshals s to JSON and writes it atomically via a temp file +
// os.Rename, so a killed process never leaves a partially written file.
func (d *diskStore) Save(s *State) error {
	if err := checkName(s.Name); err != nil {
		return err
	}
	return d.save(s)
}

func (d *diskStore) save(s *State) error {
	if s.Version == 0 {
		s.Version = stateVersion
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(d.dir, s.Name+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}

	if err = os.Rename(tmpName, d.path(s.Name)); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

// Delete removes the state file (and its lock file) for name.
func (d *diskStore) Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(d.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	os.Remove(d.lockPath(name))
	return nil
}

// List enumerates stored sessions in name order. Unreadable state files are
// reported through Info.Err rather than skipped.
func (d *diskStore) List() ([]Info, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}
	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		s, err := d.load(name)
		if err != nil {
			infos = append(infos, Info{Name: name, Err: err})
			continue
		}
		infos = append(infos, Info{Name: name, DriverSessionID: s.DriverSessionID})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Update serializes a read-modify-write against concurrent invocations with
// an advisory file lock. The lock is scoped to fn plus the final write; pure
// read paths go through Load and skip it.
func (d *diskStore) Update(name string, fn func(*State) error) (*State, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	lock := flock.New(d.lockPath(name))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("locking session state: %w", err)
	}
	defer lock.Unlock()

	s, err := d.load(name)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := d.save(s); err != nil {
		return nil, err
	}
	return s, nil
}
