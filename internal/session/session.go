// Package session persists one run of the upload wizard: the parsed upload
// and the configuration chosen for it on the panel.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/dataconfig-cli/internal/columns"
	"github.com/KaramelBytes/dataconfig-cli/internal/dataset"
	"github.com/KaramelBytes/dataconfig-cli/internal/daterange"
	"github.com/KaramelBytes/dataconfig-cli/internal/panel"
	"github.com/KaramelBytes/dataconfig-cli/internal/utils"
	"github.com/google/uuid"
)

// FileName is the session document inside a session directory.
const FileName = "session.json"

// Session represents a wizard run persisted on disk.
type Session struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Source       *Source             `json:"source,omitempty"`
	Header       []string            `json:"header"`
	Rows         []map[string]string `json:"rows"`
	Columns      []columns.Entry     `json:"columns"`
	DateRange    daterange.Range     `json:"date_range"`
	CompareRange daterange.Range     `json:"compare_range"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	// Not serialized: on-disk location of the session.json
	rootDir string `json:"-"`
}

// Source describes the uploaded file a session was built from.
type Source struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	TotalRows  int       `json:"total_rows"`
	AttachedAt time.Time `json:"attached_at"`
}

// NewSession constructs an in-memory session. Call Save() to persist.
func NewSession(name, description, rootDir string) *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Header:      []string{},
		Rows:        []map[string]string{},
		Columns:     []columns.Entry{},
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// LoadSession loads a session.json from the provided directory.
func LoadSession(dir string) (*Session, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("session not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	s.rootDir = dir
	return &s, nil
}

// RootDir returns the on-disk session directory path.
func (s *Session) RootDir() string { return s.rootDir }

// Save writes session.json using atomic write.
func (s *Session) Save() error {
	if s.rootDir == "" {
		return errors.New("session root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, FileName), data)
}

// Attach reads an upload into the session. The previous selection is
// discarded because it referred to the old header.
func (s *Session) Attach(path string, opt dataset.Options) error {
	up, err := dataset.ReadFile(path, opt)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s.Source = &Source{Path: abs, Name: up.Name, TotalRows: up.TotalRows, AttachedAt: time.Now()}
	s.Header = up.Header
	s.Rows = up.Rows
	if s.Header == nil {
		s.Header = []string{}
	}
	if s.Rows == nil {
		s.Rows = []map[string]string{}
	}
	s.Columns = []columns.Entry{}
	s.DateRange = daterange.Range{}
	s.CompareRange = daterange.Range{}
	s.UpdatedAt = time.Now()
	return nil
}

// Panel rebuilds the configuration panel from the saved state. Saved columns
// are validated; a hand-edited file with two date columns is rejected.
func (s *Session) Panel(opts ...panel.Option) (*panel.Panel, error) {
	c, err := columns.Restore(s.Columns)
	if err != nil {
		return nil, fmt.Errorf("restore columns of session %q: %w", s.Name, err)
	}
	base := []panel.Option{
		panel.WithClassifier(c),
		panel.WithRanges(daterange.State{Primary: s.DateRange, Comparison: s.CompareRange}),
	}
	return panel.New(s.Header, s.Rows, append(base, opts...)...), nil
}

// Commit copies the panel state back into the session.
func (s *Session) Commit(p *panel.Panel) {
	s.Columns = p.Columns()
	r := p.Ranges()
	s.DateRange = r.Primary
	s.CompareRange = r.Comparison
	s.UpdatedAt = time.Now()
}

// List returns the names of the sessions stored under root, sorted.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), FileName)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
