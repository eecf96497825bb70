package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupported indicates an upload format with no registered reader.
var ErrUnsupported = errors.New("unsupported upload format")

// Options controls how an upload is read.
type Options struct {
	// Delimiter for CSV. If 0, ',' is used (tab for .tsv).
	Delimiter rune
	// SampleRows caps the rows kept in Upload.Rows; all rows are still counted.
	SampleRows int
	// XLSX sheet selection: by name, otherwise by 1-based index.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for the upload wizard.
func DefaultOptions() Options {
	return Options{SampleRows: 5, SheetIndex: 1}
}

// Upload is a parsed tabular file as seen by the configuration panel:
// an ordered header and a few sample rows keyed by column name.
type Upload struct {
	Name      string
	Header    []string
	Rows      []map[string]string
	TotalRows int
}

// FirstRow returns the first sample row, or nil when the upload has no data.
func (u *Upload) FirstRow() map[string]string {
	if u == nil || len(u.Rows) == 0 {
		return nil
	}
	return u.Rows[0]
}

// Reader reads one upload format.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Upload, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReadFile selects a reader based on filename and parses the upload.
func ReadFile(path string, opt Options) (*Upload, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// builder accumulates records into an Upload.
type builder struct {
	up     *Upload
	sample int
}

func newBuilder(name string, header []string, opt Options) *builder {
	sample := opt.SampleRows
	if sample <= 0 {
		sample = DefaultOptions().SampleRows
	}
	return &builder{
		up:     &Upload{Name: name, Header: CleanHeader(header)},
		sample: sample,
	}
}

func (b *builder) add(rec []string) {
	b.up.TotalRows++
	if len(b.up.Rows) >= b.sample {
		return
	}
	row := make(map[string]string, len(b.up.Header))
	for i, h := range b.up.Header {
		v := ""
		if i < len(rec) {
			v = strings.TrimSpace(rec[i])
		}
		row[h] = v
	}
	b.up.Rows = append(b.up.Rows, row)
}

// CleanHeader trims column names, names blank columns column_N and
// disambiguates duplicates with a numeric suffix so rows can be keyed by name.
func CleanHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}
