package tabular

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile is returned for extensions no decoder handles.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Content is what a decoder extracts from a file. Table is nil for
// line-oriented text; Text is empty for binary spreadsheets.
type Content struct {
	Table *Table
	Text  string
}

// Decoder converts raw file bytes into Content. PDF extraction is not built
// in; callers register their own decoder for ".pdf".
type Decoder interface {
	Decode(data []byte) (Content, error)
	Extensions() []string
}

// Registry maps file extensions to decoders.
type Registry struct {
	decoders map[string]Decoder
}

// NewRegistry creates an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register adds a decoder for each of its extensions. Panics on duplicates.
func (r *Registry) Register(d Decoder) {
	for _, ext := range d.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.decoders[key]; ok {
			panic("duplicate decoder extension: " + key)
		}
		r.decoders[key] = d
	}
}

// Get returns the decoder for a file name or extension, or nil.
func (r *Registry) Get(name string) Decoder {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = strings.ToLower(name)
	}
	return r.decoders[ext]
}

// Supports reports whether a decoder is registered for the file name.
func (r *Registry) Supports(name string) bool {
	return r.Get(name) != nil
}

// ReadFile decodes the file at path with the matching decoder.
func (r *Registry) ReadFile(path string) (Content, error) {
	d := r.Get(path)
	if d == nil {
		return Content{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("reading %s: %w", path, err)
	}

	c, err := d.Decode(data)
	if err != nil {
		return Content{}, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// DefaultRegistry returns a registry with all built-in decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CSVDecoder{})
	r.Register(XLSXDecoder{})
	r.Register(TextDecoder{})
	return r
}
