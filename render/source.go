package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"
)

// Source returns the bytes of a document given a stable reference.
type Source interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FileSource reads documents from disk. Relative references resolve
// against Root.
type FileSource struct {
	Root string
}

func (s FileSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := ref
	if !filepath.IsAbs(path) && s.Root != "" {
		path = filepath.Join(s.Root, ref)
	}

	return os.ReadFile(path)
}

// MemorySource serves documents already held in memory, such as a file the
// user just picked.
type MemorySource map[string][]byte

func (s MemorySource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	b, ok := s[ref]
	if !ok {
		return nil, fmt.Errorf("document %q not loaded", ref)
	}

	return b, nil
}

// Loader fetches documents through a Source, sharing one fetch between
// concurrent callers asking for the same reference.
type Loader struct {
	src   Source
	group singleflight.Group
}

// NewLoader wraps src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Load returns the bytes of ref.
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	v, err, _ := l.group.Do(ref, func() (interface{}, error) {
		return l.src.Fetch(ctx, ref)
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}

	return v.([]byte), nil
}
