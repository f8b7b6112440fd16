// Package persist saves annotation sets as JSON files, one per document and
// pack, and coalesces bursts of partial updates into single writes.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgmeyers/pdftakeoff/markup"
)

// Persister writes partial updates. Nil update fields are left untouched.
type Persister interface {
	Persist(ctx context.Context, ref markup.Ref, u markup.Update) error
}

// FileStore keeps sets under Dir.
type FileStore struct {
	Dir string
}

var unsafeChars = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_", "@", "_")

// Path returns the file holding ref.
func (s FileStore) Path(ref markup.Ref) string {
	name := unsafeChars.Replace(ref.Doc)
	if ref.Pack != "" {
		name += "@" + unsafeChars.Replace(ref.Pack)
	}

	return filepath.Join(s.Dir, name+".json")
}

// Load reads the set for ref, migrating it to the current schema. A missing
// file yields an empty set.
func (s FileStore) Load(ref markup.Ref) (*markup.Set, error) {
	data, err := os.ReadFile(s.Path(ref))
	if errors.Is(err, os.ErrNotExist) {
		return markup.NewSet(), nil
	}
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

// Decode parses and migrates a stored set.
func Decode(data []byte) (*markup.Set, error) {
	set := &markup.Set{}
	if err := json.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("parse annotation set: %w", err)
	}

	return markup.Migrate(set)
}

// Persist merges u into the stored set.
func (s FileStore) Persist(ctx context.Context, ref markup.Ref, u markup.Update) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.Empty() {
		return nil
	}

	set, err := s.Load(ref)
	if err != nil {
		return err
	}

	u.Apply(set)

	return s.Save(ref, set)
}

// Save replaces the stored set.
func (s FileStore) Save(ref markup.Ref, set *markup.Set) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create annotation directory: %w", err)
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}

	path := s.Path(ref)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write annotations: %w", err)
	}

	return os.Rename(tmp, path)
}

// Delete removes the stored set. Deleting a missing set is not an error.
func (s FileStore) Delete(ref markup.Ref) error {
	err := os.Remove(s.Path(ref))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
