// Package source reads share links out of a directory of text files.
package source

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultPattern = "*.txt"
	maxLineSize    = 1024 * 1024
)

// Directory lists the regular files directly inside Root whose names match Pattern
type Directory struct {
	Root    string
	Pattern string
}

func NewDirectory(root, pattern string) (*Directory, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid file pattern %q", pattern)
	}
	return &Directory{Root: root, Pattern: pattern}, nil
}

// Match reports whether a file name is picked up by this directory
func (d *Directory) Match(name string) bool {
	ok, err := doublestar.Match(d.Pattern, name)
	return err == nil && ok
}

// Files returns the matching file names sorted so runs are reproducible
func (d *Directory) Files(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, errors.Errorf("reading input directory %s: %w", d.Root, err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if d.Match(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Lines calls fn for every line of the named file, stopping at the first error fn returns
func (d *Directory) Lines(ctx context.Context, name string, fn func(line string) error) error {
	f, err := os.Open(filepath.Join(d.Root, name))
	if err != nil {
		return errors.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Errorf("reading %s: %w", name, err)
	}
	return nil
}

var _ ports.LineSource = (*Directory)(nil)
