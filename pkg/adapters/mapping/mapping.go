// Package mapping loads the document that assigns every input file the folder its shares go to.
package mapping

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wadjakorntonsri/share-saver/pkg/ports"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// FolderMap is a file name to folder id lookup
type FolderMap map[string]int64

// Load reads a JSON document, or YAML when the file ends in .yaml or .yml.
// Folder ids may be written as numbers or numeric strings.
func Load(path string) (FolderMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading mapping file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

func ParseJSON(data []byte) (FolderMap, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Errorf("parsing mapping json: %w", err)
	}

	m := make(FolderMap, len(raw))
	for name, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) > 0 && v[0] == '"' {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, errors.Errorf("folder id for %q: %w", name, err)
			}
			v = []byte(s)
		}
		id, err := parseFolderID(string(v))
		if err != nil {
			return nil, errors.Errorf("folder id for %q: %w", name, err)
		}
		m[name] = id
	}
	return m, nil
}

func ParseYAML(data []byte) (FolderMap, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Errorf("parsing mapping yaml: %w", err)
	}

	m := make(FolderMap, len(raw))
	for name, v := range raw {
		id, err := parseFolderID(v)
		if err != nil {
			return nil, errors.Errorf("folder id for %q: %w", name, err)
		}
		m[name] = id
	}
	return m, nil
}

func parseFolderID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Errorf("not an integer: %q", s)
	}
	if id < 0 {
		return 0, errors.Errorf("negative folder id %d", id)
	}
	return id, nil
}

func (m FolderMap) Resolve(fileName string) (int64, bool) {
	id, ok := m[fileName]
	return id, ok
}

var _ ports.FolderResolver = FolderMap(nil)
