package palbot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SetupExt is appended to the name given to SaveSetup.
const SetupExt = ".txt"

// setupFile is the persisted form of a Layout.
type setupFile struct {
	Trays    map[string]Geometry `json:"trays"`
	Combined map[string][]string `json:"combined trays"`
}

// LoadSetup builds a Layout from a setup document. Grids are built first and
// combined trays may only reference grids. Any error leaves no Layout behind.
func LoadSetup(r io.Reader) (*Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read setup: %w", err)
	}

	var sf setupFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: parse setup: %v", ErrConfig, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: parse setup: unexpected data after the setup object", ErrConfig)
	}
	key, err := duplicateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse setup: %v", ErrConfig, err)
	}
	if key != "" {
		return nil, fmt.Errorf("%w: %q is defined more than once", ErrConfig, key)
	}
	if sf.Trays == nil {
		return nil, fmt.Errorf("%w: setup has no \"trays\" section", ErrConfig)
	}

	layout := NewLayout()
	grids := make(map[string]*Grid, len(sf.Trays))
	for _, name := range sortedKeys(sf.Trays) {
		g, err := NewGrid(name, sf.Trays[name])
		if err != nil {
			return nil, err
		}
		grids[name] = g
		if err := layout.Add(g); err != nil {
			return nil, err
		}
	}

	for _, name := range sortedKeys(sf.Combined) {
		memberNames := sf.Combined[name]
		members := make([]*Grid, len(memberNames))
		for i, m := range memberNames {
			g, ok := grids[m]
			if !ok {
				return nil, fmt.Errorf("%w: combined tray %q references undefined tray %q",
					ErrConfig, name, m)
			}
			members[i] = g
		}
		c, err := NewComposite(name, members...)
		if err != nil {
			return nil, err
		}
		if err := layout.Add(c); err != nil {
			return nil, err
		}
	}
	return layout, nil
}

// duplicateKey returns the first key that appears twice within one object,
// at any depth. encoding/json would otherwise keep the last one silently.
func duplicateKey(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var walk func() (string, error)
	walk = func() (string, error) {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch tok {
		case json.Delim('{'):
			seen := make(map[string]bool)
			for dec.More() {
				tok, err := dec.Token()
				if err != nil {
					return "", err
				}
				key, _ := tok.(string)
				if seen[key] {
					return key, nil
				}
				seen[key] = true
				if dup, err := walk(); dup != "" || err != nil {
					return dup, err
				}
			}
		case json.Delim('['):
			for dec.More() {
				if dup, err := walk(); dup != "" || err != nil {
					return dup, err
				}
			}
		default:
			return "", nil
		}
		// closing delimiter
		_, err = dec.Token()
		return "", err
	}
	return walk()
}

// LoadSetupFile opens path and loads it with LoadSetup.
func LoadSetupFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open setup: %w", err)
	}
	defer f.Close()

	layout, err := LoadSetup(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	Logf("loaded %d trays from %s", layout.Len(), path)
	return layout, nil
}

// MarshalSetup encodes a Layout in the setup file format.
func MarshalSetup(l *Layout) ([]byte, error) {
	sf := setupFile{
		Trays:    make(map[string]Geometry),
		Combined: make(map[string][]string),
	}
	for _, t := range l.Trays() {
		switch t := t.(type) {
		case *Grid:
			sf.Trays[t.Name()] = t.Geometry()
		case *Composite:
			sf.Combined[t.Name()] = t.MemberNames()
			// members are grids, but a layout built by hand may not carry them
			for _, m := range t.Members() {
				if _, ok := sf.Trays[m.Name()]; !ok {
					sf.Trays[m.Name()] = m.Geometry()
				}
			}
		}
	}
	return json.MarshalIndent(sf, "", "")
}

// SaveSetup writes the layout to <dir>/<name>.txt and returns the path. An
// existing file is never overwritten; ErrSetupExists is returned instead.
func SaveSetup(l *Layout, dir, name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("setup name %q must be a plain file name", name)
	}
	data, err := MarshalSetup(l)
	if err != nil {
		return "", fmt.Errorf("encode setup: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create setup dir: %w", err)
	}

	path := filepath.Join(dir, name+SetupExt)
	f, err := createSetup(path)
	if errors.Is(err, fs.ErrExist) {
		return path, fmt.Errorf("%w: %s", ErrSetupExists, path)
	}
	if err != nil {
		return "", fmt.Errorf("create setup: %w", err)
	}
	_, err = io.Copy(f, bytes.NewReader(data))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// drop the partial file so the name can be saved again
		os.Remove(path)
		return "", fmt.Errorf("write setup: %w", err)
	}
	return path, nil
}

// createSetup opens a new setup file and fails if it already exists.
var createSetup = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
