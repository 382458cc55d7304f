package authority

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"posawiki/internal/fileutil"
)

//go:embed seed.json
var seedJSON []byte

// document is the on-disk shape shared by JSON and YAML authority files.
type document struct {
	Authorities []Authority `json:"authorities" yaml:"authorities"`
}

// Seed returns the built-in vocabulary.
func Seed() (*Snapshot, error) {
	snap, err := decode(bytes.NewReader(seedJSON), ".json")
	if err != nil {
		return nil, fmt.Errorf("embedded seed: %w", err)
	}
	return snap, nil
}

// Load reads an authority file. The format is chosen by extension: .json,
// .yaml or .yml. Missing files, unknown fields and invalid entries are errors.
func Load(path string) (*Snapshot, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("authority file path is empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExt(ext) {
		return nil, fmt.Errorf("authority file %s: unsupported extension %q (use .json, .yaml or .yml)", path, ext)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open authority file: %w", err)
	}
	defer file.Close()

	snap, err := decode(file, ext)
	if err != nil {
		return nil, fmt.Errorf("authority file %s: %w", path, err)
	}
	return snap, nil
}

// LoadOrSeed loads path, or returns the embedded seed when path is empty.
func LoadOrSeed(path string) (*Snapshot, error) {
	if strings.TrimSpace(path) == "" {
		return Seed()
	}
	return Load(path)
}

// Write stores the snapshot at path in the format implied by its extension.
func Write(path string, snap *Snapshot) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExt(ext) {
		return fmt.Errorf("unsupported authority file extension %q", ext)
	}
	doc := document{Authorities: snap.Authorities()}

	var (
		data []byte
		err  error
	)
	if ext == ".json" {
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	} else {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if closeErr := enc.Close(); err == nil {
			err = closeErr
		}
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("encode authorities: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write authority file: %w", err)
	}
	return nil
}

func supportedExt(ext string) bool {
	switch ext {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func decode(r io.Reader, ext string) (*Snapshot, error) {
	var doc document
	switch ext {
	case ".json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrInvalid, err)
		}
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: file is empty", ErrInvalid)
			}
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalid, err)
		}
	}
	if len(doc.Authorities) == 0 {
		return nil, fmt.Errorf("%w: no authorities defined", ErrInvalid)
	}
	return NewSnapshot(doc.Authorities)
}
