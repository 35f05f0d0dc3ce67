package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/libretto/pkg/errors"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// MarshalLayoutYAML serializes a Layout to YAML bytes.
func MarshalLayoutYAML(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// UnmarshalLayoutYAML deserializes YAML bytes into a Layout.
func UnmarshalLayoutYAML(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks that the document is internally consistent: a known
// version, unique node ids and links whose endpoints exist.
func (l Layout) Validate() error {
	if l.Version == 0 || l.Version > FormatVersion {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported layout version %d", l.Version)
	}
	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate node %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, k := range l.Links {
		if !ids[k.Source] || !ids[k.Target] {
			return errors.New(errors.ErrCodeInvalidFormat, "link %q references unknown node", k.ID)
		}
	}
	return nil
}

// =============================================================================
// Streams and Files
// =============================================================================

// FormatFromPath returns the format implied by a file extension, defaulting
// to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// WriteLayout encodes l to w in the given format.
func WriteLayout(w io.Writer, l Layout, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON, "":
		data, err = MarshalLayout(l)
	case FormatYAML:
		data, err = MarshalLayoutYAML(l)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown layout format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadLayout decodes a Layout from r in the given format.
func ReadLayout(r io.Reader, format string) (Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	switch format {
	case FormatJSON, "":
		return UnmarshalLayout(data)
	case FormatYAML:
		return UnmarshalLayoutYAML(data)
	default:
		return Layout{}, errors.New(errors.ErrCodeUnsupported, "unknown layout format %q", format)
	}
}

// WriteLayoutFile writes a Layout to path, choosing the format from the
// extension.
func WriteLayoutFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLayout(f, l, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadLayoutFile reads a Layout from path, choosing the format from the
// extension.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s not found", path)
		}
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f, FormatFromPath(path))
}

// =============================================================================
// Schema
// =============================================================================

// Schema returns the JSON Schema describing a Layout document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(&Layout{})
	s.Title = "libretto layout"
	return s
}

// SchemaJSON returns the indented JSON encoding of Schema.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
