package favorites

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v2"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
)

// PayloadVersion is written to every export.
const PayloadVersion = 1

const invalidImportMessage = `Invalid JSON format. Expected { "favorites": {...}, "favoriteOrder": [...] }.`

// Payload is the portable form of the favorites used by export and import.
type Payload struct {
	Favorites     map[string]string `json:"favorites" yaml:"favorites"`
	FavoriteOrder []string          `json:"favoriteOrder" yaml:"favoriteOrder"`
	ExportedAt    string            `json:"exportedAt,omitempty" yaml:"exportedAt,omitempty"`
	Version       int               `json:"version,omitempty" yaml:"version,omitempty"`

	// keys holds the favorites titles in document order.
	keys []string
}

// Keys returns the favorite titles in the order they appear in the payload.
func (p *Payload) Keys() []string {
	if p.keys != nil {
		return p.keys
	}
	keys := make([]string, 0, len(p.Favorites))
	for k := range p.Favorites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Format is the serialisation of a payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file name or object key: ".yaml" and
// ".yml" select YAML, anything else JSON. A trailing ".xz" means the
// payload is xz compressed.
func FormatOf(name string) (Format, bool) {
	compressed := strings.HasSuffix(name, ".xz")
	name = strings.TrimSuffix(name, ".xz")
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, compressed
	default:
		return FormatJSON, compressed
	}
}

// Marshal encodes p for the format named by name.
func Marshal(p *Payload, name string) ([]byte, error) {
	format, compressed := FormatOf(name)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(p)
	default:
		data, err = json.MarshalIndent(p, "", "  ")
	}
	if err != nil {
		return nil, rperror.Wrap(err, "encode favorites")
	}
	if !compressed {
		return data, nil
	}

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, rperror.Wrap(err, "create xz writer")
	}
	if _, err := w.Write(data); err != nil {
		return nil, rperror.Wrap(err, "compress favorites")
	}
	if err := w.Close(); err != nil {
		return nil, rperror.Wrap(err, "compress favorites")
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a payload in the format named by name.
func Unmarshal(data []byte, name string) (*Payload, error) {
	format, compressed := FormatOf(name)
	if compressed {
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, rperror.Wrap(err, "open xz payload")
		}
		if data, err = io.ReadAll(r); err != nil {
			return nil, rperror.Wrap(err, "decompress payload")
		}
	}
	if format == FormatYAML {
		return parseYAML(data)
	}
	return ParseImport(data)
}

// WriteFile exports p to path, formatted by its extension.
func WriteFile(fs afero.Fs, path string, p *Payload) error {
	data, err := Marshal(p, path)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, data, defaultFilePerms); err != nil {
		return rperror.Wrap(err, "write export")
	}
	return nil
}

// ReadFile reads a payload from path, formatted by its extension.
func ReadFile(fs afero.Fs, path string) (*Payload, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, rperror.Wrap(err, "read import")
	}
	return Unmarshal(data, path)
}

func invalidImport(err error) error {
	if err == nil {
		return rperror.Generic(invalidImportMessage)
	}
	return rperror.Wrap(err, invalidImportMessage)
}

// ParseImport decodes a JSON payload. favorites must be an object of strings;
// favoriteOrder keeps only its string entries and is ignored when it is not
// an array.
func ParseImport(data []byte) (*Payload, error) {
	var raw struct {
		Favorites     json.RawMessage `json:"favorites"`
		FavoriteOrder json.RawMessage `json:"favoriteOrder"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalidImport(err)
	}
	favorites, keys, err := decodeStringObject(raw.Favorites)
	if err != nil {
		return nil, err
	}

	p := &Payload{Favorites: favorites, keys: keys}
	var order []interface{}
	if len(raw.FavoriteOrder) > 0 && json.Unmarshal(raw.FavoriteOrder, &order) == nil && order != nil {
		p.FavoriteOrder = stringsOnly(order)
	}
	return p, nil
}

// decodeStringObject decodes a JSON object of strings keeping key order.
func decodeStringObject(raw json.RawMessage) (map[string]string, []string, error) {
	if len(raw) == 0 {
		return nil, nil, invalidImport(nil)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, invalidImport(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, invalidImport(nil)
	}

	favorites := map[string]string{}
	keys := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, invalidImport(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, invalidImport(nil)
		}
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, nil, invalidImport(err)
		}
		s, ok := v.(string)
		if !ok {
			return nil, nil, invalidImport(errors.Errorf("favorite %q is not a string", key))
		}
		if _, dup := favorites[key]; !dup {
			keys = append(keys, key)
		}
		favorites[key] = s
	}
	return favorites, keys, nil
}

func parseYAML(data []byte) (*Payload, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalidImport(err)
	}

	p := &Payload{}
	for _, item := range doc {
		switch item.Key {
		case "favorites":
			entries, ok := item.Value.(yaml.MapSlice)
			if !ok {
				return nil, invalidImport(nil)
			}
			p.Favorites = make(map[string]string, len(entries))
			p.keys = make([]string, 0, len(entries))
			for _, e := range entries {
				key, kok := e.Key.(string)
				value, vok := e.Value.(string)
				if !kok || !vok {
					return nil, invalidImport(errors.Errorf("favorite %v is not a string", e.Key))
				}
				if _, dup := p.Favorites[key]; !dup {
					p.keys = append(p.keys, key)
				}
				p.Favorites[key] = value
			}
		case "favoriteOrder":
			if order, ok := item.Value.([]interface{}); ok {
				p.FavoriteOrder = stringsOnly(order)
			}
		}
	}
	if p.Favorites == nil {
		return nil, invalidImport(nil)
	}
	return p, nil
}

func stringsOnly(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
