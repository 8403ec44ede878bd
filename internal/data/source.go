package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Source is an external catalog store. A Source may return a partial
// document; missing sections are filled from Defaults by Load.
type Source interface {
	Load(ctx context.Context) (*Document, error)
	Name() string
}

// BuiltinSource serves the compiled-in catalog.
type BuiltinSource struct{}

func (BuiltinSource) Name() string { return "builtin" }

func (BuiltinSource) Load(context.Context) (*Document, error) {
	return Defaults(), nil
}

// FileSource reads a YAML (or JSON) catalog file:
//
//	monsters: [ {id: skeleton_weak, hp: 50, ...}, ... ]
//	items:    [ {id: sword_wooden, type: equipment, ...}, ... ]
//	serverConfig: {dropRates: {...}, gradeConfig: {...}}
//
// Entries failing schema validation are skipped and listed in
// Document.Rejected.
type FileSource struct {
	Path    string
	decoder *Decoder
}

func NewFileSource(path string, dec *Decoder) *FileSource {
	return &FileSource{Path: path, decoder: dec}
}

func (s *FileSource) Name() string { return "yaml:" + s.Path }

type rawDocument struct {
	Monsters     []json.RawMessage `json:"monsters"`
	Items        []json.RawMessage `json:"items"`
	ServerConfig json.RawMessage   `json:"serverConfig"`
}

func (s *FileSource) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	// Round-trip through JSON so validation sees JSON-typed values.
	js, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("convert catalog: %w", err)
	}
	var rd rawDocument
	if err := json.Unmarshal(js, &rd); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	doc := &Document{}
	for i, m := range rd.Monsters {
		s.decoder.AddMonster(doc, entryKey(m, i), m)
	}
	for i, it := range rd.Items {
		s.decoder.AddItem(doc, entryKey(it, i), it)
	}
	if len(rd.ServerConfig) > 0 && string(rd.ServerConfig) != "null" {
		s.decoder.SetConfig(doc, rd.ServerConfig)
	}
	return doc, nil
}

// entryKey names a raw entry by its id field, or by index when absent.
func entryKey(raw json.RawMessage, i int) string {
	var head struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(raw, &head) == nil && head.ID != "" {
		return head.ID
	}
	return "#" + strconv.Itoa(i)
}

// Load reads src and merges the result with the built-in defaults. On a
// source error the defaults are returned along with the error, so callers
// may log and continue.
func Load(ctx context.Context, src Source) (*Catalog, *Document, error) {
	doc, err := src.Load(ctx)
	if err != nil {
		merged := Merge(nil)
		return NewCatalog(merged), merged, fmt.Errorf("load catalog from %s: %w", src.Name(), err)
	}
	merged := Merge(doc)
	return NewCatalog(merged), merged, nil
}
