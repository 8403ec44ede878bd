package data

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBase = "https://skelrealm.dev/schemas/"

// Decoder validates raw catalog entries against the embedded JSON schemas
// and decodes them into catalog types. Shared by every Source.
type Decoder struct {
	monster *jsonschema.Schema
	item    *jsonschema.Schema
	config  *jsonschema.Schema
}

// NewDecoder compiles the embedded schemas.
func NewDecoder() (*Decoder, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7

	names := []string{"monster", "item", "config"}
	for _, name := range names {
		f, err := schemaFS.Open("schemas/" + name + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("open schema %s: %w", name, err)
		}
		err = c.AddResource(schemaBase+name+".schema.json", f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	d := &Decoder{}
	targets := []**jsonschema.Schema{&d.monster, &d.item, &d.config}
	for i, name := range names {
		s, err := c.Compile(schemaBase + name + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		*targets[i] = s
	}
	return d, nil
}

func validate(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}

// Monster validates and decodes one archetype. MaxHP defaults to HP.
func (d *Decoder) Monster(raw []byte) (MonsterTemplate, error) {
	var m MonsterTemplate
	if err := validate(d.monster, raw); err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, err
	}
	if m.MaxHP <= 0 {
		m.MaxHP = m.HP
	}
	if m.HP > m.MaxHP {
		m.HP = m.MaxHP
	}
	return m, nil
}

// Item validates and decodes one base item.
func (d *Decoder) Item(raw []byte) (ItemTemplate, error) {
	var it ItemTemplate
	if err := validate(d.item, raw); err != nil {
		return it, err
	}
	if err := json.Unmarshal(raw, &it); err != nil {
		return it, err
	}
	return it, nil
}

// Config validates and decodes the tuning document.
func (d *Decoder) Config(raw []byte) (*ServerConfig, error) {
	if err := validate(d.config, raw); err != nil {
		return nil, err
	}
	cfg := &ServerConfig{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AddMonster decodes raw into doc, recording a rejection on failure.
func (d *Decoder) AddMonster(doc *Document, key string, raw []byte) {
	m, err := d.Monster(raw)
	if err != nil {
		doc.Rejected = append(doc.Rejected, fmt.Sprintf("monster %s: %v", key, err))
		return
	}
	doc.Monsters = append(doc.Monsters, m)
}

// AddItem decodes raw into doc, recording a rejection on failure.
func (d *Decoder) AddItem(doc *Document, key string, raw []byte) {
	it, err := d.Item(raw)
	if err != nil {
		doc.Rejected = append(doc.Rejected, fmt.Sprintf("item %s: %v", key, err))
		return
	}
	doc.Items = append(doc.Items, it)
}

// SetConfig decodes raw into doc, recording a rejection on failure.
func (d *Decoder) SetConfig(doc *Document, raw []byte) {
	cfg, err := d.Config(raw)
	if err != nil {
		doc.Rejected = append(doc.Rejected, fmt.Sprintf("serverConfig: %v", err))
		return
	}
	doc.ServerConfig = cfg
}
