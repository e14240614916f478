// Package content loads the knowledge graph, item bank and blueprint
// documents, validates them together and publishes them as one immutable
// Snapshot.
package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/abhisek/paesdx/internal/atomgraph"
	"github.com/abhisek/paesdx/internal/blueprint"
	"github.com/abhisek/paesdx/internal/diagerr"
	"github.com/abhisek/paesdx/internal/itembank"
)

//go:embed seed/*.yaml
var seedFS embed.FS

// SeedOrigin is the Origin of snapshots built from the embedded content.
const SeedOrigin = "seed"

// Snapshot is one consistent version of the content. Its parts are
// validated against each other and never change after Load returns.
type Snapshot struct {
	Graph     *atomgraph.Graph
	Bank      *itembank.Bank
	Blueprint *blueprint.Blueprint
	Origin    string
	LoadedAt  time.Time
}

type atomsDocument struct {
	Atoms []atomgraph.Atom `json:"atoms"`
}

type itemsDocument struct {
	Items []itembank.Item `json:"items"`
}

// Load reads atoms, items and blueprint documents from dir. Each may be
// YAML (.yaml, .yml) or JSON (.json).
func Load(dir string) (*Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, diagerr.Misconfigured(dir, "content directory: %v", err)
	}
	if !info.IsDir() {
		return nil, diagerr.Misconfigured(dir, "content path is not a directory")
	}
	return LoadFS(os.DirFS(dir), dir)
}

// LoadSeed builds a Snapshot from the PAES M1 content compiled into the
// binary.
func LoadSeed() (*Snapshot, error) {
	sub, err := fs.Sub(seedFS, "seed")
	if err != nil {
		return nil, fmt.Errorf("open seed content: %w", err)
	}
	return LoadFS(sub, SeedOrigin)
}

// LoadFS builds a Snapshot from the documents at the root of fsys. Graph,
// bank and blueprint are built in dependency order; the first document
// that fails stops the load.
func LoadFS(fsys fs.FS, origin string) (*Snapshot, error) {
	var atoms atomsDocument
	if err := readDocument(fsys, "atoms", SchemaAtoms, &atoms); err != nil {
		return nil, err
	}
	graph, err := atomgraph.Build(atoms.Atoms)
	if err != nil {
		return nil, err
	}

	var items itemsDocument
	if err := readDocument(fsys, "items", SchemaItems, &items); err != nil {
		return nil, err
	}
	bank, err := itembank.Build(items.Items, graph)
	if err != nil {
		return nil, err
	}

	var doc blueprint.Document
	if err := readDocument(fsys, "blueprint", SchemaBlueprint, &doc); err != nil {
		return nil, err
	}
	bp, err := blueprint.Build(doc, bank)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Graph:     graph,
		Bank:      bank,
		Blueprint: bp,
		Origin:    origin,
		LoadedAt:  time.Now().UTC(),
	}, nil
}

var documentExts = []string{".yaml", ".yml", ".json"}

// readDocument finds base.{yaml,yml,json}, checks it against its schema and
// decodes it into out.
func readDocument(fsys fs.FS, base, schema string, out any) error {
	var (
		name string
		data []byte
	)
	for _, ext := range documentExts {
		b, err := fs.ReadFile(fsys, base+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return diagerr.Misconfigured(base+ext, "read: %v", err)
		}
		name, data = base+ext, b
		break
	}
	if name == "" {
		return diagerr.Misconfigured(base, "document not found (tried %s.yaml, %s.yml, %s.json)", base, base, base)
	}

	raw, err := toJSON(data, path.Ext(name) != ".json")
	if err != nil {
		return diagerr.Misconfigured(name, "%v", err)
	}
	if err := Validate(schema, raw); err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			return &diagerr.ConfigurationError{Source: name, Problems: se.Problems}
		}
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return diagerr.Misconfigured(name, "decode: %v", err)
	}
	return nil
}
