/*
Package patch defines the input model of the rule patcher.

A patch addresses one rule by path and tells what to do with it:

    {
      "path":   [["@media print", 1], ["a", 1]],
      "action": "update",
      "update": [{"name": "color", "value": "red !important"}],
      "remove": [{"name": "margin"}],
      "hints":  [{"before": [["b", 1]]}]
    }

Patches are read from JSON (Decode) or YAML (DecodeYAML), either as a single
object or as a list.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/cssompatch/pathfinder"
	"gopkg.in/yaml.v3"
)

// Action is what a patch does to the rule it addresses.
type Action string

// Patch actions.
const (
	Add    Action = "add"
	Update Action = "update"
	Remove Action = "remove"
)

// Property is a declaration or, if its name starts with '@', an at-rule
// descriptor like
//
//     {"name": "@import", "value": "url(\"x.css\")"}
//
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// IsAtRule is true for at-rule descriptors.
func (p Property) IsAtRule() bool {
	return strings.HasPrefix(p.Name, "@")
}

func (p Property) String() string {
	if p.Value == "" {
		return p.Name
	}
	return p.Name + ": " + p.Value
}

// Patch is a single structural edit. All is nil if absent; if present, it
// replaces Update as the list of declarations to apply.
type Patch struct {
	Path   pathfinder.Path   `json:"path" yaml:"path"`
	Action Action            `json:"action" yaml:"action"`
	Update []Property        `json:"update,omitempty" yaml:"update,omitempty"`
	Remove []Property        `json:"remove,omitempty" yaml:"remove,omitempty"`
	All    []Property        `json:"all,omitempty" yaml:"all,omitempty"`
	Hints  []pathfinder.Hint `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// ErrInvalidPatch is returned for patches which cannot be decoded.
var ErrInvalidPatch = errors.New("invalid patch")

// Validate checks the action of a patch.
func (p Patch) Validate() error {
	switch p.Action {
	case Add, Update, Remove:
		return nil
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidPatch, p.Action)
}

// Decode reads a single JSON patch object or a JSON array of patches.
func Decode(r io.Reader) ([]Patch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	var patches []Patch
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &patches)
	} else {
		var p Patch
		err = json.Unmarshal(data, &p)
		patches = []Patch{p}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return patches, validate(patches)
}

// DecodeYAML reads a single YAML patch mapping or a YAML sequence of patches.
func DecodeYAML(r io.Reader) ([]Patch, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	node := &doc
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		node = doc.Content[0]
	}
	var patches []Patch
	var err error
	switch node.Kind {
	case yaml.SequenceNode:
		err = node.Decode(&patches)
	case yaml.MappingNode:
		var p Patch
		err = node.Decode(&p)
		patches = []Patch{p}
	default:
		err = fmt.Errorf("line %d: expected a patch or a list of patches", node.Line)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return patches, validate(patches)
}

// Load reads patches from a file, choosing the decoder by file extension
// (.yaml and .yml for YAML, JSON otherwise).
func Load(path string) ([]Patch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(f)
	}
	return Decode(f)
}

func validate(patches []Patch) error {
	for i, p := range patches {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("patch #%d: %w", i, err)
		}
	}
	return nil
}
