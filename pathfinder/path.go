package pathfinder

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/cssompatch/index"
	"gopkg.in/yaml.v3"
)

// PathComponent addresses a rule by name and 1-based occurrence among its
// same-named siblings.
type PathComponent struct {
	Name string
	Pos  int
}

// C creates a normalized path component.
func C(name string, pos int) PathComponent {
	return PathComponent{Name: index.Normalize(name), Pos: pos}.normalized()
}

func (pc PathComponent) normalized() PathComponent {
	if pc.Pos < 1 {
		pc.Pos = 1
	}
	return pc
}

func (pc PathComponent) String() string {
	return fmt.Sprintf("%s|%d", pc.Name, pc.Pos)
}

var errComponent = errors.New(`path component must be "name" or ["name", pos]`)

// UnmarshalJSON reads a component from `["name", pos]` or from a bare
// `"name"`, meaning position 1.
func (pc *PathComponent) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*pc = C(name, 1)
		return nil
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) == 0 || len(pair) > 2 {
		return fmt.Errorf("%w: %s", errComponent, data)
	}
	if err := json.Unmarshal(pair[0], &name); err != nil {
		return fmt.Errorf("%w: %s", errComponent, data)
	}
	var pos float64
	if len(pair) == 2 && string(pair[1]) != "null" {
		if err := json.Unmarshal(pair[1], &pos); err != nil {
			return fmt.Errorf("%w: %s", errComponent, data)
		}
	}
	*pc = C(name, int(pos))
	return nil
}

// MarshalJSON writes a component as `["name", pos]`.
func (pc PathComponent) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{pc.Name, pc.Pos})
}

// UnmarshalYAML reads a component from a sequence `[name, pos]` or a scalar.
func (pc *PathComponent) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*pc = C(value.Value, 1)
		return nil
	case yaml.SequenceNode:
		if len(value.Content) == 0 || len(value.Content) > 2 {
			break
		}
		var name string
		if err := value.Content[0].Decode(&name); err != nil {
			break
		}
		pos := 1
		if len(value.Content) == 2 {
			if err := value.Content[1].Decode(&pos); err != nil {
				break
			}
		}
		*pc = C(name, pos)
		return nil
	}
	return fmt.Errorf("line %d: %w", value.Line, errComponent)
}

// Path addresses a rule from the root of a stylesheet.
type Path []PathComponent

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, pc := range p {
		parts[i] = pc.String()
	}
	return "[" + strings.Join(parts, " / ") + "]"
}

// Hint positions a new rule among its siblings. Before lists siblings the new
// rule has to precede; After lists siblings it has to follow.
type Hint struct {
	Before []PathComponent `json:"before,omitempty" yaml:"before,omitempty"`
	After  []PathComponent `json:"after,omitempty" yaml:"after,omitempty"`
}

// IsEmpty is true for a hint without constraints.
func (h Hint) IsEmpty() bool {
	return len(h.Before) == 0 && len(h.After) == 0
}
