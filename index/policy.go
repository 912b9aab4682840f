package index

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cssompatch/cssom"
	"gopkg.in/yaml.v3"
)

// Policy decides whether @charset and @import rules are addressable.
type Policy uint8

const (
	// HideImports treats @charset and @import as properties of their parent.
	HideImports Policy = iota
	// AddressImports indexes @charset and @import as nodes named "@charset"
	// and "@import".
	AddressImports
)

func (p Policy) String() string {
	if p == AddressImports {
		return "addressable"
	}
	return "hidden"
}

// ParsePolicy reads a policy from its string form, "hidden" or "addressable".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hidden", "hide":
		return HideImports, nil
	case "addressable", "address", "visible":
		return AddressImports, nil
	}
	return HideImports, fmt.Errorf("unknown at-rule policy %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Policy) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	pol, err := ParsePolicy(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*p = pol
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Policy) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// Set implements pflag.Value, for use as a command line flag.
func (p *Policy) Set(s string) error {
	pol, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = pol
	return nil
}

// Type implements pflag.Value.
func (p *Policy) Type() string {
	return "policy"
}

// hides is true if rules of kind k are not part of the index.
func (p Policy) hides(k cssom.RuleKind) bool {
	return p == HideImports && k.IsPrologue()
}
