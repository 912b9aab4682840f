package cssompatch

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/cssompatch/index"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// Config configures a Patcher.
//
//     at_rules: hidden        # or: addressable
//     trace: error            # or: info, debug
//
type Config struct {
	AtRules index.Policy `yaml:"at_rules"`
	Trace   string       `yaml:"trace"`
}

// DefaultConfig hides @charset and @import rules and traces errors only.
func DefaultConfig() Config {
	c := Config{}
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.Trace == "" {
		c.Trace = "error"
	}
}

// LoadConfig reads a YAML configuration file. Missing values are set to their
// defaults.
func LoadConfig(path string) (Config, error) {
	c := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	c.defaults()
	if _, err := ParseTraceLevel(c.Trace); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// TraceKeys are the tracing keys of the packages of this module.
var TraceKeys = []string{
	"cssom.patch",
	"cssom.applier",
	"cssom.index",
	"cssom.pathfinder",
	"cssom.oplog",
	"cssom.sheets",
	"cssom.douceur",
}

// ParseTraceLevel reads a trace level, "error", "info" or "debug".
func ParseTraceLevel(s string) (tracing.TraceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return tracing.LevelError, nil
	case "info":
		return tracing.LevelInfo, nil
	case "debug":
		return tracing.LevelDebug, nil
	}
	return tracing.LevelError, fmt.Errorf("unknown trace level %q", s)
}

// SetupTracing sets the trace level of all packages of this module.
func (c Config) SetupTracing() error {
	level, err := ParseTraceLevel(c.Trace)
	if err != nil {
		return err
	}
	for _, key := range TraceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}
