// Package config loads tsunused.toml. A file found by walking up from the
// working directory is laid over the built-in defaults key by key, so a
// config that only sets [rule.arguments] keeps the default variables
// pattern.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"tsunused/internal/diag"
	"tsunused/internal/rules/unusedvars"
)

const FileName = "tsunused.toml"

// ErrInvalid wraps every validation error of a config file.
var ErrInvalid = errors.New("invalid configuration")

// Formats lists the accepted [output].format values.
var Formats = []string{"pretty", "short", "json", "sarif"}

type Config struct {
	Rule   RuleConfig   `toml:"rule"`
	Output OutputConfig `toml:"output"`

	// Path is the file the config came from, empty for the defaults.
	Path string `toml:"-"`

	meta toml.MetaData
}

type RuleConfig struct {
	Severity  string          `toml:"severity"`
	Variables VariablesConfig `toml:"variables"`
	Arguments ArgumentsConfig `toml:"arguments"`
}

type VariablesConfig struct {
	IgnoredNamesRegex NamePattern `toml:"ignored_names_regex"`
}

type ArgumentsConfig struct {
	IgnoredNamesRegex        NamePattern `toml:"ignored_names_regex"`
	IgnoreIfArgsAfterAreUsed bool        `toml:"ignore_if_args_after_are_used"`
}

type OutputConfig struct {
	Format         string `toml:"format"`
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// NamePattern is an ignore pattern in TOML: a regex string or false.
type NamePattern struct {
	unusedvars.NamePattern
}

func (p *NamePattern) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		p.NamePattern = unusedvars.Regex(v)
	case bool:
		if v {
			return fmt.Errorf("%w: ignored_names_regex must be a string or false", ErrInvalid)
		}
		p.NamePattern = unusedvars.Disabled()
	default:
		return fmt.Errorf("%w: ignored_names_regex must be a string or false, got %T", ErrInvalid, v)
	}
	return nil
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Rule: RuleConfig{
			Severity:  strings.ToLower(diag.SevWarning.String()),
			Variables: VariablesConfig{IgnoredNamesRegex: NamePattern{unusedvars.Regex(unusedvars.DefaultIgnoredNamesRegex)}},
		},
		Output: OutputConfig{
			Format:         "pretty",
			MaxDiagnostics: 100,
		},
	}
}

// Find looks for tsunused.toml in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Parse decodes one config file without applying defaults.
func Parse(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: %w: unknown keys: %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.meta = meta
	return cfg, nil
}

// Merge returns cfg with every key defined in other replaced.
func (cfg Config) Merge(other Config) Config {
	m := other.meta
	if m.IsDefined("rule", "severity") {
		cfg.Rule.Severity = other.Rule.Severity
	}
	if m.IsDefined("rule", "variables", "ignored_names_regex") {
		cfg.Rule.Variables.IgnoredNamesRegex = other.Rule.Variables.IgnoredNamesRegex
	}
	if m.IsDefined("rule", "arguments", "ignored_names_regex") {
		cfg.Rule.Arguments.IgnoredNamesRegex = other.Rule.Arguments.IgnoredNamesRegex
	}
	if m.IsDefined("rule", "arguments", "ignore_if_args_after_are_used") {
		cfg.Rule.Arguments.IgnoreIfArgsAfterAreUsed = other.Rule.Arguments.IgnoreIfArgsAfterAreUsed
	}
	if m.IsDefined("output", "format") {
		cfg.Output.Format = other.Output.Format
	}
	if m.IsDefined("output", "jobs") {
		cfg.Output.Jobs = other.Output.Jobs
	}
	if m.IsDefined("output", "max_diagnostics") {
		cfg.Output.MaxDiagnostics = other.Output.MaxDiagnostics
	}
	if other.Path != "" {
		cfg.Path = other.Path
	}
	return cfg
}

// Load parses path, lays it over the defaults and validates the result.
func Load(path string) (Config, error) {
	file, err := Parse(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default().Merge(file)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds the nearest tsunused.toml above startDir and loads it.
// Without one it returns the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (cfg Config) Validate() error {
	if _, err := diag.ParseSeverity(cfg.Rule.Severity); err != nil {
		return fmt.Errorf("%w: [rule].severity: %w", ErrInvalid, err)
	}
	if !isFormat(cfg.Output.Format) {
		return fmt.Errorf("%w: [output].format %q (expected %s)", ErrInvalid, cfg.Output.Format, strings.Join(Formats, "|"))
	}
	if cfg.Output.Jobs < 0 {
		return fmt.Errorf("%w: [output].jobs must not be negative", ErrInvalid)
	}
	if cfg.Output.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: [output].max_diagnostics must not be negative", ErrInvalid)
	}
	return nil
}

// RuleOptions converts the [rule] section; the rule compiles the patterns.
func (cfg Config) RuleOptions() (unusedvars.Options, error) {
	sev, err := diag.ParseSeverity(cfg.Rule.Severity)
	if err != nil {
		return unusedvars.Options{}, fmt.Errorf("%w: [rule].severity: %w", ErrInvalid, err)
	}
	return unusedvars.Options{
		Variables: unusedvars.VariablesOptions{
			IgnoredNamesRegex: cfg.Rule.Variables.IgnoredNamesRegex.NamePattern,
		},
		Arguments: unusedvars.ArgumentsOptions{
			IgnoredNamesRegex:        cfg.Rule.Arguments.IgnoredNamesRegex.NamePattern,
			IgnoreIfArgsAfterAreUsed: cfg.Rule.Arguments.IgnoreIfArgsAfterAreUsed,
		},
		Severity: sev,
	}, nil
}

func isFormat(s string) bool {
	for _, f := range Formats {
		if f == s {
			return true
		}
	}
	return false
}
