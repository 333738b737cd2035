package unusedvars

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"tsunused/internal/diag"
)

// DefaultIgnoredNamesRegex is the variables ignore pattern used when none is
// configured.
const DefaultIgnoredNamesRegex = "^_"

// ErrInvalidOptions is wrapped by every option validation error.
var ErrInvalidOptions = errors.New("invalid no-unused-vars options")

type patternState uint8

const (
	patternUnset patternState = iota
	patternDisabled
	patternRegex
)

// NamePattern is the value of an ignoredNamesRegex option: unset, disabled
// (JSON false) or a regular expression source. The zero value is unset.
type NamePattern struct {
	state  patternState
	source string
}

// Regex returns a pattern holding a regular expression source.
func Regex(src string) NamePattern { return NamePattern{state: patternRegex, source: src} }

// Disabled returns a pattern that turns ignoring off.
func Disabled() NamePattern { return NamePattern{state: patternDisabled} }

func (p NamePattern) IsSet() bool      { return p.state != patternUnset }
func (p NamePattern) IsDisabled() bool { return p.state == patternDisabled }

// Source returns the regex source, ok is false unless the pattern is a regex.
func (p NamePattern) Source() (src string, ok bool) {
	return p.source, p.state == patternRegex
}

func (p NamePattern) String() string {
	switch p.state {
	case patternDisabled:
		return "false"
	case patternRegex:
		return p.source
	}
	return "<unset>"
}

func (p *NamePattern) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = NamePattern{}
		return nil
	case bytes.Equal(data, []byte("false")):
		*p = Disabled()
		return nil
	case bytes.Equal(data, []byte("true")):
		return fmt.Errorf("%w: ignoredNamesRegex must be a string or false, got true", ErrInvalidOptions)
	}
	var src string
	if err := json.Unmarshal(data, &src); err != nil {
		return fmt.Errorf("%w: ignoredNamesRegex must be a string or false: %v", ErrInvalidOptions, err)
	}
	*p = Regex(src)
	return nil
}

func (p NamePattern) MarshalJSON() ([]byte, error) {
	switch p.state {
	case patternDisabled:
		return []byte("false"), nil
	case patternRegex:
		return json.Marshal(p.source)
	}
	return []byte("null"), nil
}

type VariablesOptions struct {
	IgnoredNamesRegex NamePattern `json:"ignoredNamesRegex"`
}

type ArgumentsOptions struct {
	// IgnoredNamesRegex falls back to the variables pattern when unset.
	IgnoredNamesRegex        NamePattern `json:"ignoredNamesRegex"`
	IgnoreIfArgsAfterAreUsed bool        `json:"ignoreIfArgsAfterAreUsed"`
}

// Options configures the rule for one run.
type Options struct {
	Variables VariablesOptions `json:"variables"`
	Arguments ArgumentsOptions `json:"arguments"`
	// Severity of emitted diagnostics; not part of the JSON object.
	Severity diag.Severity `json:"-"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Variables: VariablesOptions{IgnoredNamesRegex: Regex(DefaultIgnoredNamesRegex)},
		Severity:  diag.SevWarning,
	}
}

// ParseOptions decodes the JSON configuration object over the defaults.
// Both the bare object and the ESLint array form ([{...}]) are accepted;
// unknown keys are rejected.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return opts, nil
	}
	if data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return opts, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		switch len(list) {
		case 0:
			return opts, nil
		case 1:
			data = list[0]
		default:
			return opts, fmt.Errorf("%w: expected at most one options object, got %d", ErrInvalidOptions, len(list))
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		if errors.Is(err, ErrInvalidOptions) {
			return opts, err
		}
		return opts, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if dec.More() {
		return opts, fmt.Errorf("%w: trailing data after options object", ErrInvalidOptions)
	}
	if !opts.Variables.IgnoredNamesRegex.IsSet() {
		opts.Variables.IgnoredNamesRegex = Regex(DefaultIgnoredNamesRegex)
	}
	return opts, nil
}
