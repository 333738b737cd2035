package unusedvars

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds one pattern match. A match that runs out of time
// counts as no match, so the binding is reported.
const MatchTimeout = 100 * time.Millisecond

// Pattern is a compiled ignore pattern. A nil *Pattern means ignoring is
// disabled.
type Pattern struct {
	re   *regexp2.Regexp
	text string
}

// CompilePattern compiles a regex source with JavaScript RegExp semantics
// (no flags), so lookarounds and backreferences work as in ESLint configs.
func CompilePattern(src string) (*Pattern, error) {
	re, err := regexp2.Compile(src, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("%w: ignoredNamesRegex %q: %v", ErrInvalidOptions, src, err)
	}
	re.MatchTimeout = MatchTimeout
	return &Pattern{re: re, text: regexLiteral(src)}, nil
}

func (p *Pattern) matches(name string) bool {
	ok, err := p.re.MatchString(name)
	return err == nil && ok
}

// String returns the pattern in /source/ literal form.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.text
}

// regexLiteral renders src the way a JavaScript RegExp prints itself:
// unescaped slashes are escaped and an empty source becomes (?:).
func regexLiteral(src string) string {
	if src == "" {
		return "/(?:)/"
	}
	var b strings.Builder
	b.Grow(len(src) + 2)
	b.WriteByte('/')
	escaped := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '/':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('/')
	return b.String()
}

// Outcome is the decision of the ignore-pattern matcher.
type Outcome uint8

const (
	// OutcomeSuppressed: the name matches the pattern, nothing is reported.
	OutcomeSuppressed Outcome = iota
	// OutcomePlain: ignoring is disabled, report without a pattern hint.
	OutcomePlain
	// OutcomeWithPattern: the name does not match, report with the pattern.
	OutcomeWithPattern
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomePlain:
		return "plain"
	case OutcomeWithPattern:
		return "with-pattern"
	}
	return "unknown"
}

// Match decides how a binding named name is treated under pattern.
func Match(name string, pattern *Pattern) Outcome {
	switch {
	case pattern == nil:
		return OutcomePlain
	case pattern.matches(name):
		return OutcomeSuppressed
	default:
		return OutcomeWithPattern
	}
}
