package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"tsunused/internal/diag"
	"tsunused/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	ColumnKind  string            `json:"columnKind"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// codePointColumn переводит байтовую колонку в колонку в code points.
func codePointColumn(f *source.File, pos source.LineCol) uint32 {
	line := f.GetLine(pos.Line)
	n := min(int(pos.Col)-1, len(line))
	if n <= 0 {
		return 1
	}
	col, err := safecast.Conv[uint32](utf8.RuneCountInString(line[:n]))
	if err != nil {
		return pos.Col
	}
	return col + 1
}

func sarifLocationFor(span source.Span, fs *source.FileSet, mode PathMode) sarifLocation {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: filepath.ToSlash(formatPath(f, fs, mode))},
			Region: sarifRegion{
				StartLine:   start.Line,
				StartColumn: codePointColumn(f, start),
				EndLine:     end.Line,
				EndColumn:   codePointColumn(f, end),
				ByteOffset:  span.Start,
				ByteLength:  span.Len(),
			},
		},
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0). Правила в
// tool.driver.rules перечисляют только встретившиеся коды, по возрастанию.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	items := bag.Items()

	seen := make(map[diag.Code]diag.Severity)
	for _, d := range items {
		if sev, ok := seen[d.Code]; !ok || d.Severity > sev {
			seen[d.Code] = d.Severity
		}
	}
	codes := make([]diag.Code, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	rules := make([]sarifRule, len(codes))
	ruleIndex := make(map[diag.Code]int, len(codes))
	for i, c := range codes {
		rules[i] = sarifRule{
			ID:                   c.ID(),
			ShortDescription:     sarifMessage{Text: c.Title()},
			DefaultConfiguration: sarifConfiguration{Level: sarifLevel(seen[c])},
		}
		ruleIndex[c] = i
	}

	results := make([]sarifResult, 0, len(items))
	for _, d := range items {
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: ruleIndex[d.Code],
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{sarifLocationFor(d.Primary, fs, meta.PathMode)},
		}
		for i, n := range d.Notes {
			loc := sarifLocationFor(n.Span, fs, meta.PathMode)
			loc.ID = i + 1
			loc.Message = &sarifMessage{Text: n.Msg}
			res.RelatedLocations = append(res.RelatedLocations, loc)
		}
		results = append(results, res)
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          rules,
		}},
		ColumnKind: "unicodeCodePoints",
		Results:    results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
