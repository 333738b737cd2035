// Package snapshot reads the checker output a TypeScript host dumps for one
// source file (text, semantic diagnostics and optionally the node table) and
// serves it to the rule as a checker.Program.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrDecode wraps every malformed snapshot error.
	ErrDecode = errors.New("malformed snapshot")
	// ErrOffsetRange is returned when an offset points outside the file text.
	ErrOffsetRange = errors.New("snapshot offset out of range")
	// ErrNoTree is returned when a snapshot has no node table and no parser
	// is configured.
	ErrNoTree = errors.New("snapshot has no node table")
	// ErrDuplicateFile is returned when two snapshots describe the same file.
	ErrDuplicateFile = errors.New("file already loaded")
)

const (
	JSONSuffix    = ".tsdiag.json"
	MsgpackSuffix = ".tsdiag.mp"
)

// Encoding names the unit snapshot offsets are counted in.
type Encoding string

const (
	// EncodingUTF16 counts UTF-16 code units, the way TypeScript positions do.
	EncodingUTF16 Encoding = "utf16"
	// EncodingUTF8 counts bytes.
	EncodingUTF8 Encoding = "utf8"
)

// Format is the container format of a snapshot file.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// Document is one decoded snapshot.
type Document struct {
	File           string       `json:"file" msgpack:"file"`
	Text           *string      `json:"text,omitempty" msgpack:"text,omitempty"`
	OffsetEncoding Encoding     `json:"offset_encoding,omitempty" msgpack:"offset_encoding,omitempty"`
	Diagnostics    []Diagnostic `json:"diagnostics" msgpack:"diagnostics"`
	Nodes          []Node       `json:"nodes,omitempty" msgpack:"nodes,omitempty"`
}

// Diagnostic is a checker diagnostic as stored in a snapshot.
type Diagnostic struct {
	Code    int    `json:"code" msgpack:"code"`
	Start   *int   `json:"start,omitempty" msgpack:"start,omitempty"`
	Length  int    `json:"length" msgpack:"length"`
	Message string `json:"message" msgpack:"message"`
}

// Node is one entry of the node table. Pos is the token start (leading
// trivia excluded), Parent indexes an earlier node or is -1 for the root,
// Name optionally indexes the declaration's name node.
type Node struct {
	Kind   string `json:"kind" msgpack:"kind"`
	Pos    int    `json:"pos" msgpack:"pos"`
	End    int    `json:"end" msgpack:"end"`
	Parent int    `json:"parent" msgpack:"parent"`
	Name   *int   `json:"name,omitempty" msgpack:"name,omitempty"`
}

// FormatFor picks the format from the file name.
func FormatFor(path string) (Format, bool) {
	switch {
	case strings.HasSuffix(path, ".json"):
		return FormatJSON, true
	case strings.HasSuffix(path, ".mp"), strings.HasSuffix(path, ".msgpack"):
		return FormatMsgpack, true
	default:
		return 0, false
	}
}

// IsSnapshotPath reports whether a directory walk should pick up path.
func IsSnapshotPath(path string) bool {
	return strings.HasSuffix(path, JSONSuffix) || strings.HasSuffix(path, MsgpackSuffix)
}

// Decode parses data in the given format and validates the header fields.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %d", ErrDecode, format)
	}
	if doc.File == "" {
		return nil, fmt.Errorf("%w: missing \"file\"", ErrDecode)
	}
	switch doc.OffsetEncoding {
	case "":
		doc.OffsetEncoding = EncodingUTF16
	case EncodingUTF16, EncodingUTF8:
	default:
		return nil, fmt.Errorf("%w: unknown offset_encoding %q", ErrDecode, doc.OffsetEncoding)
	}
	return &doc, nil
}

// Encode serialises doc; hosts and tests use it to produce snapshots.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown snapshot format %d", format)
	}
}

// ReadFile reads and decodes the snapshot at path.
func ReadFile(path string) (*Document, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w: unrecognised extension", path, ErrDecode)
	}
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
