// Package tsparse builds syntax trees from TypeScript source with
// tree-sitter. It is the fallback for snapshots that carry diagnostics but
// no node table, so its node shapes follow the TypeScript compiler's AST
// where the rule looks at them: declaration parents of names, parameters as
// direct children of functions, binding elements inside patterns.
package tsparse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"tsunused/internal/source"
	"tsunused/internal/syntax"
	"tsunused/internal/trace"
)

// Parser implements snapshot.TreeParser. A fresh tree-sitter parser is
// created per call, so one Parser may be shared between goroutines.
type Parser struct{}

func New() *Parser { return &Parser{} }

// Parse parses text and converts the concrete tree. Syntax errors do not
// fail the parse; they show up as KindOther nodes.
func (p *Parser) Parse(ctx context.Context, file source.FileID, path string, text []byte) (*syntax.Tree, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "tsparse", trace.CurrentSpan(ctx).SpanID).
		WithExtra("path", path)

	parser := sitter.NewParser()
	defer parser.Close()
	if isTSX(path) {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}
	st, err := parser.ParseCtx(ctx, nil, text)
	if err != nil {
		span.End(err.Error())
		return nil, fmt.Errorf("%s: tree-sitter: %w", path, err)
	}
	defer st.Close()

	size, err := safecast.Conv[uint32](len(text))
	if err != nil {
		span.End(err.Error())
		return nil, fmt.Errorf("%s: text too large: %w", path, err)
	}
	c := &converter{b: syntax.NewBuilder(file, path, text), text: text}
	root := c.b.Add(syntax.KindSourceFile, syntax.NoNode, 0, size)
	c.children(st.RootNode(), root)
	tree, err := c.b.Build()
	if err != nil {
		span.End(err.Error())
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	span.WithExtra("nodes", strconv.Itoa(tree.Len())).End("")
	return tree, nil
}

func isTSX(path string) bool {
	return strings.HasSuffix(path, ".tsx") || strings.HasSuffix(path, ".jsx")
}
