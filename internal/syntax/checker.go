// Package syntax validates source files against a tree-sitter grammar,
// without executing them. It serves languages that have no interpreter
// probe of their own.
package syntax

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
)

// maxNearLen bounds the offending text quoted in a syntax error.
const maxNearLen = 40

// Location is a 1-based line and column (in bytes) within a source file.
type Location struct {
	Line   int
	Column int
}

// String formats the location as "line L, column C".
func (l Location) String() string {
	return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
}

// Checker parses sources and reports the first grammar error.
type Checker struct {
	registry *LanguageRegistry
}

// NewChecker creates a checker with the default registry.
func NewChecker() *Checker {
	return NewCheckerWithRegistry(DefaultRegistry())
}

// NewCheckerWithRegistry creates a checker with a custom registry.
func NewCheckerWithRegistry(registry *LanguageRegistry) *Checker {
	return &Checker{registry: registry}
}

// Registry returns the checker's language registry.
func (c *Checker) Registry() *LanguageRegistry {
	return c.registry
}

// Check parses source in the named language. It returns nil when the
// source is well-formed, an ErrCodeSyntax error carrying "line" and
// "column" details for the first error, ErrCodeUnsupportedLanguage when no
// grammar is registered, or ErrCodeInternal if the parser itself fails.
func (c *Checker) Check(ctx context.Context, source []byte, language string) error {
	lang, ok := c.registry.Language(language)
	if !ok {
		return apperrors.New(apperrors.ErrCodeUnsupportedLanguage,
			fmt.Sprintf("unsupported language: %q", language), nil).
			WithSuggestion("Supported languages: " + strings.Join(c.registry.Languages(), ", "))
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return apperrors.InternalError("failed to parse source", err)
	}
	if tree == nil {
		return apperrors.InternalError("failed to parse source: nil tree", nil)
	}
	defer tree.Close()

	node := firstError(tree.RootNode())
	if node == nil {
		return nil
	}

	loc := Location{
		Line:   int(node.StartPoint().Row) + 1,
		Column: int(node.StartPoint().Column) + 1,
	}

	var msg string
	if node.IsMissing() {
		msg = fmt.Sprintf("missing %q at %s", node.Type(), loc)
	} else if near := nearText(node.Content(source)); near != "" {
		msg = fmt.Sprintf("invalid syntax at %s near %q", loc, near)
	} else {
		msg = fmt.Sprintf("invalid syntax at %s", loc)
	}

	return apperrors.New(apperrors.ErrCodeSyntax, msg, nil).
		WithDetail("line", strconv.Itoa(loc.Line)).
		WithDetail("column", strconv.Itoa(loc.Column))
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if e := firstError(n.Child(i)); e != nil {
			return e
		}
	}

	// The error is recorded on n itself.
	return n
}

// nearText returns the first line of content, bounded to maxNearLen.
func nearText(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	line = strings.TrimSpace(line)
	if len(line) > maxNearLen {
		line = line[:maxNearLen] + "..."
	}
	return line
}
