package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fjglira/storeflow/internal/domain"
)

// MarkdownParser extracts scenario documents from fenced code blocks using goldmark.
type MarkdownParser struct {
	tags map[string]bool
}

// NewMarkdownParser creates a MarkdownParser that reads blocks tagged with one of tags.
func NewMarkdownParser(tags []string) *MarkdownParser {
	return &MarkdownParser{tags: tagSet(tags)}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *MarkdownParser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Parse walks the Markdown AST and decodes every tagged fenced block as one
// scenario document. Unnamed scenarios take the nearest heading as name.
// Info string attributes suite= and name= act as fallbacks.
func (p *MarkdownParser) Parse(filePath string, content []byte) ([]*domain.ScenarioDocument, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	var (
		docs           []*domain.ScenarioDocument
		currentHeading string
		decodeErr      error
	)
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			currentHeading = extractText(node, content)

		case *ast.FencedCodeBlock:
			var info string
			if node.Info != nil {
				info = string(node.Info.Segment.Value(content))
			}
			attrs := parseInfoString(info)
			if !p.tags[attrs["_tag"]] {
				return ast.WalkContinue, nil
			}

			lines := node.Lines()
			if lines.Len() == 0 {
				decodeErr = domain.NewError("parse", filePath, 0, "empty scenario block", nil)
				return ast.WalkStop, nil
			}
			var buf bytes.Buffer
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(content))
			}

			name := attrs["name"]
			if name == "" {
				name = currentHeading
			}
			parsed, err := decodeDocument(filePath, buf.Bytes(), blockInfo{
				fileType:   "markdown",
				lineOffset: lineNumber(content, lines.At(0).Start) - 1,
				suite:      attrs["suite"],
				name:       name,
			})
			if err != nil {
				decodeErr = err
				return ast.WalkStop, nil
			}
			docs = append(docs, parsed)
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
			"failed to walk markdown AST",
			"check the markdown file for syntax issues, fenced blocks use triple backticks",
			err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return docs, nil
}

// parseInfoString parses a fenced code block info string like:
//
//	storeflow suite=checkout name="Abandoned checkout"
//
// Returns map with _tag for the language tag and other key-value pairs.
func parseInfoString(info string) map[string]string {
	result := make(map[string]string)
	info = strings.TrimSpace(info)
	if info == "" {
		return result
	}

	parts := splitInfoString(info)
	if len(parts) == 0 {
		return result
	}

	result["_tag"] = parts[0]
	for _, part := range parts[1:] {
		if idx := strings.Index(part, "="); idx > 0 {
			result[part[:idx]] = strings.Trim(part[idx+1:], "\"'")
		}
	}
	return result
}

// splitInfoString splits the info string on blanks, respecting quoted values.
func splitInfoString(s string) []string {
	var parts []string
	var current strings.Builder
	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			current.WriteByte(c)
		case c == ' ' || c == '\t':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// extractText gets the text content of a heading node.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.String()
}

// lineNumber calculates the 1-based line number for a byte offset.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
