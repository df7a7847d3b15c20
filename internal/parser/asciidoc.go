package parser

import (
	"regexp"
	"strings"

	"github.com/fjglira/storeflow/internal/domain"
)

// AsciiDocParser extracts scenario documents from AsciiDoc source listings.
type AsciiDocParser struct {
	tags map[string]bool
}

// NewAsciiDocParser creates an AsciiDocParser that reads listings tagged with one of tags.
func NewAsciiDocParser(tags []string) *AsciiDocParser {
	return &AsciiDocParser{tags: tagSet(tags)}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *AsciiDocParser) SupportedExtensions() []string {
	return []string{".adoc", ".asciidoc"}
}

var (
	// Matches [source,tag,attr1="val1",attr2="val2"]
	asciidocSourceRe = regexp.MustCompile(`^\[source,([^,\]]+)(?:,(.+))?\]\s*$`)
	// Matches ---- delimiter
	asciidocDelimRe = regexp.MustCompile(`^----+\s*$`)
	// Matches == Heading, === Subheading, etc.
	asciidocHeadingRe = regexp.MustCompile(`^(={2,6})\s+(.+)$`)
)

// Parse decodes every tagged listing as one scenario document:
//
//	[source,storeflow,suite=checkout]
//	----
//	scenarios: ...
//	----
func (p *AsciiDocParser) Parse(filePath string, content []byte) ([]*domain.ScenarioDocument, error) {
	lines := strings.Split(string(content), "\n")

	var docs []*domain.ScenarioDocument
	var currentHeading string

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := asciidocHeadingRe.FindStringSubmatch(line); m != nil {
			currentHeading = strings.TrimSpace(m[2])
			continue
		}

		m := asciidocSourceRe.FindStringSubmatch(line)
		if m == nil || !p.tags[strings.TrimSpace(m[1])] {
			continue
		}
		attrs := map[string]string{}
		if m[2] != "" {
			attrs = parseAsciidocAttrs(m[2])
		}

		// The listing delimiter must follow the directive.
		i++
		if i >= len(lines) || !asciidocDelimRe.MatchString(lines[i]) {
			return nil, domain.NewErrorWithSuggestion("parse", filePath, i,
				"source directive without listing",
				"put a ---- line right after the [source,...] line", nil)
		}

		i++
		start := i
		for i < len(lines) && !asciidocDelimRe.MatchString(lines[i]) {
			i++
		}
		if i >= len(lines) {
			return nil, domain.NewError("parse", filePath, start, "unterminated listing block", nil)
		}

		name := attrs["name"]
		if name == "" {
			name = currentHeading
		}
		doc, err := decodeDocument(filePath, []byte(strings.Join(lines[start:i], "\n")), blockInfo{
			fileType:   "asciidoc",
			lineOffset: start,
			suite:      attrs["suite"],
			name:       name,
		})
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// parseAsciidocAttrs parses comma-separated key="value" or key=value attributes.
func parseAsciidocAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range splitAsciidocAttrs(s) {
		part = strings.TrimSpace(part)
		if idx := strings.Index(part, "="); idx > 0 {
			key := strings.TrimSpace(part[:idx])
			val := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"'")
			attrs[key] = val
		}
	}
	return attrs
}

// splitAsciidocAttrs splits on commas, respecting quoted values.
func splitAsciidocAttrs(s string) []string {
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
		case c == ',':
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
