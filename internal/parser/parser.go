package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/storeflow/internal/domain"
)

// Parser extracts scenario documents from a file. Embedded formats may hold
// several documents in one file.
type Parser interface {
	Parse(filePath string, content []byte) ([]*domain.ScenarioDocument, error)
	SupportedExtensions() []string
}

// ParserRegistry maps file extensions to parsers.
type ParserRegistry interface {
	Register(parser Parser)
	ParserFor(extension string) (Parser, error)
}

// DefaultRegistry is a thread-safe parser registry.
type DefaultRegistry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		parsers: make(map[string]Parser),
	}
}

// NewDefaultRegistry registers the YAML, Markdown and AsciiDoc parsers. The
// embedded formats pick up blocks tagged with one of tags.
func NewDefaultRegistry(tags []string) *DefaultRegistry {
	r := NewRegistry()
	r.Register(NewYAMLParser())
	r.Register(NewMarkdownParser(tags))
	r.Register(NewAsciiDocParser(tags))
	return r
}

// Register adds a parser to the registry for each of its supported extensions.
func (r *DefaultRegistry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range p.SupportedExtensions() {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		r.parsers[ext] = p
	}
}

// ParserFor returns the parser registered for the given file extension.
func (r *DefaultRegistry) ParserFor(extension string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	if p, ok := r.parsers[ext]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no parser registered for extension %q", extension)
}

// rawDocument is the YAML shape shared by every format.
type rawDocument struct {
	Suite     string        `yaml:"suite"`
	Defaults  domain.Params `yaml:"defaults"`
	Scenarios []yaml.Node   `yaml:"scenarios"`
}

type blockInfo struct {
	fileType   string
	lineOffset int    // line of the first content line, minus one
	suite      string // fallback when the document names none
	name       string // fallback for unnamed scenarios
}

// decodeDocument parses one scenario document. Reported lines are file lines.
func decodeDocument(filePath string, content []byte, info blockInfo) (*domain.ScenarioDocument, error) {
	var raw rawDocument
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, info.lineOffset+yamlLine(err),
			"invalid scenario document",
			"a document needs a top-level 'scenarios' list; check indentation and quoting",
			err)
	}
	if len(raw.Scenarios) == 0 {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, info.lineOffset+1,
			"document has no scenarios",
			"add a 'scenarios' list with at least one entry", nil)
	}

	doc := &domain.ScenarioDocument{
		FilePath: filePath,
		FileType: info.fileType,
		Suite:    raw.Suite,
		Defaults: raw.Defaults,
	}
	if doc.Suite == "" {
		doc.Suite = info.suite
	}

	for i := range raw.Scenarios {
		node := &raw.Scenarios[i]
		var group domain.ScenarioGroup
		if err := node.Decode(&group); err != nil {
			return nil, domain.NewError("parse", filePath, info.lineOffset+node.Line,
				fmt.Sprintf("invalid scenario #%d", i+1), err)
		}
		group.Line = info.lineOffset + node.Line
		if group.Name == "" {
			group.Name = info.name
		}
		doc.Groups = append(doc.Groups, group)
	}
	return doc, nil
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// yamlLine extracts the first line number from a yaml.v3 error message.
func yamlLine(err error) int {
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func tagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}
