package parser

import (
	"github.com/fjglira/storeflow/internal/domain"
)

// YAMLParser parses standalone scenario files.
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *YAMLParser) SupportedExtensions() []string {
	return []string{".yaml", ".yml"}
}

// Parse parses a file holding exactly one scenario document.
func (p *YAMLParser) Parse(filePath string, content []byte) ([]*domain.ScenarioDocument, error) {
	doc, err := decodeDocument(filePath, content, blockInfo{fileType: "yaml"})
	if err != nil {
		return nil, err
	}
	return []*domain.ScenarioDocument{doc}, nil
}
