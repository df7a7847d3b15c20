package converter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/storeflow/internal/domain"
)

// Resolver knows the predefined scenario kinds and the valid operations.
type Resolver interface {
	Steps(kind string) ([]domain.Step, bool)
	Known(op string) bool
	Kinds() []string
}

// Converter expands parsed documents into runnable scenarios.
type Converter interface {
	Convert(doc *domain.ScenarioDocument) ([]domain.Scenario, error)
}

// DefaultConverter implements Converter.
type DefaultConverter struct {
	resolver Resolver
}

// NewConverter creates a new DefaultConverter.
func NewConverter(r Resolver) *DefaultConverter {
	return &DefaultConverter{resolver: r}
}

// Convert expands every scenario group of doc into one Scenario per row.
// Row values override the document defaults; a group without rows runs once
// with the defaults. IDs have the form suite/name#row.
func (c *DefaultConverter) Convert(doc *domain.ScenarioDocument) ([]domain.Scenario, error) {
	suite := inferSuite(doc)
	seen := make(map[string]int)

	var scenarios []domain.Scenario
	for gi, group := range doc.Groups {
		steps, err := c.resolveSteps(doc.FilePath, group)
		if err != nil {
			return nil, err
		}

		name := group.Name
		if name == "" {
			name = group.Kind
		}
		if name == "" {
			name = fmt.Sprintf("scenario-%d", gi+1)
		}
		base := fmt.Sprintf("%s/%s", suite, slug(name))
		if line, dup := seen[base]; dup {
			return nil, domain.NewErrorWithSuggestion("convert", doc.FilePath, group.Line,
				fmt.Sprintf("duplicate scenario name %q (first defined on line %d)", name, line),
				"give every scenario of a document a distinct name", nil)
		}
		seen[base] = group.Line

		rows := group.Rows
		if len(rows) == 0 {
			rows = []yaml.Node{{Kind: yaml.MappingNode, Line: group.Line}}
		}
		for ri := range rows {
			params, err := rowParams(&rows[ri], doc.Defaults)
			if err != nil {
				return nil, domain.NewError("convert", doc.FilePath, rows[ri].Line,
					fmt.Sprintf("invalid row %d of %q", ri+1, name), err)
			}
			scenarios = append(scenarios, domain.Scenario{
				ID:     fmt.Sprintf("%s#%d", base, ri+1),
				Name:   name,
				Kind:   group.Kind,
				Params: params,
				Steps:  append([]domain.Step(nil), steps...),
				Source: fmt.Sprintf("%s:%d", doc.FilePath, rows[ri].Line),
			})
		}
	}

	return scenarios, nil
}

// resolveSteps picks explicit steps over the kind's and validates them.
func (c *DefaultConverter) resolveSteps(file string, group domain.ScenarioGroup) ([]domain.Step, error) {
	steps := group.Steps
	if len(steps) == 0 {
		if group.Kind == "" {
			return nil, domain.NewErrorWithSuggestion("convert", file, group.Line,
				fmt.Sprintf("scenario %q has neither kind nor steps", group.Name),
				fmt.Sprintf("set kind to one of: %s", strings.Join(c.resolver.Kinds(), ", ")), nil)
		}
		var ok bool
		if steps, ok = c.resolver.Steps(group.Kind); !ok {
			return nil, domain.NewErrorWithSuggestion("convert", file, group.Line,
				fmt.Sprintf("unknown scenario kind %q", group.Kind),
				fmt.Sprintf("use one of: %s", strings.Join(c.resolver.Kinds(), ", ")), nil)
		}
	}
	if err := ValidateSteps(steps, c.resolver); err != nil {
		return nil, domain.NewError("convert", file, group.Line, err.Error(), nil)
	}
	return steps, nil
}

// rowParams decodes a row over the defaults. Keys present in the row win
// even when empty, so a row can blank out a default password.
func rowParams(row *yaml.Node, defaults domain.Params) (domain.Params, error) {
	if row.Kind != yaml.MappingNode {
		return domain.Params{}, fmt.Errorf("row must be a mapping")
	}
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(row.Content); i += 2 {
		key := row.Content[i].Value
		if !paramKeys[key] {
			return domain.Params{}, fmt.Errorf("unknown parameter %q", key)
		}
		explicit[key] = true
	}
	var p domain.Params
	if len(row.Content) > 0 {
		if err := row.Decode(&p); err != nil {
			return domain.Params{}, err
		}
	}
	return p.Merge(defaults, explicit), nil
}

var paramKeys = map[string]bool{
	"username":       true,
	"password":       true,
	"first_name":     true,
	"last_name":      true,
	"zip":            true,
	"expected_error": true,
}

// inferSuite names the suite, falling back to the file name.
func inferSuite(doc *domain.ScenarioDocument) string {
	if doc.Suite != "" {
		return slug(doc.Suite)
	}
	return slug(strings.TrimSuffix(filepath.Base(doc.FilePath), filepath.Ext(doc.FilePath)))
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug lowercases s and collapses everything but letters and digits to '-'.
func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
