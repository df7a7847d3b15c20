package report

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/fjglira/storeflow/internal/domain"
)

// DefaultTemplate is used when no template is named.
const DefaultTemplate = "summary"

//go:embed templates/*.tmpl
var builtin embed.FS

// Engine renders reports with text templates.
type Engine struct {
	templates   map[string]*template.Template
	defaultName string
	templateDir string
}

// NewEngine loads the built-in templates and then every .tmpl file of
// templateDir, which replaces a built-in of the same name. templateDir may be
// empty.
func NewEngine(templateDir, defaultTemplate string) (*Engine, error) {
	if defaultTemplate == "" {
		defaultTemplate = DefaultTemplate
	}
	engine := &Engine{
		templates:   make(map[string]*template.Template),
		defaultName: defaultTemplate,
		templateDir: templateDir,
	}

	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		return nil, domain.NewError("report", "", 0, "failed to open built-in templates", err)
	}
	if err := engine.loadTemplates(sub, "built-in"); err != nil {
		return nil, err
	}
	if templateDir != "" {
		if err := engine.loadTemplates(os.DirFS(templateDir), templateDir); err != nil {
			return nil, err
		}
	}

	if _, ok := engine.templates[defaultTemplate]; !ok {
		return nil, domain.NewErrorWithSuggestion("report", templateDir, 0,
			fmt.Sprintf("template %q not found", defaultTemplate),
			fmt.Sprintf("available: %s", strings.Join(engine.ListTemplates(), ", ")), nil)
	}

	return engine, nil
}

// loadTemplates reads all .tmpl files from fsys.
func (e *Engine) loadTemplates(fsys fs.FS, origin string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return domain.NewError("report", origin, 0, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join(origin, entry.Name())
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return domain.NewError("report", path, 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("report", path, 0, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}

	return nil
}

// Render implements Renderer with the default template.
func (e *Engine) Render(w io.Writer, rep *domain.Report) error {
	return e.RenderWith(w, e.defaultName, rep)
}

// RenderWith renders rep with the named template.
func (e *Engine) RenderWith(w io.Writer, name string, rep *domain.Report) error {
	tmpl, ok := e.templates[name]
	if !ok {
		return domain.NewError("report", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}
	if err := tmpl.Execute(w, rep); err != nil {
		return domain.NewError("report", name, 0, "failed to execute template", err)
	}
	return nil
}

// ListTemplates returns the sorted names of all loaded templates.
func (e *Engine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
