// Package report renders suite reports for people (text templates) and for
// tools (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fjglira/storeflow/internal/domain"
)

// Formats understood by NewRenderer.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, rep *domain.Report) error
}

// NewRenderer returns the renderer for format. Text reports use the named
// template, looked up in templateDir before the built-in set.
func NewRenderer(format, templateDir, templateName string) (Renderer, error) {
	switch format {
	case FormatText, "":
		return NewEngine(templateDir, templateName)
	case FormatJSON:
		return JSONRenderer{}, nil
	default:
		return nil, domain.NewErrorWithSuggestion("report", "", 0,
			fmt.Sprintf("unknown report format %q", format),
			"use text or json", nil)
	}
}

// JSONRenderer writes the report as indented JSON.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(w io.Writer, rep *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return domain.NewError("report", "", 0, "failed to encode report", err)
	}
	return nil
}

// Write renders rep to path, or to stdout when path is empty.
func Write(r Renderer, rep *domain.Report, path string, stdout io.Writer) error {
	if path == "" {
		return r.Render(stdout, rep)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domain.NewErrorWithSuggestion("report", dir, 0,
				"failed to create report directory",
				"check that the parent directory exists and has write permissions",
				err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return domain.NewErrorWithSuggestion("report", path, 0,
			"failed to create report file",
			"check disk space and write permissions for the report path",
			err)
	}
	if err := r.Render(f, rep); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return domain.NewError("report", path, 0, "failed to write report file", err)
	}
	return nil
}
