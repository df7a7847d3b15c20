package report

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/fjglira/storeflow/internal/domain"
)

// CustomFuncMap returns the custom template functions available in templates.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"toLower":   strings.ToLower,
		"toUpper":   strings.ToUpper,
		"trimSpace": strings.TrimSpace,
		"contains":  strings.Contains,
		"join":      strings.Join,
		"indent": func(spaces int, s string) string {
			pad := strings.Repeat(" ", spaces)
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				if line != "" {
					lines[i] = pad + line
				}
			}
			return strings.Join(lines, "\n")
		},
		"status": func(o domain.Outcome) string {
			if o.Passed() {
				return "PASS"
			}
			return "FAIL"
		},
		"duration": func(d time.Duration) string {
			switch {
			case d < time.Millisecond:
				return d.String()
			case d < time.Second:
				return d.Round(time.Millisecond).String()
			default:
				return d.Round(10 * time.Millisecond).String()
			}
		},
		"misses": Misses,
		"failures": func(rep *domain.Report) []domain.Outcome {
			var out []domain.Outcome
			for _, o := range rep.Outcomes {
				if !o.Passed() {
					out = append(out, o)
				}
			}
			return out
		},
		"percent": func(n, total int) string {
			if total == 0 {
				return "0%"
			}
			return fmt.Sprintf("%.0f%%", float64(n)*100/float64(total))
		},
	}
}

// Misses returns the soft probes of o that did not hit.
func Misses(o domain.Outcome) []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, d := range o.Diagnostics {
		if !d.Hit {
			out = append(out, d)
		}
	}
	return out
}
