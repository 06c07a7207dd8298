package template

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/gh-nvat/attrdiff/src/pkg/models"
)

const (
	OutputList     = "list"
	OutputAttrs    = "attrs"
	OutputTemplate = "template"
)

// OutputModes lists the accepted --output values
var OutputModes = []string{OutputList, OutputAttrs, OutputTemplate}

// builtinTemplates render a DiffResult for the built-in output modes.
// Each ends with a line terminator; the attrs line itself is AttrFlags verbatim.
var builtinTemplates = map[string]string{
	OutputList:  `{{range .Attributes}}{{.}}{{"\n"}}{{end}}`,
	OutputAttrs: `{{attrFlags .Attributes}}{{"\n"}}`,
}

// Renderer handles template rendering
type Renderer struct {
	funcMap template.FuncMap
}

// NewRenderer creates a new template renderer
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: template.FuncMap{
			"attrFlags": AttrFlags,
			"join":      strings.Join,
		},
	}
}

// AttrFlags renders attributes as build flags: " -A a -A b"
func AttrFlags(attrs []string) string {
	var b strings.Builder
	for _, attr := range attrs {
		b.WriteString(" -A ")
		b.WriteString(attr)
	}
	return b.String()
}

// Render renders result in one of the built-in output modes
func (r *Renderer) Render(mode string, result *models.DiffResult) (string, error) {
	tmpl, ok := builtinTemplates[mode]
	if !ok {
		return "", fmt.Errorf("unknown output mode %q (expected one of: %s)", mode, strings.Join(OutputModes, ", "))
	}
	return r.RenderString(tmpl, result)
}

// RenderFile renders result with the Go template stored at path
func (r *Renderer) RenderFile(path string, result *models.DiffResult) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return r.RenderString(string(content), result)
}

// RenderString renders a template string with data
func (r *Renderer) RenderString(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("output").Funcs(r.funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
