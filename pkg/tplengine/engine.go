// Package tplengine renders agent prompt templates with Go's text/template
// plus the sprig function library, the same combination used for prompt
// and input rendering elsewhere in the stack.
package tplengine

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Render parses tmpl as a text/template (armed with sprig's TxtFuncMap) and
// executes it against data, returning the rendered string.
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Funcs(sprig.TxtFuncMap()).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt template: %w", err)
	}
	return buf.String(), nil
}
