package rendering

import (
	"bytes"
	"html/template"
	"io"
)

// HTMLDocument renders its body as a standalone HTML page
type HTMLDocument struct {
	Body
	title string
	tmpl  *template.Template
}

// NewHTMLDocument creates an HTML document using the built-in template
func NewHTMLDocument(title string) (*HTMLDocument, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/bitext.html.tmpl")
	if err != nil {
		return nil, &TemplateError{Template: BuiltinTemplate, Stage: StageParse, Cause: err}
	}
	return &HTMLDocument{title: title, tmpl: tmpl}, nil
}

// WriteTo executes the template over the collected body
func (d *HTMLDocument) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, templateData{Title: d.title, Elements: d.Elements()}); err != nil {
		return 0, &TemplateError{Template: BuiltinTemplate, Stage: StageExecute, Cause: err}
	}
	return buf.WriteTo(w)
}
