package rendering

import (
	"bytes"
	"embed"
	"io"
	"os"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// LaTeXDocument renders its body through a LaTeX template
type LaTeXDocument struct {
	Body
	title    string
	template string
	tmpl     *template.Template
}

// NewLaTeXDocument creates a LaTeX document using the built-in template
func NewLaTeXDocument(title string) (*LaTeXDocument, error) {
	content, err := templateFS.ReadFile("templates/bitext.tex.tmpl")
	if err != nil {
		return nil, &TemplateError{Template: BuiltinTemplate, Stage: StageRead, Cause: err}
	}
	tmpl, err := parseLaTeXTemplate(BuiltinTemplate, string(content))
	if err != nil {
		return nil, err
	}
	return &LaTeXDocument{title: title, template: BuiltinTemplate, tmpl: tmpl}, nil
}

// NewLaTeXDocumentFromTemplate creates a LaTeX document using a template file
func NewLaTeXDocumentFromTemplate(templatePath, title string) (*LaTeXDocument, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, &TemplateError{Template: templatePath, Stage: StageRead, Cause: err}
	}
	tmpl, err := parseLaTeXTemplate(templatePath, string(content))
	if err != nil {
		return nil, err
	}
	return &LaTeXDocument{title: title, template: templatePath, tmpl: tmpl}, nil
}

func parseLaTeXTemplate(name, content string) (*template.Template, error) {
	tmpl, err := template.New("bitext").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{Template: name, Stage: StageParse, Cause: err}
	}
	return tmpl, nil
}

// WriteTo executes the template over the collected body
func (d *LaTeXDocument) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, templateData{Title: d.title, Elements: d.Elements()}); err != nil {
		return 0, &TemplateError{Template: d.template, Stage: StageExecute, Cause: err}
	}
	return buf.WriteTo(w)
}
