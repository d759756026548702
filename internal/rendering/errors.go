// Package rendering writes a bitext as a paired table, a flowing bilingual
// document or interleaved plain text.
package rendering

import "fmt"

// Template stages reported by TemplateError
const (
	StageRead    = "read"
	StageParse   = "parse"
	StageExecute = "execute"
)

// BuiltinTemplate names the embedded templates in a TemplateError
const BuiltinTemplate = "built-in"

// TemplateError is a document template that failed at one stage. Template is
// BuiltinTemplate or the path of a user template.
type TemplateError struct {
	Template string
	Stage    string
	Cause    error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("cannot %s %s template: %v", e.Stage, e.Template, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError is a bitext that could not be written in the requested shape.
// Path is empty when rendering to a writer.
type RenderError struct {
	Format Format
	Path   string
	Reason string
	Cause  error
}

func (e *RenderError) Error() string {
	msg := "cannot render bitext"
	if e.Format != "" {
		msg += " as " + string(e.Format)
	}
	if e.Path != "" {
		msg += " to " + e.Path
	}
	msg += ": " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
