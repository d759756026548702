package rendering

import "strings"

// latexEscaper maps every character with a meaning in LaTeX body text to its
// literal form. A no-break space becomes a tie.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`_`, `\_`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
	`|`, `\textbar{}`,
	"\u00a0", `~`,
)

// EscapeLaTeX makes sentence text safe for a LaTeX template
func EscapeLaTeX(text string) string {
	return latexEscaper.Replace(text)
}
