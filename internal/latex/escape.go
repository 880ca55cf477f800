package latex

import "strings"

// escaper replaces every LaTeX special character in one left-to-right pass,
// so the backslashes it introduces are never escaped again.
var escaper = strings.NewReplacer(
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\^{}`,
	`\`, `\textbackslash{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
)

// Escape makes s safe to place in LaTeX body text.
func Escape(s string) string {
	return escaper.Replace(s)
}
