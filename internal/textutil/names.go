package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// Capitalize upper-cases the first letter of each space- or hyphen-delimited
// token and lower-cases the rest: "JANE DOE" becomes "Jane Doe", "jane-doe"
// becomes "Jane-Doe". Speaker names arrive from the CFP in whatever casing
// the speaker typed, so titles normalize them before display.
func Capitalize(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

// JoinNames renders a human-readable list: commas between entries and the
// conjunction before the last one. A single name is returned unchanged.
func JoinNames(names []string, conjunction string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	conjunction = strings.TrimSpace(conjunction)
	if conjunction == "" {
		conjunction = "et"
	}
	head := strings.Join(names[:len(names)-1], ", ")
	return head + " " + conjunction + " " + names[len(names)-1]
}
