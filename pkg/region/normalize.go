// CLAUDE:SUMMARY Region key normalization (case-fold, underscores for separators, punctuation stripped).
package region

import (
	"strings"

	"golang.org/x/text/cases"
)

var keyReplacer = strings.NewReplacer(
	" ", "_",
	"-", "_",
	"'", "",
	"(", "",
	")", "",
	",", "",
	".", "",
)

// Normalize turns a free-text location into a comparison key.
// "Washington, D.C." -> "washington_dc", "Korea, South" -> "korea_south".
func Normalize(s string) string {
	// A Caser carries state, so each call gets its own.
	return keyReplacer.Replace(cases.Fold().String(s))
}
