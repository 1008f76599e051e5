// SPDX-License-Identifier: MPL-2.0

package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CamelCase converts a kebab or snake name to camelCase: "output-file" becomes
// "outputFile" and "DRY_RUN" becomes "dryRun".
func CamelCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	if len(words) == 0 {
		return ""
	}
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und, cases.NoLower)

	var sb strings.Builder
	for i, w := range words {
		if isUpper(w) {
			w = lower.String(w)
		}
		if i == 0 {
			r, size := utf8.DecodeRuneInString(w)
			sb.WriteRune(unicode.ToLower(r))
			sb.WriteString(w[size:])
			continue
		}
		sb.WriteString(title.String(w))
	}
	return sb.String()
}

func isUpper(w string) bool {
	return strings.ToUpper(w) == w && strings.ToLower(w) != w
}
