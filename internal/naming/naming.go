// Package naming converts Go identifiers into storage names.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// CamelToSnake converts a CamelCase string to snake_case.
// Consecutive uppercase letters (acronyms) are kept together:
// "ID" → "id", "UserID" → "user_id", "HTTPServer" → "http_server".
func CamelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			next := rune(0)
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && unicode.IsLower(next)) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// TableName returns the conventional table name of a type:
// "User" → "users", "OrderItem" → "order_items".
func TableName(typeName string) string {
	return inflection.Plural(CamelToSnake(typeName))
}
