package debug

import (
	"regexp"
)

var (
	quotedLiteral = regexp.MustCompile(`'(?:[^']|'')*'`)
	dsnPassword   = regexp.MustCompile(`(://[^:/@\s]+:)[^@\s]+@`)
	keyPassword   = regexp.MustCompile(`(?i)(password=)[^\s&]+`)
)

// SanitizeSQL masks quoted literals so inlined IN-lists never reach the logs.
// Placeholders are left untouched.
func SanitizeSQL(sql string) string {
	return quotedLiteral.ReplaceAllString(sql, "'<redacted>'")
}

// SanitizeDSN hides the password part of a connection string.
func SanitizeDSN(dsn string) string {
	dsn = dsnPassword.ReplaceAllString(dsn, "${1}****@")
	return keyPassword.ReplaceAllString(dsn, "${1}****")
}
