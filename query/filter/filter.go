// Package filter turns request input into where clauses and sorts: JSON
// filter documents, tagged filter structs, sort query strings and a small
// textual condition language.
package filter

import (
	"fmt"
	"regexp"
	"time"
)

var propertyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidateProperty accepts "name" and "alias.name".
func ValidateProperty(name string) error {
	if !propertyPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidProperty, name)
	}
	return nil
}

// truncateDay drops the clock part of t in its own location.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
