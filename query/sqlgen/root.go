package sqlgen

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/satishbabariya/querykit/query"
)

// ErrInvalidRoot is returned when no usable alias follows the FROM keyword.
var ErrInvalidRoot = errors.New("querykit: query has no valid root alias")

var (
	fromTarget = regexp.MustCompile(`(?i)\bfrom\b(.+?)(?:\b(?:left|right|inner|outer|cross|full|join|where|group|order|having|limit|offset|union)\b|$)`)
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$#]*$`)
)

// ParseRoot extracts the root table alias: the last token of the FROM target,
// up to the first join or the end of the FROM clause.
func ParseRoot(sql string) (string, error) {
	sql = strings.TrimSpace(query.Normalize(sql))
	if sql == "" {
		return "", ErrInvalidRoot
	}
	target := sql
	if m := fromTarget.FindStringSubmatch(sql); m != nil {
		target = m[1]
	}
	if i := strings.Index(target, ","); i >= 0 {
		target = target[:i]
	}
	fields := strings.Fields(target)
	if len(fields) == 0 {
		return "", ErrInvalidRoot
	}
	alias := fields[len(fields)-1]
	if err := ValidateAlias(alias); err != nil {
		return "", err
	}
	return alias, nil
}

// ValidateAlias checks that alias is a plain identifier.
func ValidateAlias(alias string) error {
	if !identifier.MatchString(alias) {
		return fmt.Errorf("%w: %q", ErrInvalidRoot, alias)
	}
	return nil
}

// Qualify prefixes a bare property with alias; dotted properties are kept.
func Qualify(alias, property string) string {
	if strings.Contains(property, ".") {
		return property
	}
	return alias + "." + property
}
