package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// NormalizeEmail canonicalizes an email address for lookups: trimmed and
// Unicode case-folded, so "Admin@Campus.EDU" and "admin@campus.edu" resolve
// to the same account.
func NormalizeEmail(email string) string {
	return foldCaser.String(strings.TrimSpace(email))
}
