// Package service implements the user directory and participant registry.
//
// All input validation happens here, before any storage mutation. Failures the
// caller may see are *Error values; anything else is a storage failure that the
// HTTP layer reports as a generic error.
package service

import (
	"strings"
	"time"
)

// dateAddedLayout renders creation dates as "Jan 2, 2006"
const dateAddedLayout = "Jan 2, 2006"

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// formatDateAdded renders a creation timestamp for display
func formatDateAdded(t time.Time) string {
	return t.Format(dateAddedLayout)
}
