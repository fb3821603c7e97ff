// Package observability provides metrics, tracing and log redaction helpers.
package observability

import "strings"

// MaskEmail hides most of the local part of an address for logging:
// "student@college.edu" becomes "s*****t@college.edu".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	switch len(local) {
	case 1:
		return "*" + domain
	case 2:
		return local[:1] + "*" + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}
