// Package validation holds the request-level field checks shared by the
// controllers and services.
package validation

import (
	"sort"
	"strings"
)

// Email does a structural check: one "@", a non-empty local part, and a dot
// in the domain. Deliverability is proven by the verification code, not here.
func Email(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 3 || len(s) > 254 {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if strings.ContainsAny(local, " \t") {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}

// NormalizeEmail applies the service-wide email case policy: trim and
// lowercase. Every store lookup and insert goes through this.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Missing returns the names of empty required fields, sorted for stable
// error messages.
func Missing(fields map[string]string) []string {
	var out []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
