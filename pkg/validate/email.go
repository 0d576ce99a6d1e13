package validate

import (
	"errors"
	"strings"
)

// Domains that only ever show up in throwaway or test submissions.
var disposableDomains = map[string]struct{}{
	"example.com":    {},
	"test.com":       {},
	"mailinator.com": {},
	"tempmail.com":   {},
}

var (
	ErrEmailRequired   = errors.New("email is required")
	ErrEmailInvalid    = errors.New("invalid email address")
	ErrEmailDisposable = errors.New("disposable email addresses are not accepted")
)

// NormalizeEmail lowercases and trims an address for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email checks syntactic validity (local@domain, dotted domain) and rejects
// a fixed denylist of disposable/test domains. The same rule set is shared
// by the contact and subscription flows.
func Email(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return ErrEmailInvalid
	}
	domain := email[at+1:]
	if domain == "" || !strings.Contains(domain, ".") {
		return ErrEmailInvalid
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ErrEmailInvalid
	}
	if strings.ContainsAny(email, " \t\n") {
		return ErrEmailInvalid
	}
	if _, blocked := disposableDomains[domain]; blocked {
		return ErrEmailDisposable
	}
	return nil
}
