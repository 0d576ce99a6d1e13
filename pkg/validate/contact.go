package validate

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// ContactInput is the untrusted contact form payload.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// FieldErrors maps field name to the violated rule. It collects every
// violation rather than stopping at the first one.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Contact validates a contact form submission. Order per field: presence,
// length range, then format/content rules. Returns nil when clean.
func Contact(in ContactInput) FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs["name"] = "name is required"
	case utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 100:
		errs["name"] = "name must be between 2 and 100 characters"
	}

	subject := strings.TrimSpace(in.Subject)
	switch {
	case subject == "":
		errs["subject"] = "subject is required"
	case utf8.RuneCountInString(subject) < 3 || utf8.RuneCountInString(subject) > 200:
		errs["subject"] = "subject must be between 3 and 200 characters"
	}

	message := strings.TrimSpace(in.Message)
	switch {
	case message == "":
		errs["message"] = "message is required"
	case utf8.RuneCountInString(message) < 10 || utf8.RuneCountInString(message) > 2000:
		errs["message"] = "message must be between 10 and 2000 characters"
	}

	if err := Email(in.Email); err != nil {
		errs["email"] = err.Error()
	}

	if _, ok := errs["message"]; !ok {
		if reason := CheckSpam(message); reason != SpamNone {
			errs["message"] = string(reason)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
