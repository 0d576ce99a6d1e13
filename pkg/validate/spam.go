package validate

import (
	"regexp"
	"strings"
)

// Blunt promotional-keyword filter. False positives are an accepted
// tradeoff for a public unauthenticated form.
var promoPattern = regexp.MustCompile(`(?i)casino|viagra|lottery|winning|prize|buy now`)

const maxLineBreaks = 20

// SpamReason explains why a message body was rejected. Empty means clean.
type SpamReason string

const (
	SpamNone      SpamReason = ""
	SpamLink      SpamReason = "links are not allowed in messages"
	SpamKeyword   SpamReason = "message looks like promotional content"
	SpamTooBroken SpamReason = "message contains too many line breaks"
)

// CheckSpam applies the content heuristics to a contact message body.
func CheckSpam(message string) SpamReason {
	if strings.Contains(strings.ToLower(message), "http") {
		return SpamLink
	}
	if promoPattern.MatchString(message) {
		return SpamKeyword
	}
	if strings.Count(message, "\n") > maxLineBreaks {
		return SpamTooBroken
	}
	return SpamNone
}
