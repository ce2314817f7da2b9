package roast

import (
	"errors"
	"regexp"
	"strings"
)

// ErrContentRejected indicates the submitted text failed moderation.
var ErrContentRejected = errors.New("content rejected by moderation")

var flaggedWords = []string{"suicide", "kill", "death", "harm", "violence"}

// Matches phone numbers and email addresses so personal info never lands in the feed.
var personalInfoPattern = regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b|\b\w+@\w+\.\w+\b`)

// Moderate checks user text against the flagged-word list and the personal
// info pattern. It returns ErrContentRejected when the text must not be stored.
func Moderate(content string) error {
	lowered := strings.ToLower(content)
	for _, word := range flaggedWords {
		if strings.Contains(lowered, word) {
			return ErrContentRejected
		}
	}

	if personalInfoPattern.MatchString(content) {
		return ErrContentRejected
	}

	return nil
}
