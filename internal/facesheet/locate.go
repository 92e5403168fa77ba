package facesheet

import "strings"

// Locate returns the index of the first token (in stream order) whose text
// case-insensitively starts with label. OCR often glues punctuation onto
// labels, so the match is a prefix test: "Visit" matches "Visit:" and
// "Visitor:" alike.
//
// A false result means the field is not present on this page. That is an
// expected outcome, not an error; callers emit an empty value for it.
func Locate(label string, tokens []Token) (int, bool) {
	l := strings.ToLower(label)
	for i, t := range tokens {
		if strings.HasPrefix(strings.ToLower(t.Text), l) {
			return i, true
		}
	}
	return 0, false
}
