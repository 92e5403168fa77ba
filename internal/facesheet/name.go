package facesheet

import "strings"

// ParsedName is a patient name decomposed into its components. Absent
// components are empty strings.
type ParsedName struct {
	First  string `json:"first"`
	Middle string `json:"middle"`
	Last   string `json:"last"`
}

// DecomposeName splits a free-text name under two notations, selected by
// the presence of a comma. It never fails; unparseable shapes degrade to
// partially or fully empty components.
//
// Comma notation ("Last, First Middle"): the text before the first comma
// is the last name, the remainder splits on whitespace into first and
// middle. A remainder with zero or three-plus words signals a malformed
// comma line; the text before the comma is then kept as the first name and
// the last name is cleared.
//
// Space notation: one, two or three whitespace-separated words map to
// first / first+middle / first+middle+last. Anything else leaves all
// components empty.
func DecomposeName(text string) ParsedName {
	if before, after, found := strings.Cut(text, ","); found {
		last := strings.TrimSpace(before)
		switch parts := strings.Fields(after); len(parts) {
		case 1:
			return ParsedName{First: parts[0], Last: last}
		case 2:
			return ParsedName{First: parts[0], Middle: parts[1], Last: last}
		default:
			return ParsedName{First: last}
		}
	}

	switch parts := strings.Fields(text); len(parts) {
	case 1:
		return ParsedName{First: parts[0]}
	case 2:
		return ParsedName{First: parts[0], Middle: parts[1]}
	case 3:
		return ParsedName{First: parts[0], Middle: parts[1], Last: parts[2]}
	default:
		return ParsedName{}
	}
}
