package facesheet

import "testing"

func TestDecomposeName(t *testing.T) {
	cases := []struct {
		in   string
		want ParsedName
	}{
		{"Smith, John Robert", ParsedName{First: "John", Middle: "Robert", Last: "Smith"}},
		{"Smith, John", ParsedName{First: "John", Last: "Smith"}},
		{"John Robert Smith", ParsedName{First: "John", Middle: "Robert", Last: "Smith"}},
		{"John Robert", ParsedName{First: "John", Middle: "Robert"}},
		{"Madonna", ParsedName{First: "Madonna"}},
		{"", ParsedName{}},
		{"   ", ParsedName{}},
		// four space-notation words: no partial assignment
		{"John Jacob Jingleheimer Schmidt", ParsedName{}},
		// malformed comma notation: nothing after the comma
		{"Smith,", ParsedName{First: "Smith"}},
		// malformed comma notation: three words after the comma
		{"Smith, John Robert Lee", ParsedName{First: "Smith"}},
		// whitespace trimmed everywhere
		{"  Smith ,  John   Robert  ", ParsedName{First: "John", Middle: "Robert", Last: "Smith"}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := DecomposeName(tc.in); got != tc.want {
				t.Fatalf("DecomposeName(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecomposeNameSplitsOnFirstComma(t *testing.T) {
	// Only the first comma separates last name from the remainder.
	got := DecomposeName("Smith, John,Robert")
	if got.Last != "Smith" {
		t.Fatalf("expected last Smith, got %+v", got)
	}
}
