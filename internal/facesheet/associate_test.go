package facesheet

import "testing"

func TestAssociateOrdersByX(t *testing.T) {
	// Input deliberately out of reading order.
	tokens := []Token{
		tok("Name:", 10, 100),
		tok("Robert", 180, 102),
		tok("John", 80, 100),
		tok("Smith,", 280, 99),
	}
	got := Associate(tokens, 0, 400, DefaultMinConf)
	if got != "John Robert Smith," {
		t.Fatalf("got %q", got)
	}
}

func TestAssociatePermutationInvariant(t *testing.T) {
	base := []Token{
		tok("Name:", 10, 100),
		tok("John", 80, 100),
		tok("Robert", 180, 102),
	}
	perm := []Token{base[2], base[0], base[1]}
	want := Associate(base, 0, 400, DefaultMinConf)
	got := Associate(perm, 1, 400, DefaultMinConf)
	if got != want {
		t.Fatalf("permuted input changed result: %q vs %q", got, want)
	}
}

func TestAssociateExcludesColonTokens(t *testing.T) {
	tokens := []Token{
		tok("Visit", 10, 10),
		tok("ID:", 55, 10),
		tok("12345", 80, 12),
	}
	got := Associate(tokens, 0, 100, DefaultMinConf)
	if got != "12345" {
		t.Fatalf("colon-bearing token must be excluded, got %q", got)
	}
}

func TestAssociateVerticalBand(t *testing.T) {
	tokens := []Token{
		tok("DOB:", 10, 100),
		tok("01/02/1980", 80, 109),  // |dy| = 9, same line
		tok("03/04/1990", 80, 110),  // |dy| = 10, next row
		tok("05/06/2000", 120, 91),  // |dy| = 9 above, still same line
		tok("07/08/2010", 120, 200), // clearly another row
	}
	got := Associate(tokens, 0, 400, DefaultMinConf)
	if got != "01/02/1980 05/06/2000" {
		t.Fatalf("got %q", got)
	}
}

func TestAssociateHorizontalBand(t *testing.T) {
	tokens := []Token{
		tok("MR#", 100, 10),
		tok("left", 40, 10),     // left of label
		tok("atlabel", 100, 10), // dx = 0, not strictly right
		tok("774421", 150, 10),  // inside band
		tok("faraway", 220, 10), // dx = 120 >= maxDX
	}
	got := Associate(tokens, 0, 120, DefaultMinConf)
	if got != "774421" {
		t.Fatalf("got %q", got)
	}
}

func TestAssociateConfidenceFloor(t *testing.T) {
	tokens := []Token{
		tok("Gender:", 10, 10),
		{Text: "M", Box: Box{X: 90, Y: 10}, Conf: 9.9},
		{Text: "F", Box: Box{X: 130, Y: 10}, Conf: 10.0},
	}
	got := Associate(tokens, 0, 300, DefaultMinConf)
	if got != "F" {
		t.Fatalf("tokens below the floor must be dropped, got %q", got)
	}
}

// A value token whose text repeats the label's text must survive: the label
// is excluded by index, not by text equality.
func TestAssociateSelfExclusionByIdentity(t *testing.T) {
	tokens := []Token{
		tok("Smith", 10, 10),
		tok("Smith", 80, 10),
	}
	got := Associate(tokens, 0, 200, DefaultMinConf)
	if got != "Smith" {
		t.Fatalf("duplicate-text value token was wrongly dropped, got %q", got)
	}
}

func TestAssociateNoSurvivors(t *testing.T) {
	tokens := []Token{tok("SSN:", 10, 10)}
	if got := Associate(tokens, 0, 100, DefaultMinConf); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
}

func TestAssociateDoesNotMutateInput(t *testing.T) {
	tokens := []Token{
		tok("Name:", 10, 100),
		tok("Robert", 180, 102),
		tok("John", 80, 100),
	}
	snapshot := make([]Token, len(tokens))
	copy(snapshot, tokens)
	_ = Associate(tokens, 0, 400, DefaultMinConf)
	for i := range tokens {
		if tokens[i] != snapshot[i] {
			t.Fatalf("input token %d mutated: %+v", i, tokens[i])
		}
	}
}
