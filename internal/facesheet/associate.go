package facesheet

import (
	"sort"
	"strings"
)

// DefaultMinConf is the candidate confidence floor on tesseract's 0..100
// scale. It filters value candidates only; label lookup ignores confidence.
const DefaultMinConf = 10.0

// lineTolerance is the vertical jitter allowed for tokens considered to be
// on the same text line as the label. Tesseract's line detection wobbles a
// few pixels on scans; 10 absorbs that without crossing row boundaries.
const lineTolerance = 10

// Associate gathers the tokens that constitute the value of the label at
// labelIdx and joins them into a single string in left-to-right order.
//
// A token qualifies as a value candidate when all of the following hold:
//   - its confidence is at least minConf;
//   - it is not the label token itself (excluded by index, so a value that
//     happens to repeat the label's text still survives);
//   - its text contains no colon; colons mark other labels, which must
//     never bleed into this field's value;
//   - it sits on the label's text line: |y - label.y| < lineTolerance;
//   - it sits to the right of the label within the field's band:
//     0 < x - label.x < maxDX.
//
// Survivors are ordered by ascending x regardless of input order. When
// nothing survives, the result is the empty string.
func Associate(tokens []Token, labelIdx int, maxDX int, minConf float64) string {
	if labelIdx < 0 || labelIdx >= len(tokens) {
		return ""
	}
	label := tokens[labelIdx]

	var cands []Token
	for i, t := range tokens {
		if i == labelIdx {
			continue
		}
		if t.Conf < minConf {
			continue
		}
		if strings.Contains(t.Text, ":") {
			continue
		}
		dy := t.Box.Y - label.Box.Y
		if dy < 0 {
			dy = -dy
		}
		if dy >= lineTolerance {
			continue
		}
		dx := t.Box.X - label.Box.X
		if dx <= 0 || dx >= maxDX {
			continue
		}
		cands = append(cands, t)
	}

	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].Box.X < cands[b].Box.X
	})

	parts := make([]string, len(cands))
	for i, c := range cands {
		parts[i] = c.Text
	}
	return strings.Join(parts, " ")
}
