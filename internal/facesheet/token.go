// Package facesheet implements field extraction from OCR word tokens of
// scanned facesheet pages. A facesheet lays out demographic and visit
// fields in a tabular grid of "Label: value" pairs; extraction locates a
// label token and gathers the value tokens sitting on the same text line
// to its right.
package facesheet

// Box is a token bounding box in page pixel coordinates, top-left origin.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Token is one OCR-recognized word span. Tokens are built once at the OCR
// boundary from the engine's parallel output columns (left, top, width,
// height, text, conf) and are never mutated afterwards. Stream order is
// whatever the engine produced; nothing here assumes it is sorted.
type Token struct {
	Text string  `json:"text"`
	Box  Box     `json:"box"`
	Conf float64 `json:"conf"`
}
