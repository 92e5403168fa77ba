package entity

import (
	"time"

	"github.com/google/uuid"
)

// Page represents one ingested facesheet page for data transfer between layers.
type Page struct {
	ID         uuid.UUID `json:"id"`
	SourcePath string    `json:"source_path"`
	MeanConf   float64   `json:"mean_conf"`
	TokenCount int       `json:"token_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

// PageField is one extracted field of a page. Name components are set only
// for Name-typed fields.
type PageField struct {
	PageID   uuid.UUID `json:"page_id"`
	Position int       `json:"position"` // configuration order
	Label    string    `json:"label"`
	Value    string    `json:"value"`
	First    *string   `json:"first,omitempty"`
	Middle   *string   `json:"middle,omitempty"`
	Last     *string   `json:"last,omitempty"`
}
