package entity

import "time"

// LeadCreatedEvent asks the enrichment process to fill translation, tag and assignment.
type LeadCreatedEvent struct {
	LeadID      string    `json:"lead_id"`
	Language    Language  `json:"language"`
	Origin      string    `json:"origin"`
	PublishedAt time.Time `json:"published_at"`
}

const (
	OriginSubmission = "SUBMISSION"
	OriginSweeper    = "SWEEPER"
)
