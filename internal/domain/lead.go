package domain

import "time"

// LeadStatus enumerates the pipeline stages a lead moves through.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQuoted    LeadStatus = "QUOTED"
	LeadStatusWon       LeadStatus = "WON"
	LeadStatusLost      LeadStatus = "LOST"
)

// Terminal reports whether the status ends activity tracking for the lead.
func (s LeadStatus) Terminal() bool {
	return s == LeadStatusWon || s == LeadStatusLost
}

// Lead represents a sales opportunity stored in PostgreSQL. OwnerID is nil for
// unassigned leads, which are excluded from inactivity scanning.
type Lead struct {
	ID        string
	OwnerID   *string
	Status    LeadStatus
	CreatedAt time.Time
}
