package domain

import "time"

// PainPointContact is how a pain-point submitter agreed to be reached.
type PainPointContact string

const (
	PainPointContactEmail PainPointContact = "email"
	PainPointContactPhone PainPointContact = "phone"
	PainPointContactNone  PainPointContact = "none"
)

// PainPoint is a free-form housing-search story submitted through the
// marketing site. Stories are collected for product research and are not
// part of the waitlist lifecycle.
type PainPoint struct {
	ID            string
	Name          string
	Story         string
	CanReachOut   bool
	ContactMethod PainPointContact
	ContactInfo   *string
	CreatedAt     time.Time
}
