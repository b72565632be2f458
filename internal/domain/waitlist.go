package domain

import "time"

// Kind discriminates the two waitlist variants.
type Kind string

const (
	KindDemand Kind = "demand"
	KindSupply Kind = "supply"
)

// ApprovalStatus enumerates lifecycle states for a waitlist entry.
// The transition is monotonic: pending -> approved, never reversed.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
)

// DemandStatus captures where a demand-side submitter is in their search.
type DemandStatus string

const (
	DemandStatusConfirmed  DemandStatus = "confirmed"
	DemandStatusRecruiting DemandStatus = "recruiting"
	DemandStatusExploring  DemandStatus = "exploring"
)

// HousingSearchType describes whether the submitter searches alone or with roommates.
type HousingSearchType string

const (
	HousingSearchSolo          HousingSearchType = "solo"
	HousingSearchWithRoommates HousingSearchType = "with_roommates"
)

// ContactMethod is a preferred way of reaching a submitter.
type ContactMethod string

const (
	ContactMethodEmail ContactMethod = "email"
	ContactMethodText  ContactMethod = "text"
)

// WaitlistEntry is the aggregate for one waitlist submission. Demand and
// supply share the spine (id, contact, status, timestamps); exactly one of
// Demand or Supply is set depending on Kind.
type WaitlistEntry struct {
	ID             string
	Kind           Kind
	Email          string
	Phone          *string
	ApprovalStatus ApprovalStatus
	ApprovedAt     *time.Time
	CreatedAt      time.Time
	ReferrerID     *string

	Demand *DemandDetails
	Supply *SupplyDetails
}

// DemandDetails holds the demand-variant payload.
type DemandDetails struct {
	Name                    *string
	College                 *string
	GradYear                *string
	Linkedin                *string
	Instagram               *string
	Twitter                 *string
	Status                  DemandStatus
	TargetCities            []string
	MoveInMonth             string
	Company                 *string
	Sector                  *string
	HousingSearchType       HousingSearchType
	RoommatePreferences     []string
	OtherRoommatePreference *string
	Budget                  string
	Concerns                []string
	OtherConcern            *string
	ContactPref             []ContactMethod
}

// SupplyDetails holds the supply-variant payload.
type SupplyDetails struct {
	Name            *string
	College         *string
	GradYear        *string
	Linkedin        *string
	Instagram       *string
	Twitter         *string
	Address         *string
	City            string
	Rent            *float64
	Rooms           *int
	ListingLink     *string
	ListingPhotos   *string
	AttachmentURL   *string
	Concerns        []string
	OtherConcern    *string
	ContactPref     []ContactMethod
	WillingToVerify bool
}

// Name returns the submitter name for either variant, or nil when absent.
func (e *WaitlistEntry) Name() *string {
	switch {
	case e.Demand != nil:
		return e.Demand.Name
	case e.Supply != nil:
		return e.Supply.Name
	}
	return nil
}

// TargetCities returns the demand target cities; nil for supply entries.
func (e *WaitlistEntry) TargetCities() []string {
	if e.Demand != nil {
		return e.Demand.TargetCities
	}
	return nil
}
