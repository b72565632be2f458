package dto

import "time"

// DemandSubmission is the raw demand intake payload. Every field arrives
// untrusted; normalization and enum checks happen in internal/validation.
type DemandSubmission struct {
	Name                    string   `json:"name"`
	Email                   string   `json:"email"`
	Phone                   string   `json:"phone"`
	College                 string   `json:"college"`
	GradYear                string   `json:"grad_year"`
	Linkedin                string   `json:"linkedin"`
	Instagram               string   `json:"instagram"`
	Twitter                 string   `json:"twitter"`
	Status                  string   `json:"status"`
	TargetCities            []string `json:"target_cities"`
	MoveInMonth             string   `json:"move_in_month"`
	Company                 string   `json:"company"`
	Sector                  string   `json:"sector"`
	HousingSearchType       string   `json:"housing_search_type"`
	RoommatePreferences     []string `json:"roommate_preferences"`
	OtherRoommatePreference string   `json:"other_roommate_preference"`
	Budget                  string   `json:"budget"`
	Concerns                []string `json:"concerns"`
	OtherConcern            string   `json:"other_concern"`
	ContactPref             []string `json:"contact_pref"`
	ReferrerID              string   `json:"referrer_id"`
	// ApprovalStatus is accepted on the wire but always discarded: untrusted
	// input must never be able to pre-approve itself.
	ApprovalStatus string `json:"approval_status"`
}

// SupplySubmission is the raw supply intake payload. Rent and rooms arrive
// as strings from the form and are coerced during validation.
type SupplySubmission struct {
	Name            string   `json:"name"`
	College         string   `json:"college"`
	GradYear        string   `json:"grad_year"`
	Linkedin        string   `json:"linkedin"`
	Instagram       string   `json:"instagram"`
	Twitter         string   `json:"twitter"`
	Email           string   `json:"email"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	Rent            string   `json:"rent"`
	Rooms           string   `json:"rooms"`
	ListingLink     string   `json:"listing_link"`
	ListingPhotos   string   `json:"listing_photos"`
	Concerns        []string `json:"concerns"`
	OtherConcern    string   `json:"other_concern"`
	ContactPref     []string `json:"contact_pref"`
	Phone           string   `json:"phone"`
	WillingToVerify bool     `json:"willing_to_verify"`
	ApprovalStatus  string   `json:"approval_status"`
}

// ApproveRequest is the admin approval payload.
type ApproveRequest struct {
	WaitlistID string `json:"waitlist_id"`
	AdminKey   string `json:"admin_key"`
}

// AdminLoginRequest exchanges the shared admin key for a session token.
type AdminLoginRequest struct {
	AdminKey string `json:"admin_key"`
}

// PainPointSubmission is the raw housing-story payload.
type PainPointSubmission struct {
	Name          string `json:"name"`
	Story         string `json:"story"`
	CanReachOut   bool   `json:"can_reach_out"`
	ContactMethod string `json:"contact_method"`
	ContactInfo   string `json:"contact_info"`
}

// AnalyticsEventRequest is the client-side analytics payload.
type AnalyticsEventRequest struct {
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
}

// WaitlistEntryResponse is the admin-panel view of one entry. Demand-only
// and supply-only fields are omitted for the other kind.
type WaitlistEntryResponse struct {
	ID              string     `json:"id"`
	Kind            string     `json:"kind"`
	Name            *string    `json:"name,omitempty"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone,omitempty"`
	Status          string     `json:"status,omitempty"`
	TargetCities    []string   `json:"target_cities,omitempty"`
	MoveInMonth     string     `json:"move_in_month,omitempty"`
	Budget          string     `json:"budget,omitempty"`
	City            string     `json:"city,omitempty"`
	Address         *string    `json:"address,omitempty"`
	Rent            *float64   `json:"rent,omitempty"`
	Rooms           *int       `json:"rooms,omitempty"`
	ListingLink     *string    `json:"listing_link,omitempty"`
	AttachmentURL   *string    `json:"attachment_url,omitempty"`
	WillingToVerify *bool      `json:"willing_to_verify,omitempty"`
	Concerns        []string   `json:"concerns"`
	ContactPref     []string   `json:"contact_pref"`
	ApprovalStatus  string     `json:"approval_status"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	ReferrerID      *string    `json:"referrer_id,omitempty"`
}
