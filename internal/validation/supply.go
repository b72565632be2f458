package validation

import (
	"github.com/cove-house/waitlist-service/internal/api/dto"
	"github.com/cove-house/waitlist-service/internal/domain"
)

// Supply validates a raw supply submission and produces a canonical entry.
// Rent and room count are coerced from strings; malformed numeric input is
// treated as absent so a bad number never rejects the whole submission.
func Supply(in dto.SupplySubmission) (*domain.WaitlistEntry, error) {
	errs := fieldErrors{}

	email := requireEmail(errs, "email", in.Email)
	city := requireString(errs, "city", in.City)
	concerns := stringList(errs, "concerns", in.Concerns, true)
	contactPref := contactPreferences(errs, in.ContactPref)

	name := optional(in.Name)
	if name != nil && len(*name) > maxNameLength {
		errs.add("name", msgTooLong)
		name = nil
	}

	if err := errs.toError(); err != nil {
		return nil, err
	}

	return &domain.WaitlistEntry{
		Kind:           domain.KindSupply,
		Email:          email,
		Phone:          optional(in.Phone),
		ApprovalStatus: domain.ApprovalStatusPending,
		Supply: &domain.SupplyDetails{
			Name:            name,
			College:         optional(in.College),
			GradYear:        optional(in.GradYear),
			Linkedin:        optional(in.Linkedin),
			Instagram:       optional(in.Instagram),
			Twitter:         optional(in.Twitter),
			Address:         optional(in.Address),
			City:            city,
			Rent:            positiveFloat(in.Rent),
			Rooms:           positiveInt(in.Rooms),
			ListingLink:     optional(in.ListingLink),
			ListingPhotos:   optional(in.ListingPhotos),
			Concerns:        concerns,
			OtherConcern:    optional(in.OtherConcern),
			ContactPref:     contactPref,
			WillingToVerify: in.WillingToVerify,
		},
	}, nil
}
