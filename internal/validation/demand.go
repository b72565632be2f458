package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/cove-house/waitlist-service/internal/api/dto"
	"github.com/cove-house/waitlist-service/internal/domain"
)

var demandStatuses = []string{
	string(domain.DemandStatusConfirmed),
	string(domain.DemandStatusRecruiting),
	string(domain.DemandStatusExploring),
}

var housingSearchTypes = []string{
	string(domain.HousingSearchSolo),
	string(domain.HousingSearchWithRoommates),
}

// Demand validates a raw demand submission and produces a canonical entry.
// The returned entry always starts pending regardless of client input.
func Demand(in dto.DemandSubmission) (*domain.WaitlistEntry, error) {
	errs := fieldErrors{}

	email := requireEmail(errs, "email", in.Email)

	name := optional(in.Name)
	if name != nil && len(*name) > maxNameLength {
		errs.add("name", msgTooLong)
		name = nil
	}

	status := strings.TrimSpace(in.Status)
	if !contains(demandStatuses, status) {
		errs.add("status", enumMessage(demandStatuses))
	}

	searchType := strings.TrimSpace(in.HousingSearchType)
	if !contains(housingSearchTypes, searchType) {
		errs.add("housing_search_type", enumMessage(housingSearchTypes))
	}

	targetCities := stringList(errs, "target_cities", in.TargetCities, true)
	moveInMonth := requireString(errs, "move_in_month", in.MoveInMonth)
	budget := requireString(errs, "budget", in.Budget)
	concerns := stringList(errs, "concerns", in.Concerns, true)
	roommatePrefs := stringList(errs, "roommate_preferences", in.RoommatePreferences, false)
	contactPref := contactPreferences(errs, in.ContactPref)

	var referrerID *string
	if trimmed := strings.TrimSpace(in.ReferrerID); trimmed != "" {
		if _, err := uuid.Parse(trimmed); err != nil {
			errs.add("referrer_id", msgUUID)
		} else {
			referrerID = &trimmed
		}
	}

	if err := errs.toError(); err != nil {
		return nil, err
	}

	return &domain.WaitlistEntry{
		Kind:           domain.KindDemand,
		Email:          email,
		Phone:          optional(in.Phone),
		ApprovalStatus: domain.ApprovalStatusPending,
		ReferrerID:     referrerID,
		Demand: &domain.DemandDetails{
			Name:                    name,
			College:                 optional(in.College),
			GradYear:                optional(in.GradYear),
			Linkedin:                optional(in.Linkedin),
			Instagram:               optional(in.Instagram),
			Twitter:                 optional(in.Twitter),
			Status:                  domain.DemandStatus(status),
			TargetCities:            targetCities,
			MoveInMonth:             moveInMonth,
			Company:                 optional(in.Company),
			Sector:                  optional(in.Sector),
			HousingSearchType:       domain.HousingSearchType(searchType),
			RoommatePreferences:     roommatePrefs,
			OtherRoommatePreference: optional(in.OtherRoommatePreference),
			Budget:                  budget,
			Concerns:                concerns,
			OtherConcern:            optional(in.OtherConcern),
			ContactPref:             contactPref,
		},
	}, nil
}

func contactPreferences(errs fieldErrors, values []string) []domain.ContactMethod {
	cleaned := stringList(errs, "contact_pref", values, true)
	out := make([]domain.ContactMethod, 0, len(cleaned))
	for _, v := range cleaned {
		switch domain.ContactMethod(v) {
		case domain.ContactMethodEmail, domain.ContactMethodText:
			out = append(out, domain.ContactMethod(v))
		default:
			errs.add("contact_pref", enumMessage([]string{
				string(domain.ContactMethodEmail),
				string(domain.ContactMethodText),
			}))
		}
	}
	return out
}

func contains(allowed []string, val string) bool {
	for _, candidate := range allowed {
		if candidate == val {
			return true
		}
	}
	return false
}
