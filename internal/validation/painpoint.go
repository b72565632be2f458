package validation

import (
	"fmt"
	"strings"

	"github.com/cove-house/waitlist-service/internal/api/dto"
	"github.com/cove-house/waitlist-service/internal/domain"
)

const (
	minPainPointNameLength  = 2
	minPainPointStoryLength = 10
)

var painPointContacts = []string{
	string(domain.PainPointContactEmail),
	string(domain.PainPointContactPhone),
	string(domain.PainPointContactNone),
}

// PainPoint validates a raw pain-point story. An absent contact method
// defaults to "none".
func PainPoint(in dto.PainPointSubmission) (*domain.PainPoint, error) {
	errs := fieldErrors{}

	name := strings.TrimSpace(in.Name)
	if len(name) < minPainPointNameLength {
		errs.add("name", minLengthMessage(minPainPointNameLength))
	}

	story := strings.TrimSpace(in.Story)
	if len(story) < minPainPointStoryLength {
		errs.add("story", minLengthMessage(minPainPointStoryLength))
	}

	contactMethod := strings.TrimSpace(in.ContactMethod)
	if contactMethod == "" {
		contactMethod = string(domain.PainPointContactNone)
	}
	if !contains(painPointContacts, contactMethod) {
		errs.add("contact_method", enumMessage(painPointContacts))
	}

	if err := errs.toError(); err != nil {
		return nil, err
	}

	return &domain.PainPoint{
		Name:          name,
		Story:         story,
		CanReachOut:   in.CanReachOut,
		ContactMethod: domain.PainPointContact(contactMethod),
		ContactInfo:   optional(in.ContactInfo),
	}, nil
}

func minLengthMessage(n int) string {
	return fmt.Sprintf("must be at least %d characters", n)
}
