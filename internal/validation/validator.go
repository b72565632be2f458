// Package validation normalizes raw waitlist submissions into canonical
// domain entries. All string fields are trimmed; optional fields that are
// empty after trimming become absent, never empty strings. Failures carry a
// field-keyed list of messages and nothing is partially applied.
package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"

	apperrors "github.com/cove-house/waitlist-service/pkg/util"
)

const (
	msgRequired = "is required"
	msgMinOne   = "must contain at least one entry"
	msgEmail    = "must be a valid email address"
	msgUUID     = "must be a valid UUID"
	msgTooLong  = "is too long"

	maxNameLength = 120
)

type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) toError() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewValidationError(f)
}

// optional trims a string and returns nil when nothing remains.
func optional(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// requireString trims a required string, recording an error when empty.
func requireString(errs fieldErrors, field, val string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		errs.add(field, msgRequired)
	}
	return trimmed
}

// requireEmail validates address syntax on top of presence.
func requireEmail(errs fieldErrors, field, val string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		errs.add(field, msgRequired)
		return trimmed
	}
	if !govalidator.IsEmail(trimmed) {
		errs.add(field, msgEmail)
	}
	return trimmed
}

// stringList trims elements and drops empties. Required lists record an
// error when nothing survives normalization.
func stringList(errs fieldErrors, field string, values []string, required bool) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if required && len(out) == 0 {
		errs.add(field, msgMinOne)
	}
	return out
}

// positiveFloat coerces a numeric-looking string. Malformed, non-finite or
// non-positive input degrades to absent rather than failing the submission.
func positiveFloat(val string) *float64 {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed <= 0 {
		return nil
	}
	return &parsed
}

// positiveInt coerces a numeric-looking string to a positive integer with
// the same graceful degradation as positiveFloat.
func positiveInt(val string) *int {
	parsed := positiveFloat(val)
	if parsed == nil {
		return nil
	}
	n := int(*parsed)
	if n <= 0 {
		return nil
	}
	return &n
}

func enumMessage(allowed []string) string {
	return "must be one of: " + strings.Join(allowed, ", ")
}
