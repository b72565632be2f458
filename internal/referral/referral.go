// Package referral builds the shareable links sent with approval emails.
package referral

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cove-house/waitlist-service/internal/domain"
)

// Issuer derives referral URLs from an approved entry's identity. It is a
// pure mapping; a missing base URL fails at construction, never per call.
type Issuer struct {
	baseURL string
}

// NewIssuer validates the public base URL once at startup.
func NewIssuer(baseURL string) (*Issuer, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("referral base URL is required")
	}
	return &Issuer{baseURL: trimmed}, nil
}

// Link returns {base}/waitlist/{kind}?r={id}.
func (i *Issuer) Link(kind domain.Kind, id string) string {
	return fmt.Sprintf("%s/waitlist/%s?r=%s", i.baseURL, kind, id)
}
