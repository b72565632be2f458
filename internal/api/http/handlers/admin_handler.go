package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cove-house/waitlist-service/internal/api/dto"
	"github.com/cove-house/waitlist-service/internal/auth"
	"github.com/cove-house/waitlist-service/internal/domain"
	"github.com/cove-house/waitlist-service/internal/service"
	apperrors "github.com/cove-house/waitlist-service/pkg/util"
)

// AdminHandler exposes the gated admin panel endpoints.
type AdminHandler struct {
	service  *service.WaitlistService
	verifier auth.AdminVerifier
	tokens   *auth.TokenManager
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(waitlistService *service.WaitlistService, verifier auth.AdminVerifier, tokens *auth.TokenManager) *AdminHandler {
	return &AdminHandler{service: waitlistService, verifier: verifier, tokens: tokens}
}

// Login POST /admin/login exchanges the shared admin key for a session token.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string][]string{
			"body": {"invalid JSON payload"},
		})
	}
	if !h.verifier.Verify(req.AdminKey) {
		return apperrors.NewUnauthorized()
	}

	token, expiresAt, err := h.tokens.GenerateToken()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"token": token, "expires_at": expiresAt})
}

// ListDemand GET /admin/waitlist.
func (h *AdminHandler) ListDemand(c *fiber.Ctx) error {
	return h.list(c, domain.KindDemand)
}

// ListSupply GET /admin/supply-waitlist.
func (h *AdminHandler) ListSupply(c *fiber.Ctx) error {
	return h.list(c, domain.KindSupply)
}

func (h *AdminHandler) list(c *fiber.Ctx, kind domain.Kind) error {
	entries, err := h.service.ListEntries(c.UserContext(), kind)
	if err != nil {
		return err
	}
	items := make([]dto.WaitlistEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, entryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"entries": items})
}

func entryResponse(entry *domain.WaitlistEntry) dto.WaitlistEntryResponse {
	resp := dto.WaitlistEntryResponse{
		ID:             entry.ID,
		Kind:           string(entry.Kind),
		Name:           entry.Name(),
		Email:          entry.Email,
		Phone:          entry.Phone,
		ApprovalStatus: string(entry.ApprovalStatus),
		ApprovedAt:     entry.ApprovedAt,
		CreatedAt:      entry.CreatedAt,
		ReferrerID:     entry.ReferrerID,
	}
	if d := entry.Demand; d != nil {
		resp.Status = string(d.Status)
		resp.TargetCities = d.TargetCities
		resp.MoveInMonth = d.MoveInMonth
		resp.Budget = d.Budget
		resp.Concerns = d.Concerns
		resp.ContactPref = contactPrefStrings(d.ContactPref)
	}
	if s := entry.Supply; s != nil {
		resp.City = s.City
		resp.Address = s.Address
		resp.Rent = s.Rent
		resp.Rooms = s.Rooms
		resp.ListingLink = s.ListingLink
		resp.AttachmentURL = s.AttachmentURL
		resp.WillingToVerify = &s.WillingToVerify
		resp.Concerns = s.Concerns
		resp.ContactPref = contactPrefStrings(s.ContactPref)
	}
	return resp
}

func contactPrefStrings(methods []domain.ContactMethod) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, string(m))
	}
	return out
}
