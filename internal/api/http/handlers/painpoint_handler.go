package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cove-house/waitlist-service/internal/api/dto"
	"github.com/cove-house/waitlist-service/internal/service"
	apperrors "github.com/cove-house/waitlist-service/pkg/util"
)

// PainPointHandler accepts housing-story submissions.
type PainPointHandler struct {
	service *service.WaitlistService
}

// NewPainPointHandler constructs the handler.
func NewPainPointHandler(waitlistService *service.WaitlistService) *PainPointHandler {
	return &PainPointHandler{service: waitlistService}
}

// Submit POST /pain-points.
func (h *PainPointHandler) Submit(c *fiber.Ctx) error {
	var req dto.PainPointSubmission
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string][]string{
			"body": {"invalid JSON payload"},
		})
	}

	point, err := h.service.SubmitPainPoint(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "id": point.ID})
}
