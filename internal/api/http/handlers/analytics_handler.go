package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cove-house/waitlist-service/internal/api/dto"
	"github.com/cove-house/waitlist-service/internal/service"
	apperrors "github.com/cove-house/waitlist-service/pkg/util"
)

// AnalyticsHandler accepts client-side analytics events.
type AnalyticsHandler struct {
	service *service.WaitlistService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(waitlistService *service.WaitlistService) *AnalyticsHandler {
	return &AnalyticsHandler{service: waitlistService}
}

// Record POST /analytics. The append is best-effort; the endpoint only
// rejects structurally invalid requests.
func (h *AnalyticsHandler) Record(c *fiber.Ctx) error {
	var req dto.AnalyticsEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string][]string{
			"body": {"invalid JSON payload"},
		})
	}
	if strings.TrimSpace(req.EventType) == "" {
		return apperrors.NewValidationError(map[string][]string{
			"event_type": {"is required"},
		})
	}

	h.service.RecordEvent(c.UserContext(), req.EventType, req.Payload)
	return c.JSON(fiber.Map{"ok": true})
}
