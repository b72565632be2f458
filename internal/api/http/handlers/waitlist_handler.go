package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cove-house/waitlist-service/internal/api/dto"
	"github.com/cove-house/waitlist-service/internal/domain"
	"github.com/cove-house/waitlist-service/internal/service"
	apperrors "github.com/cove-house/waitlist-service/pkg/util"
)

// WaitlistHandler manages public intake and approval endpoints.
type WaitlistHandler struct {
	service *service.WaitlistService
}

// NewWaitlistHandler constructs the handler.
func NewWaitlistHandler(waitlistService *service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{service: waitlistService}
}

// SubmitDemand POST /waitlist/demand.
func (h *WaitlistHandler) SubmitDemand(c *fiber.Ctx) error {
	var req dto.DemandSubmission
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string][]string{
			"body": {"invalid JSON payload"},
		})
	}

	entry, err := h.service.SubmitDemand(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "id": entry.ID})
}

// SubmitSupply POST /waitlist/supply. Accepts JSON, or multipart form data
// with an optional binary attachment.
func (h *WaitlistHandler) SubmitSupply(c *fiber.Ctx) error {
	var req dto.SupplySubmission
	var attachment *service.Attachment

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError(map[string][]string{
				"body": {"invalid multipart payload"},
			})
		}
		req = supplyFromForm(form)

		if files := form.File["attachment"]; len(files) > 0 {
			file := files[0]
			opened, err := file.Open()
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			defer opened.Close()
			attachment = &service.Attachment{
				Filename:    file.Filename,
				ContentType: file.Header.Get(fiber.HeaderContentType),
				Body:        opened,
				Size:        file.Size,
			}
		}
	} else if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string][]string{
			"body": {"invalid JSON payload"},
		})
	}

	entry, err := h.service.SubmitSupply(c.UserContext(), req, attachment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "id": entry.ID})
}

// ApproveDemand POST /waitlist/demand/approve.
func (h *WaitlistHandler) ApproveDemand(c *fiber.Ctx) error {
	return h.approve(c, domain.KindDemand)
}

// ApproveSupply POST /waitlist/supply/approve.
func (h *WaitlistHandler) ApproveSupply(c *fiber.Ctx) error {
	return h.approve(c, domain.KindSupply)
}

func (h *WaitlistHandler) approve(c *fiber.Ctx, kind domain.Kind) error {
	var req dto.ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string][]string{
			"body": {"invalid JSON payload"},
		})
	}
	waitlistID := strings.TrimSpace(req.WaitlistID)
	if waitlistID == "" {
		return apperrors.NewValidationError(map[string][]string{
			"waitlist_id": {"is required"},
		})
	}
	// Reject non-UUID ids here so they never reach the UUID column cast.
	if _, err := uuid.Parse(waitlistID); err != nil {
		return apperrors.NewValidationError(map[string][]string{
			"waitlist_id": {"must be a valid UUID"},
		})
	}

	result, err := h.service.Approve(c.UserContext(), kind, waitlistID, req.AdminKey)
	if err != nil {
		return err
	}

	resp := fiber.Map{"ok": true, "referralLink": result.ReferralLink}
	if result.EmailSent {
		resp["message"] = "Approval email sent with referral link"
	} else {
		resp["warning"] = "Approved, but the approval email could not be sent"
	}
	return c.JSON(resp)
}

func supplyFromForm(form *multipart.Form) dto.SupplySubmission {
	value := func(key string) string {
		if vals := form.Value[key]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	return dto.SupplySubmission{
		Name:            value("name"),
		College:         value("college"),
		GradYear:        value("grad_year"),
		Linkedin:        value("linkedin"),
		Instagram:       value("instagram"),
		Twitter:         value("twitter"),
		Email:           value("email"),
		Address:         value("address"),
		City:            value("city"),
		Rent:            value("rent"),
		Rooms:           value("rooms"),
		ListingLink:     value("listing_link"),
		ListingPhotos:   value("listing_photos"),
		Concerns:        form.Value["concerns"],
		OtherConcern:    value("other_concern"),
		ContactPref:     form.Value["contact_pref"],
		Phone:           value("phone"),
		WillingToVerify: value("willing_to_verify") == "true",
	}
}
