package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/haeseoky/member-service/internal/api/dto"
	"github.com/haeseoky/member-service/internal/domain"
	"github.com/haeseoky/member-service/internal/service"
	apperrors "github.com/haeseoky/member-service/pkg/util"
)

// MembersHandler exposes the member lifecycle endpoints.
type MembersHandler struct {
	commands *service.MemberCommandService
	queries  *service.MemberQueryService
}

// NewMembersHandler constructs handler.
func NewMembersHandler(commands *service.MemberCommandService, queries *service.MemberQueryService) *MembersHandler {
	return &MembersHandler{commands: commands, queries: queries}
}

// Create handles POST /members.
func (h *MembersHandler) Create(c *fiber.Ctx) error {
	var req dto.MemberCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	member, err := h.commands.CreateMember(c.UserContext(), req.Email, req.Name)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromMember(member)})
}

// Get handles GET /members/:id.
func (h *MembersHandler) Get(c *fiber.Ctx) error {
	memberID, err := parseMemberID(c)
	if err != nil {
		return err
	}

	member, err := h.queries.GetMemberByID(c.UserContext(), memberID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.FromMember(member)})
}

// List handles GET /members.
func (h *MembersHandler) List(c *fiber.Ctx) error {
	members, err := h.queries.GetAllMembers(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.FromMembers(members)})
}

// ListActive handles GET /members/active.
func (h *MembersHandler) ListActive(c *fiber.Ctx) error {
	members, err := h.queries.GetActiveMembers(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.FromMembers(members)})
}

// Update handles PUT /members/:id.
func (h *MembersHandler) Update(c *fiber.Ctx) error {
	memberID, err := parseMemberID(c)
	if err != nil {
		return err
	}

	var req dto.MemberUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	member, err := h.commands.UpdateMemberInformation(c.UserContext(), memberID, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.FromMember(member)})
}

// ChangeStatus handles PATCH /members/:id/status.
func (h *MembersHandler) ChangeStatus(c *fiber.Ctx) error {
	memberID, err := parseMemberID(c)
	if err != nil {
		return err
	}

	var req dto.MemberStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	member, err := h.commands.ChangeMemberStatus(c.UserContext(), memberID, status)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.FromMember(member)})
}

// Delete handles DELETE /members/:id (soft delete).
func (h *MembersHandler) Delete(c *fiber.Ctx) error {
	memberID, err := parseMemberID(c)
	if err != nil {
		return err
	}

	if err := h.commands.DeleteMember(c.UserContext(), memberID); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}

// Purge handles DELETE /members/:id/purge (hard delete, admin only).
func (h *MembersHandler) Purge(c *fiber.Ctx) error {
	memberID, err := parseMemberID(c)
	if err != nil {
		return err
	}

	if err := h.commands.PurgeMember(c.UserContext(), memberID); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}

func parseMemberID(c *fiber.Ctx) (int64, error) {
	memberID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("member id must be an integer", map[string]any{"id": c.Params("id")})
	}
	return memberID, nil
}
