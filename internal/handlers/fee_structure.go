package handlers

import (
	"feeengine/internal/services/feestructure"
	"feeengine/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type FeeStructureHandler struct {
	manager StructureManager
}

func NewFeeStructureHandler(manager StructureManager) *FeeStructureHandler {
	return &FeeStructureHandler{manager: manager}
}

func (h *FeeStructureHandler) List(c *fiber.Ctx) error {
	structures, err := h.manager.ListStructures(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, structures)
}

func (h *FeeStructureHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	detail, err := h.manager.GetStructure(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, detail)
}

func (h *FeeStructureHandler) Create(c *fiber.Ctx) error {
	var input feestructure.CreateStructureInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	detail, err := h.manager.CreateStructure(c.UserContext(), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, detail)
}

// Update replaces the structure's fields and its whole rule set. Rules that
// fail validation are skipped and listed in skipped_rules.
func (h *FeeStructureHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}

	var input feestructure.UpdateStructureInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	result, err := h.manager.UpdateStructure(c.UserContext(), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, result)
}

func (h *FeeStructureHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	result, err := h.manager.DeleteStructure(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, result)
}

// Assign points a merchant at a fee structure.
func (h *FeeStructureHandler) Assign(c *fiber.Ctx) error {
	merchantID, ok := paramID(c, "merchantId")
	if !ok {
		return response.BadRequest(c, "invalid merchantId")
	}

	var input struct {
		FeeStructureID uint `json:"fee_structure_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if input.FeeStructureID == 0 {
		return response.BadRequest(c, "fee_structure_id is required")
	}

	merchant, err := h.manager.AssignStructure(c.UserContext(), merchantID, input.FeeStructureID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, merchant)
}

func (h *FeeStructureHandler) ListTiers(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	tiers, err := h.manager.ListTiers(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, tiers)
}

func (h *FeeStructureHandler) CreateTier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}

	var input feestructure.TierInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	tier, err := h.manager.CreateTier(c.UserContext(), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, tier)
}

func (h *FeeStructureHandler) UpdateTier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}

	var input feestructure.TierInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	tier, err := h.manager.UpdateTier(c.UserContext(), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, tier)
}

func (h *FeeStructureHandler) DeleteTier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid id")
	}
	if err := h.manager.DeleteTier(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
