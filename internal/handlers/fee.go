package handlers

import (
	"feeengine/internal/services/fee"
	"feeengine/internal/utils/response"
	"feeengine/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type FeeHandler struct {
	calculator FeeCalculator
	logger     *zap.Logger
}

func NewFeeHandler(calculator FeeCalculator, logger *zap.Logger) *FeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeHandler{calculator: calculator, logger: logger.Named("fee_handler")}
}

// Calculate returns the fee breakdown for a prospective transaction. A
// calculation failure still answers 200 with the default breakdown and its
// error field set.
func (h *FeeHandler) Calculate(c *fiber.Ctx) error {
	var req fee.CalculationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	v := validation.New()
	v.Required("merchantId", req.MerchantID)
	if !v.Valid() {
		return response.FromError(c, v.Err())
	}

	breakdown := h.calculator.Calculate(c.UserContext(), req)
	if breakdown.Error != "" {
		h.logger.Warn("calculation fell back to default fees",
			zap.Uint("merchant_id", req.MerchantID),
			zap.String("error", breakdown.Error))
	}
	return response.Success(c, breakdown)
}
