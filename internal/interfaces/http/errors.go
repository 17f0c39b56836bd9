package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// writeDomainError traduce un error de dominio a estado HTTP y cuerpo JSON.
// Los errores con detalle (stock insuficiente, devolución excedida) exponen
// las cantidades exactas para que el cliente pueda corregir sin adivinar.
func writeDomainError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":         "INSUFFICIENT_STOCK",
			"message":      insufficient.Error(),
			"warehouse_id": insufficient.WarehouseID,
			"item_id":      insufficient.ItemID,
			"requested":    insufficient.Requested,
			"available":    insufficient.Available,
		})
	}
	var exceeds *domain.ReturnExceedsReturnableError
	if errors.As(err, &exceeds) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":       "RETURN_EXCEEDS_RETURNABLE",
			"message":    exceeds.Error(),
			"item_id":    exceeds.ItemID,
			"requested":  exceeds.Requested,
			"returnable": exceeds.Returnable,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateLineItem):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_LINE_ITEM", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrReturnExceedsReturnable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RETURN_EXCEEDS_RETURNABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrItemNotInOriginalOperation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "ITEM_NOT_IN_ORIGINAL_OPERATION", Message: err.Error()})
	case errors.Is(err, domain.ErrItemNotInSourceWarehouse):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "ITEM_NOT_IN_SOURCE_WAREHOUSE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransfer):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_TRANSFER", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrContention):
		// Retryable: el cliente debe reintentar la misma petición.
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CONTENTION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
