package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/operations"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockHandler maneja las lecturas: saldos, operaciones, devoluciones y
// cantidades efectivas (protegido).
type StockHandler struct {
	uc *operations.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *operations.QueryUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetBalance godoc
// @Summary      Saldo actual de un ítem en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  path  string  true  "ID de la bodega"
// @Param        itemId       path  string  true  "ID del ítem"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/stock/{warehouseId}/{itemId} [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouseId")
	itemID := c.Params("itemId")
	qty, err := h.uc.GetBalance(warehouseID, itemID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.BalanceResponse{WarehouseID: warehouseID, ItemID: itemID, CurrentQuantity: qty})
}

// ListWarehouseStock godoc
// @Summary      Listar los saldos de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  path  string  true  "ID de la bodega"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/warehouses/{warehouseId}/stock [get]
func (h *StockHandler) ListWarehouseStock(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouseId")
	balances, err := h.uc.ListWarehouseStock(warehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.BalanceResponse{WarehouseID: b.WarehouseID, ItemID: b.ItemID, CurrentQuantity: b.CurrentQuantity})
	}
	return c.JSON(out)
}

// GetOperation godoc
// @Summary      Detalle de una operación con sus líneas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *StockHandler) GetOperation(c *fiber.Ctx) error {
	op, err := h.uc.GetOperation(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := dto.OperationResponse{
		ID:            op.ID,
		Kind:          op.Kind,
		WarehouseID:   op.WarehouseID,
		ToWarehouseID: op.ToWarehouseID,
		SupplierID:    op.SupplierID,
		BeneficiaryID: op.BeneficiaryID,
		StationID:     op.StationID,
		OperationDate: op.OperationDate,
		Statement:     op.Statement,
		Description:   op.Description,
		Reason:        op.Reason,
		CreatedBy:     op.CreatedBy,
		Lines:         make([]dto.OperationLineResponse, 0, len(op.Lines)),
	}
	for i := range op.Lines {
		line := &op.Lines[i]
		effective, err := h.uc.GetEffectiveQuantity(line.ID)
		if err != nil {
			return writeDomainError(c, err)
		}
		out.Lines = append(out.Lines, dto.OperationLineResponse{
			ID:                 line.ID,
			ItemID:             line.ItemID,
			Quantity:           line.Quantity,
			ReturnedQuantity:   line.ReturnedQuantity,
			ReturnableQuantity: line.ReturnableQuantity(),
			EffectiveQuantity:  effective,
		})
	}
	return c.JSON(out)
}

// GetReturn godoc
// @Summary      Detalle de una devolución con sus líneas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *StockHandler) GetReturn(c *fiber.Ctx) error {
	ret, err := h.uc.GetReturn(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(returnToMap(ret))
}

func returnToMap(ret *entity.ReturnOperation) fiber.Map {
	lines := make([]fiber.Map, 0, len(ret.Lines))
	for _, l := range ret.Lines {
		lines = append(lines, fiber.Map{
			"id":                l.ID,
			"item_id":           l.ItemID,
			"returned_quantity": l.ReturnedQuantity,
		})
	}
	return fiber.Map{
		"id":                    ret.ID,
		"original_operation_id": ret.OriginalOperationID,
		"direction":             ret.Direction,
		"operation_date":        ret.OperationDate,
		"created_by":            ret.CreatedBy,
		"lines":                 lines,
	}
}

// GetEffectiveQuantity godoc
// @Summary      Cantidad efectiva vigente de una línea
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.EffectiveQuantityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lines/{id}/effective-quantity [get]
func (h *StockHandler) GetEffectiveQuantity(c *fiber.Ctx) error {
	lineID := c.Params("id")
	qty, err := h.uc.GetEffectiveQuantity(lineID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.EffectiveQuantityResponse{LineID: lineID, EffectiveQuantity: qty})
}

// ListModifications godoc
// @Summary      Historial de modificaciones de una línea
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {array}  map[string]interface{}
// @Router       /api/lines/{id}/modifications [get]
func (h *StockHandler) ListModifications(c *fiber.Ctx) error {
	mods, err := h.uc.ListModifications(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]fiber.Map, 0, len(mods))
	for _, m := range mods {
		out = append(out, fiber.Map{
			"id":           m.ID,
			"line_id":      m.LineID,
			"old_quantity": m.OldQuantity,
			"new_quantity": m.NewQuantity,
			"reason":       m.Reason,
			"created_at":   m.CreatedAt,
			"created_by":   m.CreatedBy,
		})
	}
	return c.JSON(out)
}
