package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/operations"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// OperationsHandler maneja los posteos de stock (protegido).
type OperationsHandler struct {
	uc *operations.PostingUseCase
}

// NewOperationsHandler construye el handler.
func NewOperationsHandler(uc *operations.PostingUseCase) *OperationsHandler {
	return &OperationsHandler{uc: uc}
}

func actorFrom(c *fiber.Ctx) operations.Actor {
	return operations.Actor{UserID: GetUserID(c), Role: GetRole(c)}
}

func toItemQuantities(in []dto.OperationItemRequest) []operations.ItemQuantity {
	items := make([]operations.ItemQuantity, 0, len(in))
	for _, it := range in {
		items = append(items, operations.ItemQuantity{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	return items
}

func toMeta(in dto.OperationMetaRequest) operations.OperationMeta {
	return operations.OperationMeta{
		OperationDate:      in.OperationDate,
		PaperRefNumber:     in.PaperRefNumber,
		SupplyBonNumber:    in.SupplyBonNumber,
		DelivererName:      in.DelivererName,
		DelivererJobNumber: in.DelivererJobNumber,
		Statement:          in.Statement,
		Description:        in.Description,
		Reason:             in.Reason,
	}
}

// PostSupply godoc
// @Summary      Postear un suministro (entrada de stock)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostSupplyRequest  true  "Suministro"
// @Success      201   {object}  dto.PostedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/supplies [post]
func (h *OperationsHandler) PostSupply(c *fiber.Ctx) error {
	var in dto.PostSupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.PostSupply(c.UserContext(), operations.SupplyInput{
		WarehouseID: in.WarehouseID,
		SupplierID:  in.SupplierID,
		StationID:   in.StationID,
		Items:       toItemQuantities(in.Items),
		Meta:        toMeta(in.Meta),
		Actor:       actorFrom(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PostedResponse{ID: id})
}

// PostExport godoc
// @Summary      Postear un despacho (salida de stock)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostExportRequest  true  "Despacho"
// @Success      201   {object}  dto.PostedResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/exports [post]
func (h *OperationsHandler) PostExport(c *fiber.Ctx) error {
	var in dto.PostExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.PostExport(c.UserContext(), operations.ExportInput{
		WarehouseID:   in.WarehouseID,
		BeneficiaryID: in.BeneficiaryID,
		Items:         toItemQuantities(in.Items),
		Meta:          toMeta(in.Meta),
		Actor:         actorFrom(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PostedResponse{ID: id})
}

// PostDamage godoc
// @Summary      Postear una baja por daño
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostDamageRequest  true  "Baja por daño (meta.reason obligatorio)"
// @Success      201   {object}  dto.PostedResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/damages [post]
func (h *OperationsHandler) PostDamage(c *fiber.Ctx) error {
	var in dto.PostDamageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.PostDamage(c.UserContext(), operations.DamageInput{
		WarehouseID: in.WarehouseID,
		Items:       toItemQuantities(in.Items),
		Meta:        toMeta(in.Meta),
		Actor:       actorFrom(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PostedResponse{ID: id})
}

// PostTransfer godoc
// @Summary      Postear un traslado entre bodegas
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostTransferRequest  true  "Traslado"
// @Success      201   {object}  dto.PostedResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/operations/transfers [post]
func (h *OperationsHandler) PostTransfer(c *fiber.Ctx) error {
	var in dto.PostTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.PostTransfer(c.UserContext(), operations.TransferInput{
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Items:           toItemQuantities(in.Items),
		Meta:            toMeta(in.Meta),
		Actor:           actorFrom(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PostedResponse{ID: id})
}

// PostReturnSupply godoc
// @Summary      Postear una devolución al proveedor (contra un suministro)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostReturnRequest  true  "Devolución"
// @Success      201   {object}  dto.PostedResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/return-supplies [post]
func (h *OperationsHandler) PostReturnSupply(c *fiber.Ctx) error {
	return h.postReturn(c, entity.ReturnDirectionToSupplier)
}

// PostReturnDispatch godoc
// @Summary      Postear una devolución de beneficiario (contra un despacho)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostReturnRequest  true  "Devolución"
// @Success      201   {object}  dto.PostedResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/return-dispatches [post]
func (h *OperationsHandler) PostReturnDispatch(c *fiber.Ctx) error {
	return h.postReturn(c, entity.ReturnDirectionFromBeneficiary)
}

func (h *OperationsHandler) postReturn(c *fiber.Ctx, direction string) error {
	var in dto.PostReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.PostReturn(c.UserContext(), operations.ReturnInput{
		OriginalOperationID: in.OriginalOperationID,
		Direction:           direction,
		Items:               toItemQuantities(in.Items),
		Meta:                toMeta(in.Meta),
		Actor:               actorFrom(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PostedResponse{ID: id})
}

// PostModification godoc
// @Summary      Corregir la cantidad de una línea posteada
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostModificationRequest  true  "Modificación"
// @Success      201   {object}  dto.PostedResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/modifications [post]
func (h *OperationsHandler) PostModification(c *fiber.Ctx) error {
	var in dto.PostModificationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.PostModification(c.UserContext(), operations.ModificationInput{
		LineID:      in.LineID,
		NewQuantity: in.NewQuantity,
		Reason:      in.Reason,
		Actor:       actorFrom(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PostedResponse{ID: id})
}
