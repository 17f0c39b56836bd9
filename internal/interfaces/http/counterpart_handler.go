package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
)

// CounterpartHandler maneja proveedores, beneficiarios y estaciones
// (protegido). Los tres comparten DTOs; cada grupo de rutas fija su caso de
// uso.
type CounterpartHandler struct {
	supplierUC    *usecase.SupplierUseCase
	beneficiaryUC *usecase.BeneficiaryUseCase
	stationUC     *usecase.StationUseCase
}

// NewCounterpartHandler construye el handler.
func NewCounterpartHandler(
	supplierUC *usecase.SupplierUseCase,
	beneficiaryUC *usecase.BeneficiaryUseCase,
	stationUC *usecase.StationUseCase,
) *CounterpartHandler {
	return &CounterpartHandler{supplierUC: supplierUC, beneficiaryUC: beneficiaryUC, stationUC: stationUC}
}

func parseCounterpartBody(c *fiber.Ctx) (*dto.CreateCounterpartRequest, error) {
	var in dto.CreateCounterpartRequest
	if err := c.BodyParser(&in); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return &in, nil
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         counterparts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCounterpartRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.CounterpartResponse
// @Router       /api/suppliers [post]
func (h *CounterpartHandler) CreateSupplier(c *fiber.Ctx) error {
	in, err := parseCounterpartBody(c)
	if in == nil {
		return err
	}
	out, err := h.supplierUC.Create(*in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSupplier godoc
// @Summary      Actualizar proveedor
// @Tags         counterparts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proveedor"
// @Param        body  body  dto.UpdateCounterpartRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CounterpartResponse
// @Router       /api/suppliers/{id} [put]
func (h *CounterpartHandler) UpdateSupplier(c *fiber.Ctx) error {
	var in dto.UpdateCounterpartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.supplierUC.Update(c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         counterparts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CounterpartListResponse
// @Router       /api/suppliers [get]
func (h *CounterpartHandler) ListSuppliers(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.supplierUC.List(page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// CreateBeneficiary godoc
// @Summary      Crear beneficiario
// @Tags         counterparts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCounterpartRequest  true  "Datos del beneficiario"
// @Success      201   {object}  dto.CounterpartResponse
// @Router       /api/beneficiaries [post]
func (h *CounterpartHandler) CreateBeneficiary(c *fiber.Ctx) error {
	in, err := parseCounterpartBody(c)
	if in == nil {
		return err
	}
	out, err := h.beneficiaryUC.Create(*in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateBeneficiary godoc
// @Summary      Actualizar beneficiario
// @Tags         counterparts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del beneficiario"
// @Param        body  body  dto.UpdateCounterpartRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CounterpartResponse
// @Router       /api/beneficiaries/{id} [put]
func (h *CounterpartHandler) UpdateBeneficiary(c *fiber.Ctx) error {
	var in dto.UpdateCounterpartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.beneficiaryUC.Update(c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ListBeneficiaries godoc
// @Summary      Listar beneficiarios
// @Tags         counterparts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CounterpartListResponse
// @Router       /api/beneficiaries [get]
func (h *CounterpartHandler) ListBeneficiaries(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.beneficiaryUC.List(page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// CreateStation godoc
// @Summary      Crear estación
// @Tags         counterparts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCounterpartRequest  true  "Datos de la estación"
// @Success      201   {object}  dto.CounterpartResponse
// @Router       /api/stations [post]
func (h *CounterpartHandler) CreateStation(c *fiber.Ctx) error {
	in, err := parseCounterpartBody(c)
	if in == nil {
		return err
	}
	out, err := h.stationUC.Create(*in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStation godoc
// @Summary      Actualizar estación
// @Tags         counterparts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la estación"
// @Param        body  body  dto.UpdateCounterpartRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CounterpartResponse
// @Router       /api/stations/{id} [put]
func (h *CounterpartHandler) UpdateStation(c *fiber.Ctx) error {
	var in dto.UpdateCounterpartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.stationUC.Update(c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ListStations godoc
// @Summary      Listar estaciones
// @Tags         counterparts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CounterpartListResponse
// @Router       /api/stations [get]
func (h *CounterpartHandler) ListStations(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.stationUC.List(page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
