package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/application/usecase"
)

// ShipperHandler maneja las peticiones HTTP de conductores (protegido).
type ShipperHandler struct {
	uc *usecase.ShipperUseCase
}

// NewShipperHandler construye el handler.
func NewShipperHandler(uc *usecase.ShipperUseCase) *ShipperHandler {
	return &ShipperHandler{uc: uc}
}

// List godoc
// @Summary      Listar conductores
// @Tags         shippers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ShipperResponse
// @Router       /api/shippers [get]
func (h *ShipperHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener conductor por ID
// @Tags         shippers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Shipper ID"
// @Success      200  {object}  dto.ShipperResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shippers/{id} [get]
func (h *ShipperHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "conductor")
	}
	return c.JSON(out)
}

// GetName GET /api/shippers/:id/name
func (h *ShipperHandler) GetName(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	name, err := h.uc.GetName(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if name == "" {
		return notFound(c, "conductor")
	}
	return c.JSON(fiber.Map{"name": name})
}

// Create godoc
// @Summary      Crear conductor
// @Tags         shippers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShipperRequest  true  "Datos del conductor"
// @Success      201   {object}  dto.ShipperResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shippers [post]
func (h *ShipperHandler) Create(c *fiber.Ctx) error {
	var in dto.ShipperRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/shippers/:id
func (h *ShipperHandler) Update(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	var in dto.ShipperRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/shippers/:id
func (h *ShipperHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Search GET /api/shippers/search?name=
func (h *ShipperHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.SearchByName(c.UserContext(), c.Query("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
