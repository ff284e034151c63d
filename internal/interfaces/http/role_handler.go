package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/application/usecase"
)

// RoleHandler administración de roles (solo admin).
type RoleHandler struct {
	uc *usecase.RoleUseCase
}

// NewRoleHandler construye el handler.
func NewRoleHandler(uc *usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

// List GET /api/roles
func (h *RoleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear rol
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RoleRequest  true  "Nombre y descripción"
// @Success      201   {object}  dto.RoleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var in dto.RoleRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/roles/:id
func (h *RoleHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "rol")
	}
	return c.JSON(out)
}

// GetByName GET /api/roles/by-name/:name
func (h *RoleHandler) GetByName(c *fiber.Ctx) error {
	out, err := h.uc.GetByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "rol")
	}
	return c.JSON(out)
}

// Exists GET /api/roles/exists/:name
func (h *RoleHandler) Exists(c *fiber.Ctx) error {
	ok, err := h.uc.Exists(c.UserContext(), c.Params("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"exists": ok})
}

// Update godoc
// @Summary      Renombrar rol
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "Role ID"
// @Param        body  body  dto.RoleRequest  true  "Nombre y descripción"
// @Success      200   {object}  dto.RoleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/roles/{id} [put]
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	var in dto.RoleRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar rol
// @Description  409 ROLE_IN_USE si algún usuario lo tiene asignado.
// @Tags         roles
// @Security     Bearer
// @Param        id  path  string  true  "Role ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
