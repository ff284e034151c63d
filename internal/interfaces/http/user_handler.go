package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/application/usecase"
)

// UserHandler maneja usuarios y sus asignaciones de roles.
type UserHandler struct {
	users     *usecase.UserUseCase
	userRoles *usecase.UserRoleUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserUseCase, userRoles *usecase.UserRoleUseCase) *UserHandler {
	return &UserHandler{users: users, userRoles: userRoles}
}

// List godoc
// @Summary      Listar usuarios
// @Description  admin ve todos los usuarios activos; staff solo los conductores.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.users.ListForRole(c.UserContext(), GetRoles(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario por ID
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "User ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	out, err := h.users.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "usuario")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "User ID"
// @Param        body  body  dto.UpdateUserRequest  true  "Datos del usuario"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateUserRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.users.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListRoles godoc
// @Summary      Roles asignados al usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "User ID"
// @Success      200  {array}  dto.UserRoleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/roles [get]
func (h *UserHandler) ListRoles(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	out, err := h.userRoles.ListByUser(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AssignRole godoc
// @Summary      Asignar rol al usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "User ID"
// @Param        body  body  dto.AssignRoleRequest  true  "Rol y conductor opcional"
// @Success      201   {object}  dto.UserRoleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/roles [post]
func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	var in dto.AssignRoleRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.userRoles.Assign(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateRole PATCH /api/users/:id/roles/:roleId
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	roleID, ok, err := parseID(c, "roleId")
	if !ok {
		return err
	}
	var in dto.UpdateUserRoleRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.userRoles.SetShipper(c.UserContext(), id, roleID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveRole DELETE /api/users/:id/roles/:roleId
func (h *UserHandler) RemoveRole(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	roleID, ok, err := parseID(c, "roleId")
	if !ok {
		return err
	}
	if err := h.userRoles.Remove(c.UserContext(), id, roleID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
