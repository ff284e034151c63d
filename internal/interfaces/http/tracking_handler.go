package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/application/usecase"
)

// TrackingHandler registro de auditoría.
type TrackingHandler struct {
	uc *usecase.TrackingUseCase
}

// NewTrackingHandler construye el handler.
func NewTrackingHandler(uc *usecase.TrackingUseCase) *TrackingHandler {
	return &TrackingHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar acción
// @Description  Sin username se usa el del token. La IP sale de X-Forwarded-For, X-Real-IP o la conexión.
// @Tags         trackings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTrackingRequest  true  "Acción"
// @Success      201   {object}  dto.TrackingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/trackings [post]
func (h *TrackingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTrackingRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	username := in.Username
	if username == "" {
		username = GetUsername(c)
	}
	out, err := h.uc.Create(c.UserContext(), username, in.Action, ClientIP(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByUser godoc
// @Summary      Acciones de un usuario
// @Tags         trackings
// @Security     Bearer
// @Produce      json
// @Param        userId  path  string  true  "User ID"
// @Success      200  {array}  dto.TrackingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/trackings/user/{userId} [get]
func (h *TrackingHandler) ListByUser(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "userId")
	if !ok {
		return err
	}
	out, err := h.uc.ListByUser(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
