package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/application/usecase"
)

// CargoHandler maneja las peticiones HTTP de lotes de carga (protegido).
type CargoHandler struct {
	uc      *usecase.CargoUseCase
	reports *usecase.ReportUseCase
}

// NewCargoHandler construye el handler.
func NewCargoHandler(uc *usecase.CargoUseCase, reports *usecase.ReportUseCase) *CargoHandler {
	return &CargoHandler{uc: uc, reports: reports}
}

// List godoc
// @Summary      Listar lotes
// @Tags         cargos
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (máx 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.CargoListResponse
// @Router       /api/cargos [get]
func (h *CargoHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	out, err := h.uc.List(c.UserContext(), dto.PageRequest{Limit: limit, Offset: offset})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         cargos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Cargo ID"
// @Success      200  {object}  dto.CargoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cargos/{id} [get]
func (h *CargoHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "lote")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear lote
// @Description  Sin código se genera CG + yyyyMMddHHmmss. El archivo JSON se escribe en la misma transacción.
// @Tags         cargos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCargoRequest  true  "Datos del lote"
// @Success      201   {object}  dto.CargoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cargos [post]
func (h *CargoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCargoRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if in.EmployeeCreate == "" {
		in.EmployeeCreate = GetUsername(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar lote
// @Description  El archivo JSON se reescribe en segundo plano (file_sync = pending).
// @Tags         cargos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "Cargo ID"
// @Param        body  body  dto.UpdateCargoRequest  true  "Datos del lote"
// @Success      200   {object}  dto.CargoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cargos/{id} [put]
func (h *CargoHandler) Update(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateCargoRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "lote")
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar lote
// @Tags         cargos
// @Security     Bearer
// @Param        id  path  string  true  "Cargo ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cargos/{id} [delete]
func (h *CargoHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Search godoc
// @Summary      Buscar lotes
// @Description  q busca en código o empresa; code y customer filtran por un solo campo.
// @Tags         cargos
// @Security     Bearer
// @Produce      json
// @Param        q         query  string  false  "Código o empresa"
// @Param        code      query  string  false  "Código"
// @Param        customer  query  string  false  "Empresa cliente"
// @Success      200  {array}  dto.CargoResponse
// @Router       /api/cargos/search [get]
func (h *CargoHandler) Search(c *fiber.Ctx) error {
	var (
		out []dto.CargoResponse
		err error
	)
	ctx := c.UserContext()
	switch {
	case c.Query("code") != "":
		out, err = h.uc.SearchByCode(ctx, c.Query("code"))
	case c.Query("customer") != "":
		out, err = h.uc.SearchByCustomer(ctx, c.Query("customer"))
	default:
		out, err = h.uc.Search(ctx, c.Query("q"))
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByShipper godoc
// @Summary      Lotes de un conductor
// @Tags         cargos
// @Security     Bearer
// @Produce      json
// @Param        shipperId  path  string  true  "Shipper ID"
// @Success      200  {array}  dto.CargoResponse
// @Router       /api/cargos/by-shipper/{shipperId} [get]
func (h *CargoHandler) ListByShipper(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "shipperId")
	if !ok {
		return err
	}
	out, err := h.uc.ListByShipper(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MonthlyStatistics godoc
// @Summary      Estadísticas del mes en curso
// @Tags         cargos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MonthlyStatisticsResponse
// @Router       /api/cargos/statistics/monthly [get]
func (h *CargoHandler) MonthlyStatistics(c *fiber.Ctx) error {
	out, err := h.uc.MonthlyStatistics(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FileStatus godoc
// @Summary      Estado del archivo JSON del lote
// @Tags         cargos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Cargo ID"
// @Success      200  {object}  dto.CargoFileStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cargos/{id}/file [get]
func (h *CargoHandler) FileStatus(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.FileStatus(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegenerateFile godoc
// @Summary      Reescribir el archivo JSON del lote
// @Tags         cargos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Cargo ID"
// @Success      202  {object}  dto.CargoFileStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cargos/{id}/file [post]
func (h *CargoHandler) RegenerateFile(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.RegenerateFile(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// ExportExcel godoc
// @Summary      Exportar lotes a Excel
// @Description  Sin ambas fechas exporta el mes en curso. Fechas yyyy-MM-dd o RFC 3339; to es inclusivo.
// @Tags         cargos
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query  string  false  "Desde"
// @Param        to    query  string  false  "Hasta"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cargos/export [get]
func (h *CargoHandler) ExportExcel(c *fiber.Ctx) error {
	from, err := parseQueryDate(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido"})
	}
	to, err := parseQueryDate(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido"})
	}
	if from != nil && to != nil && to.Before(*from) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to anterior a from"})
	}
	file, err := h.reports.ExportExcel(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

// PDF godoc
// @Summary      Guía PDF del lote
// @Tags         cargos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "Cargo ID"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cargos/{id}/pdf [get]
func (h *CargoHandler) PDF(c *fiber.Ctx) error {
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}
	file, err := h.reports.CargoPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

func sendFile(c *fiber.Ctx, f *dto.ExportFile) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+f.FileName+`"`)
	return c.Send(f.Content)
}

// parseQueryDate acepta yyyy-MM-dd o RFC 3339; vacío devuelve nil.
func parseQueryDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
