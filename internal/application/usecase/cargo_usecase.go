package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/application/ports"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
	"github.com/phuong1932/logistics-deploy/pkg/money"
	"github.com/shopspring/decimal"
)

// Valores de CargoResponse.FileSync.
const (
	FileWritten = "written"
	FilePending = "pending"
	FileFailed  = "failed"
	FileMissing = "missing"
)

// CargoUseCase casos de uso de lotes de carga y de su copia JSON en disco.
type CargoUseCase struct {
	uows  repository.UnitOfWorkFactory
	files ports.CargoFileStore
	jobs  ports.JobQueue
	log   *logger.Logger
	now   func() time.Time
}

// NewCargoUseCase construye el caso de uso.
func NewCargoUseCase(uows repository.UnitOfWorkFactory, files ports.CargoFileStore, jobs ports.JobQueue, log *logger.Logger) *CargoUseCase {
	return &CargoUseCase{uows: uows, files: files, jobs: jobs, log: log.Component("cargo"), now: time.Now}
}

// List lista lotes con paginación, más recientes primero.
func (uc *CargoUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CargoListResponse, error) {
	page.DefaultPage()
	uow := uc.uows.New()
	list, err := uow.Cargos().ListPage(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uow.Cargos().Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CargoListResponse{
		Items: toCargoResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// GetByID obtiene un lote; nil, nil si no existe.
func (uc *CargoUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.CargoResponse, error) {
	c, err := uc.uows.New().Cargos().GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCargoResponse(c), nil
}

// Create inserta el lote y escribe su archivo JSON dentro de la misma transacción.
// Si la escritura del archivo falla el lote se confirma igual con ruta vacía y el
// archivo queda a cargo de un trabajo en segundo plano.
func (uc *CargoUseCase) Create(ctx context.Context, in dto.CreateCargoRequest) (*dto.CargoResponse, error) {
	now := uc.now()
	shipperID, err := parseOptionalID(in.ShipperID)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		code = entity.GenerateCargoCode(now)
	}
	licenseDate := in.LicenseDate
	if licenseDate == nil {
		licenseDate = &now
	}
	c := &entity.Cargo{
		ID:                     uuid.New(),
		Code:                   code,
		CustomerPersonInCharge: in.CustomerPersonInCharge,
		CustomerCompanyName:    in.CustomerCompanyName,
		EmployeeCreate:         in.EmployeeCreate,
		CustomerAddress:        in.CustomerAddress,
		LicenseDate:            licenseDate,
		ExchangeDate:           in.ExchangeDate,
		EstimatedTotalAmount:   in.EstimatedTotalAmount,
		AdvanceMoney:           in.AdvanceMoney,
		ShippingFee:            in.ShippingFee,
		QuantityOfShipper:      in.QuantityOfShipper,
		CreatedAt:              now,
		ShipperID:              shipperID,
		Status:                 entity.CargoNew,
	}
	if in.ServiceType != nil {
		c.ServiceType = entity.ServiceType(*in.ServiceType)
	}
	if in.Status != nil {
		c.Status = entity.CargoStatus(*in.Status)
	}

	var fileErr error
	err = repository.InTx(ctx, uc.uows.New(), func(uow repository.UnitOfWork) error {
		if err := uc.checkRefs(ctx, uow, c, true); err != nil {
			return err
		}
		if err := uow.Cargos().Add(ctx, c); err != nil {
			return err
		}
		path, err := uc.files.Write(ctx, c)
		if err != nil {
			fileErr = err
			return nil
		}
		c.FilePathJSON = path
		return uow.Cargos().UpdateFilePath(ctx, c.ID, path)
	})
	if err != nil {
		if c.FilePathJSON != "" {
			_ = uc.files.Remove(ctx, c.FilePathJSON)
		}
		return nil, err
	}

	resp := toCargoResponse(c)
	resp.FileSync = FileWritten
	if fileErr != nil {
		uc.log.Warn().Err(fileErr).Str("cargo_id", c.ID.String()).Msg("no se pudo escribir el archivo del lote, se reintenta en segundo plano")
		resp.FileSync = uc.enqueueFile(ctx, c.ID)
	}
	uc.log.Info().Str("cargo_id", c.ID.String()).Str("code", c.Code).Msg("lote creado")
	return resp, nil
}

// Update sobrescribe los campos mutables, confirma y encola la reescritura del archivo.
// La respuesta no espera al archivo: FileSync queda en "pending".
func (uc *CargoUseCase) Update(ctx context.Context, id uuid.UUID, in dto.UpdateCargoRequest) (*dto.CargoResponse, error) {
	shipperID, err := parseOptionalID(in.ShipperID)
	if err != nil {
		return nil, err
	}
	var c *entity.Cargo
	err = repository.InTx(ctx, uc.uows.New(), func(uow repository.UnitOfWork) error {
		c, err = uow.Cargos().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		codeChanged := false
		if code := strings.TrimSpace(in.Code); code != "" && code != c.Code {
			c.Code = code
			codeChanged = true
		}
		c.CustomerPersonInCharge = in.CustomerPersonInCharge
		c.CustomerCompanyName = in.CustomerCompanyName
		c.EmployeeCreate = in.EmployeeCreate
		c.CustomerAddress = in.CustomerAddress
		if in.ServiceType != nil {
			c.ServiceType = entity.ServiceType(*in.ServiceType)
		}
		c.ExchangeDate = in.ExchangeDate
		c.EstimatedTotalAmount = in.EstimatedTotalAmount
		c.AdvanceMoney = in.AdvanceMoney
		c.ShippingFee = in.ShippingFee
		c.QuantityOfShipper = in.QuantityOfShipper
		c.ShipperID = shipperID
		if in.Status != nil {
			c.Status = entity.CargoStatus(*in.Status)
		}
		if err := uc.checkRefs(ctx, uow, c, codeChanged); err != nil {
			return err
		}
		return uow.Cargos().Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	resp := toCargoResponse(c)
	resp.FileSync = uc.enqueueFile(ctx, c.ID)
	uc.log.Info().Str("cargo_id", c.ID.String()).Msg("lote actualizado")
	return resp, nil
}

// Delete elimina el lote y, sin garantía, su archivo JSON.
func (uc *CargoUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	uow := uc.uows.New()
	c, err := uow.Cargos().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if err := uow.Cargos().Remove(ctx, id); err != nil {
		return err
	}
	if c.FilePathJSON != "" {
		if err := uc.files.Remove(ctx, c.FilePathJSON); err != nil {
			uc.log.Warn().Err(err).Str("path", c.FilePathJSON).Msg("no se pudo borrar el archivo del lote")
		}
	}
	uc.log.Info().Str("cargo_id", id.String()).Msg("lote eliminado")
	return nil
}

// SearchByCode lotes cuyo código contiene el término.
func (uc *CargoUseCase) SearchByCode(ctx context.Context, code string) ([]dto.CargoResponse, error) {
	return uc.search(ctx, code, func(r repository.CargoRepository, term string) ([]*entity.Cargo, error) {
		return r.SearchByCode(ctx, term)
	})
}

// SearchByCustomer lotes cuya empresa cliente contiene el término.
func (uc *CargoUseCase) SearchByCustomer(ctx context.Context, company string) ([]dto.CargoResponse, error) {
	return uc.search(ctx, company, func(r repository.CargoRepository, term string) ([]*entity.Cargo, error) {
		return r.SearchByCompany(ctx, term)
	})
}

// Search lotes cuyo código o empresa contiene el término. Sin término devuelve todos.
func (uc *CargoUseCase) Search(ctx context.Context, q string) ([]dto.CargoResponse, error) {
	return uc.search(ctx, q, func(r repository.CargoRepository, term string) ([]*entity.Cargo, error) {
		return r.SearchByCodeOrCompany(ctx, term)
	})
}

func (uc *CargoUseCase) search(ctx context.Context, term string, fn func(repository.CargoRepository, string) ([]*entity.Cargo, error)) ([]dto.CargoResponse, error) {
	repo := uc.uows.New().Cargos()
	term = strings.TrimSpace(term)
	var (
		list []*entity.Cargo
		err  error
	)
	if term == "" {
		list, err = repo.GetAll(ctx)
	} else {
		list, err = fn(repo, term)
	}
	if err != nil {
		return nil, err
	}
	return toCargoResponses(list), nil
}

// ListByShipper lotes asignados a un conductor.
func (uc *CargoUseCase) ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]dto.CargoResponse, error) {
	list, err := uc.uows.New().Cargos().ListByShipper(ctx, shipperID)
	if err != nil {
		return nil, err
	}
	return toCargoResponses(list), nil
}

// MonthlyStatistics tablero del mes en curso: cantidad, ingresos y promedio por lote.
func (uc *CargoUseCase) MonthlyStatistics(ctx context.Context) (*dto.MonthlyStatisticsResponse, error) {
	now := uc.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)
	st, err := uc.uows.New().Cargos().Statistics(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return monthlyStatistics(st, start), nil
}

func monthlyStatistics(st entity.CargoStatistics, start time.Time) *dto.MonthlyStatisticsResponse {
	avg := decimal.Zero
	if st.Count > 0 {
		avg = st.TotalRevenue.DivRound(decimal.NewFromInt(int64(st.Count)), 2)
	}
	last := start.AddDate(0, 1, -1)
	return &dto.MonthlyStatisticsResponse{
		TotalCargos:              st.Count,
		TotalRevenue:             st.TotalRevenue,
		TotalRevenueFormatted:    money.VND(st.TotalRevenue),
		AveragePerCargo:          avg,
		AveragePerCargoFormatted: money.VND(avg),
		Month:                    int(start.Month()),
		Year:                     start.Year(),
		MonthName:                fmt.Sprintf("Tháng %d/%d", int(start.Month()), start.Year()),
		StartDate:                start.Format("02/01/2006"),
		EndDate:                  last.Format("02/01/2006"),
	}
}

// RegenerateFile encola la reescritura del archivo JSON del lote.
func (uc *CargoUseCase) RegenerateFile(ctx context.Context, id uuid.UUID) (*dto.CargoFileStatusResponse, error) {
	c, err := uc.uows.New().Cargos().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.jobs.Enqueue(ctx, ports.Job{Type: ports.JobCargoFile, Key: id.String()}); err != nil {
		return nil, err
	}
	return uc.fileStatus(c), nil
}

// FileStatus estado del archivo JSON del lote según la cola de trabajos.
func (uc *CargoUseCase) FileStatus(ctx context.Context, id uuid.UUID) (*dto.CargoFileStatusResponse, error) {
	c, err := uc.uows.New().Cargos().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return uc.fileStatus(c), nil
}

func (uc *CargoUseCase) fileStatus(c *entity.Cargo) *dto.CargoFileStatusResponse {
	resp := &dto.CargoFileStatusResponse{CargoID: c.ID.String(), FilePath: c.FilePathJSON}
	st, ok := uc.jobs.Status(c.ID.String())
	switch {
	case ok:
		updated := st.UpdatedAt
		resp.State = st.State
		resp.Attempts = st.Attempts
		resp.LastError = st.LastError
		resp.UpdatedAt = &updated
	case c.FilePathJSON != "":
		resp.State = FileWritten
	default:
		resp.State = FileMissing
	}
	return resp
}

// HandleFileJob procesa un trabajo cargo.file: relee la fila actual y reescribe el
// archivo de forma atómica en su ruta guardada. Solo si el código cambió (o no hay
// ruta) se escribe uno nuevo, se guarda la ruta y se borra el anterior. Un lote ya
// borrado no es error.
func (uc *CargoUseCase) HandleFileJob(ctx context.Context, job ports.Job) error {
	id, err := uuid.Parse(job.Key)
	if err != nil {
		return fmt.Errorf("%w: clave de trabajo %q", domain.ErrInvalidInput, job.Key)
	}
	uow := uc.uows.New()
	c, err := uow.Cargos().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		uc.log.Info().Str("cargo_id", job.Key).Msg("lote eliminado antes de escribir su archivo")
		return nil
	}
	path, err := uc.files.Rewrite(ctx, c, c.FilePathJSON)
	if err != nil {
		return err
	}
	if path == c.FilePathJSON {
		return nil
	}
	if err := uow.Cargos().UpdateFilePath(ctx, id, path); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = uc.files.Remove(ctx, path)
			return nil
		}
		return err
	}
	if c.FilePathJSON != "" {
		if err := uc.files.Remove(ctx, c.FilePathJSON); err != nil {
			uc.log.Warn().Err(err).Str("path", c.FilePathJSON).Msg("no se pudo borrar el archivo anterior")
		}
	}
	return nil
}

func (uc *CargoUseCase) enqueueFile(ctx context.Context, id uuid.UUID) string {
	if err := uc.jobs.Enqueue(ctx, ports.Job{Type: ports.JobCargoFile, Key: id.String()}); err != nil {
		uc.log.Error().Err(err).Str("cargo_id", id.String()).Msg("no se pudo encolar el archivo del lote")
		return FileFailed
	}
	return FilePending
}

// checkRefs valida el conductor referenciado y la forma y unicidad del código.
func (uc *CargoUseCase) checkRefs(ctx context.Context, uow repository.UnitOfWork, c *entity.Cargo, checkCode bool) error {
	if c.ShipperID != nil {
		s, err := uow.Shippers().GetByID(ctx, *c.ShipperID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: conductor %s no existe", domain.ErrInvalidInput, *c.ShipperID)
		}
	}
	if checkCode {
		if !entity.ValidCargoCode(c.Code) {
			return fmt.Errorf("%w: código %q no permitido", domain.ErrInvalidInput, c.Code)
		}
		existing, err := uow.Cargos().GetByCode(ctx, c.Code)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != c.ID {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, c.Code)
		}
	}
	return nil
}

func toCargoResponse(c *entity.Cargo) *dto.CargoResponse {
	return &dto.CargoResponse{
		ID:                     c.ID.String(),
		Code:                   c.Code,
		CustomerPersonInCharge: c.CustomerPersonInCharge,
		CustomerCompanyName:    c.CustomerCompanyName,
		EmployeeCreate:         c.EmployeeCreate,
		CustomerAddress:        c.CustomerAddress,
		ServiceType:            uint8(c.ServiceType),
		ServiceTypeName:        c.ServiceType.Label(),
		LicenseDate:            c.LicenseDate,
		ExchangeDate:           c.ExchangeDate,
		EstimatedTotalAmount:   c.EstimatedTotalAmount,
		AdvanceMoney:           c.AdvanceMoney,
		ShippingFee:            c.ShippingFee,
		QuantityOfShipper:      c.QuantityOfShipper,
		CreatedAt:              c.CreatedAt,
		FilePathJSON:           c.FilePathJSON,
		ShipperID:              idString(c.ShipperID),
		Status:                 uint8(c.Status),
	}
}

func toCargoResponses(list []*entity.Cargo) []dto.CargoResponse {
	items := make([]dto.CargoResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCargoResponse(c))
	}
	return items
}
