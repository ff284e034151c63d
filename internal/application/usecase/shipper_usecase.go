package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
)

// ShipperUseCase casos de uso CRUD para conductores.
type ShipperUseCase struct {
	uows repository.UnitOfWorkFactory
	log  *logger.Logger
}

// NewShipperUseCase construye el caso de uso.
func NewShipperUseCase(uows repository.UnitOfWorkFactory, log *logger.Logger) *ShipperUseCase {
	return &ShipperUseCase{uows: uows, log: log.Component("shipper")}
}

func (uc *ShipperUseCase) List(ctx context.Context) ([]dto.ShipperResponse, error) {
	list, err := uc.uows.New().Shippers().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toShipperResponses(list), nil
}

// GetByID obtiene un conductor; nil, nil si no existe.
func (uc *ShipperUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.ShipperResponse, error) {
	s, err := uc.uows.New().Shippers().GetByID(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	return toShipperResponse(s), nil
}

// GetName nombre del conductor; vacío si no existe.
func (uc *ShipperUseCase) GetName(ctx context.Context, id uuid.UUID) (string, error) {
	s, err := uc.uows.New().Shippers().GetByID(ctx, id)
	if err != nil || s == nil {
		return "", err
	}
	return s.Name, nil
}

func (uc *ShipperUseCase) Create(ctx context.Context, in dto.ShipperRequest) (*dto.ShipperResponse, error) {
	s := &entity.Shipper{ID: uuid.New()}
	applyShipper(s, in)
	if err := uc.uows.New().Shippers().Add(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Str("shipper_id", s.ID.String()).Msg("conductor creado")
	return toShipperResponse(s), nil
}

// Update ErrNotFound si no existe.
func (uc *ShipperUseCase) Update(ctx context.Context, id uuid.UUID, in dto.ShipperRequest) (*dto.ShipperResponse, error) {
	repo := uc.uows.New().Shippers()
	s, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	applyShipper(s, in)
	if err := repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toShipperResponse(s), nil
}

// Delete elimina el conductor; los lotes y asignaciones que lo referencian quedan sin conductor.
func (uc *ShipperUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := uc.uows.New().Shippers().Remove(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("shipper_id", id.String()).Msg("conductor eliminado")
	return nil
}

func (uc *ShipperUseCase) SearchByName(ctx context.Context, name string) ([]dto.ShipperResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uc.List(ctx)
	}
	list, err := uc.uows.New().Shippers().SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toShipperResponses(list), nil
}

func applyShipper(s *entity.Shipper, in dto.ShipperRequest) {
	s.Name = strings.TrimSpace(in.Name)
	if in.VehicleType != nil {
		s.VehicleType = entity.VehicleType(*in.VehicleType)
	}
	s.Phone = in.Phone
	s.Address = in.Address
}

func toShipperResponse(s *entity.Shipper) *dto.ShipperResponse {
	return &dto.ShipperResponse{
		ID:              s.ID.String(),
		Name:            s.Name,
		VehicleType:     uint8(s.VehicleType),
		VehicleTypeName: s.VehicleType.Label(),
		Phone:           s.Phone,
		Address:         s.Address,
	}
}

func toShipperResponses(list []*entity.Shipper) []dto.ShipperResponse {
	items := make([]dto.ShipperResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toShipperResponse(s))
	}
	return items
}
