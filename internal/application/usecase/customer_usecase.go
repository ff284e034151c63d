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

// CustomerUseCase casos de uso CRUD para clientes.
type CustomerUseCase struct {
	uows repository.UnitOfWorkFactory
	log  *logger.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(uows repository.UnitOfWorkFactory, log *logger.Logger) *CustomerUseCase {
	return &CustomerUseCase{uows: uows, log: log.Component("customer")}
}

// List lista todos los clientes por nombre.
func (uc *CustomerUseCase) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	list, err := uc.uows.New().Customers().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toCustomerResponses(list), nil
}

// GetByID obtiene un cliente; nil, nil si no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := uc.uows.New().Customers().GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Create crea un cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c := &entity.Customer{ID: uuid.New()}
	applyCustomer(c, in)
	if err := uc.uows.New().Customers().Add(ctx, c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", c.ID.String()).Msg("cliente creado")
	return toCustomerResponse(c), nil
}

// Update sobrescribe los datos del cliente. ErrNotFound si no existe.
func (uc *CustomerUseCase) Update(ctx context.Context, id uuid.UUID, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	repo := uc.uows.New().Customers()
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	applyCustomer(c, in)
	if err := repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina el cliente. ErrNotFound si no existe.
func (uc *CustomerUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := uc.uows.New().Customers().Remove(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("customer_id", id.String()).Msg("cliente eliminado")
	return nil
}

// SearchByName clientes cuyo nombre contiene el término, sin distinguir mayúsculas.
func (uc *CustomerUseCase) SearchByName(ctx context.Context, name string) ([]dto.CustomerResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uc.List(ctx)
	}
	list, err := uc.uows.New().Customers().SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toCustomerResponses(list), nil
}

func applyCustomer(c *entity.Customer, in dto.CustomerRequest) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.PersonInCharge = in.PersonInCharge
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		PersonInCharge: c.PersonInCharge,
	}
}

func toCustomerResponses(list []*entity.Customer) []dto.CustomerResponse {
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return items
}
