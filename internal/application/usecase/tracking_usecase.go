package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
)

const (
	maxTrackingUsername = 30
	maxTrackingAction   = 255
	maxTrackingIP       = 45
)

// TrackingUseCase registro de auditoría de acciones de usuario (solo inserción).
type TrackingUseCase struct {
	uows repository.UnitOfWorkFactory
	log  *logger.Logger
	now  func() time.Time
}

// NewTrackingUseCase construye el caso de uso.
func NewTrackingUseCase(uows repository.UnitOfWorkFactory, log *logger.Logger) *TrackingUseCase {
	return &TrackingUseCase{uows: uows, log: log.Component("tracking"), now: time.Now}
}

// Create agrega una entrada. Los valores se recortan al ancho de columna.
func (uc *TrackingUseCase) Create(ctx context.Context, username, action, ip string) (*dto.TrackingResponse, error) {
	username = strings.TrimSpace(username)
	action = strings.TrimSpace(action)
	if username == "" || action == "" {
		return nil, domain.ErrInvalidInput
	}
	t := &entity.Tracking{
		ID:          uuid.New(),
		Username:    truncate(username, maxTrackingUsername),
		Action:      truncate(action, maxTrackingAction),
		DateCreated: uc.now(),
		IP:          truncate(ip, maxTrackingIP),
	}
	if err := uc.uows.New().Trackings().Append(ctx, t); err != nil {
		return nil, err
	}
	uc.log.Debug().Str("username", t.Username).Str("action", t.Action).Msg("acción registrada")
	return toTrackingResponse(t), nil
}

// ListByUser entradas del usuario, más recientes primero. ErrUserNotFound si no existe.
func (uc *TrackingUseCase) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.TrackingResponse, error) {
	uow := uc.uows.New()
	u, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	list, err := uow.Trackings().ListByUsername(ctx, u.Username)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TrackingResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTrackingResponse(t))
	}
	return items, nil
}

// truncate corta por runas para no partir caracteres multibyte.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func toTrackingResponse(t *entity.Tracking) *dto.TrackingResponse {
	return &dto.TrackingResponse{
		ID:          t.ID.String(),
		Username:    t.Username,
		Action:      t.Action,
		DateCreated: t.DateCreated,
		IP:          t.IP,
	}
}
