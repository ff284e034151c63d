package postgres

import (
	"context"

	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.TrackingRepository = (*TrackingRepo)(nil)

var trackingTable = table[entity.Tracking]{
	name:    "trackings",
	columns: []string{"id", "username", "action", "date_created", "ip"},
	orderBy: "date_created DESC",
	scan: func(s rowScanner) (*entity.Tracking, error) {
		var t entity.Tracking
		if err := s.Scan(&t.ID, &t.Username, &t.Action, &t.DateCreated, &t.IP); err != nil {
			return nil, err
		}
		return &t, nil
	},
	values: func(t *entity.Tracking) []any {
		return []any{t.ID, t.Username, t.Action, t.DateCreated, t.IP}
	},
}

// TrackingRepo registro de auditoría; solo inserta y consulta.
type TrackingRepo struct {
	rows crudRepo[entity.Tracking]
}

// NewTrackingRepository construye el adaptador.
func NewTrackingRepository(q Querier) *TrackingRepo {
	return &TrackingRepo{rows: newCrudRepo(q, trackingTable)}
}

// Append inserta una entrada.
func (r *TrackingRepo) Append(ctx context.Context, t *entity.Tracking) error {
	return r.rows.Add(ctx, t)
}

// ListByUsername entradas del usuario, más recientes primero.
func (r *TrackingRepo) ListByUsername(ctx context.Context, username string) ([]*entity.Tracking, error) {
	return r.rows.Find(ctx, repository.Where("username", repository.OpEq, username).Order("date_created", true))
}
