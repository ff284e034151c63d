package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.TrackingRepository = (*TrackingRepo)(nil)

var trackingTable = table[entity.Tracking]{
	name: "trackings",
	coll: func(d *dataset) map[uuid.UUID]entity.Tracking { return d.trackings },
	id:   func(t *entity.Tracking) uuid.UUID { return t.ID },
	fields: func(t *entity.Tracking) map[string]any {
		return map[string]any{
			"id": t.ID, "username": t.Username, "action": t.Action, "date_created": t.DateCreated, "ip": t.IP,
		}
	},
	less: func(a, b *entity.Tracking) bool { return a.DateCreated.After(b.DateCreated) },
}

// TrackingRepo implementación en memoria de TrackingRepository.
type TrackingRepo struct {
	rows crudRepo[entity.Tracking]
}

func (r *TrackingRepo) Append(ctx context.Context, t *entity.Tracking) error {
	return r.rows.Add(ctx, t)
}

func (r *TrackingRepo) ListByUsername(ctx context.Context, username string) ([]*entity.Tracking, error) {
	return r.rows.Find(ctx, repository.Where("username", repository.OpEq, username).Order("date_created", true))
}
