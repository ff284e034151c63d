package usecase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
)

// parseOptionalID convierte un id opcional de la petición; vacío o nil devuelve nil.
func parseOptionalID(s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("%w: id inválido %q", domain.ErrInvalidInput, *s)
	}
	return &id, nil
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
