package ports

import (
	"context"

	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
)

// CargoFileStore puerto de salida para la copia JSON de cada lote en disco.
// La copia es un espejo de consulta, nunca la fuente de verdad.
type CargoFileStore interface {
	// Write escribe (o reemplaza atómicamente) el documento del lote y devuelve su ruta.
	Write(ctx context.Context, c *entity.Cargo) (string, error)
	// Rewrite reescribe en su ruta actual si esta sigue correspondiendo al lote
	// (mismo código y bajo la raíz); si no, se comporta como Write.
	Rewrite(ctx context.Context, c *entity.Cargo, current string) (string, error)
	// Remove elimina el archivo; no falla si ya no existe.
	Remove(ctx context.Context, path string) error
}
