package ports

import (
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
)

// CargoReportExporter genera el libro Excel del reporte de lotes.
type CargoReportExporter interface {
	// CargoWorkbook devuelve el .xlsx con la hoja maestra y la hoja de análisis.
	CargoWorkbook(cargos []*entity.Cargo, analysis *dto.BusinessAnalysis) ([]byte, error)
}

// CargoWaybillGenerator genera el PDF de guía de un lote.
type CargoWaybillGenerator interface {
	CargoWaybill(c *entity.Cargo, shipper *entity.Shipper) ([]byte, error)
}
