package dto

import "github.com/shopspring/decimal"

// BusinessMetrics cifras de una celda del análisis de negocio.
type BusinessMetrics struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	Profit      decimal.Decimal `json:"profit"`
	Margin      decimal.Decimal `json:"margin"`       // profit / revenue * 100
	GrossMargin decimal.Decimal `json:"gross_margin"` // profit / profit total * 100
}

// BusinessCategory fila del análisis: una categoría con sus 12 meses y el acumulado anual.
type BusinessCategory struct {
	Name   string              `json:"name"`
	Months [12]BusinessMetrics `json:"months"`
	Year   BusinessMetrics     `json:"year"`
}

// BusinessAnalysis análisis anual por categoría de servicio más la fila TOTAL.
type BusinessAnalysis struct {
	Year       int                `json:"year"`
	Categories []BusinessCategory `json:"categories"`
	Total      BusinessCategory   `json:"total"`
}

// ExportFile archivo generado para descarga.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
