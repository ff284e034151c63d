package entity

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceType tipo de servicio de un lote de carga.
type ServiceType uint8

const (
	ServiceExport       ServiceType = 0 // XUẤT
	ServiceImport       ServiceType = 1 // NHẬP
	ServiceExportImport ServiceType = 2 // XUẤT NHẬP
)

// Label nombre del tipo de servicio tal como aparece en los archivos y el reporte maestro.
func (s ServiceType) Label() string {
	switch s {
	case ServiceExport:
		return "XUẤT"
	case ServiceImport:
		return "NHẬP"
	default:
		return "XUẤT NHẬP"
	}
}

// ReportCategory categoría usada en la hoja de análisis de negocio.
func (s ServiceType) ReportCategory() string {
	switch s {
	case ServiceExport:
		return "HẢI QUAN"
	case ServiceImport:
		return "VẬN CHUYỂN"
	case ServiceExportImport:
		return "CƯỚC QUỐC TẾ"
	default:
		return "DOANH THU KHÁC"
	}
}

// Valid indica si el código está dentro del rango permitido.
func (s ServiceType) Valid() bool { return s <= ServiceExportImport }

// CargoStatus estado del lote.
type CargoStatus uint8

const (
	CargoCancelled CargoStatus = 0
	CargoNew       CargoStatus = 1
	CargoInTransit CargoStatus = 2
	CargoDelivered CargoStatus = 3
)

// Valid indica si el estado está dentro del rango permitido.
func (s CargoStatus) Valid() bool { return s <= CargoDelivered }

// CargoCodePrefix prefijo de los códigos generados automáticamente.
const CargoCodePrefix = "CG"

// CargoCodeLayout formato de fecha de los códigos generados (14 dígitos).
const CargoCodeLayout = "20060102150405"

// Cargo representa un lote de carga (envío) gestionado por la empresa.
type Cargo struct {
	ID                     uuid.UUID
	Code                   string
	CustomerPersonInCharge string
	CustomerCompanyName    string
	EmployeeCreate         string
	CustomerAddress        string
	ServiceType            ServiceType
	LicenseDate            *time.Time
	ExchangeDate           *time.Time
	EstimatedTotalAmount   decimal.Decimal
	AdvanceMoney           decimal.Decimal
	ShippingFee            decimal.Decimal
	QuantityOfShipper      *int
	CreatedAt              time.Time
	FilePathJSON           string
	ShipperID              *uuid.UUID
	Status                 CargoStatus
}

// GenerateCargoCode devuelve "CG" + yyyyMMddHHmmss para el instante dado.
func GenerateCargoCode(now time.Time) string {
	return CargoCodePrefix + now.Format(CargoCodeLayout)
}

// ValidCargoCode indica si el código puede usarse como parte del nombre del archivo
// del lote: no vacío, sin separadores de ruta ni caracteres de control y distinto
// de "." y "..".
func ValidCargoCode(code string) bool {
	if code == "" || code == "." || code == ".." {
		return false
	}
	return !strings.ContainsFunc(code, func(r rune) bool {
		return r == '/' || r == '\\' || unicode.IsControl(r)
	})
}

// Cost suma de anticipo y flete, base del costo en los reportes.
func (c *Cargo) Cost() decimal.Decimal {
	return c.AdvanceMoney.Add(c.ShippingFee)
}

// CargoStatistics resumen de lotes de un periodo.
type CargoStatistics struct {
	Count        int
	TotalRevenue decimal.Decimal
}
