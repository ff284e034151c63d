package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCargoRequest entrada para crear un lote. Sin código se genera "CG" + yyyyMMddHHmmss.
type CreateCargoRequest struct {
	Code                   string          `json:"code" validate:"omitempty,max=50,excludesall=/\\"`
	CustomerPersonInCharge string          `json:"customer_person_in_charge" validate:"omitempty,max=100"`
	CustomerCompanyName    string          `json:"customer_company_name" validate:"required,max=200"`
	EmployeeCreate         string          `json:"employee_create" validate:"omitempty,max=100"`
	CustomerAddress        string          `json:"customer_address" validate:"omitempty,max=200"`
	ServiceType            *uint8          `json:"service_type" validate:"omitempty,max=2"`
	LicenseDate            *time.Time      `json:"license_date"`
	ExchangeDate           *time.Time      `json:"exchange_date"`
	EstimatedTotalAmount   decimal.Decimal `json:"estimated_total_amount" validate:"gte=0"`
	AdvanceMoney           decimal.Decimal `json:"advance_money" validate:"gte=0"`
	ShippingFee            decimal.Decimal `json:"shipping_fee" validate:"gte=0"`
	QuantityOfShipper      *int            `json:"quantity_of_shipper" validate:"omitempty,min=0"`
	ShipperID              *string         `json:"shipper_id" validate:"omitempty,uuid"`
	Status                 *uint8          `json:"status" validate:"omitempty,max=3"`
}

// UpdateCargoRequest sobrescribe los campos mutables. El código solo cambia si se envía.
type UpdateCargoRequest struct {
	Code                   string          `json:"code" validate:"omitempty,max=50,excludesall=/\\"`
	CustomerPersonInCharge string          `json:"customer_person_in_charge" validate:"omitempty,max=100"`
	CustomerCompanyName    string          `json:"customer_company_name" validate:"required,max=200"`
	EmployeeCreate         string          `json:"employee_create" validate:"omitempty,max=100"`
	CustomerAddress        string          `json:"customer_address" validate:"omitempty,max=200"`
	ServiceType            *uint8          `json:"service_type" validate:"omitempty,max=2"`
	ExchangeDate           *time.Time      `json:"exchange_date"`
	EstimatedTotalAmount   decimal.Decimal `json:"estimated_total_amount" validate:"gte=0"`
	AdvanceMoney           decimal.Decimal `json:"advance_money" validate:"gte=0"`
	ShippingFee            decimal.Decimal `json:"shipping_fee" validate:"gte=0"`
	QuantityOfShipper      *int            `json:"quantity_of_shipper" validate:"omitempty,min=0"`
	ShipperID              *string         `json:"shipper_id" validate:"omitempty,uuid"`
	Status                 *uint8          `json:"status" validate:"omitempty,max=3"`
}

// CargoResponse salida de un lote.
type CargoResponse struct {
	ID                     string          `json:"id"`
	Code                   string          `json:"code"`
	CustomerPersonInCharge string          `json:"customer_person_in_charge"`
	CustomerCompanyName    string          `json:"customer_company_name"`
	EmployeeCreate         string          `json:"employee_create"`
	CustomerAddress        string          `json:"customer_address"`
	ServiceType            uint8           `json:"service_type"`
	ServiceTypeName        string          `json:"service_type_name"`
	LicenseDate            *time.Time      `json:"license_date"`
	ExchangeDate           *time.Time      `json:"exchange_date"`
	EstimatedTotalAmount   decimal.Decimal `json:"estimated_total_amount"`
	AdvanceMoney           decimal.Decimal `json:"advance_money"`
	ShippingFee            decimal.Decimal `json:"shipping_fee"`
	QuantityOfShipper      *int            `json:"quantity_of_shipper"`
	CreatedAt              time.Time       `json:"created_at"`
	FilePathJSON           string          `json:"file_path_json"`
	ShipperID              *string         `json:"shipper_id"`
	Status                 uint8           `json:"status"`
	FileSync               string          `json:"file_sync,omitempty"` // written | pending
}

// CargoListResponse página de lotes.
type CargoListResponse struct {
	Items []CargoResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// CargoFileStatusResponse estado del trabajo que mantiene el archivo JSON del lote.
type CargoFileStatusResponse struct {
	CargoID   string     `json:"cargo_id"`
	FilePath  string     `json:"file_path"`
	State     string     `json:"state"`
	Attempts  int        `json:"attempts"`
	LastError string     `json:"last_error,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MonthlyStatisticsResponse tablero del mes en curso.
type MonthlyStatisticsResponse struct {
	TotalCargos              int             `json:"total_cargos"`
	TotalRevenue             decimal.Decimal `json:"total_revenue"`
	TotalRevenueFormatted    string          `json:"total_revenue_formatted"`
	AveragePerCargo          decimal.Decimal `json:"average_per_cargo"`
	AveragePerCargoFormatted string          `json:"average_per_cargo_formatted"`
	Month                    int             `json:"month"`
	Year                     int             `json:"year"`
	MonthName                string          `json:"month_name"`
	StartDate                string          `json:"start_date"`
	EndDate                  string          `json:"end_date"`
}
