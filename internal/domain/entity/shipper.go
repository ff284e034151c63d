package entity

import "github.com/google/uuid"

// VehicleType tipo de vehículo del conductor.
type VehicleType uint8

const (
	VehicleSmallTruck  VehicleType = 0
	VehicleMediumTruck VehicleType = 1
	VehicleLargeTruck  VehicleType = 2
)

// Valid indica si el tipo de vehículo pertenece a {0,1,2}.
func (v VehicleType) Valid() bool { return v <= VehicleLargeTruck }

// Shipper representa un conductor (y su vehículo) asignable a lotes.
type Shipper struct {
	ID          uuid.UUID
	Name        string
	VehicleType VehicleType
	Phone       string
	Address     string
}

// Label nombre del tipo de vehículo.
func (v VehicleType) Label() string {
	switch v {
	case VehicleSmallTruck:
		return "Xe tải nhỏ"
	case VehicleMediumTruck:
		return "Xe tải trung"
	case VehicleLargeTruck:
		return "Xe tải lớn"
	default:
		return ""
	}
}
