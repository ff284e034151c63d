package dto

// ShipperRequest entrada para crear o actualizar un conductor.
type ShipperRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	VehicleType *uint8 `json:"vehicle_type" validate:"omitempty,max=2"` // 0 pequeño, 1 mediano, 2 grande
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	Address     string `json:"address" validate:"omitempty,max=200"`
}

// ShipperResponse salida de un conductor.
type ShipperResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	VehicleType     uint8  `json:"vehicle_type"`
	VehicleTypeName string `json:"vehicle_type_name"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
}
