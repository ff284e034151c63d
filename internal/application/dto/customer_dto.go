package dto

// CustomerRequest entrada para crear o actualizar un cliente.
type CustomerRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"omitempty,email,max=100"`
	Phone          string `json:"phone" validate:"omitempty,max=20"`
	Address        string `json:"address" validate:"omitempty,max=200"`
	PersonInCharge string `json:"person_in_charge" validate:"omitempty,max=100"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	PersonInCharge string `json:"person_in_charge"`
}
