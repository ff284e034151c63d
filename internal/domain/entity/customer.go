package entity

import "github.com/google/uuid"

// Customer representa un cliente de la empresa de logística.
type Customer struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Phone          string
	Address        string
	PersonInCharge string
}
