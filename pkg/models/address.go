package models

import (
	"github.com/google/uuid"
)

type Address struct {
	BaseModel
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"customer_id"`
	Label        string    `json:"label"` // casa, trabalho, etc.
	Street       string    `gorm:"not null" json:"street" validate:"required"`
	Number       string    `json:"number"`
	Complement   string    `json:"complement"`
	Neighborhood string    `gorm:"not null" json:"neighborhood" validate:"required"`
	City         string    `gorm:"not null" json:"city" validate:"required"`
	State        string    `gorm:"not null" json:"state" validate:"required"`
	ZipCode      string    `gorm:"column:zipcode" json:"zip_code"`
	Reference    string    `json:"reference"` // ponto de referência para o entregador
	IsDefault    bool      `gorm:"default:false" json:"is_default"`
}

type CreateAddressRequest struct {
	Label        string `json:"label"`
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,len=2"`
	ZipCode      string `json:"zip_code" validate:"omitempty,numeric,len=8"`
	Reference    string `json:"reference"`
	IsDefault    bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	Label        *string `json:"label"`
	Street       *string `json:"street"`
	Number       *string `json:"number"`
	Complement   *string `json:"complement"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	ZipCode      *string `json:"zip_code"`
	Reference    *string `json:"reference"`
}
