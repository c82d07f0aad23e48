package model

import (
	"errors"
	"strings"
	"time"
)

// Equipment is a catalog item technicians may need for a task.
type Equipment struct {
	ID           string    `json:"id"            db:"id"`
	Name         string    `json:"name"          db:"name"`
	Type         string    `json:"eq_type"       db:"eq_type"`
	SerialNumber string    `json:"serial_number" db:"serial_number"`
	IsActive     bool      `json:"is_active"     db:"is_active"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}

// CreateEquipmentRequest represents parameters to register an equipment item.
type CreateEquipmentRequest struct {
	Name         string `json:"name"`
	Type         string `json:"eq_type"`
	SerialNumber string `json:"serial_number"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

// Validate validates CreateEquipmentRequest and trims its fields.
func (r *CreateEquipmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.TrimSpace(r.Type)
	r.SerialNumber = strings.TrimSpace(r.SerialNumber)
	if r.Name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if r.Type == "" {
		return errors.New("eq_type is required and cannot be empty")
	}
	if r.SerialNumber == "" {
		return errors.New("serial_number is required and cannot be empty")
	}
	return nil
}

// UpdateEquipmentRequest represents a partial update to an equipment item.
type UpdateEquipmentRequest struct {
	Name         *string `json:"name,omitempty"`
	Type         *string `json:"eq_type,omitempty"`
	SerialNumber *string `json:"serial_number,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// Validate validates UpdateEquipmentRequest.
func (r *UpdateEquipmentRequest) Validate() error {
	if r.Name == nil && r.Type == nil && r.SerialNumber == nil && r.IsActive == nil {
		return errors.New("at least one field must be updated")
	}
	for field, v := range map[string]*string{"name": r.Name, "eq_type": r.Type, "serial_number": r.SerialNumber} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return errors.New(field + " cannot be empty")
		}
	}
	return nil
}

// EquipmentListOptions filters the equipment catalog listing.
type EquipmentListOptions struct {
	Active *bool
	Type   *string
}
