package model

import "time"

// TaskEquipment is a Task Equipment Ledger entry: a task's requirement for a
// quantity of one equipment item. EquipmentName and EquipmentType are joined
// from the catalog on read.
type TaskEquipment struct {
	ID            string    `json:"id"             db:"id"`
	TaskID        string    `json:"task_id"        db:"task_id"`
	EquipmentID   string    `json:"equipment_id"   db:"equipment_id"`
	Quantity      int       `json:"quantity"       db:"quantity"`
	Notes         string    `json:"notes"          db:"notes"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
	EquipmentName string    `json:"equipment_name" db:"equipment_name"`
	EquipmentType string    `json:"equipment_type" db:"equipment_type"`
}

// RequirementInput is one requested (equipment, quantity, notes) entry.
// A nil Quantity means "not provided" and defaults to DefaultQuantity.
type RequirementInput struct {
	EquipmentID string `json:"equipment_id"`
	Quantity    *int   `json:"quantity,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// DefaultQuantity is applied to requirements submitted without a quantity.
const DefaultQuantity = 1

// QuantityOf returns a pointer to n for building RequirementInput values.
func QuantityOf(n int) *int { return &n }

// QuantityValue returns the requested quantity, or DefaultQuantity when none was given.
func (r RequirementInput) QuantityValue() int {
	if r.Quantity == nil {
		return DefaultQuantity
	}
	return *r.Quantity
}
