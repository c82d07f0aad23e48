package lifecycle

import (
	"strings"

	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// NormalizeRequirements validates a requirement list for a task and applies the default quantity.
// It rejects missing equipment ids, non-positive quantities and equipment listed twice.
func NormalizeRequirements(in []model.RequirementInput) ([]model.RequirementInput, error) {
	out := make([]model.RequirementInput, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		norm, err := NormalizeRequirement(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[norm.EquipmentID]; dup {
			return nil, apperrors.PreconditionFailedf("equipment %s is listed more than once for this task", norm.EquipmentID)
		}
		seen[norm.EquipmentID] = struct{}{}
		out = append(out, norm)
	}
	return out, nil
}

// NormalizeRequirement validates one requirement and applies the default quantity.
func NormalizeRequirement(r model.RequirementInput) (model.RequirementInput, error) {
	r.EquipmentID = strings.TrimSpace(r.EquipmentID)
	if r.EquipmentID == "" {
		return r, apperrors.ValidationField("equipment_id", "equipment_id is required")
	}
	if r.Quantity == nil {
		r.Quantity = model.QuantityOf(model.DefaultQuantity)
		return r, nil
	}
	if *r.Quantity <= 0 {
		return r, apperrors.PreconditionFailedf("quantity must be a positive integer, got %d", *r.Quantity)
	}
	r.Quantity = model.QuantityOf(*r.Quantity)
	return r, nil
}
