package models

import (
	"strings"

	"gorm.io/gorm"
)

// Vendor is a supplier that purchases are ordered from.
type Vendor struct {
	DefaultModel
	Name    string `json:"name" gorm:"uniqueIndex" validate:"required" example:"Office Supplies Co."` // Unique name of the vendor
	Contact string `json:"contact" example:"John Smith"`                                              // Contact person
	Phone   string `json:"phone" example:"555-123-4567"`
	Email   string `json:"email" example:"john@officesupplies.com"`
	Address string `json:"address" example:"123 Main St."`
}

// BeforeSave trims whitespace from string fields.
func (v *Vendor) BeforeSave(_ *gorm.DB) error {
	v.Name = strings.TrimSpace(v.Name)
	v.Contact = strings.TrimSpace(v.Contact)
	v.Phone = strings.TrimSpace(v.Phone)
	v.Email = strings.TrimSpace(v.Email)
	v.Address = strings.TrimSpace(v.Address)
	return nil
}
