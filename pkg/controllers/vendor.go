package controllers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/purchase-zero/backend/pkg/store"
	"github.com/rs/zerolog/log"
)

// VendorController manages vendors.
type VendorController struct {
	store *store.Store
}

func NewVendorController(s *store.Store) *VendorController {
	return &VendorController{store: s}
}

// VendorData is the editable content of a vendor.
type VendorData struct {
	Name    string `json:"name" example:"Office Supplies Co."`
	Contact string `json:"contact" example:"John Smith"`
	Phone   string `json:"phone" example:"555-123-4567"`
	Email   string `json:"email" example:"john@officesupplies.com"`
	Address string `json:"address" example:"123 Main St."`
}

func (d VendorData) apply(v *models.Vendor) {
	v.Name = strings.TrimSpace(d.Name)
	v.Contact = strings.TrimSpace(d.Contact)
	v.Phone = strings.TrimSpace(d.Phone)
	v.Email = strings.TrimSpace(d.Email)
	v.Address = strings.TrimSpace(d.Address)
}

// All returns all vendors ordered by name.
func (co *VendorController) All() ([]models.Vendor, error) {
	return co.store.Vendors()
}

// Get returns the vendor with the id.
func (co *VendorController) Get(id uuid.UUID) (models.Vendor, error) {
	return co.store.Vendor(id)
}

// Names returns the names of all vendors in alphabetical order.
func (co *VendorController) Names() ([]string, error) {
	vendors, err := co.store.Vendors()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(vendors))
	for _, v := range vendors {
		names = append(names, v.Name)
	}

	return names, nil
}

// Add creates a vendor. The name must not be used by another vendor.
// If id is uuid.Nil, an id is generated.
func (co *VendorController) Add(id uuid.UUID, data VendorData) (models.Vendor, error) {
	vendor := models.Vendor{DefaultModel: models.DefaultModel{ID: id}}
	data.apply(&vendor)

	if err := check(vendor); err != nil {
		return models.Vendor{}, err
	}

	err := co.store.Transaction(func(tx *store.Store) error {
		if id != uuid.Nil {
			if _, err := tx.Vendor(id); err == nil {
				return fmt.Errorf("%w: %s", models.ErrIDNotUnique, id)
			}
		}

		taken, err := tx.VendorNameTaken(vendor.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: '%s'", models.ErrVendorNameNotUnique, vendor.Name)
		}

		return tx.SaveVendor(&vendor)
	})
	if err != nil {
		return models.Vendor{}, err
	}

	return vendor, nil
}

// Update replaces the vendor's fields.
//
// When the name changes, the vendor name stored on all purchases of the
// vendor is updated in the same unit of work.
func (co *VendorController) Update(id uuid.UUID, data VendorData) (models.Vendor, error) {
	var vendor models.Vendor

	err := co.store.Transaction(func(tx *store.Store) error {
		var err error
		vendor, err = tx.Vendor(id)
		if err != nil {
			return err
		}

		oldName := vendor.Name
		data.apply(&vendor)

		if err := check(vendor); err != nil {
			return err
		}

		taken, err := tx.VendorNameTaken(vendor.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: '%s'", models.ErrVendorNameNotUnique, vendor.Name)
		}

		err = tx.SaveVendor(&vendor)
		if err != nil {
			return err
		}

		if vendor.Name != oldName {
			updated, err := tx.RenameVendorOnPurchases(id, vendor.Name)
			if err != nil {
				return err
			}

			log.Debug().Str("vendor", vendor.Name).Int64("purchases", updated).Msg("vendor name updated on purchases")
		}

		return nil
	})
	if err != nil {
		return models.Vendor{}, err
	}

	return vendor, nil
}

// Delete deletes the vendor. Vendors with purchases cannot be deleted.
func (co *VendorController) Delete(id uuid.UUID) error {
	return co.store.DeleteVendor(id)
}
