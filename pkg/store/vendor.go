package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/models"
	"gorm.io/gorm/clause"
)

// Vendors returns all vendors ordered by name.
func (s *Store) Vendors() ([]models.Vendor, error) {
	defer s.shared()()

	vendors, err := all[models.Vendor](s.db.Order("name"))
	return vendors, storageError(err, "loading vendors")
}

// Vendor returns the vendor with the id.
func (s *Store) Vendor(id uuid.UUID) (models.Vendor, error) {
	defer s.shared()()

	vendor, err := byID[models.Vendor](s.db, id)
	return vendor, storageError(err, "loading vendor")
}

// VendorByName returns the vendor with the exact name.
func (s *Store) VendorByName(name string) (models.Vendor, error) {
	defer s.shared()()

	var vendor models.Vendor
	err := s.db.Where(&models.Vendor{Name: name}).First(&vendor).Error
	return vendor, storageError(err, "loading vendor by name")
}

// VendorNameTaken reports if a vendor other than except has the name.
func (s *Store) VendorNameTaken(name string, except uuid.UUID) (bool, error) {
	defer s.shared()()

	taken, err := exists[models.Vendor](s.db, "name = ? AND id <> ?", name, except)
	return taken, storageError(err, "checking vendor name")
}

// VendorInUse reports if any purchase references the vendor.
func (s *Store) VendorInUse(id uuid.UUID) (bool, error) {
	defer s.shared()()

	used, err := exists[models.Purchase](s.db, "vendor_id = ?", id)
	return used, storageError(err, "checking vendor references")
}

// SaveVendor inserts the vendor or updates it if it exists.
// A vendor without an id gets a generated one.
func (s *Store) SaveVendor(v *models.Vendor) error {
	return s.unitOfWork(func(tx *Store) error {
		found, err := tx.found(&models.Vendor{}, v.ID)
		if err != nil {
			return err
		}

		if found {
			return storageError(tx.db.Omit(clause.Associations).Save(v).Error, "updating vendor")
		}
		return storageError(tx.db.Omit(clause.Associations).Create(v).Error, "creating vendor")
	})
}

// RenameVendorOnPurchases updates the cached vendor name on every purchase
// referencing the vendor.
func (s *Store) RenameVendorOnPurchases(id uuid.UUID, name string) (int64, error) {
	defer s.shared()()

	result := s.db.Model(&models.Purchase{}).Where("vendor_id = ?", id).UpdateColumn("vendor_name", name)
	return result.RowsAffected, storageError(result.Error, "updating vendor name on purchases")
}

// DeleteVendor deletes the vendor. Vendors referenced by purchases
// are not deleted.
func (s *Store) DeleteVendor(id uuid.UUID) error {
	return s.unitOfWork(func(tx *Store) error {
		vendor, err := tx.Vendor(id)
		if err != nil {
			return err
		}

		used, err := tx.VendorInUse(id)
		if err != nil {
			return err
		}

		if used {
			return fmt.Errorf("%w '%s'", models.ErrVendorInUse, vendor.Name)
		}

		return storageError(tx.db.Delete(&vendor).Error, "deleting vendor")
	})
}

// unitOfWork runs fn in a transaction, unless the Store is already
// bound to one.
func (s *Store) unitOfWork(fn func(tx *Store) error) error {
	if s.tx {
		return fn(s)
	}

	return s.Transaction(fn)
}

// found reports if a record of the model's type with the id exists.
func (s *Store) found(model any, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}

	var count int64
	err := s.db.Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, storageError(err, "checking existence")
}
